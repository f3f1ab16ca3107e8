package products

import (
	"context"
	"time"

	"github.com/cakpo-corneille/niasotac/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository wires together product, image, and status persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindDetailBySlug loads the product with its category, gallery, and status.
func (r *Repository) FindDetailBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC, created_at ASC")
		}).
		Preload("Status").
		First(&product, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// SlugExists reports whether any product already uses the slug.
func (r *Repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

// SKUExists reports whether any product already uses the SKU.
func (r *Repository) SKUExists(ctx context.Context, sku string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("sku = ?", sku).
		Count(&count).Error
	return count > 0, err
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update saves an existing product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes the product row; images and status cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// List applies the browse filters and returns one page plus the total count.
func (r *Repository) List(ctx context.Context, filters ListFilters, offset, limit int) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("products.is_active = ?", true)
	query = applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	err := query.
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC, created_at ASC")
		}).
		Preload("Status").
		Order(orderingClause(filters.Ordering)).
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListByStatusFlag returns active products whose status carries the flag,
// best score first.
func (r *Repository) ListByStatusFlag(ctx context.Context, flagColumn, scoreColumn string, limit int) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Joins("JOIN product_statuses ON product_statuses.product_id = products.id").
		Where("products.is_active = ?", true).
		Where(flagColumn+" = ?", true).
		Order(scoreColumn + " DESC").
		Limit(limit).
		Preload("Category").
		Preload("Images").
		Preload("Status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListRecent returns the newest active products.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Preload("Category").
		Preload("Images").
		Preload("Status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListDiscounted returns active products with a live reference-price discount.
func (r *Repository) ListDiscounted(ctx context.Context, limit int) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("compare_at_price IS NOT NULL AND compare_at_price > price").
		Order("created_at DESC").
		Limit(limit).
		Preload("Category").
		Preload("Images").
		Preload("Status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAllWithStatus returns every product with its status, for score refresh.
func (r *Repository) ListAllWithStatus(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Preload("Status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateStatus inserts the product's status side-record.
func (r *Repository) CreateStatus(ctx context.Context, status *models.ProductStatus) error {
	return r.db.WithContext(ctx).Create(status).Error
}

// FindStatus loads the status row for one product.
func (r *Repository) FindStatus(ctx context.Context, productID uuid.UUID) (*models.ProductStatus, error) {
	var status models.ProductStatus
	if err := r.db.WithContext(ctx).First(&status, "product_id = ?", productID).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

// UpdateStatus saves the status row.
func (r *Repository) UpdateStatus(ctx context.Context, status *models.ProductStatus) error {
	return r.db.WithContext(ctx).Save(status).Error
}

// IncrementViewCount bumps the view counter in place and stamps the viewing
// time. The increment happens in SQL so concurrent requests cannot lose
// updates.
func (r *Repository) IncrementViewCount(ctx context.Context, slug string, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ProductStatus{}).
		Where("product_id = (?)", r.db.Model(&models.Product{}).Select("id").Where("slug = ?", slug)).
		Updates(map[string]any{
			"view_count":     gorm.Expr("view_count + ?", 1),
			"last_viewed_at": now,
		})
	return result.RowsAffected, result.Error
}

// IncrementWhatsAppClickCount bumps the contact-click counter in place.
func (r *Repository) IncrementWhatsAppClickCount(ctx context.Context, slug string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ProductStatus{}).
		Where("product_id = (?)", r.db.Model(&models.Product{}).Select("id").Where("slug = ?", slug)).
		Update("whatsapp_click_count", gorm.Expr("whatsapp_click_count + ?", 1))
	return result.RowsAffected, result.Error
}

// CreateImage inserts a gallery entry.
func (r *Repository) CreateImage(ctx context.Context, image *models.ProductImage) (*models.ProductImage, error) {
	if err := r.db.WithContext(ctx).Create(image).Error; err != nil {
		return nil, err
	}
	return image, nil
}

// FindImage loads one gallery entry scoped to its product.
func (r *Repository) FindImage(ctx context.Context, productID, imageID uuid.UUID) (*models.ProductImage, error) {
	var image models.ProductImage
	err := r.db.WithContext(ctx).
		First(&image, "id = ? AND product_id = ?", imageID, productID).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}

// ListImages returns the product gallery in display order.
func (r *Repository) ListImages(ctx context.Context, productID uuid.UUID) ([]models.ProductImage, error) {
	var rows []models.ProductImage
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("display_order ASC, created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountImages returns how many gallery entries the product has.
func (r *Repository) CountImages(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProductImage{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

// DemotePrimary clears the primary flag on every image of the product.
func (r *Repository) DemotePrimary(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.ProductImage{}).
		Where("product_id = ? AND is_primary = ?", productID, true).
		Update("is_primary", false).Error
}

// PromotePrimary sets the primary flag on one image.
func (r *Repository) PromotePrimary(ctx context.Context, imageID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.ProductImage{}).
		Where("id = ?", imageID).
		Update("is_primary", true).Error
}

// DeleteImage removes one gallery entry.
func (r *Repository) DeleteImage(ctx context.Context, imageID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.ProductImage{}, "id = ?", imageID).Error
}

// Stats aggregates catalog-wide totals.
type Stats struct {
	TotalProducts  int64
	InStock        int64
	TotalViews     int64
	TotalWhatsApp  int64
	FeaturedCount  int64
	OnSaleCount    int64
}

// CollectStats runs the aggregate queries behind the stats endpoint.
func (r *Repository) CollectStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	base := r.db.WithContext(ctx).Model(&models.Product{}).Where("is_active = ?", true)

	if err := base.Session(&gorm.Session{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("in_stock = ?", true).Count(&stats.InStock).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("compare_at_price IS NOT NULL AND compare_at_price > price").
		Count(&stats.OnSaleCount).Error; err != nil {
		return nil, err
	}

	type counterTotals struct {
		Views    int64
		WhatsApp int64
	}
	var totals counterTotals
	err := r.db.WithContext(ctx).
		Model(&models.ProductStatus{}).
		Select("COALESCE(SUM(view_count), 0) AS views, COALESCE(SUM(whatsapp_click_count), 0) AS whats_app").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	stats.TotalViews = totals.Views
	stats.TotalWhatsApp = totals.WhatsApp

	if err := r.db.WithContext(ctx).
		Model(&models.ProductStatus{}).
		Where("is_featured = ?", true).
		Count(&stats.FeaturedCount).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
