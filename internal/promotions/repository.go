package promotions

import (
	"context"
	"time"

	"github.com/cakpo-corneille/niasotac/pkg/db/models"
	"github.com/cakpo-corneille/niasotac/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository wires together promotion persistence helpers.
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

// FindByID loads the promotion.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	var promo models.Promotion
	if err := r.db.WithContext(ctx).First(&promo, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &promo, nil
}

// Create inserts a new promotion row.
func (r *Repository) Create(ctx context.Context, promo *models.Promotion) (*models.Promotion, error) {
	if err := r.db.WithContext(ctx).Create(promo).Error; err != nil {
		return nil, err
	}
	return promo, nil
}

// Update saves an existing promotion row.
func (r *Repository) Update(ctx context.Context, promo *models.Promotion) (*models.Promotion, error) {
	if err := r.db.WithContext(ctx).Save(promo).Error; err != nil {
		return nil, err
	}
	return promo, nil
}

// Delete removes the promotion row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Promotion{}, "id = ?", id).Error
}

// ListAll returns every promotion ordered by start time.
func (r *Repository) ListAll(ctx context.Context) ([]models.Promotion, error) {
	var rows []models.Promotion
	err := r.db.WithContext(ctx).
		Order("starts_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListLiveAt returns active promotions whose validity window contains now.
func (r *Repository) ListLiveAt(ctx context.Context, now time.Time) ([]models.Promotion, error) {
	var rows []models.Promotion
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("starts_at <= ? AND ends_at > ?", now, now).
		Order("starts_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListApplicable returns live promotions targeting the product directly, its
// category chain, or the whole site.
func (r *Repository) ListApplicable(ctx context.Context, productID uuid.UUID, categoryIDs []uuid.UUID, now time.Time) ([]models.Promotion, error) {
	query := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("starts_at <= ? AND ends_at > ?", now, now)

	if len(categoryIDs) > 0 {
		query = query.Where(
			"scope = ? OR (scope = ? AND product_id = ?) OR (scope = ? AND category_id IN ?)",
			enums.PromotionScopeAll, enums.PromotionScopeProduct, productID,
			enums.PromotionScopeCategory, categoryIDs,
		)
	} else {
		query = query.Where(
			"scope = ? OR (scope = ? AND product_id = ?)",
			enums.PromotionScopeAll, enums.PromotionScopeProduct, productID,
		)
	}

	var rows []models.Promotion
	if err := query.Order("starts_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
