package products

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cakpo-corneille/niasotac/internal/promotions"
	"github.com/cakpo-corneille/niasotac/internal/scoring"
	"github.com/cakpo-corneille/niasotac/pkg/config"
	"github.com/cakpo-corneille/niasotac/pkg/db"
	"github.com/cakpo-corneille/niasotac/pkg/db/models"
	pkgerrors "github.com/cakpo-corneille/niasotac/pkg/errors"
	"github.com/cakpo-corneille/niasotac/pkg/pagination"
	"github.com/cakpo-corneille/niasotac/pkg/redis"
	"github.com/cakpo-corneille/niasotac/pkg/slug"
	"github.com/cakpo-corneille/niasotac/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultShowcaseLimit caps the featured/recent/recommended/on-sale strips.
const DefaultShowcaseLimit = 8

// CategoryResolver expands one category into its subtree so a category page
// also lists products filed under descendants.
type CategoryResolver interface {
	DescendantIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
}

// Pricer quotes the promotional price for a product. The promotion service
// satisfies it.
type Pricer interface {
	Price(ctx context.Context, product *models.Product) (*promotions.PriceQuote, error)
}

// Clock returns the current time. Tests pin it.
type Clock func() time.Time

// Service exposes the product catalog operations.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetBySlug(ctx context.Context, slug string) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*types.PageEnvelope, error)
	Featured(ctx context.Context, limit int) ([]ProductDTO, error)
	Recommended(ctx context.Context, limit int) ([]ProductDTO, error)
	Recent(ctx context.Context, limit int) ([]ProductDTO, error)
	OnSale(ctx context.Context, limit int) ([]ProductDTO, error)
	TrackView(ctx context.Context, slug string) error
	TrackWhatsAppClick(ctx context.Context, slug string) error
	RefreshScores(ctx context.Context) (int, error)
	Stats(ctx context.Context) (*StatsDTO, error)
	AddImage(ctx context.Context, productID uuid.UUID, input AddImageInput) (*ProductImageDTO, error)
	SetPrimaryImage(ctx context.Context, productID, imageID uuid.UUID) error
	DeleteImage(ctx context.Context, productID, imageID uuid.UUID) error
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name           string
	Brand          string
	Description    string
	Features       []string
	CategoryID     uuid.UUID
	Price          decimal.Decimal
	CompareAtPrice *decimal.Decimal
	InStock        bool
	IsActive       bool
}

// UpdateProductInput holds a partial update. Nil fields keep their value.
// Renaming never changes the slug.
type UpdateProductInput struct {
	Name           *string
	Brand          *string
	Description    *string
	Features       []string
	CategoryID     *uuid.UUID
	Price          *decimal.Decimal
	CompareAtPrice *decimal.Decimal
	ClearCompareAt bool
	InStock        *bool
	IsActive       *bool
}

// AddImageInput holds the payload to append a gallery entry.
type AddImageInput struct {
	URL          string
	AltText      string
	IsPrimary    bool
	DisplayOrder int
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	engine   *scoring.Engine
	chain    CategoryResolver
	pricer   Pricer
	cache    *redis.Client
	cacheTTL time.Duration
	now      Clock
}

// NewService wires the product service. Cache and pricer are optional; chain
// is required so category filtering covers subtrees.
func NewService(
	repo *Repository,
	dbClient *db.Client,
	cfg config.CatalogConfig,
	chain CategoryResolver,
	pricer Pricer,
	cache *redis.Client,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if chain == nil {
		return nil, fmt.Errorf("category resolver required")
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
		engine:   scoring.NewEngine(cfg),
		chain:    chain,
		pricer:   pricer,
		cache:    cache,
		cacheTTL: cfg.CacheTTL,
		now:      time.Now,
	}, nil
}

// CreateProduct inserts the product with a derived slug and SKU, and
// provisions its status row in the same transaction.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if input.CompareAtPrice != nil && input.CompareAtPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "compare_at_price must not be negative")
	}
	if input.CategoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category_id is required")
	}

	productSlug, err := s.uniqueSlug(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	sku, err := s.uniqueSKU(ctx)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:             uuid.New(),
		Name:           input.Name,
		Slug:           productSlug,
		SKU:            sku,
		Brand:          input.Brand,
		Description:    input.Description,
		Features:       input.Features,
		CategoryID:     input.CategoryID,
		Price:          input.Price,
		CompareAtPrice: input.CompareAtPrice,
		InStock:        input.InStock,
		IsActive:       input.IsActive,
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.Create(ctx, product); err != nil {
			return err
		}
		return txRepo.CreateStatus(ctx, &models.ProductStatus{ProductID: product.ID})
	})
	if err != nil {
		if db.IsUniqueViolation(err, "uq_products_slug") || db.IsUniqueViolation(err, "uq_products_sku") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create product")
	}

	s.invalidateCache(ctx)
	return NewProductDTO(product, s.now()), nil
}

// UpdateProduct applies a partial update. The slug stays stable on rename so
// published links keep working.
func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateFind(err, "product")
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
		}
		product.Name = *input.Name
	}
	if input.Brand != nil {
		product.Brand = *input.Brand
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Features != nil {
		product.Features = input.Features
	}
	if input.CategoryID != nil {
		if *input.CategoryID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category_id is required")
		}
		product.CategoryID = *input.CategoryID
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		product.Price = *input.Price
	}
	if input.ClearCompareAt {
		product.CompareAtPrice = nil
	} else if input.CompareAtPrice != nil {
		if input.CompareAtPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "compare_at_price must not be negative")
		}
		product.CompareAtPrice = input.CompareAtPrice
	}
	if input.InStock != nil {
		product.InStock = *input.InStock
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if _, err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}

	s.invalidateCache(ctx)
	return NewProductDTO(product, s.now()), nil
}

// DeleteProduct removes the product; images and status cascade with it.
func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return s.translateFind(err, "product")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	s.invalidateCache(ctx)
	return nil
}

// GetBySlug returns the product detail, with the promotional price quote when
// a pricer is wired.
func (s *service) GetBySlug(ctx context.Context, productSlug string) (*ProductDTO, error) {
	product, err := s.repo.FindDetailBySlug(ctx, productSlug)
	if err != nil {
		return nil, s.translateFind(err, "product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	dto := NewProductDTO(product, s.now())
	if s.pricer != nil {
		quote, err := s.pricer.Price(ctx, product)
		if err != nil {
			return nil, err
		}
		dto.Pricing = quote
	}
	return dto, nil
}

// ListProducts paginates the browse endpoint. A category filter expands to
// the category's whole subtree.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*types.PageEnvelope, error) {
	if !ValidOrdering(input.Filters.Ordering) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported ordering").
			WithDetails(map[string]string{"ordering": input.Filters.Ordering})
	}

	filters := input.Filters
	if input.CategoryID != nil {
		ids, err := s.chain.DescendantIDs(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		filters.CategoryIDs = append([]uuid.UUID{*input.CategoryID}, ids...)
	}

	page := pagination.Normalize(input.Pagination)
	rows, total, err := s.repo.List(ctx, filters, page.Offset(), page.Limit())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}

	return &types.PageEnvelope{
		Count:   total,
		Next:    pagination.Next(page, total),
		Results: NewProductDTOs(rows, s.now()),
	}, nil
}

// Featured returns the featured strip, best score first.
func (s *service) Featured(ctx context.Context, limit int) ([]ProductDTO, error) {
	return s.showcase(ctx, "featured", limit, func(ctx context.Context, limit int) ([]models.Product, error) {
		return s.repo.ListByStatusFlag(ctx, "product_statuses.is_featured", "product_statuses.featured_score", limit)
	})
}

// Recommended returns the recommended strip, best score first.
func (s *service) Recommended(ctx context.Context, limit int) ([]ProductDTO, error) {
	return s.showcase(ctx, "recommended", limit, func(ctx context.Context, limit int) ([]models.Product, error) {
		return s.repo.ListByStatusFlag(ctx, "product_statuses.is_recommended", "product_statuses.recommendation_score", limit)
	})
}

// Recent returns the newest products.
func (s *service) Recent(ctx context.Context, limit int) ([]ProductDTO, error) {
	return s.showcase(ctx, "recent", limit, s.repo.ListRecent)
}

// OnSale returns products carrying a reference-price discount.
func (s *service) OnSale(ctx context.Context, limit int) ([]ProductDTO, error) {
	return s.showcase(ctx, "on_sale", limit, s.repo.ListDiscounted)
}

func (s *service) showcase(
	ctx context.Context,
	kind string,
	limit int,
	load func(ctx context.Context, limit int) ([]models.Product, error),
) ([]ProductDTO, error) {
	if limit <= 0 {
		limit = DefaultShowcaseLimit
	}

	cacheKey := ""
	if s.cache != nil {
		cacheKey = s.cache.CacheKey("products", kind, fmt.Sprintf("%d", limit))
		if raw, err := s.cache.Get(ctx, cacheKey); err == nil && raw != "" {
			var cached []ProductDTO
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
		}
	}

	rows, err := load(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list "+kind+" products")
	}
	dtos := NewProductDTOs(rows, s.now())

	if s.cache != nil && cacheKey != "" {
		if raw, err := json.Marshal(dtos); err == nil {
			_ = s.cache.Set(ctx, cacheKey, raw, s.cacheTTL)
		}
	}
	return dtos, nil
}

// TrackView bumps the view counter atomically and stamps the viewing time.
func (s *service) TrackView(ctx context.Context, slug string) error {
	affected, err := s.repo.IncrementViewCount(ctx, slug, s.now())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: track view")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

// TrackWhatsAppClick bumps the contact-click counter atomically.
func (s *service) TrackWhatsAppClick(ctx context.Context, slug string) error {
	affected, err := s.repo.IncrementWhatsAppClickCount(ctx, slug)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: track whatsapp click")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

// RefreshScores re-evaluates every product through the scoring engine and
// persists both classifications. Returns how many status rows were written.
func (s *service) RefreshScores(ctx context.Context) (int, error) {
	rows, err := s.repo.ListAllWithStatus(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load products for scoring")
	}

	now := s.now()
	updated := 0
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		for i := range rows {
			product := &rows[i]
			status := product.Status
			if status == nil {
				status = &models.ProductStatus{ProductID: product.ID}
				if err := txRepo.CreateStatus(ctx, status); err != nil {
					return err
				}
			}

			in := scoring.Input{Product: product, Status: status, Now: now}
			featured := s.engine.Featured(in)
			recommended := s.engine.Recommended(in)

			status.IsFeatured = featured.Classified
			status.FeaturedScore = featured.Score
			status.IsRecommended = recommended.Classified
			status.RecommendationScore = recommended.Score
			status.ScoredAt = &now
			if err := txRepo.UpdateStatus(ctx, status); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: persist scores")
	}

	s.invalidateCache(ctx)
	return updated, nil
}

// Stats aggregates catalog totals.
func (s *service) Stats(ctx context.Context) (*StatsDTO, error) {
	stats, err := s.repo.CollectStats(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: collect stats")
	}
	return &StatsDTO{
		TotalProducts:       stats.TotalProducts,
		InStock:             stats.InStock,
		TotalViews:          stats.TotalViews,
		TotalWhatsAppClicks: stats.TotalWhatsApp,
		FeaturedCount:       stats.FeaturedCount,
		OnSaleCount:         stats.OnSaleCount,
	}, nil
}

// AddImage appends a gallery entry. The first image of a product always
// becomes primary; a later primary upload demotes the current one first.
func (s *service) AddImage(ctx context.Context, productID uuid.UUID, input AddImageInput) (*ProductImageDTO, error) {
	if strings.TrimSpace(input.URL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image url is required")
	}
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		return nil, s.translateFind(err, "product")
	}

	count, err := s.repo.CountImages(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count images")
	}

	image := &models.ProductImage{
		ID:           uuid.New(),
		ProductID:    productID,
		URL:          input.URL,
		AltText:      input.AltText,
		IsPrimary:    input.IsPrimary || count == 0,
		DisplayOrder: input.DisplayOrder,
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if image.IsPrimary {
			if err := txRepo.DemotePrimary(ctx, productID); err != nil {
				return err
			}
		}
		_, err := txRepo.CreateImage(ctx, image)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: add image")
	}

	s.invalidateCache(ctx)
	return &ProductImageDTO{
		ID:           image.ID,
		URL:          image.URL,
		AltText:      image.AltText,
		IsPrimary:    image.IsPrimary,
		DisplayOrder: image.DisplayOrder,
	}, nil
}

// SetPrimaryImage makes one image primary, demoting the rest in the same
// transaction so exactly one carries the flag.
func (s *service) SetPrimaryImage(ctx context.Context, productID, imageID uuid.UUID) error {
	if _, err := s.repo.FindImage(ctx, productID, imageID); err != nil {
		return s.translateFind(err, "image")
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.DemotePrimary(ctx, productID); err != nil {
			return err
		}
		return txRepo.PromotePrimary(ctx, imageID)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: set primary image")
	}

	s.invalidateCache(ctx)
	return nil
}

// DeleteImage removes a gallery entry. When the primary goes, the next image
// in display order inherits the flag.
func (s *service) DeleteImage(ctx context.Context, productID, imageID uuid.UUID) error {
	image, err := s.repo.FindImage(ctx, productID, imageID)
	if err != nil {
		return s.translateFind(err, "image")
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.DeleteImage(ctx, imageID); err != nil {
			return err
		}
		if !image.IsPrimary {
			return nil
		}
		remaining, err := txRepo.ListImages(ctx, productID)
		if err != nil {
			return err
		}
		if len(remaining) == 0 {
			return nil
		}
		return txRepo.PromotePrimary(ctx, remaining[0].ID)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete image")
	}

	s.invalidateCache(ctx)
	return nil
}

func (s *service) uniqueSlug(ctx context.Context, name string) (string, error) {
	var slugErr error
	candidate := slug.Unique(name, func(candidate string) bool {
		exists, err := s.repo.SlugExists(ctx, candidate)
		if err != nil {
			slugErr = err
			return false
		}
		return exists
	})
	if slugErr != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, slugErr, "db: check slug")
	}
	return candidate, nil
}

// uniqueSKU derives a short stock keeping unit from a fresh UUID, retrying on
// the unlikely collision.
func (s *service) uniqueSKU(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		candidate := "NST-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
		exists, err := s.repo.SKUExists(ctx, candidate)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check sku")
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeInternal, "could not derive a unique sku")
}

func (s *service) translateFind(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, what+" not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load "+what)
}

func (s *service) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.InvalidatePrefix(ctx, "products")
}
