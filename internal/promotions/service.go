package promotions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cakpo-corneille/niasotac/pkg/db/models"
	"github.com/cakpo-corneille/niasotac/pkg/enums"
	pkgerrors "github.com/cakpo-corneille/niasotac/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CategoryChain resolves the ancestor chain of a category so category-scoped
// promotions cover whole subtrees.
type CategoryChain interface {
	AncestorIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
}

// Clock supplies "now" so pricing is reproducible in tests.
type Clock func() time.Time

// Service exposes promotion management and price computation.
type Service interface {
	CreatePromotion(ctx context.Context, input CreatePromotionInput) (*PromotionDTO, error)
	UpdatePromotion(ctx context.Context, id uuid.UUID, input UpdatePromotionInput) (*PromotionDTO, error)
	DeletePromotion(ctx context.Context, id uuid.UUID) error
	ListPromotions(ctx context.Context, liveOnly bool) ([]PromotionDTO, error)
	Applicable(ctx context.Context, product *models.Product) ([]PromotionDTO, error)
	Best(ctx context.Context, product *models.Product) (*PromotionDTO, error)
	Price(ctx context.Context, product *models.Product) (*PriceQuote, error)
}

// CreatePromotionInput holds the validated payload to create a promotion.
type CreatePromotionInput struct {
	Name          string
	Description   string
	Scope         enums.PromotionScope
	CategoryID    *uuid.UUID
	ProductID     *uuid.UUID
	DiscountType  enums.DiscountType
	DiscountValue decimal.Decimal
	StartsAt      time.Time
	EndsAt        time.Time
	IsActive      bool
}

// UpdatePromotionInput holds optional mutation values for a promotion.
type UpdatePromotionInput struct {
	Name          *string
	Description   *string
	DiscountValue *decimal.Decimal
	StartsAt      *time.Time
	EndsAt        *time.Time
	IsActive      *bool
}

// PriceQuote is the outcome of applying the best promotion to a product.
type PriceQuote struct {
	OriginalPrice  decimal.Decimal `json:"original_price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalPrice     decimal.Decimal `json:"final_price"`
	Promotion      *PromotionDTO   `json:"promotion,omitempty"`
}

// service implements the promotion service.
type service struct {
	repo       *Repository
	categories CategoryChain
	now        Clock
}

// NewService constructs a promotion service instance.
func NewService(repo *Repository, categories CategoryChain, now Clock) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("promotion repository required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category chain resolver required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, categories: categories, now: now}, nil
}

// CreatePromotion validates targeting and window consistency before insert.
func (s *service) CreatePromotion(ctx context.Context, input CreatePromotionInput) (*PromotionDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotion name is required")
	}
	if !input.Scope.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid promotion scope")
	}
	if !input.DiscountType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid discount type")
	}
	if err := validateTargeting(input.Scope, input.CategoryID, input.ProductID); err != nil {
		return nil, err
	}
	if err := validateDiscount(input.DiscountType, input.DiscountValue); err != nil {
		return nil, err
	}
	if !input.StartsAt.Before(input.EndsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotion must start before it ends")
	}

	promo := &models.Promotion{
		ID:            uuid.New(),
		Name:          input.Name,
		Description:   input.Description,
		Scope:         input.Scope,
		CategoryID:    input.CategoryID,
		ProductID:     input.ProductID,
		DiscountType:  input.DiscountType,
		DiscountValue: input.DiscountValue,
		StartsAt:      input.StartsAt,
		EndsAt:        input.EndsAt,
		IsActive:      input.IsActive,
	}
	if _, err := s.repo.Create(ctx, promo); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert promotion")
	}
	return NewPromotionDTO(promo), nil
}

// UpdatePromotion applies partial updates, revalidating the window.
func (s *service) UpdatePromotion(ctx context.Context, id uuid.UUID, input UpdatePromotionInput) (*PromotionDTO, error) {
	promo, err := s.loadPromotion(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotion name cannot be empty")
		}
		promo.Name = *input.Name
	}
	if input.Description != nil {
		promo.Description = *input.Description
	}
	if input.DiscountValue != nil {
		if err := validateDiscount(promo.DiscountType, *input.DiscountValue); err != nil {
			return nil, err
		}
		promo.DiscountValue = *input.DiscountValue
	}
	if input.StartsAt != nil {
		promo.StartsAt = *input.StartsAt
	}
	if input.EndsAt != nil {
		promo.EndsAt = *input.EndsAt
	}
	if !promo.StartsAt.Before(promo.EndsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotion must start before it ends")
	}
	if input.IsActive != nil {
		promo.IsActive = *input.IsActive
	}

	if _, err := s.repo.Update(ctx, promo); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update promotion")
	}
	return NewPromotionDTO(promo), nil
}

// DeletePromotion removes the promotion.
func (s *service) DeletePromotion(ctx context.Context, id uuid.UUID) error {
	if _, err := s.loadPromotion(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete promotion")
	}
	return nil
}

// ListPromotions returns every promotion, or only those currently live.
func (s *service) ListPromotions(ctx context.Context, liveOnly bool) ([]PromotionDTO, error) {
	var (
		rows []models.Promotion
		err  error
	)
	if liveOnly {
		rows, err = s.repo.ListLiveAt(ctx, s.now())
	} else {
		rows, err = s.repo.ListAll(ctx)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list promotions")
	}
	return NewPromotionDTOs(rows), nil
}

// Applicable returns the live promotions whose scope covers the product.
func (s *service) Applicable(ctx context.Context, product *models.Product) ([]PromotionDTO, error) {
	rows, err := s.applicableRows(ctx, product)
	if err != nil {
		return nil, err
	}
	return NewPromotionDTOs(rows), nil
}

// Best picks the applicable promotion yielding the largest discount. Ties go
// to the earliest start time, then the smallest id, so selection is stable.
func (s *service) Best(ctx context.Context, product *models.Product) (*PromotionDTO, error) {
	rows, err := s.applicableRows(ctx, product)
	if err != nil {
		return nil, err
	}
	best := pickBest(product.Price, rows)
	if best == nil {
		return nil, nil
	}
	return NewPromotionDTO(best), nil
}

// Price computes (discount, final) using the best promotion; with no
// applicable promotion the quote echoes the original price.
func (s *service) Price(ctx context.Context, product *models.Product) (*PriceQuote, error) {
	rows, err := s.applicableRows(ctx, product)
	if err != nil {
		return nil, err
	}

	quote := &PriceQuote{
		OriginalPrice:  product.Price,
		DiscountAmount: decimal.Zero,
		FinalPrice:     product.Price,
	}
	best := pickBest(product.Price, rows)
	if best == nil {
		return quote, nil
	}

	quote.DiscountAmount = discountAmount(product.Price, best)
	quote.FinalPrice = product.Price.Sub(quote.DiscountAmount)
	quote.Promotion = NewPromotionDTO(best)
	return quote, nil
}

func (s *service) applicableRows(ctx context.Context, product *models.Product) ([]models.Promotion, error) {
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is required")
	}

	ancestorIDs, err := s.categories.AncestorIDs(ctx, product.CategoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve category chain")
	}
	categoryIDs := append([]uuid.UUID{product.CategoryID}, ancestorIDs...)

	rows, err := s.repo.ListApplicable(ctx, product.ID, categoryIDs, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list applicable promotions")
	}
	return rows, nil
}

// pickBest selects the largest discount with a deterministic tie-break.
func pickBest(price decimal.Decimal, rows []models.Promotion) *models.Promotion {
	var best *models.Promotion
	var bestAmount decimal.Decimal
	for i := range rows {
		promo := &rows[i]
		amount := discountAmount(price, promo)
		if amount.IsZero() {
			continue
		}
		switch {
		case best == nil, amount.GreaterThan(bestAmount):
			best, bestAmount = promo, amount
		case amount.Equal(bestAmount):
			if promo.StartsAt.Before(best.StartsAt) ||
				(promo.StartsAt.Equal(best.StartsAt) && promo.ID.String() < best.ID.String()) {
				best, bestAmount = promo, amount
			}
		}
	}
	return best
}

// discountAmount computes the FCFA discount one promotion grants on price.
// Percentage cuts floor to a whole amount; fixed cuts never exceed the price.
func discountAmount(price decimal.Decimal, promo *models.Promotion) decimal.Decimal {
	switch promo.DiscountType {
	case enums.DiscountTypePercentage:
		return price.Mul(promo.DiscountValue).Div(decimal.NewFromInt(100)).Floor()
	case enums.DiscountTypeFixed:
		if promo.DiscountValue.GreaterThan(price) {
			return price
		}
		return promo.DiscountValue
	default:
		return decimal.Zero
	}
}

func validateTargeting(scope enums.PromotionScope, categoryID, productID *uuid.UUID) error {
	switch scope {
	case enums.PromotionScopeAll:
		if categoryID != nil || productID != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "site-wide promotions cannot name a target")
		}
	case enums.PromotionScopeCategory:
		if categoryID == nil || productID != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "category promotions require exactly a category target")
		}
	case enums.PromotionScopeProduct:
		if productID == nil || categoryID != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "product promotions require exactly a product target")
		}
	}
	return nil
}

func validateDiscount(discountType enums.DiscountType, value decimal.Decimal) error {
	if !value.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount value must be positive")
	}
	if discountType == enums.DiscountTypePercentage && value.GreaterThan(decimal.NewFromInt(100)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "percentage discount cannot exceed 100")
	}
	return nil
}

func (s *service) loadPromotion(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	promo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load promotion")
	}
	return promo, nil
}
