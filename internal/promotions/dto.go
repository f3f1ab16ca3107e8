package promotions

import (
	"time"

	"github.com/cakpo-corneille/niasotac/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PromotionDTO represents the promotion payload returned to clients.
type PromotionDTO struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Scope         string          `json:"scope"`
	CategoryID    *uuid.UUID      `json:"category_id,omitempty"`
	ProductID     *uuid.UUID      `json:"product_id,omitempty"`
	DiscountType  string          `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	StartsAt      time.Time       `json:"starts_at"`
	EndsAt        time.Time       `json:"ends_at"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NewPromotionDTO maps a promotion row into its response payload.
func NewPromotionDTO(promo *models.Promotion) *PromotionDTO {
	if promo == nil {
		return nil
	}
	return &PromotionDTO{
		ID:            promo.ID,
		Name:          promo.Name,
		Description:   promo.Description,
		Scope:         promo.Scope.String(),
		CategoryID:    promo.CategoryID,
		ProductID:     promo.ProductID,
		DiscountType:  promo.DiscountType.String(),
		DiscountValue: promo.DiscountValue,
		StartsAt:      promo.StartsAt,
		EndsAt:        promo.EndsAt,
		IsActive:      promo.IsActive,
		CreatedAt:     promo.CreatedAt,
	}
}

// NewPromotionDTOs maps a slice of rows.
func NewPromotionDTOs(rows []models.Promotion) []PromotionDTO {
	out := make([]PromotionDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewPromotionDTO(&rows[i]))
	}
	return out
}
