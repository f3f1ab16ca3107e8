package products

import (
	"time"

	"github.com/cakpo-corneille/niasotac/internal/promotions"
	"github.com/cakpo-corneille/niasotac/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NewThreshold is how long a product keeps its "new" badge.
const NewThreshold = 30 * 24 * time.Hour

// ProductDTO represents the catalog product payload returned to clients.
type ProductDTO struct {
	ID              uuid.UUID              `json:"id"`
	Name            string                 `json:"name"`
	Slug            string                 `json:"slug"`
	SKU             string                 `json:"sku"`
	Brand           string                 `json:"brand,omitempty"`
	Description     string                 `json:"description,omitempty"`
	Features        []string               `json:"features"`
	Category        *CategorySummaryDTO    `json:"category,omitempty"`
	Price           decimal.Decimal        `json:"price"`
	CompareAtPrice  *decimal.Decimal       `json:"compare_at_price,omitempty"`
	HasDiscount     bool                   `json:"has_discount"`
	DiscountPercent int64                  `json:"discount_percent"`
	IsNew           bool                   `json:"is_new"`
	InStock         bool                   `json:"in_stock"`
	IsActive        bool                   `json:"is_active"`
	IsFeatured      bool                   `json:"is_featured"`
	IsRecommended   bool                   `json:"is_recommended"`
	ViewCount       int64                  `json:"view_count"`
	Images          []ProductImageDTO      `json:"images"`
	Pricing         *promotions.PriceQuote `json:"pricing,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// CategorySummaryDTO is the nested category reference on product payloads.
type CategorySummaryDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// ProductImageDTO captures one gallery entry.
type ProductImageDTO struct {
	ID           uuid.UUID `json:"id"`
	URL          string    `json:"url"`
	AltText      string    `json:"alt_text,omitempty"`
	IsPrimary    bool      `json:"is_primary"`
	DisplayOrder int       `json:"display_order"`
}

// StatsDTO aggregates catalog totals for the dashboard endpoint.
type StatsDTO struct {
	TotalProducts       int64 `json:"total_products"`
	InStock             int64 `json:"in_stock"`
	TotalViews          int64 `json:"total_views"`
	TotalWhatsAppClicks int64 `json:"total_whatsapp_clicks"`
	FeaturedCount       int64 `json:"featured_count"`
	OnSaleCount         int64 `json:"on_sale_count"`
}

// HasDiscount reports whether the reference price represents a real discount.
func HasDiscount(product *models.Product) bool {
	return product.CompareAtPrice != nil && product.CompareAtPrice.GreaterThan(product.Price)
}

// DiscountPercent computes the floored badge percentage, zero when no
// discount is present.
func DiscountPercent(product *models.Product) int64 {
	if !HasDiscount(product) {
		return 0
	}
	compare := *product.CompareAtPrice
	percent := compare.Sub(product.Price).
		Div(compare).
		Mul(decimal.NewFromInt(100)).
		Floor()
	return percent.IntPart()
}

// IsNew reports whether the product was created within the badge window.
func IsNew(product *models.Product, now time.Time) bool {
	return now.Sub(product.CreatedAt) < NewThreshold
}

// NewProductDTO maps a product row (with any preloaded associations) into its
// response payload.
func NewProductDTO(product *models.Product, now time.Time) *ProductDTO {
	if product == nil {
		return nil
	}

	dto := &ProductDTO{
		ID:              product.ID,
		Name:            product.Name,
		Slug:            product.Slug,
		SKU:             product.SKU,
		Brand:           product.Brand,
		Description:     product.Description,
		Features:        product.Features,
		Price:           product.Price,
		CompareAtPrice:  product.CompareAtPrice,
		HasDiscount:     HasDiscount(product),
		DiscountPercent: DiscountPercent(product),
		IsNew:           IsNew(product, now),
		InStock:         product.InStock,
		IsActive:        product.IsActive,
		Images:          make([]ProductImageDTO, 0, len(product.Images)),
		CreatedAt:       product.CreatedAt,
		UpdatedAt:       product.UpdatedAt,
	}
	if dto.Features == nil {
		dto.Features = []string{}
	}
	if product.Category != nil {
		dto.Category = &CategorySummaryDTO{
			ID:   product.Category.ID,
			Name: product.Category.Name,
			Slug: product.Category.Slug,
		}
	}
	if product.Status != nil {
		dto.IsFeatured = product.Status.IsFeatured
		dto.IsRecommended = product.Status.IsRecommended
		dto.ViewCount = product.Status.ViewCount
	}
	for i := range product.Images {
		image := &product.Images[i]
		dto.Images = append(dto.Images, ProductImageDTO{
			ID:           image.ID,
			URL:          image.URL,
			AltText:      image.AltText,
			IsPrimary:    image.IsPrimary,
			DisplayOrder: image.DisplayOrder,
		})
	}
	return dto
}

// NewProductDTOs maps a slice of rows.
func NewProductDTOs(rows []models.Product, now time.Time) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewProductDTO(&rows[i], now))
	}
	return out
}
