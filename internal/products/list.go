package products

import (
	"strings"

	"github.com/cakpo-corneille/niasotac/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ListFilters describe the supported filter knobs for the browse endpoint.
type ListFilters struct {
	CategoryIDs []uuid.UUID
	Brand       string
	Query       string
	InStock     *bool
	PriceMin    *decimal.Decimal
	PriceMax    *decimal.Decimal
	OnSale      *bool
	Ordering    string
}

// ListProductsInput captures the inputs needed to paginate/filter the catalog.
// CategoryID, when set, widens the filter to the category's whole subtree.
type ListProductsInput struct {
	CategoryID *uuid.UUID
	Filters    ListFilters
	Pagination pagination.Params
}

// orderings maps the accepted ordering keys to SQL clauses. The leading dash
// mirrors the querystring convention the storefront sends.
var orderings = map[string]string{
	"created_at":  "products.created_at ASC",
	"-created_at": "products.created_at DESC",
	"price":       "products.price ASC",
	"-price":      "products.price DESC",
	"name":        "products.name ASC",
	"-name":       "products.name DESC",
}

// ValidOrdering reports whether the ordering key is supported.
func ValidOrdering(key string) bool {
	if key == "" {
		return true
	}
	_, ok := orderings[key]
	return ok
}

func orderingClause(key string) string {
	if clause, ok := orderings[key]; ok {
		return clause
	}
	return "products.created_at DESC"
}

func applyFilters(query *gorm.DB, filters ListFilters) *gorm.DB {
	if len(filters.CategoryIDs) > 0 {
		query = query.Where("products.category_id IN ?", filters.CategoryIDs)
	}
	if filters.Brand != "" {
		query = query.Where("LOWER(products.brand) = LOWER(?)", filters.Brand)
	}
	if q := strings.TrimSpace(filters.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			"LOWER(products.name) LIKE ? OR LOWER(products.brand) LIKE ? OR LOWER(products.description) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filters.InStock != nil {
		query = query.Where("products.in_stock = ?", *filters.InStock)
	}
	if filters.PriceMin != nil {
		query = query.Where("products.price >= ?", *filters.PriceMin)
	}
	if filters.PriceMax != nil {
		query = query.Where("products.price <= ?", *filters.PriceMax)
	}
	if filters.OnSale != nil {
		if *filters.OnSale {
			query = query.Where("products.compare_at_price IS NOT NULL AND products.compare_at_price > products.price")
		} else {
			query = query.Where("products.compare_at_price IS NULL OR products.compare_at_price <= products.price")
		}
	}
	return query
}
