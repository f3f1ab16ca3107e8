package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is a catalog listing. Prices are FCFA amounts.
type Product struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Name           string           `gorm:"column:name;not null"`
	Slug           string           `gorm:"column:slug;not null;uniqueIndex:uq_products_slug"`
	SKU            string           `gorm:"column:sku;not null;uniqueIndex:uq_products_sku"`
	Brand          string           `gorm:"column:brand;not null;default:''"`
	Description    string           `gorm:"column:description;not null;default:''"`
	Features       pq.StringArray   `gorm:"column:features;type:text[]"`
	CategoryID     uuid.UUID        `gorm:"column:category_id;type:uuid;not null"`
	Category       *Category        `gorm:"foreignKey:CategoryID"`
	Price          decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	CompareAtPrice *decimal.Decimal `gorm:"column:compare_at_price;type:numeric(12,2)"`
	InStock        bool             `gorm:"column:in_stock;not null;default:true"`
	IsActive       bool             `gorm:"column:is_active;not null;default:true"`
	Images         []ProductImage   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Status         *ProductStatus   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
