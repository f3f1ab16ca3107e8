package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cakpo-corneille/niasotac/pkg/enums"
)

// Promotion is a time-boxed discount. Scope decides whether CategoryID or
// ProductID is set; site-wide promotions carry neither.
type Promotion struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Name          string              `gorm:"column:name;not null"`
	Description   string              `gorm:"column:description;not null;default:''"`
	Scope         enums.PromotionScope `gorm:"column:scope;not null"`
	CategoryID    *uuid.UUID          `gorm:"column:category_id;type:uuid"`
	ProductID     *uuid.UUID          `gorm:"column:product_id;type:uuid"`
	DiscountType  enums.DiscountType  `gorm:"column:discount_type;not null"`
	DiscountValue decimal.Decimal     `gorm:"column:discount_value;type:numeric(12,2);not null"`
	StartsAt      time.Time           `gorm:"column:starts_at;not null"`
	EndsAt        time.Time           `gorm:"column:ends_at;not null"`
	IsActive      bool                `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
