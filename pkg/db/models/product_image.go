package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductImage stores ordered gallery entries. At most one image per product
// carries the primary flag.
type ProductImage struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID    uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	URL          string    `gorm:"column:url;not null"`
	AltText      string    `gorm:"column:alt_text;not null;default:''"`
	IsPrimary    bool      `gorm:"column:is_primary;not null;default:false"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
