package models

import (
	"time"

	"github.com/google/uuid"
)

// Offering is a service the shop advertises alongside the catalog, such as
// repairs or network installation.
type Offering struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Title        string    `gorm:"column:title;not null"`
	Slug         string    `gorm:"column:slug;not null;uniqueIndex:uq_offerings_slug"`
	Description  string    `gorm:"column:description;not null;default:''"`
	Icon         string    `gorm:"column:icon;not null;default:''"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
