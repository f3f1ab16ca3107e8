package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is one node of the catalog tree. Level caches the depth so listing
// queries do not have to walk parents.
type Category struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Name         string     `gorm:"column:name;not null"`
	Slug         string     `gorm:"column:slug;not null;uniqueIndex:uq_categories_slug"`
	Description  string     `gorm:"column:description;not null;default:''"`
	ImageURL     string     `gorm:"column:image_url;not null;default:''"`
	ParentID     *uuid.UUID `gorm:"column:parent_id;type:uuid"`
	Parent       *Category  `gorm:"foreignKey:ParentID"`
	Children     []Category `gorm:"foreignKey:ParentID"`
	Level        int        `gorm:"column:level;not null;default:0"`
	DisplayOrder int        `gorm:"column:display_order;not null;default:0"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
