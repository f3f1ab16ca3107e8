package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductStatus carries engagement counters and merchandising state for one
// product. Exclude flags beat force flags, force flags beat the heuristic.
type ProductStatus struct {
	ProductID            uuid.UUID  `gorm:"column:product_id;type:uuid;primaryKey"`
	ViewCount            int64      `gorm:"column:view_count;not null;default:0"`
	WhatsAppClickCount   int64      `gorm:"column:whatsapp_click_count;not null;default:0"`
	LastViewedAt         *time.Time `gorm:"column:last_viewed_at"`
	IsFeatured           bool       `gorm:"column:is_featured;not null;default:false"`
	IsRecommended        bool       `gorm:"column:is_recommended;not null;default:false"`
	FeaturedScore        float64    `gorm:"column:featured_score;type:numeric(5,2);not null;default:0"`
	RecommendationScore  float64    `gorm:"column:recommendation_score;type:numeric(5,2);not null;default:0"`
	ForceFeatured        bool       `gorm:"column:force_featured;not null;default:false"`
	ForceRecommended     bool       `gorm:"column:force_recommended;not null;default:false"`
	ExcludeFromFeatured  bool       `gorm:"column:exclude_from_featured;not null;default:false"`
	ExcludeFromRecommend bool       `gorm:"column:exclude_from_recommended;not null;default:false"`
	ScoredAt             *time.Time `gorm:"column:scored_at"`
	UpdatedAt            time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
