package categories

import (
	"time"

	"github.com/cakpo-corneille/niasotac/pkg/db/models"
	"github.com/google/uuid"
)

// CategoryDTO represents the category payload returned to clients.
type CategoryDTO struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Slug         string     `json:"slug"`
	Description  string     `json:"description"`
	ImageURL     string     `json:"image_url,omitempty"`
	ParentID     *uuid.UUID `json:"parent_id,omitempty"`
	Level        int        `json:"level"`
	IsMain       bool       `json:"is_main"`
	DisplayOrder int        `json:"display_order"`
	IsActive     bool       `json:"is_active"`
	FullPath     string     `json:"full_path,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TreeNodeDTO is one node of the nested category tree payload.
type TreeNodeDTO struct {
	ID           uuid.UUID     `json:"id"`
	Name         string        `json:"name"`
	Slug         string        `json:"slug"`
	Level        int           `json:"level"`
	DisplayOrder int           `json:"display_order"`
	Children     []TreeNodeDTO `json:"children"`
}

// NewCategoryDTO maps a category row into its response payload.
func NewCategoryDTO(category *models.Category) *CategoryDTO {
	if category == nil {
		return nil
	}
	return &CategoryDTO{
		ID:           category.ID,
		Name:         category.Name,
		Slug:         category.Slug,
		Description:  category.Description,
		ImageURL:     category.ImageURL,
		ParentID:     category.ParentID,
		Level:        category.Level,
		IsMain:       category.ParentID == nil,
		DisplayOrder: category.DisplayOrder,
		IsActive:     category.IsActive,
		CreatedAt:    category.CreatedAt,
		UpdatedAt:    category.UpdatedAt,
	}
}

// NewCategoryDTOs maps a slice of rows.
func NewCategoryDTOs(rows []models.Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewCategoryDTO(&rows[i]))
	}
	return out
}
