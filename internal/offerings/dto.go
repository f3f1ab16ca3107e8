package offerings

import (
	"time"

	"github.com/cakpo-corneille/niasotac/pkg/db/models"
	"github.com/google/uuid"
)

// OfferingDTO is the advertised-service payload returned to clients.
type OfferingDTO struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description,omitempty"`
	Icon         string    `json:"icon,omitempty"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewOfferingDTO(offering *models.Offering) *OfferingDTO {
	if offering == nil {
		return nil
	}
	return &OfferingDTO{
		ID:           offering.ID,
		Title:        offering.Title,
		Slug:         offering.Slug,
		Description:  offering.Description,
		Icon:         offering.Icon,
		DisplayOrder: offering.DisplayOrder,
		IsActive:     offering.IsActive,
		CreatedAt:    offering.CreatedAt,
		UpdatedAt:    offering.UpdatedAt,
	}
}

func NewOfferingDTOs(rows []models.Offering) []OfferingDTO {
	out := make([]OfferingDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewOfferingDTO(&rows[i]))
	}
	return out
}
