package settings

import (
	"time"

	"github.com/cakpo-corneille/niasotac/pkg/db/models"
)

// SettingsDTO is the public contact and branding payload.
type SettingsDTO struct {
	SiteName       string    `json:"site_name"`
	Tagline        string    `json:"tagline"`
	About          string    `json:"about"`
	WhatsAppNumber string    `json:"whatsapp_number"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	Address        string    `json:"address"`
	FacebookURL    string    `json:"facebook_url"`
	InstagramURL   string    `json:"instagram_url"`
	OpeningHours   string    `json:"opening_hours"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewSettingsDTO(row *models.SiteSettings) *SettingsDTO {
	if row == nil {
		return nil
	}
	return &SettingsDTO{
		SiteName:       row.SiteName,
		Tagline:        row.Tagline,
		About:          row.About,
		WhatsAppNumber: row.WhatsAppNumber,
		Phone:          row.Phone,
		Email:          row.Email,
		Address:        row.Address,
		FacebookURL:    row.FacebookURL,
		InstagramURL:   row.InstagramURL,
		OpeningHours:   row.OpeningHours,
		UpdatedAt:      row.UpdatedAt,
	}
}
