package controllers

import (
	"net/http"

	"github.com/cakpo-corneille/niasotac/api/responses"
	"github.com/cakpo-corneille/niasotac/api/validators"
	settingsvc "github.com/cakpo-corneille/niasotac/internal/settings"
	"github.com/cakpo-corneille/niasotac/pkg/logger"
)

// SiteSettings serves the contact and branding record.
func SiteSettings(svc settingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, settings)
	}
}

type updateSettingsRequest struct {
	SiteName       *string `json:"site_name" validate:"omitempty,min=1,max=200"`
	Tagline        *string `json:"tagline" validate:"omitempty,max=300"`
	About          *string `json:"about" validate:"omitempty,max=10000"`
	WhatsAppNumber *string `json:"whatsapp_number" validate:"omitempty,max=30"`
	Phone          *string `json:"phone" validate:"omitempty,max=30"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Address        *string `json:"address" validate:"omitempty,max=500"`
	FacebookURL    *string `json:"facebook_url" validate:"omitempty,url"`
	InstagramURL   *string `json:"instagram_url" validate:"omitempty,url"`
	OpeningHours   *string `json:"opening_hours" validate:"omitempty,max=500"`
}

// UpdateSiteSettings applies partial edits to the singleton record.
func UpdateSiteSettings(svc settingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateSettingsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		settings, err := svc.Update(r.Context(), settingsvc.UpdateSettingsInput{
			SiteName:       payload.SiteName,
			Tagline:        payload.Tagline,
			About:          payload.About,
			WhatsAppNumber: payload.WhatsAppNumber,
			Phone:          payload.Phone,
			Email:          payload.Email,
			Address:        payload.Address,
			FacebookURL:    payload.FacebookURL,
			InstagramURL:   payload.InstagramURL,
			OpeningHours:   payload.OpeningHours,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, settings)
	}
}
