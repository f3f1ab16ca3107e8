package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cakpo-corneille/niasotac/api/responses"
	"github.com/cakpo-corneille/niasotac/api/validators"
	offeringsvc "github.com/cakpo-corneille/niasotac/internal/offerings"
	"github.com/cakpo-corneille/niasotac/pkg/logger"
)

// ListOfferings serves the advertised services, display order first.
func ListOfferings(svc offeringsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		includeInactive, err := validators.ParseQueryBool(r, "include_inactive")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offerings, err := svc.ListOfferings(r.Context(), includeInactive != nil && *includeInactive)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, offerings)
	}
}

// OfferingDetail serves one advertised service by slug.
func OfferingDetail(svc offeringsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offering, err := svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, offering)
	}
}

type createOfferingRequest struct {
	Title        string `json:"title" validate:"required,min=1,max=200"`
	Description  string `json:"description" validate:"max=5000"`
	Icon         string `json:"icon" validate:"max=100"`
	DisplayOrder int    `json:"display_order" validate:"min=0"`
	IsActive     *bool  `json:"is_active"`
}

// CreateOffering handles offering creation.
func CreateOffering(svc offeringsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createOfferingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		active := true
		if payload.IsActive != nil {
			active = *payload.IsActive
		}
		offering, err := svc.CreateOffering(r.Context(), offeringsvc.CreateOfferingInput{
			Title:        payload.Title,
			Description:  payload.Description,
			Icon:         payload.Icon,
			DisplayOrder: payload.DisplayOrder,
			IsActive:     active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, offering)
	}
}

type updateOfferingRequest struct {
	Title        *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description  *string `json:"description" validate:"omitempty,max=5000"`
	Icon         *string `json:"icon" validate:"omitempty,max=100"`
	DisplayOrder *int    `json:"display_order" validate:"omitempty,min=0"`
	IsActive     *bool   `json:"is_active"`
}

// UpdateOffering handles partial offering edits.
func UpdateOffering(svc offeringsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "offeringId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateOfferingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offering, err := svc.UpdateOffering(r.Context(), id, offeringsvc.UpdateOfferingInput{
			Title:        payload.Title,
			Description:  payload.Description,
			Icon:         payload.Icon,
			DisplayOrder: payload.DisplayOrder,
			IsActive:     payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, offering)
	}
}

// DeleteOffering removes an advertised service.
func DeleteOffering(svc offeringsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "offeringId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteOffering(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
