package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cakpo-corneille/niasotac/api/responses"
	"github.com/cakpo-corneille/niasotac/api/validators"
	promotionsvc "github.com/cakpo-corneille/niasotac/internal/promotions"
	"github.com/cakpo-corneille/niasotac/pkg/enums"
	pkgerrors "github.com/cakpo-corneille/niasotac/pkg/errors"
	"github.com/cakpo-corneille/niasotac/pkg/logger"
)

// ListPromotions serves the promotion listing. ?live=true narrows it to the
// currently running ones.
func ListPromotions(svc promotionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		live, err := validators.ParseQueryBool(r, "live")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		promotions, err := svc.ListPromotions(r.Context(), live != nil && *live)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, promotions)
	}
}

type createPromotionRequest struct {
	Name          string     `json:"name" validate:"required,min=1,max=200"`
	Description   string     `json:"description" validate:"max=2000"`
	Scope         string     `json:"scope" validate:"required,oneof=all category product"`
	CategoryID    *uuid.UUID `json:"category_id"`
	ProductID     *uuid.UUID `json:"product_id"`
	DiscountType  string     `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue string     `json:"discount_value" validate:"required"`
	StartsAt      time.Time  `json:"starts_at" validate:"required"`
	EndsAt        time.Time  `json:"ends_at" validate:"required"`
}

// CreatePromotion handles promotion creation.
func CreatePromotion(svc promotionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createPromotionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		scope, err := enums.ParsePromotionScope(payload.Scope)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid scope"))
			return
		}
		discountType, err := enums.ParseDiscountType(payload.DiscountType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount type"))
			return
		}
		discountValue, err := decimal.NewFromString(strings.TrimSpace(payload.DiscountValue))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "discount_value must be a number"))
			return
		}

		promotion, err := svc.CreatePromotion(r.Context(), promotionsvc.CreatePromotionInput{
			Name:          payload.Name,
			Description:   payload.Description,
			Scope:         scope,
			CategoryID:    payload.CategoryID,
			ProductID:     payload.ProductID,
			DiscountType:  discountType,
			DiscountValue: discountValue,
			StartsAt:      payload.StartsAt,
			EndsAt:        payload.EndsAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, promotion)
	}
}

type updatePromotionRequest struct {
	Name          *string    `json:"name" validate:"omitempty,min=1,max=200"`
	Description   *string    `json:"description" validate:"omitempty,max=2000"`
	DiscountValue *string    `json:"discount_value"`
	StartsAt      *time.Time `json:"starts_at"`
	EndsAt        *time.Time `json:"ends_at"`
	IsActive      *bool      `json:"is_active"`
}

// UpdatePromotion handles partial promotion edits. Scope and targeting are
// fixed at creation.
func UpdatePromotion(svc promotionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "promotionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updatePromotionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := promotionsvc.UpdatePromotionInput{
			Name:        payload.Name,
			Description: payload.Description,
			StartsAt:    payload.StartsAt,
			EndsAt:      payload.EndsAt,
			IsActive:    payload.IsActive,
		}
		if payload.DiscountValue != nil {
			value, err := decimal.NewFromString(strings.TrimSpace(*payload.DiscountValue))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "discount_value must be a number"))
				return
			}
			input.DiscountValue = &value
		}

		promotion, err := svc.UpdatePromotion(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, promotion)
	}
}

// DeletePromotion removes a promotion.
func DeletePromotion(svc promotionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "promotionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeletePromotion(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
