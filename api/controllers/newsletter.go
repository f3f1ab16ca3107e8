package controllers

import (
	"net/http"

	"github.com/cakpo-corneille/niasotac/api/responses"
	"github.com/cakpo-corneille/niasotac/api/validators"
	newslettersvc "github.com/cakpo-corneille/niasotac/internal/newsletter"
	pkgerrors "github.com/cakpo-corneille/niasotac/pkg/errors"
	"github.com/cakpo-corneille/niasotac/pkg/logger"
)

type subscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// NewsletterSubscribe starts the double opt-in flow for an address.
func NewsletterSubscribe(svc newslettersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload subscribeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Subscribe(r.Context(), payload.Email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message := "confirmation email sent"
		if !result.EmailSent {
			message = "already subscribed"
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]any{
			"status":  string(result.Subscriber.Status),
			"message": message,
		})
	}
}

// NewsletterConfirm completes the opt-in from the emailed link.
func NewsletterConfirm(svc newslettersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "token is required"))
			return
		}

		subscriber, err := svc.Confirm(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, subscriber)
	}
}

// NewsletterUnsubscribe removes an address via the emailed link.
func NewsletterUnsubscribe(svc newslettersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "token is required"))
			return
		}

		subscriber, err := svc.Unsubscribe(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, subscriber)
	}
}

// NewsletterCounts reports list sizes per lifecycle state.
func NewsletterCounts(svc newslettersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := svc.Counts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, counts)
	}
}
