package newsletter

import (
	"time"

	"github.com/cakpo-corneille/niasotac/pkg/db/models"
	"github.com/cakpo-corneille/niasotac/pkg/enums"
	"github.com/google/uuid"
)

// SubscriberDTO is the subscriber payload. The token never leaves the
// service; links embedding it go out by email only.
type SubscriberDTO struct {
	ID           uuid.UUID              `json:"id"`
	Email        string                 `json:"email"`
	Status       enums.SubscriberStatus `json:"status"`
	SubscribedAt time.Time              `json:"subscribed_at"`
	ConfirmedAt  *time.Time             `json:"confirmed_at,omitempty"`
}

func NewSubscriberDTO(subscriber *models.NewsletterSubscriber) *SubscriberDTO {
	if subscriber == nil {
		return nil
	}
	return &SubscriberDTO{
		ID:           subscriber.ID,
		Email:        subscriber.Email,
		Status:       subscriber.Status,
		SubscribedAt: subscriber.SubscribedAt,
		ConfirmedAt:  subscriber.ConfirmedAt,
	}
}
