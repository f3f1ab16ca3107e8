package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/cakpo-corneille/niasotac/pkg/enums"
)

// NewsletterSubscriber tracks one email address through the double opt-in
// lifecycle. Token authenticates confirm and unsubscribe links.
type NewsletterSubscriber struct {
	ID             uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	Email          string                 `gorm:"column:email;not null;uniqueIndex:uq_newsletter_subscribers_email"`
	Status         enums.SubscriberStatus `gorm:"column:status;not null;default:'pending'"`
	Token          string                 `gorm:"column:token;not null;uniqueIndex:uq_newsletter_subscribers_token"`
	SubscribedAt   time.Time              `gorm:"column:subscribed_at;autoCreateTime"`
	ConfirmedAt    *time.Time             `gorm:"column:confirmed_at"`
	UnsubscribedAt *time.Time             `gorm:"column:unsubscribed_at"`
}
