// Package newsletter implements the double opt-in subscription lifecycle.
// An address moves pending -> confirmed via an emailed token and can leave
// through the unsubscribe link at any point.
package newsletter

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/cakpo-corneille/niasotac/pkg/config"
	"github.com/cakpo-corneille/niasotac/pkg/db/models"
	"github.com/cakpo-corneille/niasotac/pkg/enums"
	pkgerrors "github.com/cakpo-corneille/niasotac/pkg/errors"
	"github.com/cakpo-corneille/niasotac/pkg/logger"
	"github.com/cakpo-corneille/niasotac/pkg/mailer"
	"github.com/cakpo-corneille/niasotac/pkg/redis"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rate limit knobs for the public subscribe endpoint.
const (
	subscribeLimit  = 5
	subscribeWindow = time.Hour
)

var validate = validator.New()

// Clock returns the current time. Tests pin it.
type Clock func() time.Time

// Service exposes the newsletter operations.
type Service interface {
	Subscribe(ctx context.Context, email string) (*SubscribeResult, error)
	Confirm(ctx context.Context, token string) (*SubscriberDTO, error)
	Unsubscribe(ctx context.Context, token string) (*SubscriberDTO, error)
	Counts(ctx context.Context) (map[string]int64, error)
}

// SubscribeResult tells the caller whether a confirmation email went out.
type SubscribeResult struct {
	Subscriber *SubscriberDTO
	// EmailSent is false when the address was already confirmed.
	EmailSent bool
}

type service struct {
	repo   *Repository
	mail   mailer.Mailer
	cfg    config.MailConfig
	limits *redis.Client
	logg   *logger.Logger
	now    Clock
}

// NewService wires the newsletter service. The redis client is optional; the
// subscribe endpoint runs unthrottled without it.
func NewService(
	repo *Repository,
	mail mailer.Mailer,
	cfg config.MailConfig,
	limits *redis.Client,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("newsletter repository required")
	}
	if mail == nil {
		return nil, fmt.Errorf("mailer required")
	}
	return &service{
		repo:   repo,
		mail:   mail,
		cfg:    cfg,
		limits: limits,
		logg:   logg,
		now:    time.Now,
	}, nil
}

// Subscribe registers the address as pending and sends the confirmation
// email. Re-subscribing a pending or unsubscribed address rotates the token
// and re-sends; a confirmed address is left untouched.
func (s *service) Subscribe(ctx context.Context, email string) (*SubscribeResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email address is required")
	}

	if err := s.allowSubscribe(ctx, email); err != nil {
		return nil, err
	}

	subscriber, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return s.resubscribe(ctx, subscriber)
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through to the insert
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load subscriber")
	}

	subscriber = &models.NewsletterSubscriber{
		ID:     uuid.New(),
		Email:  email,
		Status: enums.SubscriberStatusPending,
		Token:  newToken(),
	}
	if err := s.repo.Create(ctx, subscriber); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create subscriber")
	}

	if err := s.sendConfirmation(subscriber); err != nil {
		return nil, err
	}
	return &SubscribeResult{Subscriber: NewSubscriberDTO(subscriber), EmailSent: true}, nil
}

func (s *service) resubscribe(ctx context.Context, subscriber *models.NewsletterSubscriber) (*SubscribeResult, error) {
	if subscriber.Status == enums.SubscriberStatusConfirmed {
		return &SubscribeResult{Subscriber: NewSubscriberDTO(subscriber), EmailSent: false}, nil
	}

	// Rotate the token so a stale confirmation link cannot be replayed.
	subscriber.Token = newToken()
	subscriber.Status = enums.SubscriberStatusPending
	subscriber.ConfirmedAt = nil
	subscriber.UnsubscribedAt = nil
	if err := s.repo.Update(ctx, subscriber); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update subscriber")
	}

	if err := s.sendConfirmation(subscriber); err != nil {
		return nil, err
	}
	return &SubscribeResult{Subscriber: NewSubscriberDTO(subscriber), EmailSent: true}, nil
}

// Confirm flips a pending subscriber to confirmed and sends the welcome
// email. Confirming twice is a no-op.
func (s *service) Confirm(ctx context.Context, token string) (*SubscriberDTO, error) {
	subscriber, err := s.findByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if subscriber.Status == enums.SubscriberStatusConfirmed {
		return NewSubscriberDTO(subscriber), nil
	}
	if subscriber.Status == enums.SubscriberStatusUnsubscribed {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "subscription was cancelled, subscribe again to rejoin")
	}

	now := s.now()
	subscriber.Status = enums.SubscriberStatusConfirmed
	subscriber.ConfirmedAt = &now
	if err := s.repo.Update(ctx, subscriber); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: confirm subscriber")
	}

	if err := s.mail.Send(mailer.WelcomeTemplate, subscriber.Email, map[string]string{
		"UnsubscribeURL": s.link(s.cfg.UnsubscribeURL, subscriber.Token),
	}); err != nil && s.logg != nil {
		// The subscription stands even when the welcome email fails.
		lctx := s.logg.WithFields(ctx, map[string]any{"email": subscriber.Email})
		s.logg.Error(lctx, "welcome email failed", err)
	}
	return NewSubscriberDTO(subscriber), nil
}

// Unsubscribe removes the address from the list. Repeating the call is a
// no-op.
func (s *service) Unsubscribe(ctx context.Context, token string) (*SubscriberDTO, error) {
	subscriber, err := s.findByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if subscriber.Status != enums.SubscriberStatusUnsubscribed {
		now := s.now()
		subscriber.Status = enums.SubscriberStatusUnsubscribed
		subscriber.UnsubscribedAt = &now
		if err := s.repo.Update(ctx, subscriber); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: unsubscribe")
		}
	}
	return NewSubscriberDTO(subscriber), nil
}

// Counts reports list sizes per lifecycle state.
func (s *service) Counts(ctx context.Context) (map[string]int64, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count subscribers")
	}
	return counts, nil
}

func (s *service) allowSubscribe(ctx context.Context, email string) error {
	if s.limits == nil {
		return nil
	}
	allowed, _, err := s.limits.FixedWindowAllow(ctx, "newsletter:"+email, subscribeLimit, subscribeWindow)
	if err != nil {
		// Redis being down never blocks signups.
		return nil
	}
	if !allowed {
		return pkgerrors.New(pkgerrors.CodeValidation, "too many subscription attempts, try again later")
	}
	return nil
}

func (s *service) sendConfirmation(subscriber *models.NewsletterSubscriber) error {
	err := s.mail.Send(mailer.ConfirmTemplate, subscriber.Email, map[string]string{
		"ConfirmURL": s.link(s.cfg.ConfirmURL, subscriber.Token),
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mail: send confirmation")
	}
	return nil
}

func (s *service) findByToken(ctx context.Context, token string) (*models.NewsletterSubscriber, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "token is required")
	}
	subscriber, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "unknown token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load subscriber")
	}
	return subscriber, nil
}

func (s *service) link(base, token string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

func newToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return uuid.NewString()
	}
	return hex.EncodeToString(buf)
}
