// Package settings serves the singleton contact and branding record. Reads
// materialize the row with defaults so the storefront never sees a 404.
package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/cakpo-corneille/niasotac/pkg/db/models"
	pkgerrors "github.com/cakpo-corneille/niasotac/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// singletonID pins the table to one row.
const singletonID = 1

// Service exposes the site settings operations.
type Service interface {
	Get(ctx context.Context) (*SettingsDTO, error)
	Update(ctx context.Context, input UpdateSettingsInput) (*SettingsDTO, error)
}

// UpdateSettingsInput holds a partial update. Nil fields keep their value.
type UpdateSettingsInput struct {
	SiteName       *string
	Tagline        *string
	About          *string
	WhatsAppNumber *string
	Phone          *string
	Email          *string
	Address        *string
	FacebookURL    *string
	InstagramURL   *string
	OpeningHours   *string
}

type service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection required")
	}
	return &service{db: db}, nil
}

// Get returns the settings row, creating the default one on first read.
func (s *service) Get(ctx context.Context) (*SettingsDTO, error) {
	row, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return NewSettingsDTO(row), nil
}

// Update applies a partial update to the singleton row.
func (s *service) Update(ctx context.Context, input UpdateSettingsInput) (*SettingsDTO, error) {
	row, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if input.SiteName != nil {
		row.SiteName = *input.SiteName
	}
	if input.Tagline != nil {
		row.Tagline = *input.Tagline
	}
	if input.About != nil {
		row.About = *input.About
	}
	if input.WhatsAppNumber != nil {
		row.WhatsAppNumber = *input.WhatsAppNumber
	}
	if input.Phone != nil {
		row.Phone = *input.Phone
	}
	if input.Email != nil {
		row.Email = *input.Email
	}
	if input.Address != nil {
		row.Address = *input.Address
	}
	if input.FacebookURL != nil {
		row.FacebookURL = *input.FacebookURL
	}
	if input.InstagramURL != nil {
		row.InstagramURL = *input.InstagramURL
	}
	if input.OpeningHours != nil {
		row.OpeningHours = *input.OpeningHours
	}

	if err := s.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update settings")
	}
	return NewSettingsDTO(row), nil
}

func (s *service) load(ctx context.Context) (*models.SiteSettings, error) {
	var row models.SiteSettings
	err := s.db.WithContext(ctx).First(&row, "id = ?", singletonID).Error
	if err == nil {
		return &row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load settings")
	}

	// First read materializes the row. DoNothing absorbs the race with a
	// concurrent first read.
	row = models.SiteSettings{ID: singletonID, SiteName: "NIASOTAC"}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create settings")
	}
	if err := s.db.WithContext(ctx).First(&row, "id = ?", singletonID).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload settings")
	}
	return &row, nil
}
