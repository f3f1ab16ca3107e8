// Package offerings manages the services the shop advertises alongside the
// catalog, like repairs, maintenance contracts, and network installs.
package offerings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cakpo-corneille/niasotac/pkg/db/models"
	pkgerrors "github.com/cakpo-corneille/niasotac/pkg/errors"
	"github.com/cakpo-corneille/niasotac/pkg/slug"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes the offering operations.
type Service interface {
	CreateOffering(ctx context.Context, input CreateOfferingInput) (*OfferingDTO, error)
	UpdateOffering(ctx context.Context, id uuid.UUID, input UpdateOfferingInput) (*OfferingDTO, error)
	DeleteOffering(ctx context.Context, id uuid.UUID) error
	GetBySlug(ctx context.Context, slug string) (*OfferingDTO, error)
	ListOfferings(ctx context.Context, includeInactive bool) ([]OfferingDTO, error)
}

// CreateOfferingInput holds the validated payload to create an offering.
type CreateOfferingInput struct {
	Title        string
	Description  string
	Icon         string
	DisplayOrder int
	IsActive     bool
}

// UpdateOfferingInput holds a partial update. Nil fields keep their value.
type UpdateOfferingInput struct {
	Title        *string
	Description  *string
	Icon         *string
	DisplayOrder *int
	IsActive     *bool
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("offering repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateOffering(ctx context.Context, input CreateOfferingInput) (*OfferingDTO, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "offering title is required")
	}

	offeringSlug, err := s.uniqueSlug(ctx, input.Title)
	if err != nil {
		return nil, err
	}

	offering := &models.Offering{
		ID:           uuid.New(),
		Title:        input.Title,
		Slug:         offeringSlug,
		Description:  input.Description,
		Icon:         input.Icon,
		DisplayOrder: input.DisplayOrder,
		IsActive:     input.IsActive,
	}
	if _, err := s.repo.Create(ctx, offering); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create offering")
	}
	return NewOfferingDTO(offering), nil
}

// UpdateOffering applies a partial update. The slug stays stable on retitle.
func (s *service) UpdateOffering(ctx context.Context, id uuid.UUID, input UpdateOfferingInput) (*OfferingDTO, error) {
	offering, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateFind(err)
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "offering title is required")
		}
		offering.Title = *input.Title
	}
	if input.Description != nil {
		offering.Description = *input.Description
	}
	if input.Icon != nil {
		offering.Icon = *input.Icon
	}
	if input.DisplayOrder != nil {
		offering.DisplayOrder = *input.DisplayOrder
	}
	if input.IsActive != nil {
		offering.IsActive = *input.IsActive
	}

	if _, err := s.repo.Update(ctx, offering); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update offering")
	}
	return NewOfferingDTO(offering), nil
}

func (s *service) DeleteOffering(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return s.translateFind(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete offering")
	}
	return nil
}

func (s *service) GetBySlug(ctx context.Context, offeringSlug string) (*OfferingDTO, error) {
	offering, err := s.repo.FindBySlug(ctx, offeringSlug)
	if err != nil {
		return nil, s.translateFind(err)
	}
	if !offering.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offering not found")
	}
	return NewOfferingDTO(offering), nil
}

func (s *service) ListOfferings(ctx context.Context, includeInactive bool) ([]OfferingDTO, error) {
	rows, err := s.repo.List(ctx, !includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list offerings")
	}
	return NewOfferingDTOs(rows), nil
}

func (s *service) uniqueSlug(ctx context.Context, title string) (string, error) {
	var slugErr error
	candidate := slug.Unique(title, func(candidate string) bool {
		exists, err := s.repo.SlugExists(ctx, candidate)
		if err != nil {
			slugErr = err
			return false
		}
		return exists
	})
	if slugErr != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, slugErr, "db: check slug")
	}
	return candidate, nil
}

func (s *service) translateFind(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "offering not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load offering")
}
