package offerings

import (
	"context"

	"github.com/cakpo-corneille/niasotac/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists the advertised services.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Offering, error) {
	var offering models.Offering
	if err := r.db.WithContext(ctx).First(&offering, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &offering, nil
}

func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Offering, error) {
	var offering models.Offering
	if err := r.db.WithContext(ctx).First(&offering, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &offering, nil
}

func (r *Repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Offering{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

// List returns offerings in display order. When activeOnly is set, inactive
// rows are hidden.
func (r *Repository) List(ctx context.Context, activeOnly bool) ([]models.Offering, error) {
	query := r.db.WithContext(ctx).Order("display_order ASC, title ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var rows []models.Offering
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Create(ctx context.Context, offering *models.Offering) (*models.Offering, error) {
	if err := r.db.WithContext(ctx).Create(offering).Error; err != nil {
		return nil, err
	}
	return offering, nil
}

func (r *Repository) Update(ctx context.Context, offering *models.Offering) (*models.Offering, error) {
	if err := r.db.WithContext(ctx).Save(offering).Error; err != nil {
		return nil, err
	}
	return offering, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Offering{}, "id = ?", id).Error
}
