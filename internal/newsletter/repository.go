package newsletter

import (
	"context"

	"github.com/cakpo-corneille/niasotac/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists newsletter subscribers.
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

func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.NewsletterSubscriber, error) {
	var subscriber models.NewsletterSubscriber
	if err := r.db.WithContext(ctx).First(&subscriber, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &subscriber, nil
}

func (r *Repository) FindByToken(ctx context.Context, token string) (*models.NewsletterSubscriber, error) {
	var subscriber models.NewsletterSubscriber
	if err := r.db.WithContext(ctx).First(&subscriber, "token = ?", token).Error; err != nil {
		return nil, err
	}
	return &subscriber, nil
}

func (r *Repository) Create(ctx context.Context, subscriber *models.NewsletterSubscriber) error {
	return r.db.WithContext(ctx).Create(subscriber).Error
}

func (r *Repository) Update(ctx context.Context, subscriber *models.NewsletterSubscriber) error {
	return r.db.WithContext(ctx).Save(subscriber).Error
}

// CountByStatus returns how many subscribers sit in each lifecycle state.
func (r *Repository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Total  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.NewsletterSubscriber{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.Total
	}
	return out, nil
}
