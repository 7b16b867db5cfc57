package business

import (
	"context"

	"gorm.io/gorm"

	"github.com/dmoralesv/floreria-backend/pkg/db/models"
)

// Repository persists the single business profile row.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Get returns the profile row, oldest first when more than one exists.
func (r *Repository) Get(ctx context.Context) (*models.BusinessProfile, error) {
	var profile models.BusinessProfile
	if err := r.db.WithContext(ctx).Order("created_at ASC").First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *Repository) Create(ctx context.Context, profile *models.BusinessProfile) (*models.BusinessProfile, error) {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *Repository) Update(ctx context.Context, profile *models.BusinessProfile) (*models.BusinessProfile, error) {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}
