package social

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmoralesv/floreria-backend/pkg/db/models"
	"github.com/dmoralesv/floreria-backend/pkg/enums"
)

// Repository persists storefront social links.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, link *models.SocialLink) (*models.SocialLink, error) {
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		return nil, err
	}
	return link, nil
}

func (r *Repository) Update(ctx context.Context, link *models.SocialLink) (*models.SocialLink, error) {
	if err := r.db.WithContext(ctx).Save(link).Error; err != nil {
		return nil, err
	}
	return link, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.SocialLink{}, "id = ?", id).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.SocialLink, error) {
	var link models.SocialLink
	if err := r.db.WithContext(ctx).First(&link, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *Repository) FindByNetwork(ctx context.Context, network enums.SocialNetwork) (*models.SocialLink, error) {
	var link models.SocialLink
	if err := r.db.WithContext(ctx).First(&link, "network = ?", network).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// List returns links ordered for display.
func (r *Repository) List(ctx context.Context, onlyActive bool) ([]models.SocialLink, error) {
	q := r.db.WithContext(ctx).Model(&models.SocialLink{})
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}

	var rows []models.SocialLink
	if err := q.Order("position ASC").Order("network ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
