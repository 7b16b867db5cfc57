package business

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmoralesv/floreria-backend/internal/whatsapp"
	"github.com/dmoralesv/floreria-backend/pkg/config"
	"github.com/dmoralesv/floreria-backend/pkg/db"
	"github.com/dmoralesv/floreria-backend/pkg/db/models"
	pkgerrors "github.com/dmoralesv/floreria-backend/pkg/errors"
)

// Service exposes the storefront identity profile.
type Service interface {
	Get(ctx context.Context) (*ProfileDTO, error)
	Upsert(ctx context.Context, input UpsertInput) (*ProfileDTO, error)
	// WhatsAppDigits returns the normalized deep-link destination and fails
	// when the profile or its phone is missing.
	WhatsAppDigits(ctx context.Context) (string, error)
}

// ProfileDTO is the profile payload returned to clients.
type ProfileDTO struct {
	ID            uuid.UUID `json:"id"`
	StoreName     string    `json:"store_name"`
	WhatsAppPhone string    `json:"whatsapp_phone"`
	LandlinePhone *string   `json:"landline_phone,omitempty"`
	Address       *string   `json:"address,omitempty"`
	LocationURL   *string   `json:"location_url,omitempty"`
	Schedule      *string   `json:"schedule,omitempty"`
	Email         *string   `json:"email,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UpsertInput holds the validated payload to create or replace the profile.
type UpsertInput struct {
	StoreName     string
	WhatsAppPhone string
	LandlinePhone *string
	Address       *string
	LocationURL   *string
	Schedule      *string
	Email         *string
}

type service struct {
	repo       *Repository
	dbClient   *db.Client
	storefront config.StorefrontConfig
}

// NewService constructs a business profile service instance.
func NewService(repo *Repository, dbClient *db.Client, storefront config.StorefrontConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("business repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient, storefront: storefront}, nil
}

func (s *service) Get(ctx context.Context) (*ProfileDTO, error) {
	row, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "business profile not configured")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading business profile")
	}
	return newProfileDTO(row), nil
}

func (s *service) Upsert(ctx context.Context, input UpsertInput) (*ProfileDTO, error) {
	storeName := strings.TrimSpace(input.StoreName)
	if storeName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store_name is required")
	}
	phone := strings.TrimSpace(input.WhatsAppPhone)
	if _, err := whatsapp.NormalizeBusinessPhone(phone, s.storefront.CountryCallingCode); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "whatsapp_phone is not a valid phone number")
	}

	row, err := s.repo.Get(ctx)
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = &models.BusinessProfile{}
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading business profile")
	}

	row.StoreName = storeName
	row.WhatsAppPhone = phone
	row.LandlinePhone = input.LandlinePhone
	row.Address = input.Address
	row.LocationURL = input.LocationURL
	row.Schedule = input.Schedule
	row.Email = input.Email

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if row.ID == uuid.Nil {
			_, txErr := repo.Create(ctx, row)
			return txErr
		}
		_, txErr := repo.Update(ctx, row)
		return txErr
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving business profile")
	}

	return newProfileDTO(row), nil
}

func (s *service) WhatsAppDigits(ctx context.Context) (string, error) {
	row, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeStateConflict, "el teléfono de la tienda no está configurado")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading business profile")
	}
	return whatsapp.NormalizeBusinessPhone(row.WhatsAppPhone, s.storefront.CountryCallingCode)
}

func newProfileDTO(row *models.BusinessProfile) *ProfileDTO {
	return &ProfileDTO{
		ID:            row.ID,
		StoreName:     row.StoreName,
		WhatsAppPhone: row.WhatsAppPhone,
		LandlinePhone: row.LandlinePhone,
		Address:       row.Address,
		LocationURL:   row.LocationURL,
		Schedule:      row.Schedule,
		Email:         row.Email,
		UpdatedAt:     row.UpdatedAt,
	}
}
