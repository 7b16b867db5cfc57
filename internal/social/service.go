package social

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmoralesv/floreria-backend/pkg/db"
	"github.com/dmoralesv/floreria-backend/pkg/db/models"
	"github.com/dmoralesv/floreria-backend/pkg/enums"
	pkgerrors "github.com/dmoralesv/floreria-backend/pkg/errors"
)

// Service manages the storefront footer links.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*LinkDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*LinkDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, includeHidden bool) ([]LinkDTO, error)
}

// LinkDTO is the social link payload returned to clients.
type LinkDTO struct {
	ID        uuid.UUID           `json:"id"`
	Network   enums.SocialNetwork `json:"network"`
	URL       string              `json:"url"`
	IsActive  bool                `json:"is_active"`
	Position  int                 `json:"position"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// CreateInput holds the validated payload to create a link.
type CreateInput struct {
	Network  string
	URL      string
	IsActive bool
	Position int
}

// UpdateInput holds optional mutation values for a link.
type UpdateInput struct {
	URL      *string
	IsActive *bool
	Position *int
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a social link service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("social repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*LinkDTO, error) {
	network, err := enums.ParseSocialNetwork(input.Network)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown social network")
	}
	linkURL, err := validateURL(input.URL)
	if err != nil {
		return nil, err
	}

	row := &models.SocialLink{
		Network:  network,
		URL:      linkURL,
		IsActive: input.IsActive,
		Position: input.Position,
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		_, txErr := s.repo.WithTx(tx).Create(ctx, row)
		return txErr
	})
	if err != nil {
		if db.IsUniqueViolation(err, "idx_social_links_network") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a link for this network already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating social link")
	}

	return newLinkDTO(row), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*LinkDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "social link not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading social link")
	}

	if input.URL != nil {
		linkURL, err := validateURL(*input.URL)
		if err != nil {
			return nil, err
		}
		row.URL = linkURL
	}
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}
	if input.Position != nil {
		row.Position = *input.Position
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		_, txErr := s.repo.WithTx(tx).Update(ctx, row)
		return txErr
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating social link")
	}

	return newLinkDTO(row), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "social link not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading social link")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting social link")
	}
	return nil
}

func (s *service) List(ctx context.Context, includeHidden bool) ([]LinkDTO, error) {
	rows, err := s.repo.List(ctx, !includeHidden)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing social links")
	}

	items := make([]LinkDTO, len(rows))
	for i := range rows {
		items[i] = *newLinkDTO(&rows[i])
	}
	return items, nil
}

func validateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "url is required")
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "url must be an absolute http(s) URL")
	}
	return raw, nil
}

func newLinkDTO(row *models.SocialLink) *LinkDTO {
	return &LinkDTO{
		ID:        row.ID,
		Network:   row.Network,
		URL:       row.URL,
		IsActive:  row.IsActive,
		Position:  row.Position,
		UpdatedAt: row.UpdatedAt,
	}
}
