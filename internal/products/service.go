package product

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dmoralesv/floreria-backend/pkg/db"
	"github.com/dmoralesv/floreria-backend/pkg/db/models"
	pkgerrors "github.com/dmoralesv/floreria-backend/pkg/errors"
	"github.com/dmoralesv/floreria-backend/pkg/pagination"
)

// Service exposes catalog management and storefront read operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetBySlug(ctx context.Context, slug string) (*ProductDTO, error)
	List(ctx context.Context, input ListInput) (*ProductListResult, error)
}

// CreateInput holds the validated payload to create a product.
type CreateInput struct {
	Name           string
	Description    *string
	Price          decimal.Decimal
	CompareAtPrice *decimal.Decimal
	CategoryID     *uuid.UUID
	Occasions      []string
	IsActive       bool
	IsFeatured     bool
	Position       int
}

// UpdateInput holds optional mutation values for a product.
type UpdateInput struct {
	Name           *string
	Description    *string
	Price          *decimal.Decimal
	CompareAtPrice *decimal.Decimal
	CategoryID     *uuid.UUID
	Occasions      *[]string
	IsActive       *bool
	IsFeatured     *bool
	Position       *int
}

// ListInput filters the catalog listing.
type ListInput struct {
	CategorySlug  string
	Occasion      string
	Search        string
	IncludeHidden bool
	OnlyFeatured  bool
	Pagination    pagination.Params
}

type categoryReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

type service struct {
	repo         *Repository
	dbClient     *db.Client
	categoryRepo categoryReader
}

// NewService constructs a product service instance.
func NewService(repo *Repository, dbClient *db.Client, categoryRepo categoryReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if categoryRepo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{
		repo:         repo,
		dbClient:     dbClient,
		categoryRepo: categoryRepo,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Price.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if input.CompareAtPrice != nil && input.CompareAtPrice.LessThanOrEqual(input.Price) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "compare_at_price must exceed price")
	}
	if input.CategoryID != nil {
		if err := s.ensureCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
	}

	row := &models.Product{
		CategoryID:     input.CategoryID,
		Name:           name,
		Slug:           Slugify(name),
		Description:    input.Description,
		Price:          input.Price,
		CompareAtPrice: input.CompareAtPrice,
		Occasions:      normalizeOccasions(input.Occasions),
		IsActive:       input.IsActive,
		IsFeatured:     input.IsFeatured,
		Position:       input.Position,
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		_, txErr := s.repo.WithTx(tx).Create(ctx, row)
		return txErr
	})
	if err != nil {
		if db.IsUniqueViolation(err, "idx_products_slug") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}

	return s.loadDTO(ctx, row.ID)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*ProductDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		row.Name = name
		row.Slug = Slugify(name)
	}
	if input.Description != nil {
		row.Description = input.Description
	}
	if input.Price != nil {
		if input.Price.LessThanOrEqual(decimal.Zero) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
		}
		row.Price = *input.Price
	}
	if input.CompareAtPrice != nil {
		if input.CompareAtPrice.LessThanOrEqual(row.Price) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "compare_at_price must exceed price")
		}
		row.CompareAtPrice = input.CompareAtPrice
	}
	if input.CategoryID != nil {
		if err := s.ensureCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
		row.CategoryID = input.CategoryID
	}
	if input.Occasions != nil {
		row.Occasions = normalizeOccasions(*input.Occasions)
	}
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}
	if input.IsFeatured != nil {
		row.IsFeatured = *input.IsFeatured
	}
	if input.Position != nil {
		row.Position = *input.Position
	}

	// Category is preloaded on row; clear it so Save does not upsert the association.
	row.Category = nil

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		_, txErr := s.repo.WithTx(tx).Update(ctx, row)
		return txErr
	})
	if err != nil {
		if db.IsUniqueViolation(err, "idx_products_slug") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}

	return s.loadDTO(ctx, row.ID)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting product")
	}
	return nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*ProductDTO, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	row, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return NewProductDTO(row), nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ProductListResult, error) {
	rows, next, err := s.repo.List(ctx, ListFilter{
		CategorySlug: strings.TrimSpace(input.CategorySlug),
		Occasion:     strings.TrimSpace(input.Occasion),
		Search:       input.Search,
		OnlyActive:   !input.IncludeHidden,
		OnlyFeatured: input.OnlyFeatured,
		Pagination:   input.Pagination,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}

	items := make([]ProductDTO, len(rows))
	for i := range rows {
		items[i] = *NewProductDTO(&rows[i])
	}
	return &ProductListResult{Items: items, NextCursor: next}, nil
}

func (s *service) ensureCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading category")
	}
	return nil
}

func (s *service) loadDTO(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading product")
	}
	return NewProductDTO(row), nil
}

var slugStripRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases, strips accents common in Spanish product names, and
// collapses the rest into hyphen-separated tokens.
func Slugify(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	replacer := strings.NewReplacer(
		"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
	)
	lowered = replacer.Replace(lowered)
	slug := slugStripRe.ReplaceAllString(lowered, "-")
	return strings.Trim(slug, "-")
}

func normalizeOccasions(values []string) []string {
	out := make([]string, 0, len(values))
	seen := map[string]bool{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[strings.ToLower(v)] {
			continue
		}
		seen[strings.ToLower(v)] = true
		out = append(out, v)
	}
	return out
}
