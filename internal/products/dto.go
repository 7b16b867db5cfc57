package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmoralesv/floreria-backend/pkg/db/models"
)

// ProductDTO represents the catalog payload returned to clients.
type ProductDTO struct {
	ID             uuid.UUID           `json:"id"`
	Name           string              `json:"name"`
	Slug           string              `json:"slug"`
	Description    *string             `json:"description,omitempty"`
	Price          decimal.Decimal     `json:"price"`
	CompareAtPrice *decimal.Decimal    `json:"compare_at_price,omitempty"`
	ImageURL       *string             `json:"image_url,omitempty"`
	Occasions      []string            `json:"occasions"`
	Category       *CategorySummaryDTO `json:"category,omitempty"`
	IsActive       bool                `json:"is_active"`
	IsFeatured     bool                `json:"is_featured"`
	Position       int                 `json:"position"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// CategorySummaryDTO surfaces limited category data for product responses.
type CategorySummaryDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// ProductListResult wraps a page of products plus the next cursor.
type ProductListResult struct {
	Items      []ProductDTO `json:"items"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:             product.ID,
		Name:           product.Name,
		Slug:           product.Slug,
		Description:    product.Description,
		Price:          product.Price,
		CompareAtPrice: product.CompareAtPrice,
		ImageURL:       product.ImageURL,
		Occasions:      append([]string{}, product.Occasions...),
		IsActive:       product.IsActive,
		IsFeatured:     product.IsFeatured,
		Position:       product.Position,
		CreatedAt:      product.CreatedAt,
		UpdatedAt:      product.UpdatedAt,
	}
	if product.Category != nil {
		dto.Category = &CategorySummaryDTO{
			ID:   product.Category.ID,
			Name: product.Category.Name,
			Slug: product.Category.Slug,
		}
	}
	return dto
}
