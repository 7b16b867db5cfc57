package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmoralesv/floreria-backend/api/responses"
	"github.com/dmoralesv/floreria-backend/api/validators"
	productsvc "github.com/dmoralesv/floreria-backend/internal/products"
	pkgerrors "github.com/dmoralesv/floreria-backend/pkg/errors"
	"github.com/dmoralesv/floreria-backend/pkg/logger"
	"github.com/dmoralesv/floreria-backend/pkg/pagination"
)

// ListProducts serves the public catalog listing.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		input, err := listInputFromQuery(r, false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// GetProductBySlug serves a single catalog product.
func GetProductBySlug(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "slug is required"))
			return
		}

		product, err := svc.GetBySlug(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// AdminListProducts lists the catalog for the back office, hidden rows included.
func AdminListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		input, err := listInputFromQuery(r, true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AdminCreateProduct handles product creation from the back office.
func AdminCreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// AdminUpdateProduct applies a partial update to a product.
func AdminUpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// AdminDeleteProduct removes a product from the catalog.
func AdminDeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type productRequest struct {
	Name           string   `json:"name" validate:"required"`
	Description    *string  `json:"description,omitempty"`
	Price          string   `json:"price" validate:"required"`
	CompareAtPrice *string  `json:"compare_at_price,omitempty"`
	CategoryID     *string  `json:"category_id,omitempty"`
	Occasions      []string `json:"occasions,omitempty"`
	IsActive       *bool    `json:"is_active,omitempty"`
	IsFeatured     *bool    `json:"is_featured,omitempty"`
	Position       int      `json:"position,omitempty" validate:"omitempty,min=0"`
}

type updateProductRequest struct {
	Name           *string   `json:"name,omitempty"`
	Description    *string   `json:"description,omitempty"`
	Price          *string   `json:"price,omitempty"`
	CompareAtPrice *string   `json:"compare_at_price,omitempty"`
	CategoryID     *string   `json:"category_id,omitempty"`
	Occasions      *[]string `json:"occasions,omitempty"`
	IsActive       *bool     `json:"is_active,omitempty"`
	IsFeatured     *bool     `json:"is_featured,omitempty"`
	Position       *int      `json:"position,omitempty" validate:"omitempty,min=0"`
}

func (r productRequest) toCreateInput() (productsvc.CreateInput, error) {
	price, err := parsePrice(r.Price)
	if err != nil {
		return productsvc.CreateInput{}, err
	}

	var compareAt *decimal.Decimal
	if r.CompareAtPrice != nil {
		parsed, err := parsePrice(*r.CompareAtPrice)
		if err != nil {
			return productsvc.CreateInput{}, err
		}
		compareAt = &parsed
	}

	categoryID, err := parseOptionalUUID(r.CategoryID, "category id")
	if err != nil {
		return productsvc.CreateInput{}, err
	}

	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}
	isFeatured := false
	if r.IsFeatured != nil {
		isFeatured = *r.IsFeatured
	}

	return productsvc.CreateInput{
		Name:           strings.TrimSpace(r.Name),
		Description:    r.Description,
		Price:          price,
		CompareAtPrice: compareAt,
		CategoryID:     categoryID,
		Occasions:      r.Occasions,
		IsActive:       isActive,
		IsFeatured:     isFeatured,
		Position:       r.Position,
	}, nil
}

func (r updateProductRequest) toUpdateInput() (productsvc.UpdateInput, error) {
	input := productsvc.UpdateInput{
		Name:        r.Name,
		Description: r.Description,
		Occasions:   r.Occasions,
		IsActive:    r.IsActive,
		IsFeatured:  r.IsFeatured,
		Position:    r.Position,
	}

	if r.Price != nil {
		price, err := parsePrice(*r.Price)
		if err != nil {
			return productsvc.UpdateInput{}, err
		}
		input.Price = &price
	}
	if r.CompareAtPrice != nil {
		compareAt, err := parsePrice(*r.CompareAtPrice)
		if err != nil {
			return productsvc.UpdateInput{}, err
		}
		input.CompareAtPrice = &compareAt
	}

	categoryID, err := parseOptionalUUID(r.CategoryID, "category id")
	if err != nil {
		return productsvc.UpdateInput{}, err
	}
	input.CategoryID = categoryID

	return input, nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
	}
	return price, nil
}

func parseOptionalUUID(raw *string, field string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	parsed, err := validators.ParsePathUUID(*raw, field)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func listInputFromQuery(r *http.Request, includeHidden bool) (productsvc.ListInput, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return productsvc.ListInput{}, err
	}

	onlyFeatured, err := validators.ParseQueryBool(r, "featured")
	if err != nil {
		return productsvc.ListInput{}, err
	}

	return productsvc.ListInput{
		CategorySlug:  strings.TrimSpace(r.URL.Query().Get("category")),
		Occasion:      strings.TrimSpace(r.URL.Query().Get("occasion")),
		Search:        strings.TrimSpace(r.URL.Query().Get("search")),
		IncludeHidden: includeHidden,
		OnlyFeatured:  onlyFeatured,
		Pagination: pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		},
	}, nil
}
