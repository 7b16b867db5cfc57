package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	productsvc "github.com/dmoralesv/floreria-backend/internal/products"
	pkgerrors "github.com/dmoralesv/floreria-backend/pkg/errors"
)

type stubProductService struct {
	dto    *productsvc.ProductDTO
	list   *productsvc.ProductListResult
	err    error
	gotIn  productsvc.ListInput
	gotCre productsvc.CreateInput
}

func (s *stubProductService) Create(ctx context.Context, input productsvc.CreateInput) (*productsvc.ProductDTO, error) {
	s.gotCre = input
	return s.dto, s.err
}

func (s *stubProductService) Update(ctx context.Context, id uuid.UUID, input productsvc.UpdateInput) (*productsvc.ProductDTO, error) {
	return s.dto, s.err
}

func (s *stubProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.err
}

func (s *stubProductService) GetBySlug(ctx context.Context, slug string) (*productsvc.ProductDTO, error) {
	return s.dto, s.err
}

func (s *stubProductService) List(ctx context.Context, input productsvc.ListInput) (*productsvc.ProductListResult, error) {
	s.gotIn = input
	return s.list, s.err
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestListProductsForwardsFilters(t *testing.T) {
	svc := &stubProductService{list: &productsvc.ProductListResult{Items: []productsvc.ProductDTO{}}}
	handler := ListProducts(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?category=ramos&occasion=Aniversario&featured=true&limit=10", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotIn.CategorySlug != "ramos" {
		t.Fatalf("unexpected category: %q", svc.gotIn.CategorySlug)
	}
	if svc.gotIn.Occasion != "Aniversario" {
		t.Fatalf("unexpected occasion: %q", svc.gotIn.Occasion)
	}
	if !svc.gotIn.OnlyFeatured {
		t.Fatal("expected featured filter")
	}
	if svc.gotIn.IncludeHidden {
		t.Fatal("public listing must not include hidden products")
	}
	if svc.gotIn.Pagination.Limit != 10 {
		t.Fatalf("unexpected limit: %d", svc.gotIn.Pagination.Limit)
	}
}

func TestAdminListProductsIncludesHidden(t *testing.T) {
	svc := &stubProductService{list: &productsvc.ProductListResult{}}
	handler := AdminListProducts(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/products", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !svc.gotIn.IncludeHidden {
		t.Fatal("admin listing must include hidden products")
	}
}

func TestGetProductBySlugNotFound(t *testing.T) {
	svc := &stubProductService{err: pkgerrors.New(pkgerrors.CodeNotFound, "producto no encontrado")}
	handler := GetProductBySlug(svc, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/products/ramo-inexistente", nil), "slug", "ramo-inexistente")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestAdminCreateProductParsesPrice(t *testing.T) {
	svc := &stubProductService{dto: &productsvc.ProductDTO{}}
	handler := AdminCreateProduct(svc, nil)

	body := `{"name":"Ramo Primaveral","price":"120.50","occasions":["Cumpleaños"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotCre.Price.StringFixed(2) != "120.50" {
		t.Fatalf("unexpected price: %s", svc.gotCre.Price)
	}
	if !svc.gotCre.IsActive {
		t.Fatal("expected products to default to active")
	}
}

func TestAdminCreateProductRejectsBadPrice(t *testing.T) {
	handler := AdminCreateProduct(&stubProductService{}, nil)

	body := `{"name":"Ramo","price":"gratis"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse error response: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code: %s", payload.Error.Code)
	}
}

func TestAdminUpdateProductRejectsBadID(t *testing.T) {
	handler := AdminUpdateProduct(&stubProductService{}, nil)

	req := withURLParam(httptest.NewRequest(http.MethodPatch, "/api/v1/admin/products/nope", strings.NewReader(`{}`)), "id", "nope")
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
