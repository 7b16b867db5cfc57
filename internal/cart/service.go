package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmoralesv/floreria-backend/pkg/db/models"
	pkgerrors "github.com/dmoralesv/floreria-backend/pkg/errors"
	"github.com/dmoralesv/floreria-backend/pkg/metrics"
)

// DTO is the cart payload returned to clients. Notice carries the Spanish
// user message the storefront surfaces after a mutation.
type DTO struct {
	Lines     []Line `json:"lines"`
	Total     string `json:"total"`
	ItemCount int    `json:"item_count"`
	Notice    string `json:"notice,omitempty"`
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service owns the cart mutations. Every operation loads the snapshot,
// applies one reducer step and writes the whole snapshot back.
type Service interface {
	Get(ctx context.Context, token string) (*DTO, error)
	AddItem(ctx context.Context, token string, productID uuid.UUID, quantity int, suppressNotice bool) (*DTO, error)
	DecrementItem(ctx context.Context, token string, productID uuid.UUID) (*DTO, error)
	RemoveItem(ctx context.Context, token string, productID uuid.UUID, suppressNotice bool) (*DTO, error)
	Clear(ctx context.Context, token string) (*DTO, error)
	// Lines returns the raw lines for checkout serialization.
	Lines(ctx context.Context, token string) ([]Line, error)
}

type service struct {
	store    *Store
	products productLoader
	metrics  *metrics.StorefrontMetrics
}

// NewService constructs a cart service instance.
func NewService(store *Store, products productLoader, m *metrics.StorefrontMetrics) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{store: store, products: products, metrics: m}, nil
}

func (s *service) Get(ctx context.Context, token string) (*DTO, error) {
	cart, err := s.store.Load(ctx, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}
	return newDTO(cart, ""), nil
}

// AddItem merges the product onto an existing line or appends a snapshot
// line. Quantity steppers pass suppressNotice to avoid a popup per click.
func (s *service) AddItem(ctx context.Context, token string, productID uuid.UUID, quantity int, suppressNotice bool) (*DTO, error) {
	// Non-positive quantities clamp to one instead of failing.
	if quantity <= 0 {
		quantity = 1
	}

	row, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if !row.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	cart, err := s.store.Load(ctx, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}

	var notice string
	if line := cart.findLine(productID); line != nil {
		line.Quantity += quantity
		notice = fmt.Sprintf("Se agregaron %d unidades de %s", quantity, line.Name)
	} else {
		cart.Lines = append(cart.Lines, Line{
			ProductID: row.ID,
			Name:      row.Name,
			Slug:      row.Slug,
			UnitPrice: row.Price,
			ImageURL:  row.ImageURL,
			Quantity:  quantity,
		})
		notice = fmt.Sprintf("%s agregado al carrito", row.Name)
	}

	if err := s.persist(ctx, token, cart, "add"); err != nil {
		return nil, err
	}
	if suppressNotice {
		notice = ""
	}
	return newDTO(cart, notice), nil
}

func (s *service) DecrementItem(ctx context.Context, token string, productID uuid.UUID) (*DTO, error) {
	cart, err := s.store.Load(ctx, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}

	var notice string
	line := cart.findLine(productID)
	switch {
	case line == nil:
		// Absent id is a no-op.
		return newDTO(cart, ""), nil
	case line.Quantity <= 1:
		cart.removeLine(productID)
		notice = "Producto eliminado del carrito"
	default:
		line.Quantity--
	}

	if err := s.persist(ctx, token, cart, "decrement"); err != nil {
		return nil, err
	}
	return newDTO(cart, notice), nil
}

func (s *service) RemoveItem(ctx context.Context, token string, productID uuid.UUID, suppressNotice bool) (*DTO, error) {
	cart, err := s.store.Load(ctx, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}

	var notice string
	if cart.removeLine(productID) && !suppressNotice {
		notice = "Producto eliminado del carrito"
	}

	if err := s.persist(ctx, token, cart, "remove"); err != nil {
		return nil, err
	}
	return newDTO(cart, notice), nil
}

func (s *service) Clear(ctx context.Context, token string) (*DTO, error) {
	if err := s.store.Drop(ctx, token); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing cart")
	}
	if s.metrics != nil {
		s.metrics.IncCartMutation("clear")
	}
	return newDTO(&Cart{}, "Carrito vaciado"), nil
}

func (s *service) Lines(ctx context.Context, token string) ([]Line, error) {
	cart, err := s.store.Load(ctx, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}
	return cart.Lines, nil
}

func (s *service) persist(ctx context.Context, token string, cart *Cart, operation string) error {
	if err := s.store.Save(ctx, token, cart); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving cart")
	}
	if s.metrics != nil {
		s.metrics.IncCartMutation(operation)
	}
	return nil
}

func newDTO(cart *Cart, notice string) *DTO {
	lines := cart.Lines
	if lines == nil {
		lines = []Line{}
	}
	return &DTO{
		Lines:     lines,
		Total:     cart.Total().StringFixed(2),
		ItemCount: cart.ItemCount(),
		Notice:    notice,
	}
}
