package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dmoralesv/floreria-backend/pkg/db/models"
	pkgerrors "github.com/dmoralesv/floreria-backend/pkg/errors"
)

type stubProducts struct {
	rows map[uuid.UUID]*models.Product
}

func (s *stubProducts) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	row, ok := s.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func newTestCartService(t *testing.T, rows ...*models.Product) Service {
	t.Helper()
	products := &stubProducts{rows: map[uuid.UUID]*models.Product{}}
	for _, row := range rows {
		products.rows[row.ID] = row
	}
	svc, err := NewService(NewStore(newMemoryStore(), nil), products, nil)
	if err != nil {
		t.Fatalf("new cart service: %v", err)
	}
	return svc
}

func testProduct(name, price string) *models.Product {
	return &models.Product{
		ID:       uuid.New(),
		Name:     name,
		Slug:     name,
		Price:    decimal.RequireFromString(price),
		IsActive: true,
	}
}

func TestAddItemMergesQuantities(t *testing.T) {
	rosa := testProduct("Rosa Roja", "45.00")
	svc := newTestCartService(t, rosa)
	ctx := context.Background()

	dto, err := svc.AddItem(ctx, "t", rosa.ID, 1, false)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if dto.Notice != "Rosa Roja agregado al carrito" {
		t.Fatalf("unexpected notice %q", dto.Notice)
	}

	dto, err = svc.AddItem(ctx, "t", rosa.ID, 2, false)
	if err != nil {
		t.Fatalf("add item again: %v", err)
	}
	if dto.Notice != "Se agregaron 2 unidades de Rosa Roja" {
		t.Fatalf("unexpected merge notice %q", dto.Notice)
	}
	if len(dto.Lines) != 1 {
		t.Fatalf("expected a single merged line, got %d", len(dto.Lines))
	}
	if dto.Lines[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", dto.Lines[0].Quantity)
	}
	if dto.Total != "135.00" {
		t.Fatalf("unexpected total %q", dto.Total)
	}
}

func TestAddItemClampsNonPositiveQuantity(t *testing.T) {
	rosa := testProduct("Rosa Roja", "45.00")
	svc := newTestCartService(t, rosa)
	ctx := context.Background()

	for _, quantity := range []int{0, -3} {
		dto, err := svc.AddItem(ctx, uuid.NewString(), rosa.ID, quantity, false)
		if err != nil {
			t.Fatalf("add item with quantity %d: %v", quantity, err)
		}
		if dto.Lines[0].Quantity != 1 {
			t.Fatalf("expected clamp to 1 for quantity %d, got %d", quantity, dto.Lines[0].Quantity)
		}
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc := newTestCartService(t)

	_, err := svc.AddItem(context.Background(), "t", uuid.New(), 1, false)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddItemInactiveProduct(t *testing.T) {
	rosa := testProduct("Rosa Roja", "45.00")
	rosa.IsActive = false
	svc := newTestCartService(t, rosa)

	_, err := svc.AddItem(context.Background(), "t", rosa.ID, 1, false)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for inactive product, got %v", err)
	}
}

func TestDecrementItemSemantics(t *testing.T) {
	rosa := testProduct("Rosa Roja", "45.00")
	svc := newTestCartService(t, rosa)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "t", rosa.ID, 2, false); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	dto, err := svc.DecrementItem(ctx, "t", rosa.ID)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if dto.Lines[0].Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", dto.Lines[0].Quantity)
	}
	if dto.Notice != "" {
		t.Fatalf("expected no notice on plain decrement, got %q", dto.Notice)
	}

	dto, err = svc.DecrementItem(ctx, "t", rosa.ID)
	if err != nil {
		t.Fatalf("decrement to zero: %v", err)
	}
	if len(dto.Lines) != 0 {
		t.Fatal("expected line removed at quantity 1")
	}
	if dto.Notice != "Producto eliminado del carrito" {
		t.Fatalf("unexpected notice %q", dto.Notice)
	}
}

func TestDecrementMissingIDIsNoOp(t *testing.T) {
	rosa := testProduct("Rosa Roja", "45.00")
	svc := newTestCartService(t, rosa)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "t", rosa.ID, 1, false); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	dto, err := svc.DecrementItem(ctx, "t", uuid.New())
	if err != nil {
		t.Fatalf("decrement missing: %v", err)
	}
	if len(dto.Lines) != 1 || dto.Lines[0].Quantity != 1 {
		t.Fatal("expected cart untouched by missing-id decrement")
	}
}

func TestRemoveItem(t *testing.T) {
	rosa := testProduct("Rosa Roja", "45.00")
	girasol := testProduct("Girasoles", "35.50")
	svc := newTestCartService(t, rosa, girasol)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "t", rosa.ID, 2, false); err != nil {
		t.Fatalf("seed rosa: %v", err)
	}
	if _, err := svc.AddItem(ctx, "t", girasol.ID, 1, false); err != nil {
		t.Fatalf("seed girasol: %v", err)
	}

	dto, err := svc.RemoveItem(ctx, "t", rosa.ID, false)
	if err != nil {
		t.Fatalf("remove item: %v", err)
	}
	if dto.Notice != "Producto eliminado del carrito" {
		t.Fatalf("unexpected notice %q", dto.Notice)
	}
	if len(dto.Lines) != 1 || dto.Lines[0].ProductID != girasol.ID {
		t.Fatal("expected only girasol to remain")
	}
	if dto.Total != "35.50" {
		t.Fatalf("unexpected total %q", dto.Total)
	}
}

func TestSuppressedNoticeStillMutates(t *testing.T) {
	rosa := testProduct("Rosa Roja", "45.00")
	svc := newTestCartService(t, rosa)
	ctx := context.Background()

	dto, err := svc.AddItem(ctx, "t", rosa.ID, 2, true)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if dto.Notice != "" {
		t.Fatalf("expected suppressed notice, got %q", dto.Notice)
	}
	if len(dto.Lines) != 1 || dto.Lines[0].Quantity != 2 {
		t.Fatal("expected the line to merge despite suppression")
	}

	dto, err = svc.RemoveItem(ctx, "t", rosa.ID, true)
	if err != nil {
		t.Fatalf("remove item: %v", err)
	}
	if dto.Notice != "" {
		t.Fatalf("expected suppressed removal notice, got %q", dto.Notice)
	}
	if len(dto.Lines) != 0 {
		t.Fatal("expected the line removed despite suppression")
	}
}

func TestClearCart(t *testing.T) {
	rosa := testProduct("Rosa Roja", "45.00")
	svc := newTestCartService(t, rosa)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "t", rosa.ID, 2, false); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	dto, err := svc.Clear(ctx, "t")
	if err != nil {
		t.Fatalf("clear cart: %v", err)
	}
	if dto.Notice != "Carrito vaciado" {
		t.Fatalf("unexpected notice %q", dto.Notice)
	}
	if len(dto.Lines) != 0 || dto.Total != "0.00" {
		t.Fatalf("expected empty cart, got %+v", dto)
	}

	reloaded, err := svc.Get(ctx, "t")
	if err != nil {
		t.Fatalf("get after clear: %v", err)
	}
	if len(reloaded.Lines) != 0 {
		t.Fatal("expected cleared cart to stay empty")
	}
}

func TestCartsAreIsolatedByToken(t *testing.T) {
	rosa := testProduct("Rosa Roja", "45.00")
	svc := newTestCartService(t, rosa)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "token-a", rosa.ID, 1, false); err != nil {
		t.Fatalf("seed token-a: %v", err)
	}

	other, err := svc.Get(ctx, "token-b")
	if err != nil {
		t.Fatalf("get token-b: %v", err)
	}
	if len(other.Lines) != 0 {
		t.Fatal("expected token-b cart to be empty")
	}
}
