package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

type memoryStore struct {
	values map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]string{}}
}

func (m *memoryStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.values[key] = value.(string)
	return nil
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	value, ok := m.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return value, nil
}

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func (m *memoryStore) CartKey(token string) string {
	return "flor:cart:" + token
}

func TestStoreRoundTripPreservesOrderAndQuantities(t *testing.T) {
	store := NewStore(newMemoryStore(), nil)
	ctx := context.Background()

	first := uuid.New()
	second := uuid.New()
	cart := &Cart{Lines: []Line{
		{ProductID: first, Name: "Rosa Roja", UnitPrice: decimal.RequireFromString("45.00"), Quantity: 2},
		{ProductID: second, Name: "Girasoles", UnitPrice: decimal.RequireFromString("35.50"), Quantity: 1},
	}}

	if err := store.Save(ctx, "token-1", cart); err != nil {
		t.Fatalf("save cart: %v", err)
	}

	loaded, err := store.Load(ctx, "token-1")
	if err != nil {
		t.Fatalf("load cart: %v", err)
	}
	if len(loaded.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(loaded.Lines))
	}
	if loaded.Lines[0].ProductID != first || loaded.Lines[1].ProductID != second {
		t.Fatal("line order not preserved")
	}
	if loaded.Lines[0].Quantity != 2 || loaded.Lines[1].Quantity != 1 {
		t.Fatal("quantities not preserved")
	}
	if !loaded.Total().Equal(decimal.RequireFromString("125.50")) {
		t.Fatalf("unexpected total %s", loaded.Total())
	}
}

func TestStoreMissingKeyIsEmptyCart(t *testing.T) {
	store := NewStore(newMemoryStore(), nil)

	cart, err := store.Load(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("load cart: %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatal("expected empty cart for missing key")
	}
}

func TestStoreCorruptSnapshotDegradesToEmpty(t *testing.T) {
	backend := newMemoryStore()
	backend.values["flor:cart:bad"] = "{not json"
	store := NewStore(backend, nil)

	cart, err := store.Load(context.Background(), "bad")
	if err != nil {
		t.Fatalf("load cart: %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatal("expected corrupt snapshot to load as empty cart")
	}
}

func TestStoreUnknownVersionDegradesToEmpty(t *testing.T) {
	backend := newMemoryStore()
	backend.values["flor:cart:v9"] = `{"version":9,"lines":[{"product_id":"` + uuid.NewString() + `","quantity":3}]}`
	store := NewStore(backend, nil)

	cart, err := store.Load(context.Background(), "v9")
	if err != nil {
		t.Fatalf("load cart: %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatal("expected unknown version to load as empty cart")
	}
}

func TestStoreDrop(t *testing.T) {
	backend := newMemoryStore()
	store := NewStore(backend, nil)
	ctx := context.Background()

	if err := store.Save(ctx, "token-1", &Cart{Lines: []Line{{ProductID: uuid.New(), Quantity: 1}}}); err != nil {
		t.Fatalf("save cart: %v", err)
	}
	if err := store.Drop(ctx, "token-1"); err != nil {
		t.Fatalf("drop cart: %v", err)
	}
	cart, err := store.Load(ctx, "token-1")
	if err != nil {
		t.Fatalf("load cart: %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatal("expected dropped cart to be empty")
	}
}
