package product

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmoralesv/floreria-backend/pkg/pagination"
)

func TestRepositoryProductFlow(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	category := mustCreateTestCategory(t, tx)
	product := mustCreateTestProduct(t, tx, &category.ID)

	found, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if found.Category == nil || found.Category.ID != category.ID {
		t.Fatal("expected category to be preloaded")
	}

	bySlug, err := repo.FindBySlug(ctx, product.Slug)
	if err != nil {
		t.Fatalf("find by slug: %v", err)
	}
	if bySlug.ID != product.ID {
		t.Fatalf("expected product %s, got %s", product.ID, bySlug.ID)
	}

	found.Name = "Ramo Renombrado"
	found.Slug = Slugify(found.Name)
	found.Category = nil
	if _, err := repo.Update(ctx, found); err != nil {
		t.Fatalf("update product: %v", err)
	}

	updated, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if updated.Slug != "ramo-renombrado" {
		t.Fatalf("expected updated slug, got %q", updated.Slug)
	}

	if err := repo.Delete(ctx, product.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	if _, err := repo.FindByID(ctx, product.ID); err != gorm.ErrRecordNotFound {
		t.Fatalf("expected record not found after delete, got %v", err)
	}
}

func TestRepositoryListFilters(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	category := mustCreateTestCategory(t, tx)
	visible := mustCreateTestProduct(t, tx, &category.ID)

	hidden := mustCreateTestProduct(t, tx, nil)
	hidden.IsActive = false
	if err := tx.Save(hidden).Error; err != nil {
		t.Fatalf("hide product: %v", err)
	}

	rows, _, err := repo.List(ctx, ListFilter{
		CategorySlug: category.Slug,
		OnlyActive:   true,
		Pagination:   pagination.Params{Limit: 10},
	})
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != visible.ID {
		t.Fatalf("expected only the visible category product, got %d rows", len(rows))
	}

	rows, _, err = repo.List(ctx, ListFilter{
		Occasion:   "Cumpleaños",
		OnlyActive: true,
		Pagination: pagination.Params{Limit: 10},
	})
	if err != nil {
		t.Fatalf("list by occasion: %v", err)
	}
	for _, row := range rows {
		if row.ID == hidden.ID {
			t.Fatal("hidden product leaked into active listing")
		}
	}
}

func TestRepositoryFindByIDs(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	first := mustCreateTestProduct(t, tx, nil)
	second := mustCreateTestProduct(t, tx, nil)

	rows, err := repo.FindByIDs(ctx, []uuid.UUID{first.ID, second.ID, uuid.New()})
	if err != nil {
		t.Fatalf("find by ids: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 products, got %d", len(rows))
	}
}
