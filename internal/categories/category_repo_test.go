package category

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/dmoralesv/floreria-backend/pkg/db/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("FLORERIA_DB_DSN")
	if dsn == "" {
		t.Skip("FLORERIA_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func mustCreateCategory(t *testing.T, tx *gorm.DB, name string, position int, active bool) *models.Category {
	t.Helper()
	category := &models.Category{
		ID:       uuid.New(),
		Name:     name,
		Slug:     fmt.Sprintf("%s-%s", name, uuid.NewString()),
		Position: position,
		IsActive: active,
	}
	if err := tx.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return category
}

func TestRepositoryCategoryFlow(t *testing.T) {
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

	category := mustCreateCategory(t, tx, "ramos", 1, true)

	found, err := repo.FindByID(ctx, category.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if found.Name != "ramos" {
		t.Fatalf("unexpected name %q", found.Name)
	}

	found.Position = 5
	if _, err := repo.Update(ctx, found); err != nil {
		t.Fatalf("update category: %v", err)
	}

	bySlug, err := repo.FindBySlug(ctx, category.Slug)
	if err != nil {
		t.Fatalf("find by slug: %v", err)
	}
	if bySlug.Position != 5 {
		t.Fatalf("expected position 5, got %d", bySlug.Position)
	}

	if err := repo.Delete(ctx, category.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	if _, err := repo.FindByID(ctx, category.ID); err != gorm.ErrRecordNotFound {
		t.Fatalf("expected record not found after delete, got %v", err)
	}
}

func TestRepositoryListOrdering(t *testing.T) {
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

	second := mustCreateCategory(t, tx, "cajas", 2, true)
	first := mustCreateCategory(t, tx, "arreglos", 1, true)
	hidden := mustCreateCategory(t, tx, "descontinuados", 0, false)

	rows, err := repo.List(ctx, true)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	var firstIdx, secondIdx = -1, -1
	for i, row := range rows {
		switch row.ID {
		case first.ID:
			firstIdx = i
		case second.ID:
			secondIdx = i
		case hidden.ID:
			t.Fatal("inactive category leaked into active listing")
		}
	}
	if firstIdx == -1 || secondIdx == -1 || firstIdx > secondIdx {
		t.Fatalf("expected position ordering, got indexes %d and %d", firstIdx, secondIdx)
	}
}
