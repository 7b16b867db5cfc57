package product

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dmoralesv/floreria-backend/pkg/db/models"
)

func mustCreateTestCategory(t *testing.T, tx *gorm.DB) *models.Category {
	t.Helper()
	category := &models.Category{
		ID:       uuid.New(),
		Name:     "Ramos",
		Slug:     fmt.Sprintf("ramos-%s", uuid.NewString()),
		IsActive: true,
	}
	if err := tx.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return category
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, categoryID *uuid.UUID) *models.Product {
	t.Helper()
	name := fmt.Sprintf("Ramo Test %s", uuid.NewString())
	product := &models.Product{
		ID:         uuid.New(),
		CategoryID: categoryID,
		Name:       name,
		Slug:       Slugify(name),
		Price:      decimal.NewFromInt(120),
		Occasions:  pq.StringArray{"Cumpleaños"},
		IsActive:   true,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}
