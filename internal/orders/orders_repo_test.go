package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dmoralesv/floreria-backend/pkg/db/models"
	"github.com/dmoralesv/floreria-backend/pkg/enums"
	"github.com/dmoralesv/floreria-backend/pkg/pagination"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Order{}, &models.OrderLine{}))
	return conn
}

func seedOrder(t *testing.T, repo *Repository, name string) *models.Order {
	t.Helper()
	address := "Av. Balta 123"
	district := "Chiclayo"
	order := &models.Order{
		ID:            uuid.New(),
		CartToken:     uuid.New(),
		Status:        enums.OrderStatusSubmitted,
		CustomerName:  name,
		CustomerPhone: "912345678",
		DeliveryType:  enums.DeliveryTypeDelivery,
		Address:       &address,
		District:      &district,
		DeliveryDate:  "2026-09-01",
		TimeSlot:      "13:00 - 16:00",
		Total:         decimal.RequireFromString("90.00"),
		WhatsAppLink:  "https://wa.me/51987654321?text=pedido",
		Lines: []models.OrderLine{
			{
				ID:          uuid.New(),
				ProductID:   uuid.New(),
				ProductName: "Rosa Roja",
				UnitPrice:   decimal.RequireFromString("45.00"),
				Quantity:    2,
				LineTotal:   decimal.RequireFromString("90.00"),
			},
		},
	}
	created, err := repo.Create(context.Background(), order)
	require.NoError(t, err)
	return created
}

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	order := seedOrder(t, repo, "Ana")

	loaded, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, "Ana", loaded.CustomerName)
	require.Len(t, loaded.Lines, 1)
	require.Equal(t, "Rosa Roja", loaded.Lines[0].ProductName)
	require.True(t, loaded.Total.Equal(decimal.RequireFromString("90.00")))
}

func TestRepositoryUpdateStatus(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	order := seedOrder(t, repo, "Ana")

	require.NoError(t, repo.UpdateStatus(ctx, order.ID, enums.OrderStatusConfirmed))

	loaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, enums.OrderStatusConfirmed, loaded.Status)
}

func TestRepositoryListFiltersByStatus(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	first := seedOrder(t, repo, "Ana")
	second := seedOrder(t, repo, "Luis")
	require.NoError(t, repo.UpdateStatus(ctx, second.ID, enums.OrderStatusConfirmed))

	rows, _, err := repo.List(ctx, ListFilter{
		Status:     enums.OrderStatusSubmitted,
		Pagination: pagination.Params{Limit: 10},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, first.ID, rows[0].ID)
}
