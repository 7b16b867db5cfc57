package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dmoralesv/floreria-backend/internal/cart"
	"github.com/dmoralesv/floreria-backend/internal/orders"
	"github.com/dmoralesv/floreria-backend/pkg/db/models"
	"github.com/dmoralesv/floreria-backend/pkg/enums"
	pkgerrors "github.com/dmoralesv/floreria-backend/pkg/errors"
	"github.com/dmoralesv/floreria-backend/pkg/outbox"
)

func newSubmitTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Order{}, &models.OrderLine{}, &models.OutboxEvent{}))
	return conn
}

type gormTxRunner struct {
	conn *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.conn.WithContext(ctx).Transaction(fn)
}

type fakeCartReader struct {
	lines   []cart.Line
	cleared []string
}

func (f *fakeCartReader) Lines(_ context.Context, _ string) ([]cart.Line, error) {
	return f.lines, nil
}

func (f *fakeCartReader) Clear(_ context.Context, token string) (*cart.DTO, error) {
	f.cleared = append(f.cleared, token)
	return &cart.DTO{Total: "0.00", Notice: "Carrito vaciado"}, nil
}

type fakePhoneSource struct {
	digits string
	err    error
}

func (f fakePhoneSource) WhatsAppDigits(context.Context) (string, error) {
	return f.digits, f.err
}

// txEmitter writes the event through the transaction handed to it, the same
// way the production emitter does.
type txEmitter struct {
	repo *outbox.Repository
	err  error
}

func (e txEmitter) Emit(_ context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if e.err != nil {
		return e.err
	}
	payload, err := json.Marshal(event.Data)
	if err != nil {
		return err
	}
	return e.repo.Insert(tx, models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     event.EventType,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		Payload:       payload,
	})
}

func newSubmitService(t *testing.T, conn *gorm.DB, carts *fakeCartReader, phones businessPhoneSource, emit eventEmitter) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Carts:      carts,
		Business:   phones,
		OrdersRepo: orders.NewRepository(conn),
		DB:         gormTxRunner{conn: conn},
		Events:     emit,
		Storefront: testStorefrontConfig(),
	})
	require.NoError(t, err)
	svc.(*service).now = func() time.Time { return limaTime(t, "2026-08-20 10:00") }
	return svc
}

func submitCartLines() []cart.Line {
	return []cart.Line{
		{
			ProductID: uuid.New(),
			Name:      "Rosa Roja",
			Slug:      "rosa-roja",
			UnitPrice: decimal.RequireFromString("45.00"),
			Quantity:  2,
		},
	}
}

func TestSubmitPersistsOrderAndEventTogether(t *testing.T) {
	conn := newSubmitTestDB(t)
	carts := &fakeCartReader{lines: submitCartLines()}
	svc := newSubmitService(t, conn, carts, fakePhoneSource{digits: "51987654321"}, txEmitter{repo: outbox.NewRepository(conn)})

	token := uuid.New()
	result, err := svc.Submit(context.Background(), token.String(), validDeliveryForm())
	require.NoError(t, err)
	require.Equal(t, "90.00", result.Total)
	require.Contains(t, result.DeepLink, "wa.me/51987654321")

	loaded, err := orders.NewRepository(conn).FindByID(context.Background(), result.OrderID)
	require.NoError(t, err)
	require.Equal(t, token, loaded.CartToken)
	require.Len(t, loaded.Lines, 1)
	require.Equal(t, "Rosa Roja", loaded.Lines[0].ProductName)

	var events []models.OutboxEvent
	require.NoError(t, conn.Find(&events).Error)
	require.Len(t, events, 1)
	require.Equal(t, enums.EventOrderSubmitted, events[0].EventType)
	require.Equal(t, result.OrderID, events[0].AggregateID)

	require.Equal(t, []string{token.String()}, carts.cleared)
}

func TestSubmitRollsBackOrderWhenEventInsertFails(t *testing.T) {
	conn := newSubmitTestDB(t)
	carts := &fakeCartReader{lines: submitCartLines()}
	svc := newSubmitService(t, conn, carts, fakePhoneSource{digits: "51987654321"}, txEmitter{err: errors.New("outbox unavailable")})

	_, err := svc.Submit(context.Background(), uuid.NewString(), validDeliveryForm())
	require.Error(t, err)

	var orderCount int64
	require.NoError(t, conn.Model(&models.Order{}).Count(&orderCount).Error)
	require.Zero(t, orderCount)
	require.Empty(t, carts.cleared, "cart must survive a failed submission")
}

func TestSubmitMissingBusinessPhoneLeavesCartIntact(t *testing.T) {
	conn := newSubmitTestDB(t)
	carts := &fakeCartReader{lines: submitCartLines()}
	phoneErr := pkgerrors.New(pkgerrors.CodeStateConflict, "el teléfono de la tienda no está configurado")
	svc := newSubmitService(t, conn, carts, fakePhoneSource{err: phoneErr}, txEmitter{repo: outbox.NewRepository(conn)})

	_, err := svc.Submit(context.Background(), uuid.NewString(), validDeliveryForm())
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())

	var orderCount, eventCount int64
	require.NoError(t, conn.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, conn.Model(&models.OutboxEvent{}).Count(&eventCount).Error)
	require.Zero(t, orderCount)
	require.Zero(t, eventCount)
	require.Empty(t, carts.cleared)
}
