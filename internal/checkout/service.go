package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dmoralesv/floreria-backend/internal/cart"
	"github.com/dmoralesv/floreria-backend/internal/orders"
	"github.com/dmoralesv/floreria-backend/internal/whatsapp"
	"github.com/dmoralesv/floreria-backend/pkg/config"
	"github.com/dmoralesv/floreria-backend/pkg/db/models"
	"github.com/dmoralesv/floreria-backend/pkg/enums"
	pkgerrors "github.com/dmoralesv/floreria-backend/pkg/errors"
	"github.com/dmoralesv/floreria-backend/pkg/metrics"
	"github.com/dmoralesv/floreria-backend/pkg/outbox"
)

// SubmitResult is the checkout response: the persisted order plus the deep
// link and the serialized message so the client can fall back to copy/paste.
type SubmitResult struct {
	OrderID  uuid.UUID `json:"order_id"`
	DeepLink string    `json:"deep_link"`
	Message  string    `json:"message"`
	Total    string    `json:"total"`
}

type cartReader interface {
	Lines(ctx context.Context, token string) ([]cart.Line, error)
	Clear(ctx context.Context, token string) (*cart.DTO, error)
}

type businessPhoneSource interface {
	WhatsAppDigits(ctx context.Context) (string, error)
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service validates the checkout form and hands the order off to WhatsApp.
type Service interface {
	Submit(ctx context.Context, cartToken string, form Form) (*SubmitResult, error)
	TimeSlots(ctx context.Context, district, date string) (*SlotsResult, error)
}

type service struct {
	carts      cartReader
	business   businessPhoneSource
	ordersRepo *orders.Repository
	tx         txRunner
	events     eventEmitter
	storefront config.StorefrontConfig
	metrics    *metrics.StorefrontMetrics
	now        func() time.Time
}

// ServiceParams bundles the dependencies required to build a checkout service.
type ServiceParams struct {
	Carts      cartReader
	Business   businessPhoneSource
	OrdersRepo *orders.Repository
	DB         txRunner
	Events     eventEmitter
	Storefront config.StorefrontConfig
	Metrics    *metrics.StorefrontMetrics
}

// NewService constructs a checkout service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Carts == nil {
		return nil, fmt.Errorf("cart reader required")
	}
	if params.Business == nil {
		return nil, fmt.Errorf("business phone source required")
	}
	if params.OrdersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db client required")
	}
	if params.Events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	return &service{
		carts:      params.Carts,
		business:   params.Business,
		ordersRepo: params.OrdersRepo,
		tx:         params.DB,
		events:     params.Events,
		storefront: params.Storefront,
		metrics:    params.Metrics,
		now:        time.Now,
	}, nil
}

func (s *service) TimeSlots(_ context.Context, district, date string) (*SlotsResult, error) {
	return AvailableSlots(s.storefront, district, date, s.now())
}

// Submit runs the full handoff: validate, serialize, persist, clear. Any
// failure before the transaction commits leaves the cart untouched.
func (s *service) Submit(ctx context.Context, cartToken string, form Form) (*SubmitResult, error) {
	token, err := uuid.Parse(strings.TrimSpace(cartToken))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token missing or malformed")
	}

	valid, err := form.Validate(s.storefront, s.now())
	if err != nil {
		return nil, err
	}

	lines, err := s.carts.Lines(ctx, token.String())
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "el carrito está vacío")
	}

	digits, err := s.business.WhatsAppDigits(ctx)
	if err != nil {
		return nil, err
	}

	messageLines := make([]whatsapp.OrderLine, len(lines))
	for i, line := range lines {
		messageLines[i] = whatsapp.OrderLine{
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
	}
	message, deepLink, err := whatsapp.ComposeOrder(messageLines, whatsapp.OrderForm{
		CustomerName:  valid.CustomerName,
		CustomerPhone: valid.CustomerPhone,
		DeliveryType:  valid.DeliveryType,
		RecipientName: valid.RecipientName,
		Address:       valid.Address,
		District:      valid.District,
		Reference:     valid.Reference,
		DeliveryDate:  valid.DeliveryDate,
		TimeSlot:      valid.TimeSlot,
		CardMessage:   valid.CardMessage,
		Notes:         valid.Notes,
	}, digits, s.storefront.CountryCallingCode)
	if err != nil {
		return nil, err
	}

	order := buildOrder(token, valid, lines, deepLink)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, txErr := s.ordersRepo.WithTx(tx).Create(ctx, order); txErr != nil {
			return txErr
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderSubmitted,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Data: map[string]any{
				"cart_token":    token.String(),
				"delivery_type": valid.DeliveryType.String(),
				"total":         order.Total.StringFixed(2),
				"line_count":    len(lines),
			},
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording order")
	}

	if s.metrics != nil {
		s.metrics.IncOrderSubmitted(valid.DeliveryType.String())
	}

	// The order is committed; a failed cart drop only means a stale snapshot
	// that expires on its own.
	_, _ = s.carts.Clear(ctx, token.String())

	return &SubmitResult{
		OrderID:  order.ID,
		DeepLink: deepLink,
		Message:  message,
		Total:    order.Total.StringFixed(2),
	}, nil
}

func buildOrder(token uuid.UUID, valid *ValidForm, lines []cart.Line, deepLink string) *models.Order {
	order := &models.Order{
		ID:            uuid.New(),
		CartToken:     token,
		Status:        enums.OrderStatusSubmitted,
		CustomerName:  valid.CustomerName,
		CustomerPhone: valid.CustomerPhone,
		DeliveryType:  valid.DeliveryType,
		DeliveryDate:  valid.DeliveryDate,
		TimeSlot:      valid.TimeSlot,
		WhatsAppLink:  deepLink,
	}
	if valid.DeliveryType == enums.DeliveryTypeDelivery {
		order.RecipientName = optional(valid.RecipientName)
		order.Address = optional(valid.Address)
		order.District = optional(valid.District)
		order.Reference = optional(valid.Reference)
	}
	order.CardMessage = optional(valid.CardMessage)
	order.Notes = optional(valid.Notes)

	total := decimal.Zero
	order.Lines = make([]models.OrderLine, len(lines))
	for i, line := range lines {
		subtotal := line.Subtotal()
		total = total.Add(subtotal)
		order.Lines[i] = models.OrderLine{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   line.ProductID,
			ProductName: line.Name,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			LineTotal:   subtotal,
		}
	}
	order.Total = total
	return order
}

func optional(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
