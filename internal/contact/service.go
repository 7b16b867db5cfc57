package contact

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmoralesv/floreria-backend/internal/checkout"
	"github.com/dmoralesv/floreria-backend/internal/whatsapp"
	"github.com/dmoralesv/floreria-backend/pkg/db"
	"github.com/dmoralesv/floreria-backend/pkg/db/models"
	"github.com/dmoralesv/floreria-backend/pkg/enums"
	pkgerrors "github.com/dmoralesv/floreria-backend/pkg/errors"
	"github.com/dmoralesv/floreria-backend/pkg/outbox"
)

// Request is the contact form payload.
type Request struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// Result carries the persisted message id and the deep link the storefront
// opens.
type Result struct {
	MessageID uuid.UUID `json:"message_id"`
	DeepLink  string    `json:"deep_link"`
	Message   string    `json:"message"`
}

type businessPhoneSource interface {
	WhatsAppDigits(ctx context.Context) (string, error)
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service renders contact form submissions into the deep-link machinery.
type Service interface {
	Submit(ctx context.Context, req Request) (*Result, error)
}

type service struct {
	dbClient *db.Client
	business businessPhoneSource
	events   eventEmitter
}

// NewService constructs a contact service instance.
func NewService(dbClient *db.Client, business businessPhoneSource, events eventEmitter) (Service, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if business == nil {
		return nil, fmt.Errorf("business phone source required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	return &service{dbClient: dbClient, business: business, events: events}, nil
}

func (s *service) Submit(ctx context.Context, req Request) (*Result, error) {
	name := strings.TrimSpace(req.Name)
	message := strings.TrimSpace(req.Message)
	phone, ok := checkout.NormalizeCustomerPhone(req.Phone)

	details := map[string]string{}
	if name == "" {
		details["name"] = "el nombre es obligatorio"
	}
	if !ok {
		details["phone"] = "el teléfono debe tener 9 dígitos y empezar con 9"
	}
	if message == "" {
		details["message"] = "el mensaje es obligatorio"
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "el formulario tiene errores").WithDetails(details)
	}

	digits, err := s.business.WhatsAppDigits(ctx)
	if err != nil {
		return nil, err
	}

	text := whatsapp.BuildContactMessage(name, phone, message)
	deepLink := whatsapp.BuildDeepLink(digits, text)

	row := &models.ContactMessage{
		ID:      uuid.New(),
		Name:    name,
		Phone:   phone,
		Message: message,
	}
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if txErr := tx.WithContext(ctx).Create(row).Error; txErr != nil {
			return txErr
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventContactRequested,
			AggregateType: enums.AggregateContact,
			AggregateID:   row.ID,
			Data: map[string]string{
				"name":  name,
				"phone": phone,
			},
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording contact message")
	}

	return &Result{
		MessageID: row.ID,
		DeepLink:  deepLink,
		Message:   text,
	}, nil
}
