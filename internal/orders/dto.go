package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmoralesv/floreria-backend/pkg/db/models"
	"github.com/dmoralesv/floreria-backend/pkg/enums"
)

// OrderDTO is the admin-facing order payload.
type OrderDTO struct {
	ID            uuid.UUID          `json:"id"`
	Status        enums.OrderStatus  `json:"status"`
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone"`
	DeliveryType  enums.DeliveryType `json:"delivery_type"`
	RecipientName *string            `json:"recipient_name,omitempty"`
	Address       *string            `json:"address,omitempty"`
	District      *string            `json:"district,omitempty"`
	Reference     *string            `json:"reference,omitempty"`
	DeliveryDate  string             `json:"delivery_date"`
	TimeSlot      string             `json:"time_slot"`
	CardMessage   *string            `json:"card_message,omitempty"`
	Notes         *string            `json:"notes,omitempty"`
	Total         string             `json:"total"`
	WhatsAppLink  string             `json:"whatsapp_link"`
	Lines         []OrderLineDTO     `json:"lines"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// OrderLineDTO is one priced line of an order.
type OrderLineDTO struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	UnitPrice   string    `json:"unit_price"`
	Quantity    int       `json:"quantity"`
	LineTotal   string    `json:"line_total"`
}

// OrderListResult wraps a page of orders plus the next cursor.
type OrderListResult struct {
	Items      []OrderDTO `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// NewOrderDTO builds a DTO from the persisted model.
func NewOrderDTO(order *models.Order) *OrderDTO {
	lines := make([]OrderLineDTO, len(order.Lines))
	for i, line := range order.Lines {
		lines[i] = OrderLineDTO{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice.StringFixed(2),
			Quantity:    line.Quantity,
			LineTotal:   line.LineTotal.StringFixed(2),
		}
	}
	return &OrderDTO{
		ID:            order.ID,
		Status:        order.Status,
		CustomerName:  order.CustomerName,
		CustomerPhone: order.CustomerPhone,
		DeliveryType:  order.DeliveryType,
		RecipientName: order.RecipientName,
		Address:       order.Address,
		District:      order.District,
		Reference:     order.Reference,
		DeliveryDate:  order.DeliveryDate,
		TimeSlot:      order.TimeSlot,
		CardMessage:   order.CardMessage,
		Notes:         order.Notes,
		Total:         order.Total.StringFixed(2),
		WhatsAppLink:  order.WhatsAppLink,
		Lines:         lines,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}
