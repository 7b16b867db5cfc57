package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmoralesv/floreria-backend/pkg/enums"
)

// Order captures a submitted checkout before it is handed off to WhatsApp.
type Order struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartToken     uuid.UUID          `gorm:"column:cart_token;type:uuid;not null;index"`
	Status        enums.OrderStatus  `gorm:"column:status;type:text;not null;default:'submitted'"`
	CustomerName  string             `gorm:"column:customer_name;not null"`
	CustomerPhone string             `gorm:"column:customer_phone;not null"`
	DeliveryType  enums.DeliveryType `gorm:"column:delivery_type;type:text;not null"`
	RecipientName *string            `gorm:"column:recipient_name"`
	Address       *string            `gorm:"column:address"`
	District      *string            `gorm:"column:district"`
	Reference     *string            `gorm:"column:reference"`
	DeliveryDate  string             `gorm:"column:delivery_date;not null"`
	TimeSlot      string             `gorm:"column:time_slot;not null"`
	CardMessage   *string            `gorm:"column:card_message"`
	Notes         *string            `gorm:"column:notes"`
	Total         decimal.Decimal    `gorm:"column:total;type:numeric(10,2);not null"`
	WhatsAppLink  string             `gorm:"column:whatsapp_link;not null"`
	Lines         []OrderLine        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderLine is a priced snapshot of one cart line at submission time.
type OrderLine struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	ProductName string          `gorm:"column:product_name;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	LineTotal   decimal.Decimal `gorm:"column:line_total;type:numeric(10,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
