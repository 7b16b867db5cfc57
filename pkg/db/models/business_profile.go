package models

import (
	"time"

	"github.com/google/uuid"
)

// BusinessProfile holds the single-row storefront identity: name, contact
// phones, address and opening schedule. The WhatsApp phone is stored as
// entered; normalization happens at serialization time.
type BusinessProfile struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreName     string    `gorm:"column:store_name;not null"`
	WhatsAppPhone string    `gorm:"column:whatsapp_phone;not null"`
	LandlinePhone *string   `gorm:"column:landline_phone"`
	Address       *string   `gorm:"column:address"`
	LocationURL   *string   `gorm:"column:location_url"`
	Schedule      *string   `gorm:"column:schedule"`
	Email         *string   `gorm:"column:email"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
