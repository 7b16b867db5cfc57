package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product represents a catalog listing such as a bouquet or arrangement.
type Product struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID     *uuid.UUID       `gorm:"column:category_id;type:uuid"`
	Category       *Category        `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Name           string           `gorm:"column:name;not null"`
	Slug           string           `gorm:"column:slug;not null;uniqueIndex"`
	Description    *string          `gorm:"column:description"`
	Price          decimal.Decimal  `gorm:"column:price;type:numeric(10,2);not null"`
	CompareAtPrice *decimal.Decimal `gorm:"column:compare_at_price;type:numeric(10,2)"`
	ImageURL       *string          `gorm:"column:image_url"`
	ImageObject    *string          `gorm:"column:image_object"`
	Occasions      pq.StringArray   `gorm:"column:occasions;type:text[];not null;default:ARRAY[]::text[]"`
	IsActive       bool             `gorm:"column:is_active;not null;default:true"`
	IsFeatured     bool             `gorm:"column:is_featured;not null;default:false"`
	Position       int              `gorm:"column:position;not null;default:0"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
