package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmoralesv/floreria-backend/pkg/enums"
)

// SocialLink points the storefront footer at an external profile.
type SocialLink struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Network   enums.SocialNetwork `gorm:"column:network;type:text;not null;uniqueIndex"`
	URL       string              `gorm:"column:url;not null"`
	IsActive  bool                `gorm:"column:is_active;not null;default:true"`
	Position  int                 `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
