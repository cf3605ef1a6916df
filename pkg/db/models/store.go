package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/grocemart/grocemart-backend/pkg/types"
)

// Store represents the canonical tenant model.
type Store struct {
	ID          uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string        `gorm:"column:name;not null"`
	Slug        string        `gorm:"column:slug;not null;uniqueIndex"`
	Description *string       `gorm:"column:description"`
	Phone       *string       `gorm:"column:phone"`
	Email       *string       `gorm:"column:email"`
	Address     types.Address `gorm:"column:address;type:jsonb;serializer:json;not null"`
	IsActive    bool          `gorm:"column:is_active;not null;default:true"`
	OwnerID     uuid.UUID     `gorm:"column:owner_id;type:uuid;not null"`
	CreatedAt   time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
