package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/grocemart/grocemart-backend/pkg/types"
)

// CustomerAddress is a saved delivery address in the customer's address book.
type CustomerAddress struct {
	ID         uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID uuid.UUID     `gorm:"column:customer_id;type:uuid;not null;index"`
	Label      string        `gorm:"column:label;not null"`
	Recipient  string        `gorm:"column:recipient;not null"`
	Phone      string        `gorm:"column:phone;not null"`
	Address    types.Address `gorm:"column:address;type:jsonb;serializer:json;not null"`
	IsPrimary  bool          `gorm:"column:is_primary;not null;default:false"`
	CreatedAt  time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
