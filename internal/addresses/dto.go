package addresses

import (
	"time"

	"github.com/google/uuid"

	"github.com/grocemart/grocemart-backend/pkg/db/models"
	"github.com/grocemart/grocemart-backend/pkg/types"
)

// CreateAddressInput is the payload for a new saved address.
type CreateAddressInput struct {
	Label     string
	Recipient string
	Phone     string
	Address   types.Address
	IsPrimary bool
}

// UpdateAddressInput carries partial updates; nil fields are untouched.
type UpdateAddressInput struct {
	Label     *string
	Recipient *string
	Phone     *string
	Address   *types.Address
	IsPrimary *bool
}

// AddressDTO is the client-facing saved address.
type AddressDTO struct {
	ID        uuid.UUID     `json:"id"`
	Label     string        `json:"label"`
	Recipient string        `json:"recipient"`
	Phone     string        `json:"phone"`
	Address   types.Address `json:"address"`
	IsPrimary bool          `json:"is_primary"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// SuggestionDTO is one autocomplete candidate.
type SuggestionDTO struct {
	PlaceID     string `json:"place_id"`
	Description string `json:"description"`
}

// ResolvedPlaceDTO is the canonical location for a picked suggestion.
type ResolvedPlaceDTO struct {
	PlaceID          string       `json:"place_id"`
	FormattedAddress string       `json:"formatted_address"`
	Location         types.LatLng `json:"location"`
}

func toDTO(row models.CustomerAddress) AddressDTO {
	return AddressDTO{
		ID:        row.ID,
		Label:     row.Label,
		Recipient: row.Recipient,
		Phone:     row.Phone,
		Address:   row.Address,
		IsPrimary: row.IsPrimary,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
