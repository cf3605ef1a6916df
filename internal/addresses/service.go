package addresses

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grocemart/grocemart-backend/pkg/db/models"
	pkgerrors "github.com/grocemart/grocemart-backend/pkg/errors"
	"github.com/grocemart/grocemart-backend/pkg/maps"
	"github.com/grocemart/grocemart-backend/pkg/types"
)

type addressRepository interface {
	List(ctx context.Context, customerID uuid.UUID) ([]models.CustomerAddress, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.CustomerAddress, error)
	Create(ctx context.Context, row *models.CustomerAddress) error
	Update(ctx context.Context, row *models.CustomerAddress) error
	Delete(ctx context.Context, customerID, id uuid.UUID) error
}

type placesClient interface {
	Autocomplete(ctx context.Context, req maps.AutocompleteRequest) ([]maps.AutocompleteSuggestion, error)
	ResolvePlace(ctx context.Context, placeID string) (*maps.PlaceDetails, error)
}

// Service exposes the customer address book plus the Places proxy used by
// the address form.
type Service interface {
	List(ctx context.Context, customerID uuid.UUID) ([]AddressDTO, error)
	Get(ctx context.Context, customerID, id uuid.UUID) (*AddressDTO, error)
	Create(ctx context.Context, customerID uuid.UUID, input CreateAddressInput) (*AddressDTO, error)
	Update(ctx context.Context, customerID, id uuid.UUID, input UpdateAddressInput) (*AddressDTO, error)
	Delete(ctx context.Context, customerID, id uuid.UUID) error
	Suggest(ctx context.Context, input string) ([]SuggestionDTO, error)
	Resolve(ctx context.Context, placeID string) (*ResolvedPlaceDTO, error)
	Record(ctx context.Context, customerID, id uuid.UUID) (*models.CustomerAddress, error)
}

type service struct {
	repo   addressRepository
	places placesClient
}

// NewService builds an address service. The Places client may be nil when
// no API key is configured; suggest/resolve then report a dependency error.
func NewService(repo addressRepository, places placesClient) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	return &service{repo: repo, places: places}, nil
}

func (s *service) List(ctx context.Context, customerID uuid.UUID) ([]AddressDTO, error) {
	rows, err := s.repo.List(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	dtos := make([]AddressDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, toDTO(row))
	}
	return dtos, nil
}

func (s *service) Get(ctx context.Context, customerID, id uuid.UUID) (*AddressDTO, error) {
	row, err := s.Record(ctx, customerID, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(*row)
	return &dto, nil
}

// Record returns the raw row for checkout flows.
func (s *service) Record(ctx context.Context, customerID, id uuid.UUID) (*models.CustomerAddress, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	if row.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "address belongs to another customer")
	}
	return row, nil
}

func (s *service) Create(ctx context.Context, customerID uuid.UUID, input CreateAddressInput) (*AddressDTO, error) {
	if err := validateAddress(input.Recipient, input.Phone, input.Address); err != nil {
		return nil, err
	}

	row := &models.CustomerAddress{
		CustomerID: customerID,
		Label:      strings.TrimSpace(input.Label),
		Recipient:  strings.TrimSpace(input.Recipient),
		Phone:      strings.TrimSpace(input.Phone),
		Address:    input.Address,
		IsPrimary:  input.IsPrimary,
	}
	if row.Label == "" {
		row.Label = "home"
	}

	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
	}
	dto := toDTO(*row)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, customerID, id uuid.UUID, input UpdateAddressInput) (*AddressDTO, error) {
	row, err := s.Record(ctx, customerID, id)
	if err != nil {
		return nil, err
	}

	if input.Label != nil {
		row.Label = strings.TrimSpace(*input.Label)
	}
	if input.Recipient != nil {
		row.Recipient = strings.TrimSpace(*input.Recipient)
	}
	if input.Phone != nil {
		row.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		row.Address = *input.Address
	}
	if input.IsPrimary != nil {
		row.IsPrimary = *input.IsPrimary
	}
	if err := validateAddress(row.Recipient, row.Phone, row.Address); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update address")
	}
	dto := toDTO(*row)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, customerID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, customerID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete address")
	}
	return nil
}

func (s *service) Suggest(ctx context.Context, input string) ([]SuggestionDTO, error) {
	if s.places == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "address suggestions are not configured")
	}
	suggestions, err := s.places.Autocomplete(ctx, maps.AutocompleteRequest{Input: input})
	if err != nil {
		return nil, err
	}
	dtos := make([]SuggestionDTO, 0, len(suggestions))
	for _, sugg := range suggestions {
		dtos = append(dtos, SuggestionDTO{PlaceID: sugg.PlaceID, Description: sugg.Description})
	}
	return dtos, nil
}

func (s *service) Resolve(ctx context.Context, placeID string) (*ResolvedPlaceDTO, error) {
	if s.places == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "address resolution is not configured")
	}
	details, err := s.places.ResolvePlace(ctx, placeID)
	if err != nil {
		return nil, err
	}
	return &ResolvedPlaceDTO{
		PlaceID:          details.PlaceID,
		FormattedAddress: details.FormattedAddress,
		Location:         types.LatLng{Lat: details.Location.Latitude, Lng: details.Location.Longitude},
	}, nil
}

func validateAddress(recipient, phone string, addr types.Address) error {
	if strings.TrimSpace(recipient) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient is required")
	}
	if strings.TrimSpace(phone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}
	if strings.TrimSpace(addr.Line1) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "address line1 is required")
	}
	if strings.TrimSpace(addr.City) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "address city is required")
	}
	return nil
}
