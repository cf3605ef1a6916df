package stores

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grocemart/grocemart-backend/pkg/db/models"
	"github.com/grocemart/grocemart-backend/pkg/enums"
	pkgerrors "github.com/grocemart/grocemart-backend/pkg/errors"
	"github.com/grocemart/grocemart-backend/pkg/outbox"
	"github.com/grocemart/grocemart-backend/pkg/outbox/payloads"
	"github.com/grocemart/grocemart-backend/pkg/types"
)

type storeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	FindBySlug(ctx context.Context, slug string) (*models.Store, error)
	Update(ctx context.Context, store *models.Store) error
	UpdateTx(tx *gorm.DB, store *models.Store) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type locationCache interface {
	Put(ctx context.Context, scope, id string, loc types.LatLng) error
	Get(ctx context.Context, scope, id string) (types.LatLng, bool, error)
}

const geoScope = "store"

// Service exposes store profile operations.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*StoreDTO, error)
	GetBySlug(ctx context.Context, slug string) (*StoreDTO, error)
	Update(ctx context.Context, storeID uuid.UUID, input UpdateStoreInput) (*StoreDTO, error)
	Location(ctx context.Context, storeID uuid.UUID) (types.LatLng, error)
}

type service struct {
	repo   storeRepository
	geo    locationCache
	tx     txRunner
	events eventPublisher
}

// NewService builds a store service. The geo cache is optional; without it
// every Location call hits the database. When both the tx runner and the
// event publisher are provided, profile updates queue a store_updated
// outbox event in the same transaction.
func NewService(repo storeRepository, geo locationCache, tx txRunner, events eventPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	return &service{repo: repo, geo: geo, tx: tx, events: events}, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*StoreDTO, error) {
	store, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(*store)
	return &dto, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*StoreDTO, error) {
	trimmed := strings.TrimSpace(slug)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store slug is required")
	}
	store, err := s.repo.FindBySlug(ctx, trimmed)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	dto := toDTO(*store)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, storeID uuid.UUID, input UpdateStoreInput) (*StoreDTO, error) {
	store, err := s.load(ctx, storeID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name cannot be empty")
		}
		store.Name = trimmed
	}
	if input.Description != nil {
		store.Description = input.Description
	}
	if input.Phone != nil {
		store.Phone = input.Phone
	}
	if input.Email != nil {
		store.Email = input.Email
	}
	if input.Address != nil {
		if strings.TrimSpace(input.Address.Line1) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "store address line1 is required")
		}
		store.Address = *input.Address
	}

	if err := s.persist(ctx, store, input.Address != nil); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update store")
	}
	if s.geo != nil && input.Address != nil {
		// Refresh the cached origin so the next quote uses the new location.
		_ = s.geo.Put(ctx, geoScope, store.ID.String(), store.Address.Location())
	}
	dto := toDTO(*store)
	return &dto, nil
}

// persist writes the store row and, when wired, the store_updated outbox
// event in one transaction.
func (s *service) persist(ctx context.Context, store *models.Store, addressChanged bool) error {
	if s.tx == nil || s.events == nil {
		return s.repo.Update(ctx, store)
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.UpdateTx(tx, store); err != nil {
			return err
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventStoreUpdated,
			AggregateType: enums.AggregateStore,
			AggregateID:   store.ID,
			Version:       1,
			Data: payloads.StoreUpdatedEvent{
				StoreID:        store.ID,
				Slug:           store.Slug,
				AddressChanged: addressChanged,
			},
		})
	})
}

// Location returns the store's coordinates, served from the geo cache when
// fresh and re-cached from the database on a miss.
func (s *service) Location(ctx context.Context, storeID uuid.UUID) (types.LatLng, error) {
	if s.geo != nil {
		if loc, ok, err := s.geo.Get(ctx, geoScope, storeID.String()); err == nil && ok {
			return loc, nil
		}
	}

	store, err := s.load(ctx, storeID)
	if err != nil {
		return types.LatLng{}, err
	}
	loc := store.Address.Location()
	if s.geo != nil {
		_ = s.geo.Put(ctx, geoScope, storeID.String(), loc)
	}
	return loc, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return store, nil
}
