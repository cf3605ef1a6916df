package shipping

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/grocemart/grocemart-backend/pkg/enums"
	pkgerrors "github.com/grocemart/grocemart-backend/pkg/errors"
	"github.com/grocemart/grocemart-backend/pkg/logger"
	"github.com/grocemart/grocemart-backend/pkg/types"
)

// Option is one quoted shipping choice.
type Option struct {
	Courier      enums.Courier             `json:"courier"`
	ServiceLevel enums.CourierServiceLevel `json:"service_level"`
	Description  string                    `json:"description"`
	CostCents    int64                     `json:"cost_cents"`
	ETD          string                    `json:"etd"`
}

// Selection converts the option into the persistable session shape.
func (o Option) Selection() types.ShippingSelection {
	return types.ShippingSelection{
		Courier:      o.Courier.String(),
		ServiceLevel: o.ServiceLevel.String(),
		Description:  o.Description,
		CostCents:    o.CostCents,
		ETD:          o.ETD,
	}
}

// QuoteRequest describes one rate lookup.
type QuoteRequest struct {
	CustomerID  uuid.UUID
	AddressID   uuid.UUID
	Origin      types.LatLng
	Destination types.LatLng
	WeightGrams int64
}

// Service quotes shipping options across the courier table.
type Service interface {
	Quote(ctx context.Context, req QuoteRequest) ([]Option, error)
}

type rater func(ctx context.Context, courier enums.Courier, req QuoteRequest) ([]Option, error)

// activeQuote tracks an in-flight quote. The generation number identifies
// which quote owns the map entry; cancel funcs are not comparable.
type activeQuote struct {
	cancel context.CancelFunc
	gen    uint64
}

type service struct {
	logg    *logger.Logger
	rate    rater
	mu      sync.Mutex
	nextGen uint64
	active  map[string]activeQuote
}

// NewService builds the quoter. A nil rater uses the built-in tariff table.
func NewService(logg *logger.Logger, rate rater) (Service, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if rate == nil {
		rate = tariffRater
	}
	return &service{
		logg:   logg,
		rate:   rate,
		active: make(map[string]activeQuote),
	}, nil
}

// Quote rates the request against every courier. Couriers fail
// independently; their errors aggregate, and the quote only fails when no
// courier produced an option. A new quote for the same customer and address
// cancels any in-flight one, so a slow earlier response can never land
// after a fresher quote.
func (s *service) Quote(ctx context.Context, req QuoteRequest) ([]Option, error) {
	if req.WeightGrams < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "weight cannot be negative")
	}

	ctx, cancel := context.WithCancel(ctx)
	key, gen := s.supersede(req, cancel)
	defer s.release(key, gen)

	var (
		options  []Option
		rateErrs error
	)
	for _, courier := range []enums.Courier{enums.CourierSwiftline, enums.CourierCityGo, enums.CourierHaulMate} {
		if err := ctx.Err(); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "quote superseded")
		}
		quoted, err := s.rate(ctx, courier, req)
		if err != nil {
			rateErrs = multierr.Append(rateErrs, fmt.Errorf("%s: %w", courier, err))
			continue
		}
		options = append(options, quoted...)
	}

	if err := ctx.Err(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "quote superseded")
	}
	if len(options) == 0 {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, rateErrs, "no courier could quote the shipment")
	}
	if rateErrs != nil {
		s.logg.Warn(s.logg.WithField(ctx, "errors", rateErrs.Error()), "partial courier failure during quote")
	}
	return options, nil
}

func (s *service) supersede(req QuoteRequest, cancel context.CancelFunc) (string, uint64) {
	key := req.CustomerID.String() + "|" + req.AddressID.String()
	s.mu.Lock()
	defer s.mu.Unlock()
	if prior, ok := s.active[key]; ok {
		prior.cancel()
	}
	s.nextGen++
	s.active[key] = activeQuote{cancel: cancel, gen: s.nextGen}
	return key, s.nextGen
}

// release removes the entry only when this generation still owns it. A
// superseded quote finishing late must not evict its successor.
func (s *service) release(key string, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.active[key]; ok && current.gen == gen {
		delete(s.active, key)
	}
}

// tariffRater prices one courier from the static tariff table.
func tariffRater(_ context.Context, courier enums.Courier, req QuoteRequest) ([]Option, error) {
	tariffs, ok := courierTariffs[courier]
	if !ok {
		return nil, fmt.Errorf("no tariff table for courier")
	}

	km := haversineKm(req.Origin, req.Destination)
	multiplier := distanceMultiplier(km)
	kg := billableKg(req.WeightGrams)

	options := make([]Option, 0, len(tariffs))
	for _, t := range tariffs {
		options = append(options, Option{
			Courier:      courier,
			ServiceLevel: t.level,
			Description:  fmt.Sprintf("%s %s", courier, t.level),
			CostCents:    t.centsPerKg * kg * multiplier,
			ETD:          t.etd,
		})
	}
	return options, nil
}
