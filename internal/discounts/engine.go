package discounts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grocemart/grocemart-backend/pkg/db/models"
	"github.com/grocemart/grocemart-backend/pkg/enums"
	"github.com/grocemart/grocemart-backend/pkg/types"
)

// CartLine is the minimal cart view the engine needs.
type CartLine struct {
	VariantID      uuid.UUID
	Quantity       int
	UnitPriceCents int64
}

// Snapshot is the cart state composition runs against.
type Snapshot struct {
	Lines         []CartLine
	SubtotalCents int64
}

// Applied is one discount's contribution after a composition run. Per-item
// contributions from the same discount are merged into a single entry.
type Applied struct {
	Discount     models.Discount
	AppliedCents int64
}

// Result is the outcome of a composition run over the whole catalog.
type Result struct {
	TotalDiscountCents int64
	Applied            []Applied
}

// EnabledTotal sums contributions for the discount ids in the enabled set.
func (r Result) EnabledTotal(enabled map[uuid.UUID]bool) int64 {
	var total int64
	for _, entry := range r.Applied {
		if enabled[entry.Discount.ID] {
			total += entry.AppliedCents
		}
	}
	return total
}

// AppliedIDs returns the discount ids in application order.
func (r Result) AppliedIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.Applied))
	for _, entry := range r.Applied {
		ids = append(ids, entry.Discount.ID)
	}
	return ids
}

// Compose evaluates the catalog against the cart in a fixed pass order:
// PRODUCT, CART, BUY_ONE_GET_ONE, then SHIPPING. Within a pass the first
// eligible discount in catalog order wins; later matches for the same item
// are ignored. The run is pure and deterministic: same inputs, same result.
func Compose(cart *Snapshot, catalog []models.Discount, shipping *types.ShippingSelection, now time.Time) Result {
	if cart == nil || len(cart.Lines) == 0 {
		return Result{}
	}

	acc := newAccumulator()

	active := make([]models.Discount, 0, len(catalog))
	for _, d := range catalog {
		if isLive(d, now) {
			active = append(active, d)
		}
	}

	applyProductPass(acc, cart, active)
	applyCartPass(acc, cart, active)
	applyBOGOPass(acc, cart, active)
	if shipping != nil {
		applyShippingPass(acc, cart, active, shipping.CostCents)
	}

	return acc.result()
}

func isLive(d models.Discount, now time.Time) bool {
	if !d.IsActive {
		return false
	}
	if d.StartsAt != nil && now.Before(*d.StartsAt) {
		return false
	}
	if d.EndsAt != nil && now.After(*d.EndsAt) {
		return false
	}
	return true
}

func applyProductPass(acc *accumulator, cart *Snapshot, catalog []models.Discount) {
	for _, line := range cart.Lines {
		for _, d := range catalog {
			if d.Type != enums.DiscountTypeProduct || !targetsVariant(d, line.VariantID) {
				continue
			}
			amount := valueAmount(d, line.UnitPriceCents, line.Quantity)
			amount = clampMax(amount, d.MaxDiscount)
			if amount > 0 {
				acc.add(d, amount)
			}
			break
		}
	}
}

func applyCartPass(acc *accumulator, cart *Snapshot, catalog []models.Discount) {
	for _, d := range catalog {
		if d.Type != enums.DiscountTypeCart || cart.SubtotalCents < minPurchase(d) {
			continue
		}
		amount := valueAmount(d, cart.SubtotalCents, 1)
		amount = clampMax(amount, d.MaxDiscount)
		if amount > 0 {
			acc.add(d, amount)
		}
		return
	}
}

func applyBOGOPass(acc *accumulator, cart *Snapshot, catalog []models.Discount) {
	for _, line := range cart.Lines {
		for _, d := range catalog {
			if d.Type != enums.DiscountTypeBOGO || !targetsVariant(d, line.VariantID) {
				continue
			}
			buy, get := bogoQuantities(d)
			if buy <= 0 || get <= 0 {
				break
			}
			free := (line.Quantity / (buy + get)) * get
			// max_discount intentionally does not clamp BOGO amounts.
			if amount := int64(free) * line.UnitPriceCents; amount > 0 {
				acc.add(d, amount)
			}
			break
		}
	}
}

func applyShippingPass(acc *accumulator, cart *Snapshot, catalog []models.Discount, shippingCents int64) {
	for _, d := range catalog {
		if d.Type != enums.DiscountTypeShipping || cart.SubtotalCents < minPurchase(d) {
			continue
		}
		amount := valueAmount(d, shippingCents, 1)
		amount = clampMax(amount, d.MaxDiscount)
		if amount > shippingCents {
			amount = shippingCents
		}
		if amount > 0 {
			acc.add(d, amount)
		}
		return
	}
}

// valueAmount computes the raw discount amount for a base price and
// quantity. Percentages go through decimal arithmetic and floor to the cent.
func valueAmount(d models.Discount, baseCents int64, qty int) int64 {
	switch d.ValueType {
	case enums.DiscountValuePercentage:
		amount := decimal.NewFromInt(baseCents).
			Mul(decimal.NewFromInt(int64(qty))).
			Mul(decimal.NewFromInt(d.Value)).
			Div(decimal.NewFromInt(100))
		return amount.Floor().IntPart()
	case enums.DiscountValueFixedAmount:
		return d.Value * int64(qty)
	default:
		return 0
	}
}

func clampMax(amount int64, max *int64) int64 {
	if max != nil && amount > *max {
		return *max
	}
	return amount
}

func minPurchase(d models.Discount) int64 {
	if d.MinPurchase == nil {
		return 0
	}
	return *d.MinPurchase
}

func bogoQuantities(d models.Discount) (buy, get int) {
	if d.BuyQuantity != nil {
		buy = *d.BuyQuantity
	}
	if d.GetQuantity != nil {
		get = *d.GetQuantity
	}
	return buy, get
}

func targetsVariant(d models.Discount, variantID uuid.UUID) bool {
	for _, link := range d.Products {
		if link.VariantID == variantID {
			return true
		}
	}
	return false
}

// accumulator merges per-item contributions by discount id while keeping
// first-application order stable.
type accumulator struct {
	order   []uuid.UUID
	entries map[uuid.UUID]*Applied
}

func newAccumulator() *accumulator {
	return &accumulator{entries: make(map[uuid.UUID]*Applied)}
}

func (a *accumulator) add(d models.Discount, amount int64) {
	if entry, ok := a.entries[d.ID]; ok {
		entry.AppliedCents += amount
		return
	}
	a.entries[d.ID] = &Applied{Discount: d, AppliedCents: amount}
	a.order = append(a.order, d.ID)
}

func (a *accumulator) result() Result {
	res := Result{Applied: make([]Applied, 0, len(a.order))}
	for _, id := range a.order {
		entry := a.entries[id]
		res.Applied = append(res.Applied, *entry)
		res.TotalDiscountCents += entry.AppliedCents
	}
	return res
}
