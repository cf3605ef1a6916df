package types

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/google/uuid"
)

// DiscountLine is one applied discount inside an order's breakdown snapshot.
type DiscountLine struct {
	DiscountID   uuid.UUID `json:"discount_id"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	AppliedCents int64     `json:"applied_cents"`
}

// DiscountBreakdown is the ordered set of discount lines captured when an
// order is created. Persisted as JSONB so historical orders keep the exact
// amounts even after the catalog changes.
type DiscountBreakdown []DiscountLine

// Value serializes the breakdown to JSON.
func (d DiscountBreakdown) Value() (driver.Value, error) {
	if d == nil {
		return "[]", nil
	}
	return json.Marshal(d)
}

// Scan decodes JSONB into the breakdown slice.
func (d *DiscountBreakdown) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded DiscountBreakdown
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*d = decoded
	return nil
}

// TotalCents sums the applied amounts across all lines.
func (d DiscountBreakdown) TotalCents() int64 {
	var total int64
	for _, line := range d {
		total += line.AppliedCents
	}
	return total
}
