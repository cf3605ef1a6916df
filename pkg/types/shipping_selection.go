package types

import (
	"database/sql/driver"
	"encoding/json"
)

// ShippingSelection stores the quote a customer picked during checkout.
type ShippingSelection struct {
	Courier      string `json:"courier"`
	ServiceLevel string `json:"service_level"`
	Description  string `json:"description,omitempty"`
	CostCents    int64  `json:"cost_cents"`
	ETD          string `json:"etd,omitempty"`
}

// Value serializes the selection to JSON.
func (s *ShippingSelection) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan decodes JSONB into the selection struct.
func (s *ShippingSelection) Scan(value interface{}) error {
	if value == nil {
		*s = ShippingSelection{}
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, s)
}

// JSONMap stores an arbitrary JSON object inside a JSONB column.
type JSONMap map[string]any

// Value serializes the map to JSON.
func (j *JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan decodes JSONB into the map.
func (j *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded JSONMap
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*j = decoded
	return nil
}
