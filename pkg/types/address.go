package types

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// Address is the normalized postal address stored as JSONB on stores,
// customer addresses, and order snapshots.
type Address struct {
	Line1      string  `json:"line1"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	PostalCode string  `json:"postal_code"`
	Country    string  `json:"country"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
}

// Value serializes the address to JSON.
func (a *Address) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan decodes JSONB into the address struct.
func (a *Address) Scan(value interface{}) error {
	if value == nil {
		*a = Address{}
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, a)
}

// IsZero reports whether the address carries no usable location.
func (a Address) IsZero() bool {
	return strings.TrimSpace(a.Line1) == "" && a.Lat == 0 && a.Lng == 0
}

// LatLng is a latitude/longitude pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Location returns the coordinate pair of the address.
func (a Address) Location() LatLng {
	return LatLng{Lat: a.Lat, Lng: a.Lng}
}
