package enums

import "fmt"

// Courier identifies a delivery partner in the synthetic tariff table.
type Courier string

const (
	CourierSwiftline Courier = "swiftline"
	CourierCityGo    Courier = "citygo"
	CourierHaulMate  Courier = "haulmate"
)

var validCouriers = []Courier{
	CourierSwiftline,
	CourierCityGo,
	CourierHaulMate,
}

// String implements fmt.Stringer.
func (c Courier) String() string {
	return string(c)
}

// IsValid reports whether the value is a known Courier.
func (c Courier) IsValid() bool {
	for _, candidate := range validCouriers {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCourier converts raw input into a Courier.
func ParseCourier(value string) (Courier, error) {
	for _, candidate := range validCouriers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid courier %q", value)
}

// CourierServiceLevel names a courier's service tier for a quote.
type CourierServiceLevel string

const (
	ServiceLevelEconomy CourierServiceLevel = "economy"
	ServiceLevelRegular CourierServiceLevel = "regular"
	ServiceLevelExpress CourierServiceLevel = "express"
)

var validServiceLevels = []CourierServiceLevel{
	ServiceLevelEconomy,
	ServiceLevelRegular,
	ServiceLevelExpress,
}

// String implements fmt.Stringer.
func (s CourierServiceLevel) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CourierServiceLevel.
func (s CourierServiceLevel) IsValid() bool {
	for _, candidate := range validServiceLevels {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCourierServiceLevel converts raw input into a CourierServiceLevel.
func ParseCourierServiceLevel(value string) (CourierServiceLevel, error) {
	for _, candidate := range validServiceLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid courier service level %q", value)
}
