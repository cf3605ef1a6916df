package shipping

import (
	"math"

	"github.com/grocemart/grocemart-backend/pkg/enums"
	"github.com/grocemart/grocemart-backend/pkg/types"
)

// tariff holds the per-kg base rate and delivery estimate for one courier
// service level. Costs scale with a distance band multiplier.
type tariff struct {
	level      enums.CourierServiceLevel
	centsPerKg int64
	etd        string
}

var courierTariffs = map[enums.Courier][]tariff{
	enums.CourierSwiftline: {
		{level: enums.ServiceLevelEconomy, centsPerKg: 700, etd: "3-5 days"},
		{level: enums.ServiceLevelRegular, centsPerKg: 1100, etd: "2-3 days"},
		{level: enums.ServiceLevelExpress, centsPerKg: 1900, etd: "1 day"},
	},
	enums.CourierCityGo: {
		{level: enums.ServiceLevelEconomy, centsPerKg: 650, etd: "4-6 days"},
		{level: enums.ServiceLevelRegular, centsPerKg: 1000, etd: "2-4 days"},
	},
	enums.CourierHaulMate: {
		{level: enums.ServiceLevelRegular, centsPerKg: 1250, etd: "2-3 days"},
		{level: enums.ServiceLevelExpress, centsPerKg: 2100, etd: "1-2 days"},
	},
}

// distanceMultiplier maps the origin-destination distance onto a band.
func distanceMultiplier(km float64) int64 {
	switch {
	case km <= 5:
		return 1
	case km <= 25:
		return 2
	case km <= 100:
		return 3
	default:
		return 5
	}
}

// billableKg rounds grams up to the next whole kilogram, minimum one.
func billableKg(grams int64) int64 {
	if grams <= 0 {
		return 1
	}
	kg := (grams + 999) / 1000
	if kg < 1 {
		kg = 1
	}
	return kg
}

const earthRadiusKm = 6371.0

// haversineKm computes the great-circle distance between two points.
func haversineKm(a, b types.LatLng) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
