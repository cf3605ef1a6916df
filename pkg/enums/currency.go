package enums

import "fmt"

// Currency is the denomination all cart and order amounts are priced in.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyIDR Currency = "IDR"
)

// String implements fmt.Stringer.
func (c Currency) String() string {
	return string(c)
}

// IsValid reports whether the currency is recognized.
func (c Currency) IsValid() bool {
	switch c {
	case CurrencyUSD, CurrencyIDR:
		return true
	}
	return false
}

// ParseCurrency converts a raw string into a Currency.
func ParseCurrency(value string) (Currency, error) {
	currency := Currency(value)
	if !currency.IsValid() {
		return "", fmt.Errorf("invalid currency %q", value)
	}
	return currency, nil
}
