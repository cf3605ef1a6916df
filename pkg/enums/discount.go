package enums

import "fmt"

// DiscountType distinguishes the four composable discount kinds. Composition
// always evaluates them in the order listed here.
type DiscountType string

const (
	DiscountTypeProduct  DiscountType = "PRODUCT"
	DiscountTypeCart     DiscountType = "CART"
	DiscountTypeBOGO     DiscountType = "BUY_ONE_GET_ONE"
	DiscountTypeShipping DiscountType = "SHIPPING"
)

var validDiscountTypes = []DiscountType{
	DiscountTypeProduct,
	DiscountTypeCart,
	DiscountTypeBOGO,
	DiscountTypeShipping,
}

// String implements fmt.Stringer.
func (d DiscountType) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DiscountType.
func (d DiscountType) IsValid() bool {
	for _, candidate := range validDiscountTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDiscountType converts raw input into a DiscountType.
func ParseDiscountType(value string) (DiscountType, error) {
	for _, candidate := range validDiscountTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount type %q", value)
}

// DiscountValueType selects between percentage and fixed-amount valuation.
type DiscountValueType string

const (
	DiscountValuePercentage  DiscountValueType = "PERCENTAGE"
	DiscountValueFixedAmount DiscountValueType = "FIXED_AMOUNT"
)

var validDiscountValueTypes = []DiscountValueType{
	DiscountValuePercentage,
	DiscountValueFixedAmount,
}

// String implements fmt.Stringer.
func (d DiscountValueType) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DiscountValueType.
func (d DiscountValueType) IsValid() bool {
	for _, candidate := range validDiscountValueTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDiscountValueType converts raw input into a DiscountValueType.
func ParseDiscountValueType(value string) (DiscountValueType, error) {
	for _, candidate := range validDiscountValueTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount value type %q", value)
}
