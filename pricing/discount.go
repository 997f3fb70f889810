package pricing

import "strings"

// DiscountType is a plain tag, dispatched via switch.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Discount is a cart-level discount: either a percentage of the subtotal
// or a fixed amount.
type Discount struct {
	Type  DiscountType `json:"type"`
	Code  string       `json:"code,omitempty"`
	Value float64      `json:"value"`
}

// Amount computes the money value of the discount against a subtotal.
// The result is always within [0, subtotal].
func (d Discount) Amount(subtotal float64) float64 {
	var amt float64
	switch DiscountType(strings.ToLower(string(d.Type))) {
	case DiscountPercentage:
		amt = subtotal * d.Value / 100
	case DiscountFixed:
		amt = d.Value
	}
	if amt < 0 {
		amt = 0
	}
	if amt > subtotal {
		amt = subtotal
	}
	return amt
}
