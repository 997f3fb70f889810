package pricing

import "strings"

// Tier is the customer pricing classification. Each tier maps to a fixed
// multiplier applied to a product's list price.
type Tier string

const (
	TierRetail     Tier = "retail"
	TierTechnician Tier = "technician"
	TierWholesale  Tier = "wholesale"
)

// ParseTier maps a stored/claimed tier string to a Tier. Anything
// unknown or empty falls back to retail pricing.
func ParseTier(s string) Tier {
	switch strings.ToLower(s) {
	case string(TierTechnician):
		return TierTechnician
	case string(TierWholesale):
		return TierWholesale
	default:
		return TierRetail
	}
}

// Multiplier returns the fixed price multiplier for the tier.
func (t Tier) Multiplier() float64 {
	switch t {
	case TierTechnician:
		return 0.90
	case TierWholesale:
		return 0.85
	default:
		return 1.00
	}
}

// PriceFor computes the customer-tier unit price from a list price.
// No rounding happens here; rounding is applied only at aggregate totals
// so per-line error never compounds.
func PriceFor(basePrice float64, t Tier) float64 {
	return basePrice * t.Multiplier()
}
