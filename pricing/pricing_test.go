package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceFor(t *testing.T) {
	assert.Equal(t, 100.0, PriceFor(100, TierRetail))
	assert.InDelta(t, 90.0, PriceFor(100, TierTechnician), 1e-9)
	assert.InDelta(t, 85.0, PriceFor(100, TierWholesale), 1e-9)
}

func TestPriceForUnknownTierDefaultsToRetail(t *testing.T) {
	assert.Equal(t, 49.99, PriceFor(49.99, Tier("vip")))
	assert.Equal(t, 49.99, PriceFor(49.99, Tier("")))
}

func TestParseTier(t *testing.T) {
	assert.Equal(t, TierWholesale, ParseTier("wholesale"))
	assert.Equal(t, TierTechnician, ParseTier("Technician"))
	assert.Equal(t, TierRetail, ParseTier("retail"))
	assert.Equal(t, TierRetail, ParseTier("gold"))
	assert.Equal(t, TierRetail, ParseTier(""))
}

func TestDiscountAmountPercentage(t *testing.T) {
	d := Discount{Type: DiscountPercentage, Value: 10}
	assert.InDelta(t, 20.0, d.Amount(200), 1e-9)
}

func TestDiscountAmountFixedCappedAtSubtotal(t *testing.T) {
	d := Discount{Type: DiscountFixed, Value: 500}
	assert.Equal(t, 120.0, d.Amount(120))
}

func TestDiscountAmountNeverNegative(t *testing.T) {
	d := Discount{Type: DiscountFixed, Value: -30}
	assert.Equal(t, 0.0, d.Amount(100))

	unknown := Discount{Type: DiscountType("bogus"), Value: 50}
	assert.Equal(t, 0.0, unknown.Amount(100))
}
