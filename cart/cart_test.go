package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CorporateGuuu/nexustechhub-sub003/models"
	"github.com/CorporateGuuu/nexustechhub-sub003/pricing"
)

func screenProduct() models.Product {
	return models.Product{
		ID:    1,
		SKU:   "NTH-SCR-IP13",
		Name:  "iPhone 13 OLED Screen",
		Price: 100,
		Stock: 50,
	}
}

func batteryProduct() models.Product {
	return models.Product{
		ID:    2,
		SKU:   "NTH-BAT-S21",
		Name:  "Galaxy S21 Battery",
		Price: 40,
		Stock: 10,
	}
}

func TestAddItemPricesForTier(t *testing.T) {
	c := New(pricing.TierWholesale)
	c.AddItem(screenProduct(), 2, nil)

	require.Len(t, c.Items, 1)
	assert.InDelta(t, 85.0, c.Items[0].Price, 1e-9)
	assert.Equal(t, 100.0, c.Items[0].OriginalPrice)
	assert.Equal(t, 2, c.ItemCount)
	assert.InDelta(t, 170.0, c.Subtotal, 1e-9)
}

func TestAddSameProductSameOptionsIncrements(t *testing.T) {
	c := New(pricing.TierRetail)
	opts := map[string]string{"color": "black", "grade": "A"}
	c.AddItem(screenProduct(), 1, opts)
	// same options in a different construction order must match
	c.AddItem(screenProduct(), 2, map[string]string{"grade": "A", "color": "black"})

	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
}

func TestAddSameProductDifferentOptionsCreatesSecondLine(t *testing.T) {
	c := New(pricing.TierRetail)
	c.AddItem(screenProduct(), 1, map[string]string{"color": "black"})
	c.AddItem(screenProduct(), 1, map[string]string{"color": "white"})

	assert.Len(t, c.Items, 2)
	assert.Equal(t, 2, c.ItemCount)
}

func TestUpdateQuantityClamps(t *testing.T) {
	c := New(pricing.TierRetail)
	c.AddItem(screenProduct(), 1, nil)

	c.UpdateQuantity(1, 99999, nil)
	require.Len(t, c.Items, 1)
	assert.Equal(t, DefaultMaxQuantity, c.Items[0].Quantity)

	c.UpdateQuantity(1, -5, nil)
	assert.Empty(t, c.Items)
	assert.Equal(t, 0, c.ItemCount)
	assert.Equal(t, 0.0, c.Total)
}

func TestRemoveItemIgnoresUnknownLine(t *testing.T) {
	c := New(pricing.TierRetail)
	c.AddItem(screenProduct(), 1, nil)
	c.RemoveItem(999, nil)
	assert.Len(t, c.Items, 1)

	c.RemoveItem(1, nil)
	assert.Empty(t, c.Items)
}

func TestTierRepricingDoesNotCompound(t *testing.T) {
	c := New(pricing.TierRetail)
	c.AddItem(screenProduct(), 1, nil)
	original := c.Items[0].Price

	c.SetCustomerType(pricing.TierWholesale)
	assert.InDelta(t, 85.0, c.Items[0].Price, 1e-9)

	c.SetCustomerType(pricing.TierRetail)
	assert.Equal(t, original, c.Items[0].Price)
}

func TestDiscountBound(t *testing.T) {
	c := New(pricing.TierRetail)
	c.AddItem(batteryProduct(), 1, nil) // subtotal 40
	c.SetShipping(15)
	c.ApplyDiscount(pricing.Discount{Type: pricing.DiscountFixed, Value: 500})

	assert.Equal(t, c.Subtotal, c.DiscountAmount)
	assert.Equal(t, 0.0, c.Tax) // taxable base fully discounted
	assert.InDelta(t, 15.0, c.Total, 1e-9)
	assert.GreaterOrEqual(t, c.Total, c.Shipping+c.Tax)
}

func TestPercentageDiscountAndTax(t *testing.T) {
	c := New(pricing.TierRetail)
	c.AddItem(screenProduct(), 2, nil) // subtotal 200
	c.ApplyDiscount(pricing.Discount{Type: pricing.DiscountPercentage, Value: 10})
	c.SetShipping(20)

	assert.InDelta(t, 20.0, c.DiscountAmount, 1e-9)
	assert.InDelta(t, 9.0, c.Tax, 1e-9) // (200-20) * 0.05
	assert.InDelta(t, 209.0, c.Total, 1e-9)

	c.RemoveDiscount()
	assert.Equal(t, 0.0, c.DiscountAmount)
	assert.InDelta(t, 10.0, c.Tax, 1e-9)
}

func TestRecomputeIsIdempotent(t *testing.T) {
	c := New(pricing.TierTechnician)
	c.AddItem(screenProduct(), 3, nil)
	c.AddItem(batteryProduct(), 2, map[string]string{"grade": "B"})
	c.ApplyDiscount(pricing.Discount{Type: pricing.DiscountPercentage, Value: 15})
	c.SetShipping(25)

	sub, disc, tax, total := c.Subtotal, c.DiscountAmount, c.Tax, c.Total
	c.recompute()
	assert.Equal(t, sub, c.Subtotal)
	assert.Equal(t, disc, c.DiscountAmount)
	assert.Equal(t, tax, c.Tax)
	assert.Equal(t, total, c.Total)
}

func TestClearPreservesTier(t *testing.T) {
	c := New(pricing.TierWholesale)
	c.AddItem(screenProduct(), 2, nil)
	c.ApplyDiscount(pricing.Discount{Type: pricing.DiscountFixed, Value: 10})
	c.SetShipping(30)

	c.Clear()
	assert.Empty(t, c.Items)
	assert.Nil(t, c.Discount)
	assert.Equal(t, 0.0, c.Shipping)
	assert.Equal(t, 0.0, c.Total)
	assert.Equal(t, pricing.TierWholesale, c.CustomerTier)
}

func TestLoadRederivesTotals(t *testing.T) {
	snapshot := Cart{
		Items: []Item{{
			ProductID:     1,
			Price:         100,
			OriginalPrice: 100,
			Quantity:      2,
			MaxQuantity:   DefaultMaxQuantity,
		}},
		// stale persisted totals that must be ignored
		Subtotal:     999,
		Total:        999,
		ItemCount:    17,
		CustomerTier: pricing.TierRetail,
	}

	c := New(pricing.TierRetail)
	c.Load(snapshot)

	assert.Equal(t, 2, c.ItemCount)
	assert.InDelta(t, 200.0, c.Subtotal, 1e-9)
	assert.InDelta(t, 210.0, c.Total, 1e-9) // + 5% VAT
}
