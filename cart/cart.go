package cart

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/CorporateGuuu/nexustechhub-sub003/models"
	"github.com/CorporateGuuu/nexustechhub-sub003/pricing"
)

// TaxRate is the fixed regional VAT rate applied to (subtotal - discount).
const TaxRate = 0.05

// DefaultMaxQuantity bounds a single line when the product does not
// carry its own per-item maximum.
const DefaultMaxQuantity = 25

const DefaultCurrency = "AED"

// Item is one product line in the cart. (ProductID, Options) is the
// uniqueness key: adding the same product with identical options
// increments Quantity instead of appending a second line.
type Item struct {
	ProductID     uint              `json:"product_id"`
	SKU           string            `json:"sku"`
	Name          string            `json:"name"`
	Price         float64           `json:"price"`          // tier-adjusted unit price
	OriginalPrice float64           `json:"original_price"` // list price, tier re-pricing always derives from this
	Image         string            `json:"image"`
	Category      string            `json:"category"`
	Quantity      int               `json:"quantity"`
	MaxQuantity   int               `json:"max_quantity"`
	Options       map[string]string `json:"options,omitempty"`
	InStock       bool              `json:"in_stock"`
	AddedAt       time.Time         `json:"added_at"`
}

// Cart is the full aggregate for one customer session. Totals are never
// patched incrementally; every action recomputes them from the item list.
type Cart struct {
	Items          []Item            `json:"items"`
	ItemCount      int               `json:"item_count"`
	Subtotal       float64           `json:"subtotal"`
	Discount       *pricing.Discount `json:"discount,omitempty"`
	DiscountAmount float64           `json:"discount_amount"`
	Shipping       float64           `json:"shipping"`
	Tax            float64           `json:"tax"`
	Total          float64           `json:"total"`
	CustomerTier   pricing.Tier      `json:"customer_tier"`
	Currency       string            `json:"currency"`
	LastUpdated    time.Time         `json:"last_updated"`
}

// New returns an empty cart for the given customer tier.
func New(tier pricing.Tier) *Cart {
	c := &Cart{
		Items:        []Item{},
		CustomerTier: tier,
		Currency:     DefaultCurrency,
	}
	c.recompute()
	return c
}

// optionsKey canonicalizes an options map so identity comparison is
// order-independent.
func optionsKey(options map[string]string) string {
	if len(options) == 0 {
		return ""
	}
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+options[k])
	}
	return strings.Join(parts, ";")
}

func (c *Cart) findItem(productID uint, options map[string]string) int {
	key := optionsKey(options)
	for i := range c.Items {
		if c.Items[i].ProductID == productID && optionsKey(c.Items[i].Options) == key {
			return i
		}
	}
	return -1
}

// AddItem appends a new line priced for the cart's tier, or increments
// the quantity of an existing line with the same (product, options) key.
func (c *Cart) AddItem(p models.Product, quantity int, options map[string]string) {
	if quantity < 1 {
		quantity = 1
	}
	if i := c.findItem(p.ID, options); i >= 0 {
		it := &c.Items[i]
		it.Quantity = clampQuantity(it.Quantity+quantity, it.MaxQuantity)
		c.recompute()
		return
	}
	item := Item{
		ProductID:     p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Price:         pricing.PriceFor(p.Price, c.CustomerTier),
		OriginalPrice: p.Price,
		Image:         p.Image,
		Category:      p.Category.Name,
		MaxQuantity:   DefaultMaxQuantity,
		Options:       options,
		InStock:       p.Stock > 0,
		AddedAt:       time.Now(),
	}
	item.Quantity = clampQuantity(quantity, item.MaxQuantity)
	c.Items = append(c.Items, item)
	c.recompute()
}

// RemoveItem drops the matching line. Unknown lines are ignored.
func (c *Cart) RemoveItem(productID uint, options map[string]string) {
	if i := c.findItem(productID, options); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
	c.recompute()
}

// UpdateQuantity clamps the requested quantity to [0, MaxQuantity];
// a result of 0 drops the line. Out-of-range input is never an error.
func (c *Cart) UpdateQuantity(productID uint, quantity int, options map[string]string) {
	i := c.findItem(productID, options)
	if i < 0 {
		return
	}
	q := clampQuantity(quantity, c.Items[i].MaxQuantity)
	if q == 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	} else {
		c.Items[i].Quantity = q
	}
	c.recompute()
}

// Clear resets everything except the customer tier and currency.
func (c *Cart) Clear() {
	c.Items = []Item{}
	c.Discount = nil
	c.Shipping = 0
	c.recompute()
}

// Load replaces the cart state wholesale from a persisted snapshot.
// Persisted totals are never trusted; they are re-derived here.
func (c *Cart) Load(snapshot Cart) {
	c.Items = snapshot.Items
	if c.Items == nil {
		c.Items = []Item{}
	}
	c.Discount = snapshot.Discount
	c.Shipping = snapshot.Shipping
	if snapshot.CustomerTier != "" {
		c.CustomerTier = pricing.ParseTier(string(snapshot.CustomerTier))
	}
	if snapshot.Currency != "" {
		c.Currency = snapshot.Currency
	}
	c.recompute()
}

// ApplyDiscount sets the active discount.
func (c *Cart) ApplyDiscount(d pricing.Discount) {
	c.Discount = &d
	c.recompute()
}

// RemoveDiscount clears the active discount.
func (c *Cart) RemoveDiscount() {
	c.Discount = nil
	c.recompute()
}

// SetShipping sets the shipping cost. Negative input clamps to 0.
func (c *Cart) SetShipping(amount float64) {
	if amount < 0 {
		amount = 0
	}
	c.Shipping = amount
	c.recompute()
}

// SetCustomerType re-prices every line from its stored list price using
// the new tier multiplier. Deriving from OriginalPrice (never from the
// already-adjusted Price) keeps tier switches from compounding.
func (c *Cart) SetCustomerType(tier pricing.Tier) {
	c.CustomerTier = tier
	for i := range c.Items {
		c.Items[i].Price = pricing.PriceFor(c.Items[i].OriginalPrice, tier)
	}
	c.recompute()
}

// recompute derives every aggregate figure from the item list. Rounding
// happens only here, at the aggregate boundary.
func (c *Cart) recompute() {
	subtotal := decimal.Zero
	count := 0
	for _, it := range c.Items {
		line := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		subtotal = subtotal.Add(line)
		count += it.Quantity
	}
	sub, _ := subtotal.Round(2).Float64()

	var discountAmount float64
	if c.Discount != nil {
		raw := c.Discount.Amount(sub)
		discountAmount, _ = decimal.NewFromFloat(raw).Round(2).Float64()
	}

	taxable := decimal.NewFromFloat(sub).Sub(decimal.NewFromFloat(discountAmount))
	tax, _ := taxable.Mul(decimal.NewFromFloat(TaxRate)).Round(2).Float64()

	total, _ := decimal.NewFromFloat(sub).
		Sub(decimal.NewFromFloat(discountAmount)).
		Add(decimal.NewFromFloat(c.Shipping)).
		Add(decimal.NewFromFloat(tax)).
		Round(2).Float64()

	c.ItemCount = count
	c.Subtotal = sub
	c.DiscountAmount = discountAmount
	c.Tax = tax
	c.Total = total
	c.LastUpdated = time.Now()
}

func clampQuantity(q, max int) int {
	if max <= 0 {
		max = DefaultMaxQuantity
	}
	if q < 0 {
		return 0
	}
	if q > max {
		return max
	}
	return q
}
