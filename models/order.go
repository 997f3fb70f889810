package models

import "time"

type OrderStatus string
type PaymentStatus string

const (
	// Order statuses (typical e-commerce flow)
	OrderStatusPending    OrderStatus = "pending"    // Order placed, awaiting confirmation
	OrderStatusConfirmed  OrderStatus = "confirmed"  // Confirmed by the store
	OrderStatusProcessing OrderStatus = "processing" // Being picked and packed
	OrderStatusShipped    OrderStatus = "shipped"    // Out for delivery
	OrderStatusDelivered  OrderStatus = "delivered"  // Customer received the parts
	OrderStatusCancelled  OrderStatus = "cancelled"  // Cancelled before shipping
	OrderStatusRefunded   OrderStatus = "refunded"   // Money returned after return

	// Payment statuses
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// ShippingAddress is snapshotted onto the order so later profile edits
// never rewrite historical orders.
type ShippingAddress struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	OrderNumber     string          `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID          string          `gorm:"index;not null" json:"user_id"`
	User            User            `gorm:"foreignKey:UserID" json:"-"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount     float64         `json:"total_amount"`
	Status          OrderStatus     `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentStatus   PaymentStatus   `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`
	PaymentMethod   string          `json:"payment_method"` // e.g. "card", "cod"
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderItem is a frozen snapshot of the product at purchase time,
// deliberately decoupled from the live Product row.
type OrderItem struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	OrderID         uint    `gorm:"index" json:"order_id"`
	ProductID       uint    `json:"product_id"`
	SKU             string  `json:"sku"`
	Name            string  `json:"name"`
	Quantity        int     `json:"quantity"`
	UnitPrice       float64 `json:"unit_price"`
	DiscountPercent float64 `json:"discount_percent"`
	LineTotal       float64 `json:"line_total"`
}
