package models

import "time"

// CartItem is one persisted cart row for an authenticated user.
// (user_id, product_id) is the uniqueness key: adding the same product
// again increments Quantity instead of creating a second row.
type CartItem struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	UserID    string `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"user_id"`
	ProductID uint   `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"product_id"`
	Quantity  int    `gorm:"not null" json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
