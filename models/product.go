package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID              uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	SKU             string  `gorm:"uniqueIndex;not null" json:"sku"`
	Name            string  `gorm:"not null" json:"name"`
	Slug            string  `gorm:"uniqueIndex;not null" json:"slug"`
	Description     string  `json:"description"`
	Price           float64 `gorm:"not null" json:"price"` // list price before tier/discount
	DiscountPercent float64 `json:"discount_percent"`
	Stock           int     `json:"stock"`
	Image           string  `json:"image"`
	CategoryID      uint    `gorm:"index" json:"category_id"`
	Category        Category `gorm:"foreignKey:CategoryID" json:"category"`
	BrandID         uint    `gorm:"index" json:"brand_id"`
	Brand           Brand   `gorm:"foreignKey:BrandID" json:"brand"`
	IsActive        bool    `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}
