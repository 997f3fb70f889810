package models

import "time"

type User struct {
	ID        string  `gorm:"primaryKey" json:"id"`
	Email     string  `gorm:"unique;not null" json:"email"`
	Phone     string  `json:"phone"`
	Name      string  `json:"name"`
	Tier      string  `gorm:"type:VARCHAR(20);default:'retail'" json:"tier"` // pricing classification
	Address   Address `gorm:"embedded" json:"address"`
	Orders    []Order `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"orders,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Address model embedded in User
type Address struct {
	Country    string `json:"country"`
	State      string `json:"state"`
	City       string `json:"city"`
	Street     string `json:"street"`
	PostalCode string `json:"postal_code"`
}
