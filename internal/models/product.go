package models

import "time"

type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	Price       float64   `json:"price" gorm:"not null"`
	PriceBulk   *float64  `json:"price_bulk"`
	Category    string    `json:"category" gorm:"index;not null"`
	Stock       int       `json:"stock" gorm:"not null;default:0"`
	Image       string    `json:"image"`
	Active      bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at"`
}
