package models

import "time"

type Customer struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Phone     string    `json:"phone" gorm:"uniqueIndex"` // informal unique key, orders dedupe on it
	Address   string    `json:"address"`
	Email     string    `json:"email"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	Orders    []Order   `json:"orders" gorm:"foreignKey:CustomerID"`
}
