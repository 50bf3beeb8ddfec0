package models

import "time"

// Order statuses. Only the pending→confirmed transition is mediated by the
// confirmation endpoint; the admin status endpoint accepts any member of the
// set regardless of the current value.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

var OrderStatuses = []string{StatusPending, StatusConfirmed, StatusDelivered, StatusCancelled}

func IsValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Order struct {
	ID uint `json:"id" gorm:"primaryKey"`

	// Customer reference is weak: the name/phone/address columns are a
	// snapshot taken at order time and never re-derived.
	CustomerID      *uint  `json:"customer_id" gorm:"index"`
	CustomerName    string `json:"customer_name" gorm:"not null"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerAddress string `json:"customer_address"`

	Status   string  `json:"status" gorm:"index;not null;default:'pending'"`
	Subtotal float64 `json:"subtotal" gorm:"not null"`
	Discount float64 `json:"discount" gorm:"not null"`
	Total    float64 `json:"total" gorm:"not null"`

	CreatedAt   time.Time  `json:"created_at"`
	ConfirmedAt *time.Time `json:"confirmed_at"`
	DeliveredAt *time.Time `json:"delivered_at"`

	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
}

type OrderItem struct {
	ID      uint `json:"id" gorm:"primaryKey"`
	OrderID uint `json:"order_id" gorm:"index;not null"`

	// Nullable so the line survives product deletion; the name snapshot keeps
	// the history readable either way.
	ProductID   *uint  `json:"product_id" gorm:"index"`
	ProductName string `json:"product_name" gorm:"not null"`

	Quantity  int     `json:"quantity" gorm:"not null"`
	UnitPrice float64 `json:"unit_price" gorm:"not null"`
	Subtotal  float64 `json:"subtotal" gorm:"not null"`
}
