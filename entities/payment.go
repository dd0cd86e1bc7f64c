package entities

import (
	"github.com/google/uuid"
)

type PaymentTransaction struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	OrderID      uuid.UUID  `gorm:"uniqueIndex" json:"order_id"`
	RestaurantID *uuid.UUID `json:"restaurant_id,omitempty"`
	CustomerID   uuid.UUID  `json:"customer_id"`

	TransactionID string  `gorm:"uniqueIndex" json:"transaction_id"`
	PaymentMethod string  `json:"payment_method"` // midtrans, card, wallet
	Amount        float64 `json:"amount"`
	Currency      string  `gorm:"default:IDR" json:"currency"`
	Status        string  `json:"status"` // pending, completed, failed, refunded

	Order      *Order      `gorm:"foreignKey:OrderID"`
	Restaurant *Restaurant `gorm:"foreignKey:RestaurantID"`
	Customer   *User       `gorm:"foreignKey:CustomerID"`
	Timestamp
}
