package entities

import (
	"github.com/google/uuid"
	"time"
)

type Cart struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID     uuid.UUID `gorm:"uniqueIndex:idx_cart_user_item" json:"user_id"`
	MenuItemID uuid.UUID `gorm:"uniqueIndex:idx_cart_user_item" json:"menu_item_id"`
	Quantity   int       `gorm:"default:1" json:"quantity"`

	User     *User     `gorm:"foreignKey:UserID"`
	MenuItem *MenuItem `gorm:"foreignKey:MenuItemID"`
	Timestamp
}

type Order struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	RestaurantID    *uuid.UUID `json:"restaurant_id,omitempty"`
	DeliveryAgentID *uuid.UUID `json:"delivery_agent_id,omitempty"`

	Status string `json:"status"` // pending, confirmed, preparing, out_for_delivery, delivered, cancelled

	TotalAmount float64 `json:"total_amount"`
	DeliveryFee float64 `json:"delivery_fee"`
	TaxAmount   float64 `json:"tax_amount"`

	DeliveryAddress   string   `json:"delivery_address"`
	ContactPhone      string   `json:"contact_phone,omitempty"`
	DeliveryLatitude  *float64 `json:"delivery_latitude,omitempty"`
	DeliveryLongitude *float64 `json:"delivery_longitude,omitempty"`

	// Snapshot of the restaurant coordinates taken at pickup time, so
	// tracking survives later edits to the restaurant row.
	RestaurantLatitude  *float64 `json:"restaurant_latitude,omitempty"`
	RestaurantLongitude *float64 `json:"restaurant_longitude,omitempty"`

	// Agent live location, meaningful only while status is out_for_delivery.
	AgentCurrentLatitude   *float64   `json:"agent_current_latitude,omitempty"`
	AgentCurrentLongitude  *float64   `json:"agent_current_longitude,omitempty"`
	AgentLocationUpdatedAt *time.Time `json:"agent_location_updated_at,omitempty"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	PickedAt    *time.Time `json:"picked_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`

	PaymentIntentID *string `gorm:"uniqueIndex" json:"payment_intent_id,omitempty"`
	PaymentStatus   string  `json:"payment_status"` // pending, paid, completed, failed, refunded
	IsPaid          bool    `json:"is_paid"`

	User          *User         `gorm:"foreignKey:UserID"`
	Restaurant    *Restaurant   `gorm:"foreignKey:RestaurantID"`
	DeliveryAgent *User         `gorm:"foreignKey:DeliveryAgentID"`
	Items         []*OrderItem  `gorm:"foreignKey:OrderID"`
	Timestamp
}

type OrderItem struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	OrderID    uuid.UUID  `json:"order_id"`
	MenuItemID *uuid.UUID `json:"menu_item_id,omitempty"`

	// Name and Price are copied from the menu item at order time so the
	// order history stays intact if the catalog item is edited or deleted.
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `gorm:"default:1" json:"quantity"`

	Order    *Order    `gorm:"foreignKey:OrderID"`
	MenuItem *MenuItem `gorm:"foreignKey:MenuItemID"`
	Timestamp
}
