package entities

import (
	"github.com/google/uuid"
	"time"
)

type Donation struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	DonorID      uuid.UUID  `json:"donor_id"`
	RestaurantID *uuid.UUID `json:"restaurant_id,omitempty"`

	FoodName    string `json:"food_name"`
	FoodType    string `json:"food_type"` // veg, non-veg, vegan
	Category    string `json:"category"`  // cooked, raw, packaged
	Description string `json:"description,omitempty"`

	// OriginalQuantity is immutable after creation; AvailableQuantity is the
	// portion not reserved or consumed by bookings.
	OriginalQuantity  int    `json:"original_quantity"`
	AvailableQuantity int    `json:"available_quantity"`
	QuantityUnit      string `json:"quantity_unit"` // kg, plates, packets, litres

	Address            string  `json:"address"`
	Latitude           float64 `json:"latitude,omitempty"`
	Longitude          float64 `json:"longitude,omitempty"`
	ContactPhone       string  `json:"contact_phone"`
	PickupInstructions string  `json:"pickup_instructions,omitempty"`

	PreparedTime *time.Time `json:"prepared_time,omitempty"`
	ExpiryTime   time.Time  `json:"expiry_time"`

	Status string `json:"status"` // available, partially_booked, fully_booked, collected, expired, cancelled

	Donor      *User              `gorm:"foreignKey:DonorID"`
	Restaurant *Restaurant        `gorm:"foreignKey:RestaurantID"`
	Bookings   []*DonationBooking `gorm:"foreignKey:DonationID"`
	Timestamp
}

type DonationBooking struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	DonationID uuid.UUID `json:"donation_id"`
	BookerID   uuid.UUID `json:"booker_id"`

	QuantityBooked int    `json:"quantity_booked"`
	Status         string `json:"status"` // pending, confirmed, collected, cancelled, no_show

	CollectedAt *time.Time `json:"collected_at,omitempty"`
	OrderID     *uuid.UUID `json:"order_id,omitempty"` // zero-amount tracking order

	Donation *Donation `gorm:"foreignKey:DonationID"`
	Booker   *User     `gorm:"foreignKey:BookerID"`
	Order    *Order    `gorm:"foreignKey:OrderID"`
	Timestamp
}

type Notification struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID  uuid.UUID `json:"user_id"`
	Type    string    `json:"type"`
	Message string    `json:"message"`
	IsRead  bool      `json:"is_read"`

	DonationID *uuid.UUID `json:"donation_id,omitempty"`
	OrderID    *uuid.UUID `json:"order_id,omitempty"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
