package entities

import (
	"github.com/google/uuid"
)

type Restaurant struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`

	Owner     *User       `gorm:"foreignKey:OwnerID"`
	MenuItems []*MenuItem `gorm:"foreignKey:RestaurantID"`
	Timestamp
}

type MenuItem struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Price        float64   `json:"price"`
	IsAvailable  bool      `gorm:"default:true" json:"is_available"`

	Restaurant *Restaurant `gorm:"foreignKey:RestaurantID"`
	Timestamp
}
