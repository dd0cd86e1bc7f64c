package entities

import (
	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name     string    `json:"name"`
	Email    string    `gorm:"uniqueIndex" json:"email"`
	Password string    `json:"-"`
	Role     string    `json:"role"` // customer, restaurant_owner, delivery_agent
	Phone    string    `json:"phone,omitempty"`
	Address  string    `json:"address,omitempty"`

	Timestamp
}

type DeliveryAgent struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID         uuid.UUID `gorm:"uniqueIndex" json:"user_id"`
	FullName       string    `json:"full_name"`
	Phone          string    `json:"phone"`
	Address        string    `json:"address"`
	VehicleType    string    `json:"vehicle_type"` // bike, scooter, cycle, car
	VehicleNumber  string    `json:"vehicle_number"`
	DrivingLicense string    `json:"driving_license"`

	AvailabilityStatus bool    `gorm:"default:true" json:"availability_status"`
	TotalDeliveries    int     `json:"total_deliveries"`
	TotalEarnings      float64 `json:"total_earnings"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
