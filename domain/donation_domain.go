package domain

import (
	"errors"
	"time"
)

// Donation statuses. Collected and cancelled are terminal; expired is derived
// lazily from expiry_time, never swept in the background.
const (
	DonationStatusAvailable       = "available"
	DonationStatusPartiallyBooked = "partially_booked"
	DonationStatusFullyBooked     = "fully_booked"
	DonationStatusCollected       = "collected"
	DonationStatusExpired         = "expired"
	DonationStatusCancelled       = "cancelled"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCollected = "collected"
	BookingStatusCancelled = "cancelled"
	BookingStatusNoShow    = "no_show"
)

var (
	MessageSuccessCreateDonation = "donation created successfully"
	MessageSuccessGetDonations   = "donations retrieved successfully"
	MessageSuccessBookDonation   = "donation booked successfully"
	MessageSuccessCancelBooking  = "booking cancelled successfully"
	MessageSuccessMarkCollected  = "booking marked as collected"
	MessageSuccessGetBookings    = "bookings retrieved successfully"

	MessageFailedCreateDonation = "failed to create donation"
	MessageFailedGetDonations   = "failed to retrieve donations"
	MessageFailedBookDonation   = "failed to book donation"
	MessageFailedCancelBooking  = "failed to cancel booking"
	MessageFailedMarkCollected  = "failed to mark booking as collected"

	ErrDonationNotFound  = errors.New("donation not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrOutOfStock        = errors.New("requested quantity exceeds available quantity")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrSelfBookingDenied = errors.New("cannot book your own donation")
	ErrNotBookable       = errors.New("donation is not available for booking")
	ErrNotCancellable    = errors.New("booking can no longer be cancelled")
)

type (
	CreateDonationRequest struct {
		FoodName           string  `json:"food_name" validate:"required,max=200"`
		FoodType           string  `json:"food_type" validate:"required,oneof=veg non-veg vegan"`
		Category           string  `json:"category" validate:"required,oneof=cooked raw packaged"`
		Description        string  `json:"description" validate:"omitempty"`
		Quantity           int     `json:"quantity" validate:"required,min=1"`
		QuantityUnit       string  `json:"quantity_unit" validate:"required,oneof=kg plates packets litres pieces"`
		Address            string  `json:"address" validate:"required"`
		Latitude           float64 `json:"latitude" validate:"omitempty"`
		Longitude          float64 `json:"longitude" validate:"omitempty"`
		ContactPhone       string  `json:"contact_phone" validate:"required,max=15"`
		PickupInstructions string  `json:"pickup_instructions" validate:"omitempty"`
		ExpiryTime         string  `json:"expiry_time" validate:"required"`
	}

	BookDonationRequest struct {
		DonationID string `json:"donation_id" validate:"required,uuid"`
		Quantity   int    `json:"quantity" validate:"required"`
	}

	Donation struct {
		ID                 string     `json:"id"`
		DonorID            string     `json:"donor_id"`
		DonorName          string     `json:"donor_name,omitempty"`
		FoodName           string     `json:"food_name"`
		FoodType           string     `json:"food_type"`
		Category           string     `json:"category"`
		Description        string     `json:"description,omitempty"`
		OriginalQuantity   int        `json:"original_quantity"`
		AvailableQuantity  int        `json:"available_quantity"`
		QuantityUnit       string     `json:"quantity_unit"`
		Address            string     `json:"address"`
		Latitude           float64    `json:"latitude,omitempty"`
		Longitude          float64    `json:"longitude,omitempty"`
		ContactPhone       string     `json:"contact_phone"`
		PickupInstructions string     `json:"pickup_instructions,omitempty"`
		ExpiryTime         time.Time  `json:"expiry_time"`
		Status             string     `json:"status"`
		CreatedAt          time.Time  `json:"created_at"`
	}

	DonationBooking struct {
		ID             string     `json:"id"`
		DonationID     string     `json:"donation_id"`
		BookerID       string     `json:"booker_id"`
		QuantityBooked int        `json:"quantity_booked"`
		Status         string     `json:"status"`
		CollectedAt    *time.Time `json:"collected_at,omitempty"`
		OrderID        string     `json:"order_id,omitempty"`
		Donation       *Donation  `json:"donation,omitempty"`
		CreatedAt      time.Time  `json:"created_at"`
	}

	ListDonationsRequest struct {
		Search   string `json:"search"`
		FoodType string `json:"food_type"`
		Category string `json:"category"`
		Status   string `json:"status"`
		Page     int    `json:"page"`
		Limit    int    `json:"limit"`
	}
)
