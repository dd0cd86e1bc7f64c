package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Event types emitted by lifecycle transitions. Emission is explicit: a
// service raises an event only after its transaction commits.
const (
	EventBookingCreated    = "booking_created"
	EventBookingCancelled  = "booking_cancelled"
	EventDonationCollected = "donation_collected"
	EventOrderConfirmed    = "order_confirmed"
	EventOrderAccepted     = "order_accepted"
	EventOrderDelivered    = "order_delivered"
	EventOrderCancelled    = "order_cancelled"
	EventPaymentFailed     = "payment_failed"
)

var (
	MessageSuccessGetNotifications = "notifications retrieved successfully"
	MessageSuccessMarkRead         = "notification marked as read"

	MessageFailedGetNotifications = "failed to retrieve notifications"

	ErrNotificationNotFound = errors.New("notification not found")
)

type (
	Event struct {
		Type       string     `json:"type"`
		UserID     uuid.UUID  `json:"user_id"`
		Message    string     `json:"message"`
		Email      string     `json:"email,omitempty"`
		DonationID *uuid.UUID `json:"donation_id,omitempty"`
		OrderID    *uuid.UUID `json:"order_id,omitempty"`
	}

	Notification struct {
		ID         string `json:"id"`
		Type       string `json:"type"`
		Message    string `json:"message"`
		IsRead     bool   `json:"is_read"`
		DonationID string `json:"donation_id,omitempty"`
		OrderID    string `json:"order_id,omitempty"`
		CreatedAt  string `json:"created_at"`
	}
)
