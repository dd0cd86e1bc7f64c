package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessAcceptOrder        = "order accepted successfully"
	MessageSuccessRejectOrder        = "order rejected successfully"
	MessageSuccessMarkPicked         = "order marked as picked up"
	MessageSuccessMarkDelivered      = "order delivered successfully"
	MessageSuccessUpdateLocation     = "location updated"
	MessageSuccessToggleAvailability = "availability updated"
	MessageSuccessGetDashboard       = "dashboard retrieved successfully"

	MessageFailedAcceptOrder    = "failed to accept order"
	MessageFailedRejectOrder    = "failed to reject order"
	MessageFailedMarkPicked     = "failed to mark order as picked up"
	MessageFailedMarkDelivered  = "failed to mark order as delivered"
	MessageFailedUpdateLocation = "failed to update location"

	ErrAgentNotFound   = errors.New("delivery agent profile not found")
	ErrAlreadyAssigned = errors.New("order already assigned to another agent")
	ErrNotInTransit    = errors.New("order is not out for delivery")
)

type (
	RegisterAgentRequest struct {
		FullName       string `json:"full_name" validate:"required,max=100"`
		Phone          string `json:"phone" validate:"required,max=10"`
		Address        string `json:"address" validate:"required"`
		VehicleType    string `json:"vehicle_type" validate:"required,oneof=bike scooter cycle car"`
		VehicleNumber  string `json:"vehicle_number" validate:"required,max=20"`
		DrivingLicense string `json:"driving_license" validate:"required,max=50"`
	}

	UpdateLocationRequest struct {
		OrderID   string  `json:"order_id" validate:"required,uuid"`
		Latitude  float64 `json:"latitude" validate:"required"`
		Longitude float64 `json:"longitude" validate:"required"`
	}

	AgentProfile struct {
		ID                 string  `json:"id"`
		UserID             string  `json:"user_id"`
		FullName           string  `json:"full_name"`
		VehicleType        string  `json:"vehicle_type"`
		VehicleNumber      string  `json:"vehicle_number"`
		AvailabilityStatus bool    `json:"availability_status"`
		TotalDeliveries    int     `json:"total_deliveries"`
		TotalEarnings      float64 `json:"total_earnings"`
	}

	AgentDashboard struct {
		Agent           *AgentProfile `json:"agent"`
		AvailableOrders []*Order      `json:"available_orders"`
		PendingPickups  []*Order      `json:"pending_pickups"`
		ActiveOrders    []*Order      `json:"active_orders"`
		DeliveredOrders []*Order      `json:"delivered_orders"`
	}

	AgentLocation struct {
		OrderID   string    `json:"order_id"`
		Latitude  float64   `json:"latitude"`
		Longitude float64   `json:"longitude"`
		UpdatedAt time.Time `json:"updated_at"`
	}
)
