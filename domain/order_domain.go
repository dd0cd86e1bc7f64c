package domain

import (
	"errors"
	"time"
)

const (
	OrderStatusPending        = "pending"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusPreparing      = "preparing"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

var (
	MessageSuccessGetOrders    = "orders retrieved successfully"
	MessageSuccessGetOrder     = "order retrieved successfully"
	MessageSuccessUpdateOrder  = "order updated successfully"
	MessageSuccessCancelOrder  = "order cancelled successfully"
	MessageSuccessTrackOrder   = "order tracking retrieved successfully"

	MessageFailedGetOrders   = "failed to retrieve orders"
	MessageFailedUpdateOrder = "failed to update order"
	MessageFailedCancelOrder = "failed to cancel order"

	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("operation not allowed in current order status")
)

type (
	Order struct {
		ID              string     `json:"id"`
		UserID          string     `json:"user_id"`
		RestaurantID    string     `json:"restaurant_id,omitempty"`
		RestaurantName  string     `json:"restaurant_name,omitempty"`
		DeliveryAgentID string     `json:"delivery_agent_id,omitempty"`
		Status          string     `json:"status"`
		TotalAmount     float64    `json:"total_amount"`
		DeliveryFee     float64    `json:"delivery_fee"`
		TaxAmount       float64    `json:"tax_amount"`
		GrandTotal      float64    `json:"grand_total"`
		DeliveryAddress string     `json:"delivery_address"`
		PaymentStatus   string     `json:"payment_status"`
		IsPaid          bool       `json:"is_paid"`
		ConfirmedAt     *time.Time `json:"confirmed_at,omitempty"`
		PickedAt        *time.Time `json:"picked_at,omitempty"`
		DeliveredAt     *time.Time `json:"delivered_at,omitempty"`
		Items           []*OrderItem `json:"items,omitempty"`
		CreatedAt       time.Time  `json:"created_at"`
	}

	OrderItem struct {
		ID       string  `json:"id"`
		Name     string  `json:"name"`
		Price    float64 `json:"price"`
		Quantity int     `json:"quantity"`
		Subtotal float64 `json:"subtotal"`
	}

	UpdateOrderStatusRequest struct {
		OrderID string `json:"order_id" validate:"required,uuid"`
		Status  string `json:"status" validate:"required,oneof=preparing"`
	}

	OrderTracking struct {
		OrderID           string     `json:"order_id"`
		Status            string     `json:"status"`
		AgentLatitude     *float64   `json:"agent_latitude,omitempty"`
		AgentLongitude    *float64   `json:"agent_longitude,omitempty"`
		LocationUpdatedAt *time.Time `json:"location_updated_at,omitempty"`
		RestaurantLat     *float64   `json:"restaurant_latitude,omitempty"`
		RestaurantLng     *float64   `json:"restaurant_longitude,omitempty"`
	}
)
