package domain

import (
	"errors"
)

const (
	// Flat delivery fee and tax rate applied at checkout.
	DeliveryFlatFee = 40.00
	TaxRate         = 0.05
)

var (
	MessageSuccessGetCart       = "cart retrieved successfully"
	MessageSuccessUpdateCart    = "cart updated successfully"
	MessageSuccessCreateIntent  = "payment created successfully"
	MessageSuccessReconcile     = "order placed successfully"

	MessageFailedGetCart      = "failed to retrieve cart"
	MessageFailedUpdateCart   = "failed to update cart"
	MessageFailedCreateIntent = "failed to create payment"
	MessageFailedReconcile    = "failed to place order"

	ErrCartItemNotFound     = errors.New("cart item not found")
	ErrMenuItemNotFound     = errors.New("menu item not found")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrPaymentFailed        = errors.New("payment processing failed")
	ErrPaymentNotSucceeded  = errors.New("payment has not succeeded")
)

type (
	AddToCartRequest struct {
		MenuItemID string `json:"menu_item_id" validate:"required,uuid"`
		Quantity   int    `json:"quantity" validate:"omitempty,min=1"`
	}

	UpdateCartRequest struct {
		CartItemID string `json:"cart_item_id" validate:"required,uuid"`
		Action     string `json:"action" validate:"required,oneof=increase decrease"`
	}

	CartItem struct {
		ID         string  `json:"id"`
		MenuItemID string  `json:"menu_item_id"`
		Name       string  `json:"name"`
		Price      float64 `json:"price"`
		Quantity   int     `json:"quantity"`
		Subtotal   float64 `json:"subtotal"`
	}

	CartSummary struct {
		Items       []*CartItem `json:"items"`
		Subtotal    float64     `json:"subtotal"`
		DeliveryFee float64     `json:"delivery_fee"`
		Tax         float64     `json:"tax"`
		GrandTotal  float64     `json:"grand_total"`
	}

	CreateIntentRequest struct {
		Email           string `json:"email" validate:"required,email"`
		DeliveryAddress string `json:"delivery_address" validate:"required"`
		Phone           string `json:"phone" validate:"required,max=15"`
	}

	PaymentIntent struct {
		ID         string  `json:"id"`
		Token      string  `json:"token"`
		InvoiceURL string  `json:"invoice_url"`
		Amount     float64 `json:"amount"`
	}

	CreateIntentResponse struct {
		PaymentIntentID string  `json:"payment_intent_id"`
		InvoiceURL      string  `json:"invoice_url"`
		Amount          float64 `json:"amount"`
	}

	ReconcileRequest struct {
		PaymentIntentID string `json:"payment_intent_id" validate:"required"`
		DeliveryAddress string `json:"delivery_address" validate:"required"`
		Phone           string `json:"phone" validate:"required,max=15"`
	}
)
