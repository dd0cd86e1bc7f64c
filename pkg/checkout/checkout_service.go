package checkout

import (
	"context"
	"errors"
	"time"

	"foodify/domain"
	"foodify/entities"
	"foodify/pkg/notification"
	"foodify/pkg/order"
	"foodify/pkg/payment"
	"foodify/pkg/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	CheckoutService interface {
		GetCart(ctx context.Context, userID string) (*domain.CartSummary, error)
		AddToCart(ctx context.Context, req domain.AddToCartRequest, userID string) error
		UpdateCart(ctx context.Context, req domain.UpdateCartRequest, userID string) error
		RemoveCartItem(ctx context.Context, cartItemID string, userID string) error

		// CreateIntent prices the current cart and opens a payment with the
		// gateway. No order exists yet; the order is only written once the
		// payment is confirmed through Reconcile.
		CreateIntent(ctx context.Context, req domain.CreateIntentRequest, userID string) (*domain.CreateIntentResponse, error)

		// Reconcile verifies the payment with the gateway and converts the
		// cart into a confirmed order. Calling it again with the same intent
		// returns the order created the first time.
		Reconcile(ctx context.Context, req domain.ReconcileRequest, userID string) (*domain.Order, error)
	}

	checkoutService struct {
		checkoutRepository  CheckoutRepository
		userRepository      user.UserRepository
		paymentGateway      payment.PaymentGateway
		notificationService notification.NotificationService
	}
)

func NewCheckoutService(
	checkoutRepository CheckoutRepository,
	userRepository user.UserRepository,
	paymentGateway payment.PaymentGateway,
	notificationService notification.NotificationService,
) CheckoutService {
	return &checkoutService{
		checkoutRepository:  checkoutRepository,
		userRepository:      userRepository,
		paymentGateway:      paymentGateway,
		notificationService: notificationService,
	}
}

func (s *checkoutService) GetCart(ctx context.Context, userID string) (*domain.CartSummary, error) {
	items, err := s.checkoutRepository.GetCartItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	return summarizeCart(items), nil
}

func (s *checkoutService) AddToCart(ctx context.Context, req domain.AddToCartRequest, userID string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}
	menuItemID, err := uuid.Parse(req.MenuItemID)
	if err != nil {
		return domain.ErrParseUUID
	}

	if _, err := s.checkoutRepository.GetMenuItemByID(ctx, req.MenuItemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrMenuItemNotFound
		}
		return err
	}

	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	return s.checkoutRepository.UpsertCartItem(ctx, &entities.Cart{
		ID:         uuid.New(),
		UserID:     uid,
		MenuItemID: menuItemID,
		Quantity:   quantity,
	})
}

func (s *checkoutService) UpdateCart(ctx context.Context, req domain.UpdateCartRequest, userID string) error {
	item, err := s.checkoutRepository.GetCartItemByID(ctx, req.CartItemID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrCartItemNotFound
		}
		return err
	}

	switch req.Action {
	case "increase":
		return s.checkoutRepository.UpdateCartQuantity(ctx, req.CartItemID, item.Quantity+1)
	case "decrease":
		if item.Quantity <= 1 {
			return s.checkoutRepository.RemoveCartItem(ctx, req.CartItemID)
		}
		return s.checkoutRepository.UpdateCartQuantity(ctx, req.CartItemID, item.Quantity-1)
	default:
		return domain.ErrCartItemNotFound
	}
}

func (s *checkoutService) RemoveCartItem(ctx context.Context, cartItemID string, userID string) error {
	if _, err := s.checkoutRepository.GetCartItemByID(ctx, cartItemID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrCartItemNotFound
		}
		return err
	}
	return s.checkoutRepository.RemoveCartItem(ctx, cartItemID)
}

func (s *checkoutService) CreateIntent(ctx context.Context, req domain.CreateIntentRequest, userID string) (*domain.CreateIntentResponse, error) {
	items, err := s.checkoutRepository.GetCartItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	summary := summarizeCart(items)
	intent, err := s.paymentGateway.CreateIntent(ctx, summary.GrandTotal, req.Email)
	if err != nil {
		return nil, domain.ErrPaymentFailed
	}

	return &domain.CreateIntentResponse{
		PaymentIntentID: intent.ID,
		InvoiceURL:      intent.InvoiceURL,
		Amount:          intent.Amount,
	}, nil
}

func (s *checkoutService) Reconcile(ctx context.Context, req domain.ReconcileRequest, userID string) (*domain.Order, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	succeeded, err := s.paymentGateway.ConfirmIntent(ctx, req.PaymentIntentID)
	if err != nil {
		return nil, domain.ErrPaymentFailed
	}
	if !succeeded {
		go s.notificationService.Notify(context.Background(), domain.Event{
			Type:    domain.EventPaymentFailed,
			UserID:  uid,
			Message: "Your payment could not be completed. Please try again.",
		})
		return nil, domain.ErrPaymentNotSucceeded
	}

	// Retried confirmations short-circuit inside the repository, but the
	// common case still needs a priced cart to build the order from.
	items, err := s.checkoutRepository.GetCartItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		existing, err := s.checkoutRepository.GetOrderByPaymentIntent(ctx, req.PaymentIntentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrEmptyCart
			}
			return nil, err
		}
		return order.ToDomainOrder(existing), nil
	}

	summary := summarizeCart(items)
	now := time.Now()
	intentID := req.PaymentIntentID

	newOrder := &entities.Order{
		ID:              uuid.New(),
		UserID:          uid,
		Status:          domain.OrderStatusConfirmed,
		TotalAmount:     summary.Subtotal,
		DeliveryFee:     summary.DeliveryFee,
		TaxAmount:       summary.Tax,
		DeliveryAddress: req.DeliveryAddress,
		ContactPhone:    req.Phone,
		ConfirmedAt:     &now,
		PaymentIntentID: &intentID,
		PaymentStatus:   domain.PaymentStatusPaid,
		IsPaid:          true,
	}

	var restaurantID *uuid.UUID
	orderItems := make([]*entities.OrderItem, 0, len(items))
	for _, item := range items {
		if item.MenuItem == nil {
			continue
		}
		if restaurantID == nil {
			rid := item.MenuItem.RestaurantID
			restaurantID = &rid
		}
		menuItemID := item.MenuItemID
		orderItems = append(orderItems, &entities.OrderItem{
			ID:         uuid.New(),
			MenuItemID: &menuItemID,
			Name:       item.MenuItem.Name,
			Price:      item.MenuItem.Price,
			Quantity:   item.Quantity,
		})
	}
	newOrder.RestaurantID = restaurantID

	transaction := &entities.PaymentTransaction{
		ID:            uuid.New(),
		RestaurantID:  restaurantID,
		CustomerID:    uid,
		TransactionID: intentID,
		PaymentMethod: "midtrans",
		Amount:        summary.GrandTotal,
		Status:        domain.PaymentStatusCompleted,
	}

	placed, created, err := s.checkoutRepository.ReconcileOrder(ctx, newOrder, orderItems, transaction)
	if err != nil {
		return nil, err
	}

	if created {
		email := ""
		if customer, err := s.userRepository.GetUserByID(ctx, userID); err == nil {
			email = customer.Email
		}
		go s.notificationService.Notify(context.Background(), domain.Event{
			Type:    domain.EventOrderConfirmed,
			UserID:  uid,
			Message: "Your order has been confirmed and sent to the restaurant.",
			Email:   email,
			OrderID: &placed.ID,
		})
	}
	return order.ToDomainOrder(placed), nil
}

func summarizeCart(items []*entities.Cart) *domain.CartSummary {
	summary := &domain.CartSummary{
		Items: make([]*domain.CartItem, 0, len(items)),
	}

	for _, item := range items {
		if item.MenuItem == nil {
			continue
		}
		subtotal := item.MenuItem.Price * float64(item.Quantity)
		summary.Items = append(summary.Items, &domain.CartItem{
			ID:         item.ID.String(),
			MenuItemID: item.MenuItemID.String(),
			Name:       item.MenuItem.Name,
			Price:      item.MenuItem.Price,
			Quantity:   item.Quantity,
			Subtotal:   subtotal,
		})
		summary.Subtotal += subtotal
	}

	if len(summary.Items) > 0 {
		summary.DeliveryFee = domain.DeliveryFlatFee
		summary.Tax = summary.Subtotal * domain.TaxRate
	}
	summary.GrandTotal = summary.Subtotal + summary.DeliveryFee + summary.Tax
	return summary
}
