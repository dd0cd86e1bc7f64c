package order

import (
	"context"
	"errors"
	"fmt"

	"foodify/domain"
	"foodify/entities"
	"foodify/internal/utils/cache"
	"foodify/pkg/notification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	OrderService interface {
		GetMyOrders(ctx context.Context, userID string, page, limit int) ([]*domain.Order, int64, error)
		GetOrderByID(ctx context.Context, orderID string, userID string) (*domain.Order, error)
		GetRestaurantOrders(ctx context.Context, ownerID string, page, limit int) ([]*domain.Order, int64, error)
		TrackOrder(ctx context.Context, orderID string, userID string) (*domain.OrderTracking, error)

		AdvanceToPreparing(ctx context.Context, req domain.UpdateOrderStatusRequest, ownerID string) error
		CancelOrder(ctx context.Context, orderID string, actorID string) error
	}

	orderService struct {
		orderRepository     OrderRepository
		locationCache       cache.LocationCache
		notificationService notification.NotificationService
	}
)

func NewOrderService(orderRepository OrderRepository, locationCache cache.LocationCache, notificationService notification.NotificationService) OrderService {
	return &orderService{
		orderRepository:     orderRepository,
		locationCache:       locationCache,
		notificationService: notificationService,
	}
}

func (s *orderService) GetMyOrders(ctx context.Context, userID string, page, limit int) ([]*domain.Order, int64, error) {
	orders, count, err := s.orderRepository.GetUserOrders(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.Order, 0, len(orders))
	for _, o := range orders {
		result = append(result, ToDomainOrder(o))
	}
	return result, count, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, orderID string, userID string) (*domain.Order, error) {
	order, err := s.orderRepository.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}

	if order.UserID.String() != userID {
		return nil, domain.ErrForbidden
	}
	return ToDomainOrder(order), nil
}

func (s *orderService) GetRestaurantOrders(ctx context.Context, ownerID string, page, limit int) ([]*domain.Order, int64, error) {
	orders, count, err := s.orderRepository.GetRestaurantOrders(ctx, ownerID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.Order, 0, len(orders))
	for _, o := range orders {
		result = append(result, ToDomainOrder(o))
	}
	return result, count, nil
}

func (s *orderService) TrackOrder(ctx context.Context, orderID string, userID string) (*domain.OrderTracking, error) {
	order, err := s.orderRepository.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}

	if order.UserID.String() != userID {
		return nil, domain.ErrForbidden
	}

	tracking := &domain.OrderTracking{
		OrderID:       order.ID.String(),
		Status:        order.Status,
		RestaurantLat: order.RestaurantLatitude,
		RestaurantLng: order.RestaurantLongitude,
	}

	// Live location is only meaningful while the order is in transit.
	if order.Status != domain.OrderStatusOutForDelivery {
		return tracking, nil
	}

	if s.locationCache != nil {
		if cached, err := s.locationCache.GetAgentLocation(ctx, orderID); err == nil && cached != nil {
			tracking.AgentLatitude = &cached.Latitude
			tracking.AgentLongitude = &cached.Longitude
			tracking.LocationUpdatedAt = &cached.UpdatedAt
			return tracking, nil
		}
	}

	tracking.AgentLatitude = order.AgentCurrentLatitude
	tracking.AgentLongitude = order.AgentCurrentLongitude
	tracking.LocationUpdatedAt = order.AgentLocationUpdatedAt
	return tracking, nil
}

func (s *orderService) AdvanceToPreparing(ctx context.Context, req domain.UpdateOrderStatusRequest, ownerID string) error {
	ownerUUID, err := uuid.Parse(ownerID)
	if err != nil {
		return domain.ErrParseUUID
	}

	order, err := s.orderRepository.GetOrderByID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrOrderNotFound
		}
		return err
	}

	if order.Restaurant == nil || order.Restaurant.OwnerID != ownerUUID {
		return domain.ErrForbidden
	}

	return s.orderRepository.AdvanceToPreparing(ctx, req.OrderID)
}

func (s *orderService) CancelOrder(ctx context.Context, orderID string, actorID string) error {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return domain.ErrParseUUID
	}

	order, err := s.orderRepository.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrOrderNotFound
		}
		return err
	}

	isOwner := order.UserID == actorUUID
	isRestaurantOwner := order.Restaurant != nil && order.Restaurant.OwnerID == actorUUID
	if !isOwner && !isRestaurantOwner {
		return domain.ErrForbidden
	}

	if err := s.orderRepository.CancelOrder(ctx, orderID); err != nil {
		return err
	}

	s.notificationService.Notify(ctx, domain.Event{
		Type:    domain.EventOrderCancelled,
		UserID:  order.UserID,
		Message: fmt.Sprintf("order %s has been cancelled", order.ID),
		OrderID: &order.ID,
	})
	return nil
}

// ToDomainOrder maps an order aggregate to its API shape. Shared with the
// delivery and checkout services.
func ToDomainOrder(o *entities.Order) *domain.Order {
	result := &domain.Order{
		ID:              o.ID.String(),
		UserID:          o.UserID.String(),
		Status:          o.Status,
		TotalAmount:     o.TotalAmount,
		DeliveryFee:     o.DeliveryFee,
		TaxAmount:       o.TaxAmount,
		GrandTotal:      o.TotalAmount + o.DeliveryFee + o.TaxAmount,
		DeliveryAddress: o.DeliveryAddress,
		PaymentStatus:   o.PaymentStatus,
		IsPaid:          o.IsPaid,
		ConfirmedAt:     o.ConfirmedAt,
		PickedAt:        o.PickedAt,
		DeliveredAt:     o.DeliveredAt,
		CreatedAt:       o.CreatedAt,
	}
	if o.RestaurantID != nil {
		result.RestaurantID = o.RestaurantID.String()
	}
	if o.Restaurant != nil {
		result.RestaurantName = o.Restaurant.Name
	}
	if o.DeliveryAgentID != nil {
		result.DeliveryAgentID = o.DeliveryAgentID.String()
	}
	for _, item := range o.Items {
		result.Items = append(result.Items, &domain.OrderItem{
			ID:       item.ID.String(),
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
			Subtotal: item.Price * float64(item.Quantity),
		})
	}
	return result
}
