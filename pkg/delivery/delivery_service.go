package delivery

import (
	"context"
	"errors"
	"log"
	"time"

	"foodify/domain"
	"foodify/entities"
	"foodify/internal/utils/cache"
	"foodify/pkg/notification"
	"foodify/pkg/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	DeliveryService interface {
		RegisterAgent(ctx context.Context, req domain.RegisterAgentRequest, userID string) (*domain.AgentProfile, error)
		GetProfile(ctx context.Context, userID string) (*domain.AgentProfile, error)
		ToggleAvailability(ctx context.Context, userID string) (bool, error)
		Dashboard(ctx context.Context, userID string) (*domain.AgentDashboard, error)

		AcceptOrder(ctx context.Context, orderID string, userID string) error
		RejectOrder(ctx context.Context, orderID string, userID string) error
		MarkPicked(ctx context.Context, orderID string, userID string) (*domain.Order, error)
		MarkDelivered(ctx context.Context, orderID string, userID string) (*domain.Order, error)
		UpdateLocation(ctx context.Context, req domain.UpdateLocationRequest, userID string) error
	}

	deliveryService struct {
		deliveryRepository  DeliveryRepository
		locationCache       cache.LocationCache
		notificationService notification.NotificationService
	}
)

func NewDeliveryService(
	deliveryRepository DeliveryRepository,
	locationCache cache.LocationCache,
	notificationService notification.NotificationService,
) DeliveryService {
	return &deliveryService{
		deliveryRepository:  deliveryRepository,
		locationCache:       locationCache,
		notificationService: notificationService,
	}
}

func (s *deliveryService) RegisterAgent(ctx context.Context, req domain.RegisterAgentRequest, userID string) (*domain.AgentProfile, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	agent := &entities.DeliveryAgent{
		ID:                 uuid.New(),
		UserID:             uid,
		FullName:           req.FullName,
		Phone:              req.Phone,
		Address:            req.Address,
		VehicleType:        req.VehicleType,
		VehicleNumber:      req.VehicleNumber,
		DrivingLicense:     req.DrivingLicense,
		AvailabilityStatus: true,
	}

	if err := s.deliveryRepository.CreateAgent(ctx, agent); err != nil {
		return nil, err
	}
	return toAgentProfile(agent), nil
}

func (s *deliveryService) GetProfile(ctx context.Context, userID string) (*domain.AgentProfile, error) {
	agent, err := s.deliveryRepository.GetAgentByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAgentNotFound
		}
		return nil, err
	}
	return toAgentProfile(agent), nil
}

// ToggleAvailability flips the flag regardless of any in-flight assignments;
// an agent going offline still has to finish the deliveries they hold.
func (s *deliveryService) ToggleAvailability(ctx context.Context, userID string) (bool, error) {
	available, err := s.deliveryRepository.ToggleAvailability(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, domain.ErrAgentNotFound
		}
		return false, err
	}
	return available, nil
}

func (s *deliveryService) Dashboard(ctx context.Context, userID string) (*domain.AgentDashboard, error) {
	agent, err := s.deliveryRepository.GetAgentByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAgentNotFound
		}
		return nil, err
	}

	available, err := s.deliveryRepository.GetAvailableOrders(ctx, 20)
	if err != nil {
		return nil, err
	}
	pending, err := s.deliveryRepository.GetAgentOrders(ctx, userID,
		[]string{domain.OrderStatusConfirmed, domain.OrderStatusPreparing}, 20)
	if err != nil {
		return nil, err
	}
	active, err := s.deliveryRepository.GetAgentOrders(ctx, userID,
		[]string{domain.OrderStatusOutForDelivery}, 20)
	if err != nil {
		return nil, err
	}
	delivered, err := s.deliveryRepository.GetAgentOrders(ctx, userID,
		[]string{domain.OrderStatusDelivered}, 20)
	if err != nil {
		return nil, err
	}

	return &domain.AgentDashboard{
		Agent:           toAgentProfile(agent),
		AvailableOrders: toDomainOrders(available),
		PendingPickups:  toDomainOrders(pending),
		ActiveOrders:    toDomainOrders(active),
		DeliveredOrders: toDomainOrders(delivered),
	}, nil
}

func (s *deliveryService) AcceptOrder(ctx context.Context, orderID string, userID string) error {
	if _, err := uuid.Parse(orderID); err != nil {
		return domain.ErrParseUUID
	}
	if _, err := s.deliveryRepository.GetAgentByUserID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrAgentNotFound
		}
		return err
	}

	accepted, err := s.deliveryRepository.AssignAgent(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrOrderNotFound
		}
		return err
	}

	go s.notificationService.Notify(context.Background(), domain.Event{
		Type:    domain.EventOrderAccepted,
		UserID:  accepted.UserID,
		Message: "A delivery agent has accepted your order.",
		OrderID: &accepted.ID,
	})
	return nil
}

func (s *deliveryService) RejectOrder(ctx context.Context, orderID string, userID string) error {
	if _, err := uuid.Parse(orderID); err != nil {
		return domain.ErrParseUUID
	}

	_, err := s.deliveryRepository.UnassignAgent(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrOrderNotFound
		}
		return err
	}
	return nil
}

func (s *deliveryService) MarkPicked(ctx context.Context, orderID string, userID string) (*domain.Order, error) {
	if _, err := uuid.Parse(orderID); err != nil {
		return nil, domain.ErrParseUUID
	}

	picked, err := s.deliveryRepository.MarkPicked(ctx, orderID, userID, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return order.ToDomainOrder(picked), nil
}

func (s *deliveryService) MarkDelivered(ctx context.Context, orderID string, userID string) (*domain.Order, error) {
	if _, err := uuid.Parse(orderID); err != nil {
		return nil, domain.ErrParseUUID
	}

	delivered, err := s.deliveryRepository.CompleteDelivery(ctx, orderID, userID, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}

	go s.notificationService.Notify(context.Background(), domain.Event{
		Type:    domain.EventOrderDelivered,
		UserID:  delivered.UserID,
		Message: "Your order has been delivered. Enjoy your meal!",
		OrderID: &delivered.ID,
	})
	return order.ToDomainOrder(delivered), nil
}

func (s *deliveryService) UpdateLocation(ctx context.Context, req domain.UpdateLocationRequest, userID string) error {
	now := time.Now()
	err := s.deliveryRepository.UpdateAgentLocation(ctx, req.OrderID, userID, req.Latitude, req.Longitude, now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrOrderNotFound
		}
		return err
	}

	if s.locationCache != nil {
		location := domain.AgentLocation{
			OrderID:   req.OrderID,
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			UpdatedAt: now,
		}
		if err := s.locationCache.SetAgentLocation(ctx, req.OrderID, userID, location); err != nil {
			log.Printf("failed to cache agent location for order %s: %v", req.OrderID, err)
		}
	}
	return nil
}

func toAgentProfile(agent *entities.DeliveryAgent) *domain.AgentProfile {
	return &domain.AgentProfile{
		ID:                 agent.ID.String(),
		UserID:             agent.UserID.String(),
		FullName:           agent.FullName,
		VehicleType:        agent.VehicleType,
		VehicleNumber:      agent.VehicleNumber,
		AvailabilityStatus: agent.AvailabilityStatus,
		TotalDeliveries:    agent.TotalDeliveries,
		TotalEarnings:      agent.TotalEarnings,
	}
}

func toDomainOrders(orders []*entities.Order) []*domain.Order {
	out := make([]*domain.Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, order.ToDomainOrder(o))
	}
	return out
}

