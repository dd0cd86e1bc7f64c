package delivery

import (
	"context"
	"time"

	"foodify/domain"
	"foodify/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	DeliveryRepository interface {
		CreateAgent(ctx context.Context, agent *entities.DeliveryAgent) error
		GetAgentByUserID(ctx context.Context, userID string) (*entities.DeliveryAgent, error)
		ToggleAvailability(ctx context.Context, userID string) (bool, error)

		GetAvailableOrders(ctx context.Context, limit int) ([]*entities.Order, error)
		GetAgentOrders(ctx context.Context, agentID string, statuses []string, limit int) ([]*entities.Order, error)

		// AssignAgent claims an unassigned order for an agent. The order row
		// is locked so concurrent acceptors serialize; exactly one wins and
		// the rest fail with ErrAlreadyAssigned.
		AssignAgent(ctx context.Context, orderID string, agentID string) (*entities.Order, error)

		// UnassignAgent releases an assignment that has not reached pickup.
		UnassignAgent(ctx context.Context, orderID string, agentID string) (*entities.Order, error)

		// MarkPicked moves the order out for delivery, stamps picked_at and
		// snapshots the restaurant coordinates onto the order row.
		MarkPicked(ctx context.Context, orderID string, agentID string, now time.Time) (*entities.Order, error)

		// CompleteDelivery finishes the order and increments the agent's
		// delivery statistics in the same transaction, exactly once.
		CompleteDelivery(ctx context.Context, orderID string, agentID string, now time.Time) (*entities.Order, error)

		// UpdateAgentLocation overwrites the live location fields for an
		// in-transit order; last write wins.
		UpdateAgentLocation(ctx context.Context, orderID string, agentID string, lat, lng float64, now time.Time) error
	}

	deliveryRepository struct {
		db *gorm.DB
	}
)

func NewDeliveryRepository(db *gorm.DB) DeliveryRepository {
	return &deliveryRepository{db: db}
}

func (r *deliveryRepository) CreateAgent(ctx context.Context, agent *entities.DeliveryAgent) error {
	return r.db.WithContext(ctx).Create(agent).Error
}

func (r *deliveryRepository) GetAgentByUserID(ctx context.Context, userID string) (*entities.DeliveryAgent, error) {
	var agent entities.DeliveryAgent
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&agent).Error; err != nil {
		return nil, err
	}
	return &agent, nil
}

func (r *deliveryRepository) ToggleAvailability(ctx context.Context, userID string) (bool, error) {
	var agent entities.DeliveryAgent
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&agent).Error; err != nil {
			return err
		}
		agent.AvailabilityStatus = !agent.AvailabilityStatus
		return tx.Save(&agent).Error
	})
	if err != nil {
		return false, err
	}
	return agent.AvailabilityStatus, nil
}

func (r *deliveryRepository) GetAvailableOrders(ctx context.Context, limit int) ([]*entities.Order, error) {
	var orders []*entities.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Restaurant").
		Where("status = ? AND delivery_agent_id IS NULL", domain.OrderStatusConfirmed).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *deliveryRepository) GetAgentOrders(ctx context.Context, agentID string, statuses []string, limit int) ([]*entities.Order, error) {
	var orders []*entities.Order
	query := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Restaurant").
		Where("delivery_agent_id = ?", agentID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	if err := query.
		Order("updated_at DESC").
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *deliveryRepository) AssignAgent(ctx context.Context, orderID string, agentID string) (*entities.Order, error) {
	var order entities.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", orderID).
			First(&order).Error; err != nil {
			return err
		}

		if order.DeliveryAgentID != nil {
			return domain.ErrAlreadyAssigned
		}
		if order.Status != domain.OrderStatusConfirmed && order.Status != domain.OrderStatusPreparing {
			return domain.ErrInvalidTransition
		}

		return tx.Model(&order).Update("delivery_agent_id", agentID).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *deliveryRepository) UnassignAgent(ctx context.Context, orderID string, agentID string) (*entities.Order, error) {
	var order entities.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", orderID).
			First(&order).Error; err != nil {
			return err
		}

		if order.DeliveryAgentID == nil || order.DeliveryAgentID.String() != agentID {
			return domain.ErrForbidden
		}
		if order.PickedAt != nil {
			return domain.ErrInvalidTransition
		}
		if order.Status != domain.OrderStatusConfirmed && order.Status != domain.OrderStatusPreparing {
			return domain.ErrInvalidTransition
		}

		return tx.Model(&order).Update("delivery_agent_id", nil).Error
	})
	if err != nil {
		return nil, err
	}
	order.DeliveryAgentID = nil
	return &order, nil
}

func (r *deliveryRepository) MarkPicked(ctx context.Context, orderID string, agentID string, now time.Time) (*entities.Order, error) {
	var order entities.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Restaurant").
			Where("id = ?", orderID).
			First(&order).Error; err != nil {
			return err
		}

		if order.DeliveryAgentID == nil || order.DeliveryAgentID.String() != agentID {
			return domain.ErrForbidden
		}
		if order.Status != domain.OrderStatusConfirmed && order.Status != domain.OrderStatusPreparing {
			return domain.ErrInvalidTransition
		}

		order.Status = domain.OrderStatusOutForDelivery
		order.PickedAt = &now

		// The pickup coordinates are frozen here so tracking does not depend
		// on the restaurant row staying unchanged.
		if order.Restaurant != nil {
			lat, lng := order.Restaurant.Latitude, order.Restaurant.Longitude
			order.RestaurantLatitude = &lat
			order.RestaurantLongitude = &lng
		}

		return tx.Save(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *deliveryRepository) CompleteDelivery(ctx context.Context, orderID string, agentID string, now time.Time) (*entities.Order, error) {
	var order entities.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", orderID).
			First(&order).Error; err != nil {
			return err
		}

		if order.DeliveryAgentID == nil || order.DeliveryAgentID.String() != agentID {
			return domain.ErrForbidden
		}
		if order.Status != domain.OrderStatusOutForDelivery {
			return domain.ErrInvalidTransition
		}

		order.Status = domain.OrderStatusDelivered
		order.DeliveredAt = &now
		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		var agent entities.DeliveryAgent
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", agentID).
			First(&agent).Error; err != nil {
			return err
		}

		agent.TotalDeliveries++
		agent.TotalEarnings += order.DeliveryFee
		return tx.Save(&agent).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *deliveryRepository) UpdateAgentLocation(ctx context.Context, orderID string, agentID string, lat, lng float64, now time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Order{}).
		Where("id = ? AND delivery_agent_id = ? AND status = ?", orderID, agentID, domain.OrderStatusOutForDelivery).
		Updates(map[string]interface{}{
			"agent_current_latitude":    lat,
			"agent_current_longitude":   lng,
			"agent_location_updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotInTransit
	}
	return nil
}
