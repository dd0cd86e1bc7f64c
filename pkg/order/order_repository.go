package order

import (
	"context"

	"foodify/domain"
	"foodify/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	OrderRepository interface {
		GetOrderByID(ctx context.Context, id string) (*entities.Order, error)
		GetUserOrders(ctx context.Context, userID string, page, limit int) ([]*entities.Order, int64, error)
		GetRestaurantOrders(ctx context.Context, ownerID string, page, limit int) ([]*entities.Order, int64, error)

		// AdvanceToPreparing moves a confirmed order into preparing under a
		// row lock; any other source status fails with ErrInvalidTransition.
		AdvanceToPreparing(ctx context.Context, orderID string) error

		// CancelOrder cancels an order that has not been picked up yet.
		CancelOrder(ctx context.Context, orderID string) error
	}

	orderRepository struct {
		db *gorm.DB
	}
)

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id string) (*entities.Order, error) {
	var order entities.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Restaurant").
		Where("id = ?", id).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetUserOrders(ctx context.Context, userID string, page, limit int) ([]*entities.Order, int64, error) {
	var orders []*entities.Order
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.Order{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Restaurant").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, count, nil
}

func (r *orderRepository) GetRestaurantOrders(ctx context.Context, ownerID string, page, limit int) ([]*entities.Order, int64, error) {
	var orders []*entities.Order
	var count int64
	offset := (page - 1) * limit

	base := r.db.WithContext(ctx).
		Model(&entities.Order{}).
		Joins("JOIN restaurants ON restaurants.id = orders.restaurant_id").
		Where("restaurants.owner_id = ?", ownerID)

	if err := base.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := base.
		Preload("Items").
		Preload("Restaurant").
		Order("orders.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, count, nil
}

func (r *orderRepository) AdvanceToPreparing(ctx context.Context, orderID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order entities.Order
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", orderID).
			First(&order).Error; err != nil {
			return err
		}

		if order.Status != domain.OrderStatusConfirmed {
			return domain.ErrInvalidTransition
		}

		order.Status = domain.OrderStatusPreparing
		return tx.Save(&order).Error
	})
}

func (r *orderRepository) CancelOrder(ctx context.Context, orderID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order entities.Order
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", orderID).
			First(&order).Error; err != nil {
			return err
		}

		if order.Status != domain.OrderStatusConfirmed && order.Status != domain.OrderStatusPreparing {
			return domain.ErrInvalidTransition
		}
		if order.PickedAt != nil {
			return domain.ErrInvalidTransition
		}

		order.Status = domain.OrderStatusCancelled
		return tx.Save(&order).Error
	})
}
