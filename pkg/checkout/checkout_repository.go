package checkout

import (
	"context"

	"foodify/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	CheckoutRepository interface {
		GetCartItems(ctx context.Context, userID string) ([]*entities.Cart, error)
		GetCartItemByID(ctx context.Context, cartItemID string, userID string) (*entities.Cart, error)
		UpsertCartItem(ctx context.Context, item *entities.Cart) error
		UpdateCartQuantity(ctx context.Context, cartItemID string, quantity int) error
		RemoveCartItem(ctx context.Context, cartItemID string) error
		ClearCart(ctx context.Context, userID string) error

		GetMenuItemByID(ctx context.Context, menuItemID string) (*entities.MenuItem, error)
		GetOrderByPaymentIntent(ctx context.Context, intentID string) (*entities.Order, error)

		// ReconcileOrder finalizes a paid checkout in one transaction: it
		// creates the order with its items and payment record, then empties
		// the customer's cart. If an order already exists for the intent the
		// existing row is returned untouched, which makes retried webhook or
		// confirm calls harmless.
		ReconcileOrder(
			ctx context.Context,
			order *entities.Order,
			items []*entities.OrderItem,
			transaction *entities.PaymentTransaction,
		) (*entities.Order, bool, error)
	}

	checkoutRepository struct {
		db *gorm.DB
	}
)

func NewCheckoutRepository(db *gorm.DB) CheckoutRepository {
	return &checkoutRepository{db: db}
}

func (r *checkoutRepository) GetCartItems(ctx context.Context, userID string) ([]*entities.Cart, error) {
	var items []*entities.Cart
	if err := r.db.WithContext(ctx).
		Preload("MenuItem").
		Preload("MenuItem.Restaurant").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *checkoutRepository) GetCartItemByID(ctx context.Context, cartItemID string, userID string) (*entities.Cart, error) {
	var item entities.Cart
	if err := r.db.WithContext(ctx).
		Preload("MenuItem").
		Where("id = ? AND user_id = ?", cartItemID, userID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *checkoutRepository) UpsertCartItem(ctx context.Context, item *entities.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entities.Cart
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND menu_item_id = ?", item.UserID, item.MenuItemID).
			First(&existing).Error
		if err == nil {
			existing.Quantity += item.Quantity
			return tx.Save(&existing).Error
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		return tx.Create(item).Error
	})
}

func (r *checkoutRepository) UpdateCartQuantity(ctx context.Context, cartItemID string, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&entities.Cart{}).
		Where("id = ?", cartItemID).
		Update("quantity", quantity).Error
}

func (r *checkoutRepository) RemoveCartItem(ctx context.Context, cartItemID string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", cartItemID).
		Delete(&entities.Cart{}).Error
}

func (r *checkoutRepository) ClearCart(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&entities.Cart{}).Error
}

func (r *checkoutRepository) GetMenuItemByID(ctx context.Context, menuItemID string) (*entities.MenuItem, error) {
	var item entities.MenuItem
	if err := r.db.WithContext(ctx).
		Preload("Restaurant").
		Where("id = ?", menuItemID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *checkoutRepository) GetOrderByPaymentIntent(ctx context.Context, intentID string) (*entities.Order, error) {
	var order entities.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("payment_intent_id = ?", intentID).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *checkoutRepository) ReconcileOrder(
	ctx context.Context,
	order *entities.Order,
	items []*entities.OrderItem,
	transaction *entities.PaymentTransaction,
) (*entities.Order, bool, error) {
	var existing entities.Order
	created := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The in-transaction lookup plus the unique index on
		// payment_intent_id make duplicate confirmations converge on the
		// first order row.
		err := tx.
			Preload("Items").
			Where("payment_intent_id = ?", *order.PaymentIntentID).
			First(&existing).Error
		if err == nil {
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for _, item := range items {
			item.OrderID = order.ID
			if err := tx.Create(item).Error; err != nil {
				return err
			}
		}

		transaction.OrderID = order.ID
		if err := tx.Create(transaction).Error; err != nil {
			return err
		}

		if err := tx.
			Where("user_id = ?", order.UserID).
			Delete(&entities.Cart{}).Error; err != nil {
			return err
		}

		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		order.Items = items
		return order, true, nil
	}
	return &existing, false, nil
}
