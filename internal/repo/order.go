package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/avelkov/eshop-api/internal/models"
)

func (r *GormRepo) CreateOrderItem(ctx context.Context, item *models.OrderItem) (*models.OrderItem, error) {
	if err := r.DB.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *GormRepo) GetOrderItem(ctx context.Context, id uuid.UUID) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := r.DB.WithContext(ctx).Preload("Product").Where("id = ?", id).First(&item).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *GormRepo) DeleteOrderItem(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&models.OrderItem{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateOrder persists the order record and claims the already-persisted
// items for it. The item writes happened before this call, so a failure here
// leaves them behind deliberately.
func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order, itemIDs []uuid.UUID) (*models.Order, error) {
	if err := r.DB.WithContext(ctx).Omit("OrderItems").Create(order).Error; err != nil {
		return nil, err
	}
	if err := r.DB.WithContext(ctx).Model(&models.OrderItem{}).
		Where("id IN ?", itemIDs).
		Update("order_id", order.ID).Error; err != nil {
		return nil, err
	}
	return r.GetOrder(ctx, order.ID)
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).
		Preload("User").
		Preload("OrderItems.Product.Category").
		Where("id = ?", id).
		First(&order).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Preload("User").
		Order("date_of_order DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Preload("OrderItems.Product.Category").
		Where("user_id = ?", userID).
		Order("date_of_order DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) SaveOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.DB.WithContext(ctx).Omit("OrderItems", "User").Save(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *GormRepo) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&models.Order{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TotalSales sums totalPrice over every order; an empty table yields zero,
// not an error.
func (r *GormRepo) TotalSales(ctx context.Context) (float64, error) {
	var total float64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *GormRepo) CountOrders(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
