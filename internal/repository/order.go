package repository

import (
	"context"
	"time"

	"mediastore/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	CreateItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error
	SetSessionID(ctx context.Context, orderID uint, sessionID string) error
	FindByID(ctx context.Context, orderID uint) (*model.Order, error)
	FindBySessionID(ctx context.Context, sessionID string) (*model.Order, error)
	MarkPaid(ctx context.Context, orderID uint) (*model.Order, error)
	SetStatus(ctx context.Context, orderID uint, status model.OrderStatus) error
	List(ctx context.Context) ([]*model.Order, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) CreateItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *orderRepoImpl) SetSessionID(ctx context.Context, orderID uint, sessionID string) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"checkout_session_id": sessionID,
			"updated_at":          time.Now(),
		}).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID uint) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		First(&order, orderID).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindBySessionID(ctx context.Context, sessionID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("checkout_session_id = ?", sessionID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

// MarkPaid moves an order along the reconciler path. Orders already paid are
// re-set to paid, so redelivered webhooks stay a no-op; orders an admin has
// moved to some other status are left alone and reported as not found.
func (r *orderRepoImpl) MarkPaid(ctx context.Context, orderID uint) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Order{}).
			Where("id = ? AND status IN ?",
				orderID,
				[]model.OrderStatus{model.StatusCreated, model.StatusPaid},
			).
			Updates(map[string]interface{}{
				"status":     model.StatusPaid,
				"updated_at": time.Now(),
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.First(&order, orderID).Error
	})

	if err != nil {
		return nil, err
	}

	return &order, nil
}

// SetStatus is the unvalidated admin override. Any status value is accepted,
// including moving a paid order backwards.
func (r *orderRepoImpl) SetStatus(ctx context.Context, orderID uint, status model.OrderStatus) error {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepoImpl) List(ctx context.Context) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}
