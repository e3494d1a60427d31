package sales

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	salesEntity "wholesale.GO/model/entity/sales"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// FindByID returns the order with its items, or nil if absent.
func (r *OrderRepository) FindByID(tenantID, orderID uint) (*salesEntity.SalesOrder, error) {
	var order salesEntity.SalesOrder
	err := r.db.Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, orderID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Create inserts the order with its items.
func (r *OrderRepository) Create(order *salesEntity.SalesOrder) error {
	return r.db.Create(order).Error
}

func (r *OrderRepository) Save(order *salesEntity.SalesOrder) error {
	return r.db.Save(order).Error
}

// UpdateStatus sets the order status.
func (r *OrderRepository) UpdateStatus(order *salesEntity.SalesOrder, status string) error {
	order.Status = status
	return r.db.Model(order).Update("status", status).Error
}

// NextOrderNumber advances the per-tenant-per-day sequence and formats the
// order number SO-YYYYMMDD-NNNN. Call inside the order creation
// transaction: the counter UPDATE takes a row lock, so concurrent
// creations serialize instead of double-counting (the reference behavior
// of counting same-day orders raced).
func (r *OrderRepository) NextOrderNumber(tenantID uint, day string) (string, error) {
	seq := salesEntity.OrderSequence{TenantID: tenantID, Day: day, Value: 1}

	res := r.db.Model(&salesEntity.OrderSequence{}).
		Where("tenant_id = ? AND day = ?", tenantID, day).
		Update("value", gorm.Expr("value + 1"))
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		if err := r.db.Create(&seq).Error; err != nil {
			// Lost the insert race: another transaction created the row.
			res = r.db.Model(&salesEntity.OrderSequence{}).
				Where("tenant_id = ? AND day = ?", tenantID, day).
				Update("value", gorm.Expr("value + 1"))
			if res.Error != nil {
				return "", res.Error
			}
			if res.RowsAffected == 0 {
				return "", err
			}
		}
	}

	if err := r.db.Where("tenant_id = ? AND day = ?", tenantID, day).First(&seq).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("SO-%s-%04d", day, seq.Value), nil
}
