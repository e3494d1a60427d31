package customer

import (
	"errors"

	"gorm.io/gorm"

	customerEntity "wholesale.GO/model/entity/customer"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// FindByID returns the customer for a tenant, or nil if absent.
func (r *CustomerRepository) FindByID(tenantID, customerID uint) (*customerEntity.Customer, error) {
	var c customerEntity.Customer
	err := r.db.Where("tenant_id = ? AND id = ?", tenantID, customerID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
