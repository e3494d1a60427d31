package catalog

import (
	"errors"

	"gorm.io/gorm"

	catalogEntity "wholesale.GO/model/entity/catalog"
)

type WarehouseRepository struct {
	db *gorm.DB
}

func NewWarehouseRepository(db *gorm.DB) *WarehouseRepository {
	return &WarehouseRepository{db: db}
}

// FindByID returns the warehouse for a tenant, or nil if absent.
func (r *WarehouseRepository) FindByID(tenantID, warehouseID uint) (*catalogEntity.Warehouse, error) {
	var wh catalogEntity.Warehouse
	err := r.db.Where("tenant_id = ? AND id = ?", tenantID, warehouseID).First(&wh).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wh, nil
}

// BinCodesByID returns bin location codes keyed by bin id for a warehouse.
func (r *WarehouseRepository) BinCodesByID(tenantID, warehouseID uint) (map[uint]string, error) {
	var bins []catalogEntity.BinLocation
	if err := r.db.Where("tenant_id = ? AND warehouse_id = ?", tenantID, warehouseID).Find(&bins).Error; err != nil {
		return nil, err
	}
	codes := make(map[uint]string, len(bins))
	for _, b := range bins {
		codes[b.ID] = b.Code
	}
	return codes, nil
}

// FindBinByID returns a bin location, or nil if absent.
func (r *WarehouseRepository) FindBinByID(tenantID, binID uint) (*catalogEntity.BinLocation, error) {
	var bin catalogEntity.BinLocation
	err := r.db.Where("tenant_id = ? AND id = ?", tenantID, binID).First(&bin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bin, nil
}
