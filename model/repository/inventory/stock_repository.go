package inventory

import (
	"errors"

	"gorm.io/gorm"

	inventoryEntity "wholesale.GO/model/entity/inventory"
)

// StockRepository reads and mutates stock_records. Quantity mutations on
// the hot paths are guarded single-statement UPDATEs so that two
// concurrent transactions cannot both observe the same availability
// (the WHERE guard re-checks under the row lock; RowsAffected == 0 means
// the guard lost).
type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

// FindForKey returns the record for the exact
// (tenant, sku, warehouse, bin-or-none) key, or nil if absent.
func (r *StockRepository) FindForKey(tenantID, skuID, warehouseID uint, binID *uint) (*inventoryEntity.StockRecord, error) {
	q := r.db.Where("tenant_id = ? AND sku_id = ? AND warehouse_id = ?", tenantID, skuID, warehouseID)
	if binID == nil {
		q = q.Where("bin_location_id IS NULL")
	} else {
		q = q.Where("bin_location_id = ?", *binID)
	}
	var rec inventoryEntity.StockRecord
	err := q.First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// FindBySkuWarehouse returns all rows for (tenant, sku, warehouse).
func (r *StockRepository) FindBySkuWarehouse(tenantID, skuID, warehouseID uint) ([]inventoryEntity.StockRecord, error) {
	var recs []inventoryEntity.StockRecord
	err := r.db.Where("tenant_id = ? AND sku_id = ? AND warehouse_id = ?", tenantID, skuID, warehouseID).
		Find(&recs).Error
	return recs, err
}

// FindBySku returns all rows for (tenant, sku) across every warehouse.
func (r *StockRepository) FindBySku(tenantID, skuID uint) ([]inventoryEntity.StockRecord, error) {
	var recs []inventoryEntity.StockRecord
	err := r.db.Where("tenant_id = ? AND sku_id = ?", tenantID, skuID).
		Order("warehouse_id ASC, bin_location_id ASC").
		Find(&recs).Error
	return recs, err
}

func (r *StockRepository) Create(rec *inventoryEntity.StockRecord) error {
	return r.db.Create(rec).Error
}

func (r *StockRepository) Save(rec *inventoryEntity.StockRecord) error {
	return r.db.Save(rec).Error
}

// AddOnHand increments on-hand unconditionally (inbound path).
func (r *StockRepository) AddOnHand(id uint, qty int64) error {
	return r.db.Exec(
		`UPDATE stock_records SET on_hand_qty = on_hand_qty + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		qty, id,
	).Error
}

// DebitAvailable decrements on-hand, guarded on available quantity.
// Returns false when the guard fails (insufficient available).
func (r *StockRepository) DebitAvailable(id uint, qty int64) (bool, error) {
	res := r.db.Exec(
		`UPDATE stock_records SET on_hand_qty = on_hand_qty - ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND on_hand_qty - locked_qty >= ?`,
		qty, id, qty,
	)
	return res.RowsAffected > 0, res.Error
}

// DebitConsumingLock decrements on-hand guarded on raw on-hand, and
// releases up to the same amount of lock in the same statement. Used by
// order fulfillment, where the debited quantity was locked at confirm time.
func (r *StockRepository) DebitConsumingLock(id uint, qty int64) (bool, error) {
	res := r.db.Exec(
		`UPDATE stock_records
		 SET on_hand_qty = on_hand_qty - ?,
		     locked_qty = CASE WHEN locked_qty > ? THEN locked_qty - ? ELSE 0 END,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND on_hand_qty >= ?`,
		qty, qty, qty, id, qty,
	)
	return res.RowsAffected > 0, res.Error
}

// AddLocked increments locked, guarded on available quantity.
func (r *StockRepository) AddLocked(id uint, qty int64) (bool, error) {
	res := r.db.Exec(
		`UPDATE stock_records SET locked_qty = locked_qty + ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND on_hand_qty - locked_qty >= ?`,
		qty, id, qty,
	)
	return res.RowsAffected > 0, res.Error
}

// ReleaseLocked decrements locked, guarded on the current locked quantity.
func (r *StockRepository) ReleaseLocked(id uint, qty int64) (bool, error) {
	res := r.db.Exec(
		`UPDATE stock_records SET locked_qty = locked_qty - ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND locked_qty >= ?`,
		qty, id, qty,
	)
	return res.RowsAffected > 0, res.Error
}

// SummaryBySku sums on-hand and locked for a SKU across all warehouses
// and bins.
func (r *StockRepository) SummaryBySku(tenantID, skuID uint) (onHand, locked int64, err error) {
	row := struct {
		OnHand int64
		Locked int64
	}{}
	err = r.db.Model(&inventoryEntity.StockRecord{}).
		Select("COALESCE(SUM(on_hand_qty), 0) AS on_hand, COALESCE(SUM(locked_qty), 0) AS locked").
		Where("tenant_id = ? AND sku_id = ?", tenantID, skuID).
		Scan(&row).Error
	return row.OnHand, row.Locked, err
}

// StockSum is one (sku, warehouse) on-hand aggregate.
type StockSum struct {
	TenantID    uint
	SkuID       uint
	WarehouseID uint
	OnHand      int64
}

// SumsByWarehouse aggregates on-hand per (tenant, sku, warehouse) for
// ledger reconciliation.
func (r *StockRepository) SumsByWarehouse(tenantID uint) ([]StockSum, error) {
	var sums []StockSum
	err := r.db.Model(&inventoryEntity.StockRecord{}).
		Select("tenant_id, sku_id, warehouse_id, COALESCE(SUM(on_hand_qty), 0) AS on_hand").
		Where("tenant_id = ?", tenantID).
		Group("tenant_id, sku_id, warehouse_id").
		Scan(&sums).Error
	return sums, err
}
