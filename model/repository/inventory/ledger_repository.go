package inventory

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	inventoryEntity "wholesale.GO/model/entity/inventory"
)

// LedgerRepository appends and queries ledger_entries. The table is
// insert-only; there are no update or delete methods on purpose.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Append inserts one immutable ledger entry, minting its event id.
func (r *LedgerRepository) Append(entry *inventoryEntity.LedgerEntry) error {
	if entry.EventID == uuid.Nil {
		entry.EventID = uuid.New()
	}
	return r.db.Create(entry).Error
}

// LedgerFilter narrows and pages a ledger query. Field names double as
// mapstructure keys so the API layer can decode a raw query-param map.
type LedgerFilter struct {
	SkuID       uint       `mapstructure:"sku_id"`
	WarehouseID uint       `mapstructure:"warehouse_id"`
	Type        string     `mapstructure:"type"`
	From        *time.Time `mapstructure:"from"`
	To          *time.Time `mapstructure:"to"`
	Page        int        `mapstructure:"page"`
	PageSize    int        `mapstructure:"page_size"`
}

// Query returns a page of ledger entries, newest first, plus the total count.
func (r *LedgerRepository) Query(tenantID uint, f LedgerFilter) ([]inventoryEntity.LedgerEntry, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}

	q := r.db.Model(&inventoryEntity.LedgerEntry{}).Where("tenant_id = ?", tenantID)
	if f.SkuID != 0 {
		q = q.Where("sku_id = ?", f.SkuID)
	}
	if f.WarehouseID != 0 {
		q = q.Where("warehouse_id = ?", f.WarehouseID)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []inventoryEntity.LedgerEntry
	err := q.Order("created_at DESC, id DESC").
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize).
		Find(&entries).Error
	return entries, total, err
}

// FindBySkuWarehouse returns all entries for (tenant, sku, warehouse)
// oldest first. Test and audit helper.
func (r *LedgerRepository) FindBySkuWarehouse(tenantID, skuID, warehouseID uint) ([]inventoryEntity.LedgerEntry, error) {
	var entries []inventoryEntity.LedgerEntry
	err := r.db.Where("tenant_id = ? AND sku_id = ? AND warehouse_id = ?", tenantID, skuID, warehouseID).
		Order("id ASC").
		Find(&entries).Error
	return entries, err
}

// MovementSum is the signed net of physical movements for one
// (sku, warehouse).
type MovementSum struct {
	TenantID    uint
	SkuID       uint
	WarehouseID uint
	Net         int64
}

// NetMovements sums signed INBOUND+OUTBOUND+ADJUSTMENT quantities per
// (sku, warehouse). LOCK/UNLOCK entries are reservations, not movements,
// and are excluded.
func (r *LedgerRepository) NetMovements(tenantID uint) ([]MovementSum, error) {
	var sums []MovementSum
	err := r.db.Model(&inventoryEntity.LedgerEntry{}).
		Select("tenant_id, sku_id, warehouse_id, COALESCE(SUM(quantity), 0) AS net").
		Where("tenant_id = ? AND type IN ?", tenantID, []string{
			inventoryEntity.LedgerInbound,
			inventoryEntity.LedgerOutbound,
			inventoryEntity.LedgerAdjustment,
		}).
		Group("tenant_id, sku_id, warehouse_id").
		Scan(&sums).Error
	return sums, err
}
