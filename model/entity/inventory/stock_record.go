package inventory

import (
	"time"
)

// StockRecord holds current quantities for one
// (tenant, sku, warehouse, bin-or-none) key. Rows are created lazily on
// first inbound and never deleted; quantity may sit at zero.
//
// Invariant after every committed operation:
// 0 <= LockedQty <= OnHandQty.
type StockRecord struct {
	ID            uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	TenantID      uint      `gorm:"column:tenant_id;not null;uniqueIndex:idx_stock_key,priority:1" json:"tenant_id"`
	SkuID         uint      `gorm:"column:sku_id;not null;uniqueIndex:idx_stock_key,priority:2" json:"sku_id"`
	WarehouseID   uint      `gorm:"column:warehouse_id;not null;uniqueIndex:idx_stock_key,priority:3" json:"warehouse_id"`
	BinLocationID *uint     `gorm:"column:bin_location_id;uniqueIndex:idx_stock_key,priority:4" json:"bin_location_id,omitempty"`
	OnHandQty     int64     `gorm:"column:on_hand_qty;not null;default:0" json:"on_hand_qty"`
	LockedQty     int64     `gorm:"column:locked_qty;not null;default:0" json:"locked_qty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (StockRecord) TableName() string {
	return "stock_records"
}

// AvailableQty is on-hand minus locked.
func (r *StockRecord) AvailableQty() int64 {
	return r.OnHandQty - r.LockedQty
}
