package inventory

import (
	"gorm.io/gorm"

	inventoryRepo "wholesale.GO/model/repository/inventory"
)

// Discrepancy is one (sku, warehouse) where the ledger's net physical
// movements do not match the stock records' summed on-hand. Clamped
// adjustments produce expected discrepancies, since the ledger records the
// requested delta.
type Discrepancy struct {
	TenantID    uint  `json:"tenant_id"`
	SkuID       uint  `json:"sku_id"`
	WarehouseID uint  `json:"warehouse_id"`
	LedgerNet   int64 `json:"ledger_net"`
	StockOnHand int64 `json:"stock_on_hand"`
}

// Reconcile compares, for one tenant, the ledger's signed
// INBOUND+OUTBOUND+ADJUSTMENT net against SUM(on-hand) per
// (sku, warehouse) and returns every mismatch.
func Reconcile(db *gorm.DB, tenantID uint) ([]Discrepancy, error) {
	ledger := inventoryRepo.NewLedgerRepository(db)
	stocks := inventoryRepo.NewStockRepository(db)

	movements, err := ledger.NetMovements(tenantID)
	if err != nil {
		return nil, err
	}
	sums, err := stocks.SumsByWarehouse(tenantID)
	if err != nil {
		return nil, err
	}

	type key struct{ sku, wh uint }
	onHand := make(map[key]int64, len(sums))
	for _, s := range sums {
		onHand[key{s.SkuID, s.WarehouseID}] = s.OnHand
	}
	seen := make(map[key]bool, len(movements))

	var out []Discrepancy
	for _, m := range movements {
		k := key{m.SkuID, m.WarehouseID}
		seen[k] = true
		if m.Net != onHand[k] {
			out = append(out, Discrepancy{
				TenantID:    tenantID,
				SkuID:       m.SkuID,
				WarehouseID: m.WarehouseID,
				LedgerNet:   m.Net,
				StockOnHand: onHand[k],
			})
		}
	}
	// Stock rows with no physical ledger movement at all.
	for _, s := range sums {
		k := key{s.SkuID, s.WarehouseID}
		if !seen[k] && s.OnHand != 0 {
			out = append(out, Discrepancy{
				TenantID:    tenantID,
				SkuID:       s.SkuID,
				WarehouseID: s.WarehouseID,
				LedgerNet:   0,
				StockOnHand: s.OnHand,
			})
		}
	}
	return out, nil
}

// TenantIDs lists the tenants that have stock records, for the cron sweep.
func TenantIDs(db *gorm.DB) ([]uint, error) {
	var ids []uint
	err := db.Table("stock_records").Distinct("tenant_id").Order("tenant_id").Pluck("tenant_id", &ids).Error
	return ids, err
}
