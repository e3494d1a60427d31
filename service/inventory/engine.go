package inventory

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"wholesale.GO/config"
	"wholesale.GO/core/cache"
	"wholesale.GO/core/errs"
	inventoryEntity "wholesale.GO/model/entity/inventory"
	catalogRepo "wholesale.GO/model/repository/catalog"
	inventoryRepo "wholesale.GO/model/repository/inventory"
)

const summaryCacheTTL = 60 // seconds

// Engine implements the six primitive stock operations. Every operation
// runs in one transaction: the stock record mutation and the ledger append
// commit or roll back together, and each returns the SKU's aggregated
// summary recomputed after the mutation.
type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// StockOp carries the arguments shared by the single-warehouse operations.
// Quantity must be positive except for Adjust, where it is the signed delta.
type StockOp struct {
	TenantID      uint
	OperatorID    uint
	SkuID         uint
	WarehouseID   uint
	BinLocationID *uint
	Quantity      int64
	ReferenceType string
	ReferenceID   string
	Notes         string
}

// TransferOp moves stock between two warehouse keys in one transaction.
type TransferOp struct {
	TenantID        uint
	OperatorID      uint
	SkuID           uint
	FromWarehouseID uint
	ToWarehouseID   uint
	FromBinID       *uint
	ToBinID         *uint
	Quantity        int64
	Notes           string
}

// Summary aggregates a SKU's stock across every warehouse and bin.
type Summary struct {
	SkuID     uint  `json:"sku_id"`
	OnHand    int64 `json:"on_hand"`
	Locked    int64 `json:"locked"`
	Available int64 `json:"available"`
}

// Inbound adds quantity at the exact (sku, warehouse, bin-or-none) key,
// creating the stock record lazily on first receipt.
func (e *Engine) Inbound(op StockOp) (*Summary, error) {
	return e.transact(op.TenantID, op.SkuID, func(tx *gorm.DB) error {
		return e.InboundTx(tx, op)
	})
}

// InboundTx is Inbound inside a caller-owned transaction.
func (e *Engine) InboundTx(tx *gorm.DB, op StockOp) error {
	if op.Quantity <= 0 {
		return errs.Validation("inbound quantity must be positive, got %d", op.Quantity)
	}
	if err := e.checkRefs(tx, op.TenantID, op.SkuID, op.WarehouseID); err != nil {
		return err
	}

	stocks := inventoryRepo.NewStockRepository(tx)
	rec, err := stocks.FindForKey(op.TenantID, op.SkuID, op.WarehouseID, op.BinLocationID)
	if err != nil {
		return err
	}
	if rec == nil {
		rec = &inventoryEntity.StockRecord{
			TenantID:      op.TenantID,
			SkuID:         op.SkuID,
			WarehouseID:   op.WarehouseID,
			BinLocationID: op.BinLocationID,
			OnHandQty:     op.Quantity,
		}
		if err := stocks.Create(rec); err != nil {
			return err
		}
	} else if err := stocks.AddOnHand(rec.ID, op.Quantity); err != nil {
		return err
	}

	return e.appendLedger(tx, op, inventoryEntity.LedgerInbound, op.Quantity)
}

// Outbound removes quantity from the exact key. Locked stock is not
// available: the debit is guarded on on-hand minus locked.
func (e *Engine) Outbound(op StockOp) (*Summary, error) {
	return e.transact(op.TenantID, op.SkuID, func(tx *gorm.DB) error {
		return e.OutboundTx(tx, op)
	})
}

// OutboundTx is Outbound inside a caller-owned transaction.
func (e *Engine) OutboundTx(tx *gorm.DB, op StockOp) error {
	if op.Quantity <= 0 {
		return errs.Validation("outbound quantity must be positive, got %d", op.Quantity)
	}
	if err := e.checkRefs(tx, op.TenantID, op.SkuID, op.WarehouseID); err != nil {
		return err
	}

	stocks := inventoryRepo.NewStockRepository(tx)
	rec, err := stocks.FindForKey(op.TenantID, op.SkuID, op.WarehouseID, op.BinLocationID)
	if err != nil {
		return err
	}
	if rec == nil {
		return errs.InsufficientStock("no stock record for sku %d at warehouse %d", op.SkuID, op.WarehouseID)
	}
	ok, err := stocks.DebitAvailable(rec.ID, op.Quantity)
	if err != nil {
		return err
	}
	if !ok {
		return errs.InsufficientStock("available %d, requested %d for sku %d at warehouse %d",
			rec.AvailableQty(), op.Quantity, op.SkuID, op.WarehouseID)
	}

	return e.appendLedger(tx, op, inventoryEntity.LedgerOutbound, -op.Quantity)
}

// Adjust applies a signed delta to on-hand, floored at zero. A negative
// adjustment larger than on-hand clamps rather than erroring; the ledger
// records the requested delta, not the clamped effect. When no record
// exists and the result would be <= 0, nothing is written at all.
func (e *Engine) Adjust(op StockOp) (*Summary, error) {
	return e.transact(op.TenantID, op.SkuID, func(tx *gorm.DB) error {
		return e.AdjustTx(tx, op)
	})
}

// AdjustTx is Adjust inside a caller-owned transaction.
func (e *Engine) AdjustTx(tx *gorm.DB, op StockOp) error {
	if op.Quantity == 0 {
		return errs.Validation("adjustment delta must be non-zero")
	}
	if err := e.checkRefs(tx, op.TenantID, op.SkuID, op.WarehouseID); err != nil {
		return err
	}

	stocks := inventoryRepo.NewStockRepository(tx)
	rec, err := stocks.FindForKey(op.TenantID, op.SkuID, op.WarehouseID, op.BinLocationID)
	if err != nil {
		return err
	}
	if rec == nil {
		if op.Quantity <= 0 {
			// Nothing to correct: no row, no ledger entry.
			return nil
		}
		rec = &inventoryEntity.StockRecord{
			TenantID:      op.TenantID,
			SkuID:         op.SkuID,
			WarehouseID:   op.WarehouseID,
			BinLocationID: op.BinLocationID,
			OnHandQty:     op.Quantity,
		}
		if err := stocks.Create(rec); err != nil {
			return err
		}
	} else {
		newQty := rec.OnHandQty + op.Quantity
		if newQty < 0 {
			newQty = 0
		}
		rec.OnHandQty = newQty
		// Keep locked <= on-hand when the correction shrinks the row.
		if rec.LockedQty > newQty {
			rec.LockedQty = newQty
		}
		if err := stocks.Save(rec); err != nil {
			return err
		}
	}

	return e.appendLedger(tx, op, inventoryEntity.LedgerAdjustment, op.Quantity)
}

// Transfer moves quantity between two keys as an outbound at the source
// and an inbound at the destination within one transaction. The two ledger
// entries cross-reference the opposite warehouse.
func (e *Engine) Transfer(op TransferOp) (*Summary, error) {
	return e.transact(op.TenantID, op.SkuID, func(tx *gorm.DB) error {
		return e.TransferTx(tx, op)
	})
}

// TransferTx is Transfer inside a caller-owned transaction.
func (e *Engine) TransferTx(tx *gorm.DB, op TransferOp) error {
	if op.Quantity <= 0 {
		return errs.Validation("transfer quantity must be positive, got %d", op.Quantity)
	}
	out := StockOp{
		TenantID:      op.TenantID,
		OperatorID:    op.OperatorID,
		SkuID:         op.SkuID,
		WarehouseID:   op.FromWarehouseID,
		BinLocationID: op.FromBinID,
		Quantity:      op.Quantity,
		ReferenceType: inventoryEntity.LedgerTransfer,
		ReferenceID:   strconv.FormatUint(uint64(op.ToWarehouseID), 10),
		Notes:         op.Notes,
	}
	if err := e.OutboundTx(tx, out); err != nil {
		return err
	}
	in := StockOp{
		TenantID:      op.TenantID,
		OperatorID:    op.OperatorID,
		SkuID:         op.SkuID,
		WarehouseID:   op.ToWarehouseID,
		BinLocationID: op.ToBinID,
		Quantity:      op.Quantity,
		ReferenceType: inventoryEntity.LedgerTransfer,
		ReferenceID:   strconv.FormatUint(uint64(op.FromWarehouseID), 10),
		Notes:         op.Notes,
	}
	return e.InboundTx(tx, in)
}

// LockInventory reserves quantity against (sku, warehouse) regardless of
// bin, spreading the lock greedily over rows in descending on-hand order.
// One consolidated LOCK ledger entry covers the whole call.
func (e *Engine) LockInventory(op StockOp) (*Summary, error) {
	return e.transact(op.TenantID, op.SkuID, func(tx *gorm.DB) error {
		return e.LockInventoryTx(tx, op)
	})
}

// LockInventoryTx is LockInventory inside a caller-owned transaction.
func (e *Engine) LockInventoryTx(tx *gorm.DB, op StockOp) error {
	if op.Quantity <= 0 {
		return errs.Validation("lock quantity must be positive, got %d", op.Quantity)
	}
	if err := e.checkRefs(tx, op.TenantID, op.SkuID, op.WarehouseID); err != nil {
		return err
	}

	stocks := inventoryRepo.NewStockRepository(tx)
	rows, err := stocks.FindBySkuWarehouse(op.TenantID, op.SkuID, op.WarehouseID)
	if err != nil {
		return err
	}
	var available int64
	for i := range rows {
		available += rows[i].AvailableQty()
	}
	if available < op.Quantity {
		return errs.InsufficientStock("available %d, requested %d for sku %d at warehouse %d",
			available, op.Quantity, op.SkuID, op.WarehouseID)
	}

	allocs, remaining := Allocate(rows, op.Quantity,
		func(r *inventoryEntity.StockRecord) int64 { return r.AvailableQty() },
		byOnHandDesc)
	if remaining > 0 {
		return errs.InsufficientStock("available %d, requested %d for sku %d at warehouse %d",
			available, op.Quantity, op.SkuID, op.WarehouseID)
	}
	for _, a := range allocs {
		ok, err := stocks.AddLocked(a.Record.ID, a.Take)
		if err != nil {
			return err
		}
		if !ok {
			return errs.InsufficientStock("stock for sku %d at warehouse %d changed concurrently, lock of %d failed",
				op.SkuID, op.WarehouseID, op.Quantity)
		}
	}

	return e.appendLedger(tx, op, inventoryEntity.LedgerLock, op.Quantity)
}

// UnlockInventory releases quantity of previously locked stock, spreading
// the release over rows in descending locked order. The UNLOCK ledger
// entry stores the quantity negative.
func (e *Engine) UnlockInventory(op StockOp) (*Summary, error) {
	return e.transact(op.TenantID, op.SkuID, func(tx *gorm.DB) error {
		return e.UnlockInventoryTx(tx, op)
	})
}

// UnlockInventoryTx is UnlockInventory inside a caller-owned transaction.
func (e *Engine) UnlockInventoryTx(tx *gorm.DB, op StockOp) error {
	if op.Quantity <= 0 {
		return errs.Validation("unlock quantity must be positive, got %d", op.Quantity)
	}
	if err := e.checkRefs(tx, op.TenantID, op.SkuID, op.WarehouseID); err != nil {
		return err
	}

	stocks := inventoryRepo.NewStockRepository(tx)
	rows, err := stocks.FindBySkuWarehouse(op.TenantID, op.SkuID, op.WarehouseID)
	if err != nil {
		return err
	}
	var locked int64
	for i := range rows {
		locked += rows[i].LockedQty
	}
	if locked < op.Quantity {
		return errs.InsufficientStock("insufficient locked: locked %d, requested %d for sku %d at warehouse %d",
			locked, op.Quantity, op.SkuID, op.WarehouseID)
	}

	allocs, _ := Allocate(rows, op.Quantity,
		func(r *inventoryEntity.StockRecord) int64 { return r.LockedQty },
		byLockedDesc)
	for _, a := range allocs {
		ok, err := stocks.ReleaseLocked(a.Record.ID, a.Take)
		if err != nil {
			return err
		}
		if !ok {
			return errs.InsufficientStock("locked stock for sku %d at warehouse %d changed concurrently, unlock of %d failed",
				op.SkuID, op.WarehouseID, op.Quantity)
		}
	}

	return e.appendLedger(tx, op, inventoryEntity.LedgerUnlock, -op.Quantity)
}

// FulfillOutboundTx ships quantity for an order line: rows are debited in
// descending locked order and each debit releases up to the same amount of
// lock in the same statement, so the confirm-time reservation is consumed
// rather than left dangling. The guard is raw on-hand, because the
// shipment's own lock is what makes the stock look unavailable.
func (e *Engine) FulfillOutboundTx(tx *gorm.DB, op StockOp) error {
	if op.Quantity <= 0 {
		return errs.Validation("outbound quantity must be positive, got %d", op.Quantity)
	}

	stocks := inventoryRepo.NewStockRepository(tx)
	rows, err := stocks.FindBySkuWarehouse(op.TenantID, op.SkuID, op.WarehouseID)
	if err != nil {
		return err
	}
	var onHand int64
	for i := range rows {
		onHand += rows[i].OnHandQty
	}
	if onHand < op.Quantity {
		return errs.InsufficientStock("on hand %d, requested %d for sku %d at warehouse %d",
			onHand, op.Quantity, op.SkuID, op.WarehouseID)
	}

	allocs, _ := Allocate(rows, op.Quantity,
		func(r *inventoryEntity.StockRecord) int64 { return r.OnHandQty },
		byLockedDesc)
	for _, a := range allocs {
		ok, err := stocks.DebitConsumingLock(a.Record.ID, a.Take)
		if err != nil {
			return err
		}
		if !ok {
			return errs.InsufficientStock("stock for sku %d at warehouse %d changed concurrently, outbound of %d failed",
				op.SkuID, op.WarehouseID, op.Quantity)
		}
	}

	return e.appendLedger(tx, op, inventoryEntity.LedgerOutbound, -op.Quantity)
}

// Summary returns the SKU's aggregated totals, serving from cache when
// fresh. Every mutation invalidates the cached value.
func (e *Engine) Summary(tenantID, skuID uint) (*Summary, error) {
	if v, ok := cache.GetInstance().GetN("inv_summary", tenantID, skuID); ok {
		if s, isSummary := v.(*Summary); isSummary {
			return s, nil
		}
	}
	if rc := config.RedisClient; rc != nil {
		if payload, err := rc.Get(config.RedisCtx(), redisSummaryKey(tenantID, skuID)).Bytes(); err == nil {
			var s Summary
			if json.Unmarshal(payload, &s) == nil {
				return &s, nil
			}
		}
	}

	sum, err := summaryTx(e.db, tenantID, skuID)
	if err != nil {
		return nil, err
	}
	e.cacheSummary(tenantID, skuID, sum)
	return sum, nil
}

// StockBreakdown returns the per-(warehouse, bin) rows plus the totals.
func (e *Engine) StockBreakdown(tenantID, skuID uint) ([]inventoryEntity.StockRecord, *Summary, error) {
	stocks := inventoryRepo.NewStockRepository(e.db)
	rows, err := stocks.FindBySku(tenantID, skuID)
	if err != nil {
		return nil, nil, err
	}
	sum := &Summary{SkuID: skuID}
	for i := range rows {
		sum.OnHand += rows[i].OnHandQty
		sum.Locked += rows[i].LockedQty
	}
	sum.Available = sum.OnHand - sum.Locked
	return rows, sum, nil
}

// Invalidate drops the cached summary for a SKU. Callers running engine
// Tx methods inside their own transaction call this after commit.
func (e *Engine) Invalidate(tenantID, skuID uint) {
	cache.GetInstance().DeleteN("inv_summary", tenantID, skuID)
	if rc := config.RedisClient; rc != nil {
		rc.Del(config.RedisCtx(), redisSummaryKey(tenantID, skuID))
	}
}

// transact wraps a mutation in a transaction, recomputes the summary
// inside it, and invalidates the cache after commit.
func (e *Engine) transact(tenantID, skuID uint, fn func(tx *gorm.DB) error) (*Summary, error) {
	var sum *Summary
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := fn(tx); err != nil {
			return err
		}
		s, err := summaryTx(tx, tenantID, skuID)
		if err != nil {
			return err
		}
		sum = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.Invalidate(tenantID, skuID)
	return sum, nil
}

func summaryTx(tx *gorm.DB, tenantID, skuID uint) (*Summary, error) {
	stocks := inventoryRepo.NewStockRepository(tx)
	onHand, locked, err := stocks.SummaryBySku(tenantID, skuID)
	if err != nil {
		return nil, err
	}
	return &Summary{
		SkuID:     skuID,
		OnHand:    onHand,
		Locked:    locked,
		Available: onHand - locked,
	}, nil
}

func (e *Engine) cacheSummary(tenantID, skuID uint, sum *Summary) {
	cache.GetInstance().SetN([]interface{}{"inv_summary", tenantID, skuID}, sum, summaryCacheTTL, nil)
	if rc := config.RedisClient; rc != nil {
		if payload, err := json.Marshal(sum); err == nil {
			rc.Set(config.RedisCtx(), redisSummaryKey(tenantID, skuID), payload, summaryCacheTTL*time.Second)
		}
	}
}

func redisSummaryKey(tenantID, skuID uint) string {
	return fmt.Sprintf("inv:summary:%d:%d", tenantID, skuID)
}

// checkRefs verifies the SKU and warehouse belong to the tenant.
func (e *Engine) checkRefs(tx *gorm.DB, tenantID, skuID, warehouseID uint) error {
	sku, err := catalogRepo.NewSKURepository(tx).FindByID(tenantID, skuID)
	if err != nil {
		return err
	}
	if sku == nil {
		return errs.NotFound("sku %d not found", skuID)
	}
	wh, err := catalogRepo.NewWarehouseRepository(tx).FindByID(tenantID, warehouseID)
	if err != nil {
		return err
	}
	if wh == nil {
		return errs.NotFound("warehouse %d not found", warehouseID)
	}
	return nil
}

func (e *Engine) appendLedger(tx *gorm.DB, op StockOp, entryType string, quantity int64) error {
	ledger := inventoryRepo.NewLedgerRepository(tx)
	return ledger.Append(&inventoryEntity.LedgerEntry{
		TenantID:      op.TenantID,
		SkuID:         op.SkuID,
		WarehouseID:   op.WarehouseID,
		Type:          entryType,
		Quantity:      quantity,
		ReferenceType: op.ReferenceType,
		ReferenceID:   op.ReferenceID,
		Notes:         op.Notes,
		OperatorID:    op.OperatorID,
	})
}
