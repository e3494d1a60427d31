package inventory

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"wholesale.GO/core/errs"
	catalogEntity "wholesale.GO/model/entity/catalog"
	inventoryEntity "wholesale.GO/model/entity/inventory"
)

func engineTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	tmpFile := filepath.Join(os.TempDir(), fmt.Sprintf("engine_test_%s_%d.db", t.Name(), time.Now().UnixNano()))
	t.Cleanup(func() { os.Remove(tmpFile) })
	db, err := gorm.Open(sqlite.Open(tmpFile), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	if err := db.AutoMigrate(
		&catalogEntity.SKU{},
		&catalogEntity.Warehouse{},
		&catalogEntity.BinLocation{},
		&inventoryEntity.StockRecord{},
		&inventoryEntity.LedgerEntry{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedCatalog(t *testing.T, db *gorm.DB, tenantID uint) (skuID, whID uint) {
	t.Helper()
	sku := catalogEntity.SKU{
		TenantID:       tenantID,
		Code:           fmt.Sprintf("CASE-%d", tenantID),
		Name:           "Clear Case",
		WholesalePrice: decimal.NewFromFloat(3.5),
		Status:         catalogEntity.SKUStatusActive,
	}
	if err := db.Create(&sku).Error; err != nil {
		t.Fatalf("seed sku: %v", err)
	}
	wh := catalogEntity.Warehouse{
		TenantID: tenantID,
		Code:     fmt.Sprintf("WH-%d", tenantID),
		Name:     "Main",
		Status:   catalogEntity.WarehouseStatusActive,
	}
	if err := db.Create(&wh).Error; err != nil {
		t.Fatalf("seed warehouse: %v", err)
	}
	return sku.ID, wh.ID
}

func seedBin(t *testing.T, db *gorm.DB, tenantID, whID uint, code string) uint {
	t.Helper()
	bin := catalogEntity.BinLocation{TenantID: tenantID, WarehouseID: whID, Code: code, Status: "ACTIVE"}
	if err := db.Create(&bin).Error; err != nil {
		t.Fatalf("seed bin %s: %v", code, err)
	}
	return bin.ID
}

func ledgerCount(t *testing.T, db *gorm.DB, tenantID uint, entryType string) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&inventoryEntity.LedgerEntry{}).
		Where("tenant_id = ? AND type = ?", tenantID, entryType).
		Count(&n).Error; err != nil {
		t.Fatalf("count ledger: %v", err)
	}
	return n
}

func TestEngine_InboundCreatesRecordAndLedger(t *testing.T) {
	db := engineTestDB(t)
	skuID, whID := seedCatalog(t, db, 1)
	engine := NewEngine(db)

	sum, err := engine.Inbound(StockOp{TenantID: 1, SkuID: skuID, WarehouseID: whID, Quantity: 100})
	if err != nil {
		t.Fatalf("inbound: %v", err)
	}
	if sum.OnHand != 100 || sum.Locked != 0 || sum.Available != 100 {
		t.Errorf("summary = %+v, want on-hand 100 locked 0", sum)
	}
	if n := ledgerCount(t, db, 1, inventoryEntity.LedgerInbound); n != 1 {
		t.Errorf("INBOUND entries = %d, want 1", n)
	}

	var entry inventoryEntity.LedgerEntry
	db.Where("tenant_id = ?", 1).First(&entry)
	if entry.Quantity != 100 {
		t.Errorf("ledger quantity = %d, want +100", entry.Quantity)
	}
	if entry.EventID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("event id not minted")
	}
}

func TestEngine_InboundAccumulates(t *testing.T) {
	db := engineTestDB(t)
	skuID, whID := seedCatalog(t, db, 2)
	engine := NewEngine(db)

	op := StockOp{TenantID: 2, SkuID: skuID, WarehouseID: whID, Quantity: 10}
	if _, err := engine.Inbound(op); err != nil {
		t.Fatalf("first inbound: %v", err)
	}
	sum, err := engine.Inbound(op)
	if err != nil {
		t.Fatalf("second inbound: %v", err)
	}
	if sum.OnHand != 20 {
		t.Errorf("on-hand = %d, want 20 (operations are not idempotent)", sum.OnHand)
	}
	if n := ledgerCount(t, db, 2, inventoryEntity.LedgerInbound); n != 2 {
		t.Errorf("INBOUND entries = %d, want 2", n)
	}
}

func TestEngine_OutboundExactBoundary(t *testing.T) {
	db := engineTestDB(t)
	skuID, whID := seedCatalog(t, db, 3)
	engine := NewEngine(db)

	if _, err := engine.Inbound(StockOp{TenantID: 3, SkuID: skuID, WarehouseID: whID, Quantity: 5}); err != nil {
		t.Fatalf("inbound: %v", err)
	}
	sum, err := engine.Outbound(StockOp{TenantID: 3, SkuID: skuID, WarehouseID: whID, Quantity: 5})
	if err != nil {
		t.Fatalf("outbound of exactly available should succeed: %v", err)
	}
	if sum.OnHand != 0 {
		t.Errorf("on-hand = %d, want 0", sum.OnHand)
	}
}

func TestEngine_OutboundInsufficientRollsBack(t *testing.T) {
	db := engineTestDB(t)
	skuID, whID := seedCatalog(t, db, 4)
	engine := NewEngine(db)

	if _, err := engine.Inbound(StockOp{TenantID: 4, SkuID: skuID, WarehouseID: whID, Quantity: 5}); err != nil {
		t.Fatalf("inbound: %v", err)
	}
	_, err := engine.Outbound(StockOp{TenantID: 4, SkuID: skuID, WarehouseID: whID, Quantity: 6})
	if !errs.Is(err, errs.KindInsufficientStock) {
		t.Fatalf("err = %v, want INSUFFICIENT_STOCK", err)
	}
	// No partial effect: quantity unchanged, no OUTBOUND ledger entry.
	sum, err := engine.Summary(4, skuID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.OnHand != 5 {
		t.Errorf("on-hand = %d, want 5 after failed outbound", sum.OnHand)
	}
	if n := ledgerCount(t, db, 4, inventoryEntity.LedgerOutbound); n != 0 {
		t.Errorf("OUTBOUND entries = %d, want 0", n)
	}
}

func TestEngine_OutboundRespectsLock(t *testing.T) {
	db := engineTestDB(t)
	skuID, whID := seedCatalog(t, db, 5)
	engine := NewEngine(db)

	if _, err := engine.Inbound(StockOp{TenantID: 5, SkuID: skuID, WarehouseID: whID, Quantity: 10}); err != nil {
		t.Fatalf("inbound: %v", err)
	}
	if _, err := engine.LockInventory(StockOp{TenantID: 5, SkuID: skuID, WarehouseID: whID, Quantity: 8}); err != nil {
		t.Fatalf("lock: %v", err)
	}
	// Only 2 available; 3 must fail.
	if _, err := engine.Outbound(StockOp{TenantID: 5, SkuID: skuID, WarehouseID: whID, Quantity: 3}); !errs.Is(err, errs.KindInsufficientStock) {
		t.Fatalf("err = %v, want INSUFFICIENT_STOCK", err)
	}
	sum, err := engine.Outbound(StockOp{TenantID: 5, SkuID: skuID, WarehouseID: whID, Quantity: 2})
	if err != nil {
		t.Fatalf("outbound within available: %v", err)
	}
	if sum.OnHand != 8 || sum.Locked != 8 || sum.Available != 0 {
		t.Errorf("summary = %+v, want on-hand 8 locked 8", sum)
	}
}

func TestEngine_LockUnlockRoundTripMultiBin(t *testing.T) {
	db := engineTestDB(t)
	skuID, whID := seedCatalog(t, db, 6)
	binA := seedBin(t, db, 6, whID, "A-01")
	binB := seedBin(t, db, 6, whID, "B-01")
	engine := NewEngine(db)

	if _, err := engine.Inbound(StockOp{TenantID: 6, SkuID: skuID, WarehouseID: whID, BinLocationID: &binA, Quantity: 6}); err != nil {
		t.Fatalf("inbound bin A: %v", err)
	}
	if _, err := engine.Inbound(StockOp{TenantID: 6, SkuID: skuID, WarehouseID: whID, BinLocationID: &binB, Quantity: 4}); err != nil {
		t.Fatalf("inbound bin B: %v", err)
	}

	// Lock spans bins: more than any single row holds.
	sum, err := engine.LockInventory(StockOp{TenantID: 6, SkuID: skuID, WarehouseID: whID, Quantity: 8})
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	if sum.Locked != 8 || sum.Available != 2 {
		t.Errorf("after lock: %+v, want locked 8 available 2", sum)
	}

	sum, err = engine.UnlockInventory(StockOp{TenantID: 6, SkuID: skuID, WarehouseID: whID, Quantity: 8})
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if sum.OnHand != 10 || sum.Locked != 0 || sum.Available != 10 {
		t.Errorf("after unlock: %+v, want on-hand 10 locked 0", sum)
	}

	// Per-row invariant: no row went negative.
	var rows []inventoryEntity.StockRecord
	db.Where("tenant_id = ?", 6).Find(&rows)
	for _, r := range rows {
		if r.LockedQty < 0 || r.LockedQty > r.OnHandQty {
			t.Errorf("row %d violates 0 <= locked <= on-hand: %+v", r.ID, r)
		}
	}

	// LOCK positive, UNLOCK negative in the ledger.
	var lockEntry, unlockEntry inventoryEntity.LedgerEntry
	db.Where("tenant_id = ? AND type = ?", 6, inventoryEntity.LedgerLock).First(&lockEntry)
	db.Where("tenant_id = ? AND type = ?", 6, inventoryEntity.LedgerUnlock).First(&unlockEntry)
	if lockEntry.Quantity != 8 {
		t.Errorf("LOCK quantity = %d, want +8", lockEntry.Quantity)
	}
	if unlockEntry.Quantity != -8 {
		t.Errorf("UNLOCK quantity = %d, want -8", unlockEntry.Quantity)
	}
}

func TestEngine_LockInsufficientAvailable(t *testing.T) {
	db := engineTestDB(t)
	skuID, whID := seedCatalog(t, db, 7)
	engine := NewEngine(db)

	if _, err := engine.Inbound(StockOp{TenantID: 7, SkuID: skuID, WarehouseID: whID, Quantity: 10}); err != nil {
		t.Fatalf("inbound: %v", err)
	}
	if _, err := engine.LockInventory(StockOp{TenantID: 7, SkuID: skuID, WarehouseID: whID, Quantity: 7}); err != nil {
		t.Fatalf("first lock: %v", err)
	}
	if _, err := engine.LockInventory(StockOp{TenantID: 7, SkuID: skuID, WarehouseID: whID, Quantity: 4}); !errs.Is(err, errs.KindInsufficientStock) {
		t.Fatalf("err = %v, want INSUFFICIENT_STOCK", err)
	}
}

func TestEngine_UnlockMoreThanLocked(t *testing.T) {
	db := engineTestDB(t)
	skuID, whID := seedCatalog(t, db, 8)
	engine := NewEngine(db)

	if _, err := engine.Inbound(StockOp{TenantID: 8, SkuID: skuID, WarehouseID: whID, Quantity: 10}); err != nil {
		t.Fatalf("inbound: %v", err)
	}
	if _, err := engine.LockInventory(StockOp{TenantID: 8, SkuID: skuID, WarehouseID: whID, Quantity: 3}); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if _, err := engine.UnlockInventory(StockOp{TenantID: 8, SkuID: skuID, WarehouseID: whID, Quantity: 4}); !errs.Is(err, errs.KindInsufficientStock) {
		t.Fatalf("err = %v, want INSUFFICIENT_STOCK", err)
	}
}

func TestEngine_AdjustClampsAtZeroAndRecordsRequestedDelta(t *testing.T) {
	db := engineTestDB(t)
	skuID, whID := seedCatalog(t, db, 9)
	engine := NewEngine(db)

	if _, err := engine.Inbound(StockOp{TenantID: 9, SkuID: skuID, WarehouseID: whID, Quantity: 5}); err != nil {
		t.Fatalf("inbound: %v", err)
	}
	sum, err := engine.Adjust(StockOp{TenantID: 9, SkuID: skuID, WarehouseID: whID, Quantity: -10})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if sum.OnHand != 0 {
		t.Errorf("on-hand = %d, want 0 (clamped)", sum.OnHand)
	}

	var entry inventoryEntity.LedgerEntry
	db.Where("tenant_id = ? AND type = ?", 9, inventoryEntity.LedgerAdjustment).First(&entry)
	if entry.Quantity != -10 {
		t.Errorf("ADJUSTMENT quantity = %d, want requested -10, not clamped -5", entry.Quantity)
	}
}

func TestEngine_AdjustPositiveCreatesRecord(t *testing.T) {
	db := engineTestDB(t)
	skuID, whID := seedCatalog(t, db, 10)
	engine := NewEngine(db)

	sum, err := engine.Adjust(StockOp{TenantID: 10, SkuID: skuID, WarehouseID: whID, Quantity: 15})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if sum.OnHand != 15 {
		t.Errorf("on-hand = %d, want 15", sum.OnHand)
	}
}

func TestEngine_AdjustNegativeWithoutRecordIsNoop(t *testing.T) {
	db := engineTestDB(t)
	skuID, whID := seedCatalog(t, db, 11)
	engine := NewEngine(db)

	sum, err := engine.Adjust(StockOp{TenantID: 11, SkuID: skuID, WarehouseID: whID, Quantity: -5})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if sum.OnHand != 0 {
		t.Errorf("on-hand = %d, want 0", sum.OnHand)
	}
	var n int64
	db.Model(&inventoryEntity.StockRecord{}).Where("tenant_id = ?", 11).Count(&n)
	if n != 0 {
		t.Errorf("stock records = %d, want 0 (no row created)", n)
	}
	if c := ledgerCount(t, db, 11, inventoryEntity.LedgerAdjustment); c != 0 {
		t.Errorf("ADJUSTMENT entries = %d, want 0", c)
	}
}

func TestEngine_AdjustZeroDeltaRejected(t *testing.T) {
	db := engineTestDB(t)
	skuID, whID := seedCatalog(t, db, 12)
	engine := NewEngine(db)

	if _, err := engine.Adjust(StockOp{TenantID: 12, SkuID: skuID, WarehouseID: whID, Quantity: 0}); !errs.Is(err, errs.KindValidation) {
		t.Fatalf("err = %v, want VALIDATION_ERROR", err)
	}
}

func TestEngine_AdjustShrinkBoundsLocked(t *testing.T) {
	db := engineTestDB(t)
	skuID, whID := seedCatalog(t, db, 13)
	engine := NewEngine(db)

	if _, err := engine.Inbound(StockOp{TenantID: 13, SkuID: skuID, WarehouseID: whID, Quantity: 10}); err != nil {
		t.Fatalf("inbound: %v", err)
	}
	if _, err := engine.LockInventory(StockOp{TenantID: 13, SkuID: skuID, WarehouseID: whID, Quantity: 8}); err != nil {
		t.Fatalf("lock: %v", err)
	}
	sum, err := engine.Adjust(StockOp{TenantID: 13, SkuID: skuID, WarehouseID: whID, Quantity: -7})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if sum.OnHand != 3 || sum.Locked != 3 {
		t.Errorf("summary = %+v, want on-hand 3 locked 3 (locked bounded by on-hand)", sum)
	}
}

func TestEngine_TransferConservesTotal(t *testing.T) {
	db := engineTestDB(t)
	skuID, whA := seedCatalog(t, db, 14)
	whB := catalogEntity.Warehouse{TenantID: 14, Code: "WH-14-B", Name: "Second", Status: "ACTIVE"}
	if err := db.Create(&whB).Error; err != nil {
		t.Fatalf("seed warehouse B: %v", err)
	}
	engine := NewEngine(db)

	if _, err := engine.Inbound(StockOp{TenantID: 14, SkuID: skuID, WarehouseID: whA, Quantity: 30}); err != nil {
		t.Fatalf("inbound: %v", err)
	}
	sum, err := engine.Transfer(TransferOp{TenantID: 14, SkuID: skuID, FromWarehouseID: whA, ToWarehouseID: whB.ID, Quantity: 12})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if sum.OnHand != 30 {
		t.Errorf("total on-hand = %d, want 30 (transfer conserves total)", sum.OnHand)
	}

	rows, _, err := engine.StockBreakdown(14, skuID)
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	byWh := map[uint]int64{}
	for _, r := range rows {
		byWh[r.WarehouseID] += r.OnHandQty
	}
	if byWh[whA] != 18 || byWh[whB.ID] != 12 {
		t.Errorf("split = %v, want 18 at source and 12 at destination", byWh)
	}

	// Two TRANSFER-referenced entries, one negative one positive.
	var entries []inventoryEntity.LedgerEntry
	db.Where("tenant_id = ? AND reference_type = ?", 14, inventoryEntity.LedgerTransfer).
		Order("quantity ASC").Find(&entries)
	if len(entries) != 2 || entries[0].Quantity != -12 || entries[1].Quantity != 12 {
		t.Errorf("transfer ledger entries = %+v, want -12 and +12", entries)
	}
}

func TestEngine_TransferInsufficientLeavesBothSidesUntouched(t *testing.T) {
	db := engineTestDB(t)
	skuID, whA := seedCatalog(t, db, 15)
	whB := catalogEntity.Warehouse{TenantID: 15, Code: "WH-15-B", Name: "Second", Status: "ACTIVE"}
	if err := db.Create(&whB).Error; err != nil {
		t.Fatalf("seed warehouse B: %v", err)
	}
	engine := NewEngine(db)

	if _, err := engine.Inbound(StockOp{TenantID: 15, SkuID: skuID, WarehouseID: whA, Quantity: 3}); err != nil {
		t.Fatalf("inbound: %v", err)
	}
	_, err := engine.Transfer(TransferOp{TenantID: 15, SkuID: skuID, FromWarehouseID: whA, ToWarehouseID: whB.ID, Quantity: 5})
	if !errs.Is(err, errs.KindInsufficientStock) {
		t.Fatalf("err = %v, want INSUFFICIENT_STOCK", err)
	}
	rows, sum, err := engine.StockBreakdown(15, skuID)
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	if sum.OnHand != 3 || len(rows) != 1 || rows[0].WarehouseID != whA {
		t.Errorf("stock moved on failed transfer: rows=%+v sum=%+v", rows, sum)
	}
}

func TestEngine_UnknownSkuOrWarehouse(t *testing.T) {
	db := engineTestDB(t)
	skuID, whID := seedCatalog(t, db, 16)
	engine := NewEngine(db)

	if _, err := engine.Inbound(StockOp{TenantID: 16, SkuID: skuID + 999, WarehouseID: whID, Quantity: 1}); !errs.Is(err, errs.KindNotFound) {
		t.Errorf("unknown sku err = %v, want NOT_FOUND", err)
	}
	if _, err := engine.Inbound(StockOp{TenantID: 16, SkuID: skuID, WarehouseID: whID + 999, Quantity: 1}); !errs.Is(err, errs.KindNotFound) {
		t.Errorf("unknown warehouse err = %v, want NOT_FOUND", err)
	}
	// Tenant isolation: the same ids do not exist for another tenant.
	if _, err := engine.Inbound(StockOp{TenantID: 99, SkuID: skuID, WarehouseID: whID, Quantity: 1}); !errs.Is(err, errs.KindNotFound) {
		t.Errorf("cross-tenant err = %v, want NOT_FOUND", err)
	}
}

func TestEngine_NonPositiveQuantityRejected(t *testing.T) {
	db := engineTestDB(t)
	skuID, whID := seedCatalog(t, db, 17)
	engine := NewEngine(db)

	for name, run := range map[string]func() error{
		"inbound":  func() error { _, err := engine.Inbound(StockOp{TenantID: 17, SkuID: skuID, WarehouseID: whID, Quantity: 0}); return err },
		"outbound": func() error { _, err := engine.Outbound(StockOp{TenantID: 17, SkuID: skuID, WarehouseID: whID, Quantity: -1}); return err },
		"lock":     func() error { _, err := engine.LockInventory(StockOp{TenantID: 17, SkuID: skuID, WarehouseID: whID, Quantity: 0}); return err },
		"unlock":   func() error { _, err := engine.UnlockInventory(StockOp{TenantID: 17, SkuID: skuID, WarehouseID: whID, Quantity: -2}); return err },
	} {
		if err := run(); !errs.Is(err, errs.KindValidation) {
			t.Errorf("%s err = %v, want VALIDATION_ERROR", name, err)
		}
	}
}

func TestEngine_BinKeysAreDistinct(t *testing.T) {
	db := engineTestDB(t)
	skuID, whID := seedCatalog(t, db, 18)
	binA := seedBin(t, db, 18, whID, "A-01")
	engine := NewEngine(db)

	// Unplaced stock and bin stock are separate rows.
	if _, err := engine.Inbound(StockOp{TenantID: 18, SkuID: skuID, WarehouseID: whID, Quantity: 5}); err != nil {
		t.Fatalf("inbound unplaced: %v", err)
	}
	if _, err := engine.Inbound(StockOp{TenantID: 18, SkuID: skuID, WarehouseID: whID, BinLocationID: &binA, Quantity: 7}); err != nil {
		t.Fatalf("inbound bin: %v", err)
	}
	rows, sum, err := engine.StockBreakdown(18, skuID)
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2 distinct keys", len(rows))
	}
	if sum.OnHand != 12 {
		t.Errorf("total = %d, want 12", sum.OnHand)
	}

	// Outbound at the bin key cannot draw from the unplaced row.
	if _, err := engine.Outbound(StockOp{TenantID: 18, SkuID: skuID, WarehouseID: whID, BinLocationID: &binA, Quantity: 8}); !errs.Is(err, errs.KindInsufficientStock) {
		t.Errorf("err = %v, want INSUFFICIENT_STOCK for over-draw at bin key", err)
	}
}

func TestEngine_SummaryInvalidatedAfterMutation(t *testing.T) {
	db := engineTestDB(t)
	skuID, whID := seedCatalog(t, db, 19)
	engine := NewEngine(db)

	if _, err := engine.Inbound(StockOp{TenantID: 19, SkuID: skuID, WarehouseID: whID, Quantity: 10}); err != nil {
		t.Fatalf("inbound: %v", err)
	}
	first, err := engine.Summary(19, skuID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if first.OnHand != 10 {
		t.Fatalf("on-hand = %d, want 10", first.OnHand)
	}
	if _, err := engine.Outbound(StockOp{TenantID: 19, SkuID: skuID, WarehouseID: whID, Quantity: 4}); err != nil {
		t.Fatalf("outbound: %v", err)
	}
	second, err := engine.Summary(19, skuID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if second.OnHand != 6 {
		t.Errorf("cached summary not invalidated: on-hand = %d, want 6", second.OnHand)
	}
}
