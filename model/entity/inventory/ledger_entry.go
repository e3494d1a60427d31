package inventory

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Ledger entry types.
const (
	LedgerInbound    = "INBOUND"
	LedgerOutbound   = "OUTBOUND"
	LedgerAdjustment = "ADJUSTMENT"
	LedgerTransfer   = "TRANSFER"
	LedgerLock       = "LOCK"
	LedgerUnlock     = "UNLOCK"
	LedgerReturn     = "RETURN"
)

// LedgerEntry records one stock-affecting event. Rows are insert-only and
// never updated or deleted. Quantity is signed: positive for increases,
// negative for decreases. LOCK stores the locked magnitude positive,
// UNLOCK stores it negative. Bin location is not recorded; the ledger links
// (tenant, sku, warehouse) only.
type LedgerEntry struct {
	ID            uint           `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	EventID       uuid.UUID      `gorm:"column:event_id;type:char(36);not null;uniqueIndex" json:"event_id"`
	TenantID      uint           `gorm:"column:tenant_id;not null;index:idx_ledger_key,priority:1" json:"tenant_id"`
	SkuID         uint           `gorm:"column:sku_id;not null;index:idx_ledger_key,priority:2" json:"sku_id"`
	WarehouseID   uint           `gorm:"column:warehouse_id;not null;index:idx_ledger_key,priority:3" json:"warehouse_id"`
	Type          string         `gorm:"column:type;type:varchar(20);not null;index" json:"type"`
	Quantity      int64          `gorm:"column:quantity;not null" json:"quantity"`
	ReferenceType string         `gorm:"column:reference_type;type:varchar(50)" json:"reference_type,omitempty"`
	ReferenceID   string         `gorm:"column:reference_id;type:varchar(64)" json:"reference_id,omitempty"`
	Notes         string         `gorm:"column:notes;type:text" json:"notes,omitempty"`
	Metadata      datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	OperatorID    uint           `gorm:"column:operator_id" json:"operator_id,omitempty"`
	CreatedAt     time.Time      `gorm:"column:created_at;index" json:"created_at"`
}

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
