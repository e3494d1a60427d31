package catalog

import (
	"time"
)

// WarehouseStatus values
const (
	WarehouseStatusActive   = "ACTIVE"
	WarehouseStatusInactive = "INACTIVE"
)

// Warehouse is a physical stock location.
type Warehouse struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	TenantID  uint      `gorm:"column:tenant_id;not null;uniqueIndex:idx_wh_code,priority:1" json:"tenant_id"`
	Code      string    `gorm:"column:code;type:varchar(50);not null;uniqueIndex:idx_wh_code,priority:2" json:"code"`
	Name      string    `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Address   string    `gorm:"column:address;type:varchar(500)" json:"address,omitempty"`
	Status    string    `gorm:"column:status;type:varchar(20);not null;default:ACTIVE" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Bins []BinLocation `gorm:"foreignKey:WarehouseID" json:"bins,omitempty"`
}

func (Warehouse) TableName() string {
	return "warehouses"
}

// BinLocation is a storage slot within a warehouse. Stock without a bin
// location is unplaced/staging stock, distinct from any bin.
type BinLocation struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	TenantID    uint      `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	WarehouseID uint      `gorm:"column:warehouse_id;not null;uniqueIndex:idx_bin_code,priority:1" json:"warehouse_id"`
	Code        string    `gorm:"column:code;type:varchar(50);not null;uniqueIndex:idx_bin_code,priority:2" json:"code"`
	Name        string    `gorm:"column:name;type:varchar(100)" json:"name,omitempty"`
	Status      string    `gorm:"column:status;type:varchar(20);not null;default:ACTIVE" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Warehouse *Warehouse `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`
}

func (BinLocation) TableName() string {
	return "bin_locations"
}
