package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// SKUStatus values
const (
	SKUStatusActive   = "ACTIVE"
	SKUStatusInactive = "INACTIVE"
)

// SKU is a sellable variant (e.g. color+material) of a product.
type SKU struct {
	ID             uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	TenantID       uint            `gorm:"column:tenant_id;not null;uniqueIndex:idx_sku_code,priority:1" json:"tenant_id"`
	Code           string          `gorm:"column:code;type:varchar(64);not null;uniqueIndex:idx_sku_code,priority:2" json:"code"`
	Name           string          `gorm:"column:name;type:varchar(128);not null" json:"name"`
	ProductID      uint            `gorm:"column:product_id;index" json:"product_id,omitempty"`
	Color          string          `gorm:"column:color;type:varchar(32)" json:"color,omitempty"`
	Material       string          `gorm:"column:material;type:varchar(32)" json:"material,omitempty"`
	Barcode        string          `gorm:"column:barcode;type:varchar(64)" json:"barcode,omitempty"`
	WholesalePrice decimal.Decimal `gorm:"column:wholesale_price;type:decimal(12,4);not null;default:0" json:"wholesale_price"`
	Status         string          `gorm:"column:status;type:varchar(20);not null;default:ACTIVE" json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (SKU) TableName() string {
	return "skus"
}
