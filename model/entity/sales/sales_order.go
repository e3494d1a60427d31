package sales

import (
	"time"

	"github.com/shopspring/decimal"

	customerEntity "wholesale.GO/model/entity/customer"
)

// Sales order statuses. PICKING and PACKED are set by warehouse tooling
// between Confirm and Fulfill; COMPLETED and CANCELLED are terminal.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusPicking   = "PICKING"
	StatusPacked    = "PACKED"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

// SalesOrder is one customer order shipped from a single warehouse.
type SalesOrder struct {
	ID          uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	TenantID    uint            `gorm:"column:tenant_id;not null;uniqueIndex:idx_order_number,priority:1" json:"tenant_id"`
	OrderNumber string          `gorm:"column:order_number;type:varchar(32);not null;uniqueIndex:idx_order_number,priority:2" json:"order_number"`
	CustomerID  uint            `gorm:"column:customer_id;not null;index" json:"customer_id"`
	WarehouseID uint            `gorm:"column:warehouse_id;not null;index" json:"warehouse_id"`
	Status      string          `gorm:"column:status;type:varchar(20);not null;default:PENDING;index" json:"status"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:decimal(12,2);not null;default:0" json:"total_amount"`
	Currency    string          `gorm:"column:currency;type:varchar(10);not null;default:USD" json:"currency"`
	Notes       string          `gorm:"column:notes;type:text" json:"notes,omitempty"`
	ShippedAt   *time.Time      `gorm:"column:shipped_at" json:"shipped_at,omitempty"`
	CreatedBy   uint            `gorm:"column:created_by" json:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Customer *customerEntity.Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []SalesOrderItem         `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

func (SalesOrder) TableName() string {
	return "sales_orders"
}

// CanFulfill reports whether the current status permits fulfillment.
func (o *SalesOrder) CanFulfill() bool {
	switch o.Status {
	case StatusConfirmed, StatusPicking, StatusPacked:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are permitted.
func (o *SalesOrder) IsTerminal() bool {
	return o.Status == StatusCompleted || o.Status == StatusCancelled
}

// SalesOrderItem is one order line. UnitPrice is frozen at creation time
// (SKU wholesale price x customer tier multiplier) and never re-derived.
type SalesOrderItem struct {
	ID        uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	TenantID  uint            `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	OrderID   uint            `gorm:"column:order_id;not null;index" json:"order_id"`
	SkuID     uint            `gorm:"column:sku_id;not null;index" json:"sku_id"`
	Quantity  int64           `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:decimal(12,4);not null" json:"unit_price"`
	PickedQty int64           `gorm:"column:picked_qty;not null;default:0" json:"picked_qty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (SalesOrderItem) TableName() string {
	return "sales_order_items"
}

// LineTotal is quantity times the frozen unit price.
func (i *SalesOrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// OrderSequence is a per-tenant-per-day counter row backing order numbers.
// The value is advanced with an atomic UPDATE inside the order creation
// transaction so concurrent creations cannot mint duplicate numbers.
type OrderSequence struct {
	ID       uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	TenantID uint   `gorm:"column:tenant_id;not null;uniqueIndex:idx_seq_day,priority:1" json:"tenant_id"`
	Day      string `gorm:"column:day;type:char(8);not null;uniqueIndex:idx_seq_day,priority:2" json:"day"`
	Value    int64  `gorm:"column:value;not null;default:0" json:"value"`
}

func (OrderSequence) TableName() string {
	return "order_sequences"
}
