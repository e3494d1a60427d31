package customer

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer tiers. The tier only feeds order-creation pricing; line prices
// are frozen on the order and never re-derived.
const (
	TierNormal = "NORMAL"
	TierSilver = "SILVER"
	TierGold   = "GOLD"
	TierVIP    = "VIP"
)

// Customer is a wholesale buyer.
type Customer struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	TenantID  uint      `gorm:"column:tenant_id;not null;uniqueIndex:idx_cust_code,priority:1" json:"tenant_id"`
	Code      string    `gorm:"column:code;type:varchar(50);not null;uniqueIndex:idx_cust_code,priority:2" json:"code"`
	Name      string    `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Tier      string    `gorm:"column:tier;type:varchar(20);not null;default:NORMAL" json:"tier"`
	Phone     string    `gorm:"column:phone;type:varchar(32)" json:"phone,omitempty"`
	Active    bool      `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}

// tierMultipliers maps tier to the wholesale discount multiplier.
var tierMultipliers = map[string]decimal.Decimal{
	TierNormal: decimal.NewFromFloat(1.00),
	TierSilver: decimal.NewFromFloat(0.98),
	TierGold:   decimal.NewFromFloat(0.95),
	TierVIP:    decimal.NewFromFloat(0.90),
}

// DiscountMultiplier returns the tier's price multiplier.
// Unknown tiers price as NORMAL.
func (c *Customer) DiscountMultiplier() decimal.Decimal {
	if m, ok := tierMultipliers[c.Tier]; ok {
		return m
	}
	return tierMultipliers[TierNormal]
}
