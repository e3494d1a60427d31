package sales

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"wholesale.GO/core/errs"
	salesEntity "wholesale.GO/model/entity/sales"
	catalogRepo "wholesale.GO/model/repository/catalog"
	customerRepo "wholesale.GO/model/repository/customer"
	salesRepo "wholesale.GO/model/repository/sales"
	inventoryService "wholesale.GO/service/inventory"
)

// OrderService drives a sales order through its lifecycle. Transitions
// with inventory side effects run those through the engine inside the
// transition's own transaction: if any line fails, the whole transition
// rolls back and the order keeps its pre-transition status.
type OrderService struct {
	db     *gorm.DB
	engine *inventoryService.Engine
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db, engine: inventoryService.NewEngine(db)}
}

// OrderLineInput is one requested line at creation time.
type OrderLineInput struct {
	SkuID    uint  `json:"sku_id"`
	Quantity int64 `json:"quantity"`
}

// CreateOrderInput carries the order creation request.
type CreateOrderInput struct {
	CustomerID  uint             `json:"customer_id"`
	WarehouseID uint             `json:"warehouse_id"`
	Currency    string           `json:"currency"`
	Notes       string           `json:"notes"`
	Lines       []OrderLineInput `json:"lines"`
}

// Create builds a PENDING order. Line prices are the SKU wholesale price
// times the customer's tier multiplier, frozen here; later tier or price
// changes never touch existing lines.
func (s *OrderService) Create(tenantID, operatorID uint, in CreateOrderInput) (*salesEntity.SalesOrder, error) {
	if len(in.Lines) == 0 {
		return nil, errs.Validation("order requires at least one line")
	}
	for _, line := range in.Lines {
		if line.Quantity <= 0 {
			return nil, errs.Validation("line quantity must be positive, got %d for sku %d", line.Quantity, line.SkuID)
		}
	}
	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}

	var order *salesEntity.SalesOrder
	err := s.db.Transaction(func(tx *gorm.DB) error {
		cust, err := customerRepo.NewCustomerRepository(tx).FindByID(tenantID, in.CustomerID)
		if err != nil {
			return err
		}
		if cust == nil {
			return errs.NotFound("customer %d not found", in.CustomerID)
		}
		if !cust.Active {
			return errs.Validation("customer %d is inactive", in.CustomerID)
		}

		wh, err := catalogRepo.NewWarehouseRepository(tx).FindByID(tenantID, in.WarehouseID)
		if err != nil {
			return err
		}
		if wh == nil {
			return errs.NotFound("warehouse %d not found", in.WarehouseID)
		}

		skuIDs := make([]uint, 0, len(in.Lines))
		for _, line := range in.Lines {
			skuIDs = append(skuIDs, line.SkuID)
		}
		skus, err := catalogRepo.NewSKURepository(tx).FindByIDs(tenantID, skuIDs)
		if err != nil {
			return err
		}

		multiplier := cust.DiscountMultiplier()
		total := decimal.Zero
		items := make([]salesEntity.SalesOrderItem, 0, len(in.Lines))
		for _, line := range in.Lines {
			sku, ok := skus[line.SkuID]
			if !ok {
				return errs.NotFound("sku %d not found", line.SkuID)
			}
			unitPrice := sku.WholesalePrice.Mul(multiplier).Round(4)
			items = append(items, salesEntity.SalesOrderItem{
				TenantID:  tenantID,
				SkuID:     line.SkuID,
				Quantity:  line.Quantity,
				UnitPrice: unitPrice,
			})
			total = total.Add(unitPrice.Mul(decimal.NewFromInt(line.Quantity)))
		}

		orders := salesRepo.NewOrderRepository(tx)
		number, err := orders.NextOrderNumber(tenantID, time.Now().Format("20060102"))
		if err != nil {
			return err
		}

		order = &salesEntity.SalesOrder{
			TenantID:    tenantID,
			OrderNumber: number,
			CustomerID:  in.CustomerID,
			WarehouseID: in.WarehouseID,
			Status:      salesEntity.StatusPending,
			TotalAmount: total.Round(2),
			Currency:    currency,
			Notes:       in.Notes,
			CreatedBy:   operatorID,
			Items:       items,
		}
		return orders.Create(order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Confirm moves PENDING to CONFIRMED, locking every line's quantity at the
// order's warehouse. No partial locking survives a failed line.
func (s *OrderService) Confirm(tenantID, operatorID, orderID uint) (*salesEntity.SalesOrder, error) {
	return s.transition(tenantID, orderID, func(tx *gorm.DB, order *salesEntity.SalesOrder) error {
		if order.Status != salesEntity.StatusPending {
			return errs.InvalidState("cannot confirm order %s in status %s", order.OrderNumber, order.Status)
		}
		for _, item := range order.Items {
			err := s.engine.LockInventoryTx(tx, s.lineOp(order, item, operatorID))
			if err != nil {
				return err
			}
		}
		return salesRepo.NewOrderRepository(tx).UpdateStatus(order, salesEntity.StatusConfirmed)
	})
}

// Cancel moves PENDING or CONFIRMED to CANCELLED, releasing confirm-time
// locks when there are any.
func (s *OrderService) Cancel(tenantID, operatorID, orderID uint) (*salesEntity.SalesOrder, error) {
	return s.transition(tenantID, orderID, func(tx *gorm.DB, order *salesEntity.SalesOrder) error {
		switch order.Status {
		case salesEntity.StatusPending:
			// No inventory was touched yet.
		case salesEntity.StatusConfirmed:
			for _, item := range order.Items {
				err := s.engine.UnlockInventoryTx(tx, s.lineOp(order, item, operatorID))
				if err != nil {
					return err
				}
			}
		default:
			return errs.InvalidState("cannot cancel order %s in status %s", order.OrderNumber, order.Status)
		}
		return salesRepo.NewOrderRepository(tx).UpdateStatus(order, salesEntity.StatusCancelled)
	})
}

// Fulfill ships the order: every line goes outbound at the order's
// warehouse, consuming the confirm-time locks, and the order completes
// with shippedAt set.
func (s *OrderService) Fulfill(tenantID, operatorID, orderID uint) (*salesEntity.SalesOrder, error) {
	return s.transition(tenantID, orderID, func(tx *gorm.DB, order *salesEntity.SalesOrder) error {
		if !order.CanFulfill() {
			return errs.InvalidState("cannot fulfill order %s in status %s", order.OrderNumber, order.Status)
		}
		for i := range order.Items {
			item := order.Items[i]
			err := s.engine.FulfillOutboundTx(tx, s.lineOp(order, item, operatorID))
			if err != nil {
				return err
			}
			if err := tx.Model(&order.Items[i]).Update("picked_qty", item.Quantity).Error; err != nil {
				return err
			}
		}
		now := time.Now()
		order.Status = salesEntity.StatusCompleted
		order.ShippedAt = &now
		return tx.Model(order).Updates(map[string]interface{}{
			"status":     salesEntity.StatusCompleted,
			"shipped_at": now,
		}).Error
	})
}

// GetByID returns the order with items.
func (s *OrderService) GetByID(tenantID, orderID uint) (*salesEntity.SalesOrder, error) {
	order, err := salesRepo.NewOrderRepository(s.db).FindByID(tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errs.NotFound("order %d not found", orderID)
	}
	return order, nil
}

// transition loads the order, applies fn in one transaction, and
// invalidates the summary cache for every touched SKU after commit.
func (s *OrderService) transition(
	tenantID, orderID uint,
	fn func(tx *gorm.DB, order *salesEntity.SalesOrder) error,
) (*salesEntity.SalesOrder, error) {
	var order *salesEntity.SalesOrder
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = salesRepo.NewOrderRepository(tx).FindByID(tenantID, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return errs.NotFound("order %d not found", orderID)
		}
		return fn(tx, order)
	})
	if err != nil {
		return nil, err
	}
	for _, item := range order.Items {
		s.engine.Invalidate(tenantID, item.SkuID)
	}
	return order, nil
}

func (s *OrderService) lineOp(order *salesEntity.SalesOrder, item salesEntity.SalesOrderItem, operatorID uint) inventoryService.StockOp {
	return inventoryService.StockOp{
		TenantID:      order.TenantID,
		OperatorID:    operatorID,
		SkuID:         item.SkuID,
		WarehouseID:   order.WarehouseID,
		Quantity:      item.Quantity,
		ReferenceType: "SO",
		ReferenceID:   strconv.FormatUint(uint64(order.ID), 10),
	}
}
