package sales

import (
	"sort"

	"wholesale.GO/core/errs"
	inventoryEntity "wholesale.GO/model/entity/inventory"
	salesEntity "wholesale.GO/model/entity/sales"
	catalogRepo "wholesale.GO/model/repository/catalog"
	inventoryRepo "wholesale.GO/model/repository/inventory"
	salesRepo "wholesale.GO/model/repository/sales"
	inventoryService "wholesale.GO/service/inventory"
)

// ShortageBin is the sentinel bin code on pick list rows whose quantity
// could not be satisfied from any bin.
const ShortageBin = "shortage"

// PickListRow is one walk stop: take Quantity of the SKU at BinCode.
// Unplaced (staging) stock carries an empty bin code.
type PickListRow struct {
	BinCode  string `json:"bin_code"`
	SkuCode  string `json:"sku_code"`
	SkuName  string `json:"sku_name"`
	Quantity int64  `json:"quantity"`
}

// PickList allocates each line's quantity greedily over the warehouse's
// bins in ascending bin-code order, unplaced stock last. Allocation is
// against raw on-hand, not availability: the picked quantity was already
// locked warehouse-wide at confirm time, not per bin. Read-only: no stock
// mutation, no ledger entry.
func (s *OrderService) PickList(tenantID, orderID uint) ([]PickListRow, error) {
	order, err := salesRepo.NewOrderRepository(s.db).FindByID(tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errs.NotFound("order %d not found", orderID)
	}
	if order.IsTerminal() {
		return nil, errs.InvalidState("no pick list for order %s in status %s", order.OrderNumber, order.Status)
	}

	warehouses := catalogRepo.NewWarehouseRepository(s.db)
	binCodes, err := warehouses.BinCodesByID(tenantID, order.WarehouseID)
	if err != nil {
		return nil, err
	}

	skuIDs := make([]uint, 0, len(order.Items))
	for _, item := range order.Items {
		skuIDs = append(skuIDs, item.SkuID)
	}
	skus, err := catalogRepo.NewSKURepository(s.db).FindByIDs(tenantID, skuIDs)
	if err != nil {
		return nil, err
	}

	stocks := inventoryRepo.NewStockRepository(s.db)
	var rows []PickListRow
	for _, item := range order.Items {
		sku := skus[item.SkuID]
		lineRows, err := pickLine(stocks, binCodes, tenantID, order.WarehouseID, item, sku.Code, sku.Name)
		if err != nil {
			return nil, err
		}
		rows = append(rows, lineRows...)
	}

	// Global walking order: bins ascending, then unplaced, shortages last.
	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := binRank(rows[i].BinCode), binRank(rows[j].BinCode)
		if ri != rj {
			return ri < rj
		}
		if rows[i].BinCode != rows[j].BinCode {
			return rows[i].BinCode < rows[j].BinCode
		}
		return rows[i].SkuCode < rows[j].SkuCode
	})
	return rows, nil
}

func pickLine(
	stocks *inventoryRepo.StockRepository,
	binCodes map[uint]string,
	tenantID, warehouseID uint,
	item salesEntity.SalesOrderItem,
	skuCode, skuName string,
) ([]PickListRow, error) {
	records, err := stocks.FindBySkuWarehouse(tenantID, item.SkuID, warehouseID)
	if err != nil {
		return nil, err
	}
	allocs, remaining := inventoryService.Allocate(
		records,
		item.Quantity,
		func(r *inventoryEntity.StockRecord) int64 { return r.OnHandQty },
		inventoryService.ByBinCodeAsc(binCodes),
	)

	var rows []PickListRow
	for _, a := range allocs {
		code := ""
		if a.Record.BinLocationID != nil {
			code = binCodes[*a.Record.BinLocationID]
		}
		rows = append(rows, PickListRow{
			BinCode:  code,
			SkuCode:  skuCode,
			SkuName:  skuName,
			Quantity: a.Take,
		})
	}
	if remaining > 0 {
		rows = append(rows, PickListRow{
			BinCode:  ShortageBin,
			SkuCode:  skuCode,
			SkuName:  skuName,
			Quantity: remaining,
		})
	}
	return rows, nil
}

func binRank(code string) int {
	switch code {
	case ShortageBin:
		return 2
	case "":
		return 1
	default:
		return 0
	}
}
