package inventory

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mitchellh/mapstructure"
	"gorm.io/gorm"

	"wholesale.GO/api"
	"wholesale.GO/core/errs"
	inventoryRepo "wholesale.GO/model/repository/inventory"
	inventoryService "wholesale.GO/service/inventory"
)

func init() {
	api.RegisterModule(RegisterInventoryRoutes)
}

type stockOpBody struct {
	SkuID         uint   `json:"sku_id"`
	WarehouseID   uint   `json:"warehouse_id"`
	BinLocationID *uint  `json:"bin_location_id"`
	Quantity      int64  `json:"quantity"`
	ReferenceType string `json:"reference_type"`
	ReferenceID   string `json:"reference_id"`
	Notes         string `json:"notes"`
}

type transferBody struct {
	SkuID           uint   `json:"sku_id"`
	FromWarehouseID uint   `json:"from_warehouse_id"`
	ToWarehouseID   uint   `json:"to_warehouse_id"`
	FromBinID       *uint  `json:"from_bin_id"`
	ToBinID         *uint  `json:"to_bin_id"`
	Quantity        int64  `json:"quantity"`
	Notes           string `json:"notes"`
}

func RegisterInventoryRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/inventory")
	engine := inventoryService.NewEngine(db)

	opHandler := func(run func(op inventoryService.StockOp) (*inventoryService.Summary, error)) echo.HandlerFunc {
		return func(c echo.Context) error {
			tenantID, err := api.TenantID(c)
			if err != nil {
				return api.WriteError(c, err)
			}
			var body stockOpBody
			if err := c.Bind(&body); err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
			}
			sum, err := run(inventoryService.StockOp{
				TenantID:      tenantID,
				OperatorID:    api.OperatorID(c),
				SkuID:         body.SkuID,
				WarehouseID:   body.WarehouseID,
				BinLocationID: body.BinLocationID,
				Quantity:      body.Quantity,
				ReferenceType: body.ReferenceType,
				ReferenceID:   body.ReferenceID,
				Notes:         body.Notes,
			})
			if err != nil {
				return api.WriteError(c, err)
			}
			return c.JSON(http.StatusOK, sum)
		}
	}

	g.POST("/inbound", opHandler(engine.Inbound))
	g.POST("/outbound", opHandler(engine.Outbound))
	g.POST("/adjust", opHandler(engine.Adjust))
	g.POST("/lock", opHandler(engine.LockInventory))
	g.POST("/unlock", opHandler(engine.UnlockInventory))

	g.POST("/transfer", func(c echo.Context) error {
		tenantID, err := api.TenantID(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		var body transferBody
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if body.FromWarehouseID == body.ToWarehouseID && equalBin(body.FromBinID, body.ToBinID) {
			return api.WriteError(c, errs.Validation("transfer source and destination are identical"))
		}
		sum, err := engine.Transfer(inventoryService.TransferOp{
			TenantID:        tenantID,
			OperatorID:      api.OperatorID(c),
			SkuID:           body.SkuID,
			FromWarehouseID: body.FromWarehouseID,
			ToWarehouseID:   body.ToWarehouseID,
			FromBinID:       body.FromBinID,
			ToBinID:         body.ToBinID,
			Quantity:        body.Quantity,
			Notes:           body.Notes,
		})
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, sum)
	})

	// GET /api/inventory/sku/:id returns per-(warehouse, bin) rows plus totals.
	g.GET("/sku/:id", func(c echo.Context) error {
		tenantID, err := api.TenantID(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		skuID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sku id"})
		}
		rows, sum, err := engine.StockBreakdown(tenantID, uint(skuID))
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"records": rows, "summary": sum})
	})

	// GET /api/inventory/ledger?sku_id=&warehouse_id=&type=&from=&to=&page=&page_size=
	g.GET("/ledger", func(c echo.Context) error {
		tenantID, err := api.TenantID(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		filter, err := decodeLedgerFilter(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		entries, total, err := inventoryRepo.NewLedgerRepository(db).Query(tenantID, filter)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"entries": entries, "total": total})
	})
}

// decodeLedgerFilter turns the raw query-param map into a LedgerFilter.
// Weak typing converts the string params; the hook parses RFC3339 dates.
func decodeLedgerFilter(c echo.Context) (inventoryRepo.LedgerFilter, error) {
	params := map[string]interface{}{}
	for key, values := range c.QueryParams() {
		if len(values) > 0 && values[0] != "" {
			params[key] = values[0]
		}
	}

	var filter inventoryRepo.LedgerFilter
	cfg := &mapstructure.DecoderConfig{
		Result:           &filter,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
		TagName:          "mapstructure",
	}
	dec, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return filter, err
	}
	if err := dec.Decode(params); err != nil {
		return filter, err
	}
	return filter, nil
}

func equalBin(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
