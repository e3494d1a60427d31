package sales

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"wholesale.GO/api"
	"wholesale.GO/core/errs"
	catalogService "wholesale.GO/service/catalog"
	salesService "wholesale.GO/service/sales"
)

func init() {
	api.RegisterModule(RegisterSalesRoutes)
}

func RegisterSalesRoutes(apiGroup *echo.Group, db *gorm.DB) {
	orders := salesService.NewOrderService(db)

	apiGroup.POST("/orders", func(c echo.Context) error {
		tenantID, err := api.TenantID(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		var in salesService.CreateOrderInput
		if err := c.Bind(&in); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		order, err := orders.Create(tenantID, api.OperatorID(c), in)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusCreated, order)
	})

	apiGroup.GET("/orders/:id", func(c echo.Context) error {
		tenantID, orderID, err := orderParams(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		order, err := orders.GetByID(tenantID, orderID)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, order)
	})

	transitionHandler := func(run func(tenantID, operatorID, orderID uint) (interface{}, error)) echo.HandlerFunc {
		return func(c echo.Context) error {
			tenantID, orderID, err := orderParams(c)
			if err != nil {
				return api.WriteError(c, err)
			}
			order, err := run(tenantID, api.OperatorID(c), orderID)
			if err != nil {
				return api.WriteError(c, err)
			}
			return c.JSON(http.StatusOK, order)
		}
	}

	apiGroup.POST("/orders/:id/confirm", transitionHandler(func(t, op, id uint) (interface{}, error) {
		return orders.Confirm(t, op, id)
	}))
	apiGroup.POST("/orders/:id/cancel", transitionHandler(func(t, op, id uint) (interface{}, error) {
		return orders.Cancel(t, op, id)
	}))
	apiGroup.POST("/orders/:id/fulfill", transitionHandler(func(t, op, id uint) (interface{}, error) {
		return orders.Fulfill(t, op, id)
	}))

	apiGroup.GET("/orders/:id/picklist", func(c echo.Context) error {
		tenantID, orderID, err := orderParams(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		rows, err := orders.PickList(tenantID, orderID)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"rows": rows})
	})

	// GET /api/skus/search?q=&limit=
	apiGroup.GET("/skus/search", func(c echo.Context) error {
		tenantID, err := api.TenantID(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		q := c.QueryParam("q")
		if q == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing q parameter"})
		}
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		skus, err := catalogService.GetSearchService().Search(c.Request().Context(), db, tenantID, q, limit)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"items": skus})
	})
}

func orderParams(c echo.Context) (uint, uint, error) {
	tenantID, err := api.TenantID(c)
	if err != nil {
		return 0, 0, err
	}
	orderID, perr := strconv.ParseUint(c.Param("id"), 10, 32)
	if perr != nil {
		return 0, 0, errs.Validation("invalid order id %q", c.Param("id"))
	}
	return tenantID, uint(orderID), nil
}
