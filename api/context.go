package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"wholesale.GO/core/errs"
)

// Tenant and operator ids are threaded explicitly from headers into every
// core call; the core never reads ambient request state.
const (
	HeaderTenantID   = "X-Tenant-ID"
	HeaderOperatorID = "X-Operator-ID"
)

// TenantID extracts the tenant id header. Missing or malformed is a
// validation error.
func TenantID(c echo.Context) (uint, error) {
	raw := c.Request().Header.Get(HeaderTenantID)
	if raw == "" {
		return 0, errs.Validation("missing %s header", HeaderTenantID)
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errs.Validation("invalid %s header %q", HeaderTenantID, raw)
	}
	return uint(id), nil
}

// OperatorID extracts the optional operator id header (0 when absent).
func OperatorID(c echo.Context) uint {
	raw := c.Request().Header.Get(HeaderOperatorID)
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

// WriteError renders a business error as JSON with its taxonomy kind.
func WriteError(c echo.Context, err error) error {
	status := errs.HTTPStatus(err)
	kind := errs.KindOf(err)
	if kind == "" {
		kind = "INTERNAL"
	}
	return c.JSON(status, echo.Map{"error": err.Error(), "kind": kind})
}
