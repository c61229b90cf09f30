package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"call_flow_app_go/db"
	"call_flow_app_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// resolveTenantParam picks the tenant for a dashboard API request: the
// explicit tenant_id query param when present, otherwise the default
// tenant (single-tenant deployments never pass the param).
func resolveTenantParam(c echo.Context) (string, error) {
	if tenantID := c.QueryParam("tenant_id"); tenantID != "" {
		return tenantID, nil
	}
	return services.ResolveTenant(db.DB, "")
}

// GetCallsHandler lists calls with filters and pagination.
// GET /api/v1/calls?page=&limit=&status=&direction=&is_emergency=&search=
func GetCallsHandler(c echo.Context) error {
	tenantID, err := resolveTenantParam(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No tenant configured"})
	}

	opts := services.CallListOptions{
		Filters: services.CallFilters{
			Status:     c.QueryParam("status"),
			Direction:  c.QueryParam("direction"),
			ProspectID: c.QueryParam("prospect_id"),
			Search:     c.QueryParam("search"),
		},
	}
	opts.Page, _ = strconv.Atoi(c.QueryParam("page"))
	opts.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if v := c.QueryParam("is_emergency"); v != "" {
		isEmergency := v == "true" || v == "1"
		opts.Filters.IsEmergency = &isEmergency
	}

	calls, pagination, err := services.ListCalls(db.DB, tenantID, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list calls"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"calls":      calls,
		"pagination": pagination,
	})
}

// GetCallHandler returns one call.
// GET /api/v1/calls/:id
func GetCallHandler(c echo.Context) error {
	tenantID, err := resolveTenantParam(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No tenant configured"})
	}

	call, err := services.GetCall(db.DB, tenantID, c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Call not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load call"})
	}

	return c.JSON(http.StatusOK, call)
}

// GetCallStatsHandler returns aggregate call statistics.
// GET /api/v1/calls/stats
func GetCallStatsHandler(c echo.Context) error {
	tenantID, err := resolveTenantParam(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No tenant configured"})
	}

	stats, err := services.GetCallStats(db.DB, tenantID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to compute stats"})
	}

	return c.JSON(http.StatusOK, stats)
}

// ExportCallsHandler streams the calls workbook.
// GET /api/v1/calls/export
func ExportCallsHandler(c echo.Context) error {
	tenantID, err := resolveTenantParam(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No tenant configured"})
	}

	buf, err := services.GenerateCallsExport(db.DB, tenantID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate export"})
	}

	filename := "appels-" + time.Now().Format("2006-01-02") + ".xlsx"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
