package handlers

import (
	"net/http"

	"aduana_flow_app_go/db"
	"aduana_flow_app_go/services"

	"github.com/labstack/echo/v4"
)

// GetAuditTrailHandler returns the audit entries for one resource
func GetAuditTrailHandler(c echo.Context) error {
	resourceType := c.QueryParam("resource_type")
	resourceID := c.QueryParam("resource_id")
	if resourceType == "" || resourceID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "resource_type and resource_id query parameters are required")
	}

	entries, err := services.GetAuditTrail(db.DB, resourceType, resourceID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch audit trail")
	}
	return c.JSON(http.StatusOK, entries)
}
