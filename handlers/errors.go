package handlers

import (
	"net/http"

	"aduana_flow_app_go/services"

	"github.com/labstack/echo/v4"
)

// jsonError maps typed service errors onto HTTP responses. Validation
// problems are the operator's to fix (400), conflicts require a
// refetch (409), missing entities are terminal (404) and an exhausted
// retry against an external service surfaces as a bad gateway (502).
func jsonError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case services.IsValidation(err):
		status = http.StatusBadRequest
	case services.IsConflict(err):
		status = http.StatusConflict
	case services.IsNotFound(err):
		status = http.StatusNotFound
	case services.IsRetryable(err):
		status = http.StatusBadGateway
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
