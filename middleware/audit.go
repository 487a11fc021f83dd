package middleware

import (
	"aduana_flow_app_go/services"

	"github.com/labstack/echo/v4"
)

const ContextKeyAuditContext = "audit_context"

// Operator identification headers. There is no interactive login here;
// requests arrive from the institutional gateway which stamps these.
const (
	HeaderOperator      = "X-Operator"
	HeaderCustomsOffice = "X-Customs-Office"
)

// AuditContext is middleware that extracts operator info for audit logging
func AuditContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := services.AuditContext{
				Operator:      c.Request().Header.Get(HeaderOperator),
				CustomsOffice: c.Request().Header.Get(HeaderCustomsOffice),
				IPAddress:     c.RealIP(),
				UserAgent:     c.Request().UserAgent(),
			}

			c.Set(ContextKeyAuditContext, ctx)
			return next(c)
		}
	}
}

// GetAuditContext retrieves the audit context from the request
func GetAuditContext(c echo.Context) services.AuditContext {
	if ctx, ok := c.Get(ContextKeyAuditContext).(services.AuditContext); ok {
		return ctx
	}
	return services.AuditContext{}
}

// GetOperator returns the operator name stamped on the request
func GetOperator(c echo.Context) string {
	return GetAuditContext(c).Operator
}
