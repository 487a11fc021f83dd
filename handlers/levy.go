package handlers

import (
	"fmt"
	"net/http"
	"time"

	"aduana_flow_app_go/config"
	"aduana_flow_app_go/db"
	"aduana_flow_app_go/middleware"
	"aduana_flow_app_go/models"
	"aduana_flow_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// DeriveLevyFromChargeHandler derives a levy from an issued charge.
// When the request carries no term, the configured default applies.
func DeriveLevyFromChargeHandler(c echo.Context) error {
	cfg := c.Get("config").(*config.Config)

	var req struct {
		TermDays int `json:"term_days" form:"term_days"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.TermDays <= 0 {
		req.TermDays = cfg.LevyTermDays
	}

	levy, err := services.DeriveLevyFromCharge(db.DB, c.Param("chargeId"), req.TermDays)
	if err != nil {
		return jsonError(c, err)
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c), models.AuditActionCreate,
		"levy", levy.ID, levy.LevyNumber, "Giro derivado de cargo", nil, levy)

	return c.JSON(http.StatusCreated, levy)
}

// DeriveLevyFromCaseHandler derives a levy from a fined or settled case
func DeriveLevyFromCaseHandler(c echo.Context) error {
	cfg := c.Get("config").(*config.Config)

	var req struct {
		TermDays int `json:"term_days" form:"term_days"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.TermDays <= 0 {
		req.TermDays = cfg.LevyTermDays
	}

	levy, err := services.DeriveLevyFromCase(db.DB, c.Param("caseId"), req.TermDays)
	if err != nil {
		return jsonError(c, err)
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c), models.AuditActionCreate,
		"levy", levy.ID, levy.LevyNumber, "Giro derivado de denuncia", nil, levy)

	return c.JSON(http.StatusCreated, levy)
}

// GetLevyHandler returns a levy, refreshing OVERDUE lazily on read
func GetLevyHandler(c echo.Context) error {
	levy, err := services.GetLevyByID(db.DB, c.Param("id"))
	if err != nil {
		return jsonError(c, err)
	}

	levy, err = services.RefreshLevyStatus(db.DB, levy)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, levy)
}

// UpdateLevyTermHandler changes the collection term of a levy
func UpdateLevyTermHandler(c echo.Context) error {
	var req struct {
		TermDays int `json:"term_days" form:"term_days"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	levy, err := services.UpdateLevyTerm(db.DB, c.Param("id"), req.TermDays)
	if err != nil {
		return jsonError(c, err)
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c), models.AuditActionUpdate,
		"levy", levy.ID, levy.LevyNumber, "Plazo de giro actualizado", nil, levy)

	return c.JSON(http.StatusOK, levy)
}

// ApplyPaymentHandler records a payment against a levy
func ApplyPaymentHandler(c echo.Context) error {
	var req struct {
		Amount    decimal.Decimal `json:"amount" form:"amount"`
		Reference string          `json:"reference" form:"reference"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	operator := middleware.GetOperator(c)

	levy, err := services.ApplyPayment(db.DB, c.Param("id"), req.Amount, operator, req.Reference)
	if err != nil {
		return jsonError(c, err)
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c), models.AuditActionPayment,
		"levy", levy.ID, levy.LevyNumber, "Pago aplicado", nil, levy)

	return c.JSON(http.StatusOK, levy)
}

// CancelLevyHandler cancels an unpaid levy
func CancelLevyHandler(c echo.Context) error {
	levy, err := services.CancelLevy(db.DB, c.Param("id"))
	if err != nil {
		return jsonError(c, err)
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c), models.AuditActionUpdate,
		"levy", levy.ID, levy.LevyNumber, "Giro anulado", nil, levy)

	return c.JSON(http.StatusOK, levy)
}

// ExportLeviesHandler streams the levy collection report as XLSX
func ExportLeviesHandler(c echo.Context) error {
	filter := services.LevyExportFilter{
		Status:        c.QueryParam("status"),
		CustomsOffice: c.QueryParam("customs_office"),
	}
	if from := c.QueryParam("issued_from"); from != "" {
		t, err := services.ParseDate(from)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid issued_from date")
		}
		filter.IssuedFrom = &t
	}
	if to := c.QueryParam("issued_to"); to != "" {
		t, err := services.ParseDate(to)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid issued_to date")
		}
		filter.IssuedTo = &t
	}

	buf, err := services.ExportLeviesToExcel(db.DB, filter)
	if err != nil {
		return jsonError(c, err)
	}

	fileName := fmt.Sprintf("giros_%s.xlsx", time.Now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, fileName))
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
