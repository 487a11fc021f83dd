package handlers

import (
	"net/http"

	"aduana_flow_app_go/db"
	"aduana_flow_app_go/middleware"
	"aduana_flow_app_go/models"
	"aduana_flow_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// DraftChargeHandler creates a charge in DRAFT, prefilled from its
// source case when one is referenced
func DraftChargeHandler(c echo.Context) error {
	var input services.ChargeDraftInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	charge, err := services.DraftCharge(db.DB, input)
	if err != nil {
		return jsonError(c, err)
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c), models.AuditActionCreate,
		"charge", charge.ID, charge.ChargeNumber, "Cargo en borrador", nil, charge)

	return c.JSON(http.StatusCreated, charge)
}

// GetChargeHandler returns a charge with its lines and parties
func GetChargeHandler(c echo.Context) error {
	charge, err := services.GetChargeByID(db.DB, c.Param("id"))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, charge)
}

// AddAccountLineHandler appends an account line to a draft charge
func AddAccountLineHandler(c echo.Context) error {
	var req struct {
		Code     string          `json:"code" form:"code"`
		Name     string          `json:"name" form:"name"`
		Currency string          `json:"currency" form:"currency"`
		Amount   decimal.Decimal `json:"amount" form:"amount"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	line, err := services.AddAccountLine(db.DB, c.Param("id"), req.Code, req.Name, req.Currency, req.Amount)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, line)
}

// AddResponsiblePartyHandler appends a responsible party to a draft charge
func AddResponsiblePartyHandler(c echo.Context) error {
	var req struct {
		Name      string          `json:"name" form:"name"`
		TaxID     string          `json:"tax_id" form:"tax_id"`
		Pct       decimal.Decimal `json:"responsibility_pct" form:"responsibility_pct"`
		Principal bool            `json:"principal" form:"principal"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	party, err := services.AddResponsibleParty(db.DB, c.Param("id"), req.Name, req.TaxID, req.Pct, req.Principal)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, party)
}

// UpdateResponsiblePartyHandler adjusts responsibility before issuance
func UpdateResponsiblePartyHandler(c echo.Context) error {
	var req struct {
		Pct       decimal.Decimal `json:"responsibility_pct" form:"responsibility_pct"`
		Principal bool            `json:"principal" form:"principal"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := services.UpdateResponsibleParty(db.DB, c.Param("id"), c.Param("partyId"), req.Pct, req.Principal); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Responsible party updated"})
}

// IssueChargeHandler moves a charge from DRAFT to ISSUED irreversibly
func IssueChargeHandler(c echo.Context) error {
	charge, err := services.IssueCharge(db.DB, c.Param("id"))
	if err != nil {
		return jsonError(c, err)
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c), models.AuditActionIssue,
		"charge", charge.ID, charge.ChargeNumber, "Cargo emitido", nil, charge)

	return c.JSON(http.StatusOK, charge)
}
