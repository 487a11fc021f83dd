package handlers

import (
	"context"
	"net/http"

	"aduana_flow_app_go/config"
	"aduana_flow_app_go/db"
	"aduana_flow_app_go/middleware"
	"aduana_flow_app_go/models"
	"aduana_flow_app_go/services"

	"github.com/labstack/echo/v4"
)

// PrepareActHandler assembles the act draft for a finalized hearing
func PrepareActHandler(c echo.Context) error {
	cfg := c.Get("config").(*config.Config)

	var req struct {
		AbsolutionAuthorizedBy *string `json:"absolution_authorized_by" form:"absolution_authorized_by"`
		SettlementAgreed       bool    `json:"settlement_agreed" form:"settlement_agreed"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	act, err := services.PrepareAct(db.DB, c.Param("id"), services.PrepareActOptions{
		AttenuationPct:         cfg.AttenuationPct,
		AbsolutionAuthorizedBy: req.AbsolutionAuthorizedBy,
		SettlementAgreed:       req.SettlementAgreed,
	})
	if err != nil {
		return jsonError(c, err)
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c), models.AuditActionCreate,
		"act", act.ID, "", "Acta preparada", nil, act)

	return c.JSON(http.StatusCreated, act)
}

// GetActHandler returns an act
func GetActHandler(c echo.Context) error {
	act, err := services.GetActByID(db.DB, c.Param("id"))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, act)
}

// SignActHandler applies the signature record to an act draft
func SignActHandler(c echo.Context) error {
	var req struct {
		SignerName  string `json:"signer_name" form:"signer_name"`
		SignerTaxID string `json:"signer_tax_id" form:"signer_tax_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	act, err := services.SignAct(c.Request().Context(), db.DB, c.Param("id"), req.SignerName, req.SignerTaxID)
	if err != nil {
		return jsonError(c, err)
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c), models.AuditActionSign,
		"act", act.ID, "", "Acta firmada", nil, act)

	return c.JSON(http.StatusOK, act)
}

// IssueActHandler finalizes issuance: act number, issuance flag, parent
// case status, all in one transaction. PDF rendering and notification
// run afterwards and never roll the issuance back.
func IssueActHandler(c echo.Context) error {
	cfg := c.Get("config").(*config.Config)

	var req struct {
		NotifyEmail string `json:"notify_email" form:"notify_email"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	operator := middleware.GetOperator(c)

	act, err := services.IssueAct(db.DB, c.Param("id"), operator)
	if err != nil {
		return jsonError(c, err)
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c), models.AuditActionIssue,
		"act", act.ID, *act.ActNumber, "Acta emitida", nil, act)

	go services.PublishIssuedAct(context.Background(), db.DB, cfg, act.ID, req.NotifyEmail)

	return c.JSON(http.StatusOK, act)
}

// DownloadActPDFHandler streams the stored act PDF
func DownloadActPDFHandler(c echo.Context) error {
	act, err := services.GetActByID(db.DB, c.Param("id"))
	if err != nil {
		return jsonError(c, err)
	}
	if act.PDFStorageKey == nil {
		return echo.NewHTTPError(http.StatusNotFound, "No PDF stored for this act")
	}
	if services.Storage == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Storage not configured")
	}

	body, contentType, err := services.Storage.Get(c.Request().Context(), *act.PDFStorageKey)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch PDF")
	}
	defer body.Close()

	return c.Stream(http.StatusOK, contentType, body)
}
