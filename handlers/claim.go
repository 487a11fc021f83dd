package handlers

import (
	"net/http"

	"aduana_flow_app_go/config"
	"aduana_flow_app_go/db"
	"aduana_flow_app_go/middleware"
	"aduana_flow_app_go/models"
	"aduana_flow_app_go/services"

	"github.com/labstack/echo/v4"
)

// FileClaimHandler files a reconsideration or tribunal claim
func FileClaimHandler(c echo.Context) error {
	var input services.ClaimInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	claim, err := services.FileClaim(db.DB, input)
	if err != nil {
		return jsonError(c, err)
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c), models.AuditActionCreate,
		"claim", claim.ID, claim.ClaimNumber, "Reclamo presentado", nil, claim)

	return c.JSON(http.StatusCreated, claim)
}

// GetClaimHandler returns a claim
func GetClaimHandler(c echo.Context) error {
	claim, err := services.GetClaimByID(db.DB, c.Param("id"))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, claim)
}

// GetClaimsByOriginHandler enumerates all claims filed against an entity
func GetClaimsByOriginHandler(c echo.Context) error {
	originType := c.QueryParam("origin_type")
	originID := c.QueryParam("origin_id")
	if originType == "" || originID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "origin_type and origin_id query parameters are required")
	}

	claims, err := services.GetClaimsByOrigin(db.DB, originType, originID)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, claims)
}

// AdmitClaimHandler advances a claim through admissibility review
func AdmitClaimHandler(c echo.Context) error {
	claim, err := services.AdmitClaim(db.DB, c.Param("id"))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, claim)
}

// ResolveClaimHandler resolves a claim under review. The response
// carries requires_recalculation so the caller knows when the origin
// charge or levy must be recomputed; this endpoint never mutates it.
func ResolveClaimHandler(c echo.Context) error {
	cfg := c.Get("config").(*config.Config)

	var req struct {
		Outcome     string `json:"outcome" form:"outcome"`
		Rationale   string `json:"rationale" form:"rationale"`
		NotifyEmail string `json:"notify_email" form:"notify_email"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	operator := middleware.GetOperator(c)

	resolution, err := services.ResolveClaim(db.DB, c.Param("id"), req.Outcome, req.Rationale, operator)
	if err != nil {
		return jsonError(c, err)
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c), models.AuditActionResolve,
		"claim", resolution.Claim.ID, resolution.Claim.ClaimNumber, "Reclamo resuelto", nil, resolution.Claim)

	services.PublishClaimResolution(db.DB, cfg, resolution.Claim, req.NotifyEmail)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"claim":                  resolution.Claim,
		"requires_recalculation": resolution.RequiresRecalculation,
	})
}
