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

// RegisterGoodHandler places a good under custody tracking
func RegisterGoodHandler(c echo.Context) error {
	var req struct {
		CaseID        *string         `json:"case_id" form:"case_id"`
		ChargeID      *string         `json:"charge_id" form:"charge_id"`
		Description   string          `json:"description" form:"description"`
		TariffHeading string          `json:"tariff_heading" form:"tariff_heading"`
		Quantity      decimal.Decimal `json:"quantity" form:"quantity"`
		Unit          string          `json:"unit" form:"unit"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	good, err := services.RegisterGood(db.DB, services.GoodIntakeInput{
		CaseID:        req.CaseID,
		ChargeID:      req.ChargeID,
		Description:   req.Description,
		TariffHeading: req.TariffHeading,
		Quantity:      req.Quantity,
		Unit:          req.Unit,
	})
	if err != nil {
		return jsonError(c, err)
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c), models.AuditActionCreate,
		"good", good.ID, good.Description, "Mercancía registrada", nil, good)

	return c.JSON(http.StatusCreated, good)
}

// GetGoodHandler returns a good projected with its disposition alert
func GetGoodHandler(c echo.Context) error {
	good, err := services.GetGoodByID(db.DB, c.Param("id"))
	if err != nil {
		return jsonError(c, err)
	}

	view, err := services.ProjectGood(db.DB, good)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// RecordGoodEventHandler appends a chain-of-custody event
func RecordGoodEventHandler(c echo.Context) error {
	var req struct {
		EventKind     string  `json:"event_kind" form:"event_kind"`
		OccurredAt    string  `json:"occurred_at" form:"occurred_at"`
		Authority     *string `json:"authority" form:"authority"`
		ResolutionRef *string `json:"resolution_ref" form:"resolution_ref"`
		NewLocation   *string `json:"new_location" form:"new_location"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	occurredAt, err := services.ParseDate(req.OccurredAt)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid occurred_at date")
	}

	operator := middleware.GetOperator(c)

	good, err := services.RecordGoodEvent(db.DB, c.Param("id"), services.GoodEventInput{
		EventKind:     req.EventKind,
		OccurredAt:    occurredAt,
		Authority:     req.Authority,
		ResolutionRef: req.ResolutionRef,
		NewLocation:   req.NewLocation,
		Operator:      operator,
	})
	if err != nil {
		return jsonError(c, err)
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c), models.AuditActionUpdate,
		"good", good.ID, good.Description, "Evento de custodia registrado", nil, good)

	return c.JSON(http.StatusCreated, good)
}
