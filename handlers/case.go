package handlers

import (
	"net/http"

	"aduana_flow_app_go/db"
	"aduana_flow_app_go/middleware"
	"aduana_flow_app_go/models"
	"aduana_flow_app_go/services"

	"github.com/labstack/echo/v4"
)

// RegisterCaseHandler files a new denuncia
func RegisterCaseHandler(c echo.Context) error {
	var input services.CaseIntakeInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	caseRecord, err := services.RegisterCase(db.DB, input)
	if err != nil {
		return jsonError(c, err)
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c), models.AuditActionCreate,
		"case", caseRecord.ID, caseRecord.CaseNumber, "Denuncia registrada", nil, caseRecord)

	return c.JSON(http.StatusCreated, caseRecord)
}

// GetCaseHandler returns a case with its parties and hearings
func GetCaseHandler(c echo.Context) error {
	caseRecord, err := services.GetCaseByID(db.DB, c.Param("id"))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, caseRecord)
}

// GetCaseByNumberHandler looks a case up by its document number
func GetCaseByNumberHandler(c echo.Context) error {
	caseNumber := c.QueryParam("number")
	if caseNumber == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "number query parameter is required")
	}

	caseRecord, err := services.GetCaseByNumber(db.DB, caseNumber)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, caseRecord)
}

// CloseCaseHandler closes the administrative file of an adjudicated case
func CloseCaseHandler(c echo.Context) error {
	operator := middleware.GetOperator(c)

	caseRecord, err := services.CloseCase(db.DB, c.Param("id"), operator)
	if err != nil {
		return jsonError(c, err)
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c), models.AuditActionUpdate,
		"case", caseRecord.ID, caseRecord.CaseNumber, "Denuncia cerrada", nil, caseRecord)

	return c.JSON(http.StatusOK, caseRecord)
}
