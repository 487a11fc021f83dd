package handlers

import (
	"net/http"

	"aduana_flow_app_go/db"
	"aduana_flow_app_go/middleware"
	"aduana_flow_app_go/models"
	"aduana_flow_app_go/services"

	"github.com/labstack/echo/v4"
)

// ScheduleHearingHandler creates a hearing in SCHEDULED
func ScheduleHearingHandler(c echo.Context) error {
	var req struct {
		CaseID string `json:"case_id" form:"case_id"`
		Date   string `json:"date" form:"date"`
		Time   string `json:"time" form:"time"`
		Room   string `json:"room" form:"room"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	hearing, err := services.ScheduleHearing(db.DB, req.CaseID, req.Date, req.Time, req.Room)
	if err != nil {
		return jsonError(c, err)
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c), models.AuditActionCreate,
		"hearing", hearing.ID, "", "Audiencia programada", nil, hearing)

	return c.JSON(http.StatusCreated, hearing)
}

// GetHearingHandler returns a hearing with its statements and evidence
func GetHearingHandler(c echo.Context) error {
	hearing, err := services.GetHearingByID(db.DB, c.Param("id"))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, hearing)
}

// StartHearingHandler moves a hearing into IN_PROGRESS. Calling it on a
// hearing already past SCHEDULED returns the current state unchanged.
func StartHearingHandler(c echo.Context) error {
	operator := middleware.GetOperator(c)

	hearing, err := services.StartHearing(db.DB, c.Param("id"), operator)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, hearing)
}

// RecordAttendanceHandler records whether the infractor appeared
func RecordAttendanceHandler(c echo.Context) error {
	var req struct {
		Attended       bool    `json:"attended" form:"attended"`
		Representative *string `json:"representative" form:"representative"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	hearing, err := services.RecordAttendance(db.DB, c.Param("id"), req.Attended, req.Representative)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, hearing)
}

// RecordPleaHandler records the infractor's plea
func RecordPleaHandler(c echo.Context) error {
	var req struct {
		Plea string `json:"plea" form:"plea"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	hearing, err := services.RecordPlea(db.DB, c.Param("id"), req.Plea)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, hearing)
}

// AddStatementHandler appends a declarant statement to an in-progress hearing
func AddStatementHandler(c echo.Context) error {
	var req struct {
		DeclarantName string `json:"declarant_name" form:"declarant_name"`
		Content       string `json:"content" form:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	statement, err := services.AddStatement(db.DB, c.Param("id"), req.DeclarantName, req.Content)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, statement)
}

// AddEvidenceHandler appends an evidence document reference
func AddEvidenceHandler(c echo.Context) error {
	var req struct {
		Description string `json:"description" form:"description"`
		StorageKey  string `json:"storage_key" form:"storage_key"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	evidence, err := services.AddEvidence(db.DB, c.Param("id"), req.Description, req.StorageKey)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, evidence)
}

// FinalizeHearingHandler freezes the hearing record
func FinalizeHearingHandler(c echo.Context) error {
	var req struct {
		Remarks string `json:"remarks" form:"remarks"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	operator := middleware.GetOperator(c)

	hearing, err := services.FinalizeHearing(db.DB, c.Param("id"), req.Remarks, operator)
	if err != nil {
		return jsonError(c, err)
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c), models.AuditActionFinalize,
		"hearing", hearing.ID, "", "Audiencia finalizada", nil, hearing)

	return c.JSON(http.StatusOK, hearing)
}
