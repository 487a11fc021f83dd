package handlers

import (
	"io"
	"net/http/httptest"
	"testing"

	"aduana_flow_app_go/config"
	"aduana_flow_app_go/db"
	"aduana_flow_app_go/models"
	"aduana_flow_app_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests while allowing shared cache for async tasks
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)

	err = testDB.Exec("PRAGMA journal_mode=WAL;").Error
	assert.NoError(t, err)

	// Initialize Storage for tests if not already set
	if services.Storage == nil {
		services.Storage = services.NewLocalStorage("tmp/test_uploads")
	}

	err = testDB.AutoMigrate(
		&models.Case{},
		&models.CaseParty{},
		&models.Hearing{},
		&models.HearingStatement{},
		&models.HearingEvidence{},
		&models.Act{},
		&models.Charge{},
		&models.ChargeAccountLine{},
		&models.ChargeParty{},
		&models.Levy{},
		&models.LevyAccountLine{},
		&models.LevyPayment{},
		&models.Claim{},
		&models.Good{},
		&models.GoodEvent{},
		&models.Notification{},
		&models.AuditLog{},
	)
	assert.NoError(t, err)

	// Set global DB
	db.DB = testDB

	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", &config.Config{
		Environment:    "test",
		AttenuationPct: decimal.RequireFromString("0.40"),
		LevyTermDays:   20,
		EmailTestMode:  true,
	})

	return e, c, rec
}

func createHandlerTestCase(t *testing.T, database *gorm.DB) *models.Case {
	caseRecord, err := services.RegisterCase(database, services.CaseIntakeInput{
		DebtorTaxID:      "12.345.678-9",
		DebtorName:       "Importadora Andes Ltda",
		Infraction:       models.InfractionAdministrativa,
		CustomsOffice:    "33",
		FactsDescription: "Declaración de valor inferior al real en DIN 4021.",
		BaseFineAmount:   decimal.NewFromInt(1000000),
		MaxFineAmount:    decimal.NewFromInt(1500000),
		Parties: []services.CasePartyInput{
			{Name: "Importadora Andes Ltda", TaxID: "12.345.678-9", Role: "DENUNCIADO", Principal: true},
		},
	})
	assert.NoError(t, err)
	return caseRecord
}
