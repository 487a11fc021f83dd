package services

import (
	"testing"

	"aduana_flow_app_go/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

func TestExportLeviesToExcel(t *testing.T) {
	db := setupLevyTestDB()
	charge := issuedTestCharge(t, db)
	levy, err := DeriveLevyFromCharge(db, charge.ID, 30)
	assert.NoError(t, err)
	_, err = ApplyPayment(db, levy.ID, decimal.NewFromInt(100000), "tesoreria1", "F-2001")
	assert.NoError(t, err)

	buf, err := ExportLeviesToExcel(db, LevyExportFilter{})
	assert.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	assert.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Giros", "Cuentas"}, f.GetSheetList())

	rows, err := f.GetRows("Giros")
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "Número", rows[0][0])
	assert.Equal(t, "Saldo Pendiente", rows[0][10])
	assert.Equal(t, levy.LevyNumber, rows[1][0])
	assert.Equal(t, "33", rows[1][4])
	assert.Equal(t, "440000.00", rows[1][8])
	assert.Equal(t, "100000.00", rows[1][9])
	assert.Equal(t, "340000.00", rows[1][10])
	assert.Equal(t, models.LevyStatusIssued, rows[1][11])

	lineRows, err := f.GetRows("Cuentas")
	assert.NoError(t, err)
	assert.Len(t, lineRows, 3)
	assert.Equal(t, "178", lineRows[1][1])
	assert.Equal(t, "223", lineRows[2][1])
}

func TestExportLeviesFilters(t *testing.T) {
	db := setupLevyTestDB()
	charge := issuedTestCharge(t, db)
	levy, err := DeriveLevyFromCharge(db, charge.ID, 30)
	assert.NoError(t, err)
	_, err = CancelLevy(db, levy.ID)
	assert.NoError(t, err)

	other, err := DeriveLevyFromCharge(db, charge.ID, 30)
	assert.NoError(t, err)

	buf, err := ExportLeviesToExcel(db, LevyExportFilter{Status: models.LevyStatusIssued})
	assert.NoError(t, err)
	f, err := excelize.OpenReader(buf)
	assert.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Giros")
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, other.LevyNumber, rows[1][0])

	// An office filter matching nothing yields a header-only sheet
	empty, err := ExportLeviesToExcel(db, LevyExportFilter{CustomsOffice: "99"})
	assert.NoError(t, err)
	fEmpty, err := excelize.OpenReader(empty)
	assert.NoError(t, err)
	defer fEmpty.Close()
	emptyRows, err := fEmpty.GetRows("Giros")
	assert.NoError(t, err)
	assert.Len(t, emptyRows, 1)

	_, err = ExportLeviesToExcel(db, LevyExportFilter{Status: "PENDIENTE"})
	assert.True(t, IsValidation(err))
}
