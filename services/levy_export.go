package services

import (
	"bytes"
	"fmt"
	"time"

	"aduana_flow_app_go/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// LevyExportFilter narrows which levies go into the export file.
type LevyExportFilter struct {
	Status        string
	CustomsOffice string
	IssuedFrom    *time.Time
	IssuedTo      *time.Time
}

// ExportLeviesToExcel generates an XLSX workbook with one sheet of levies
// and a second sheet of their account lines.
func ExportLeviesToExcel(dbConn *gorm.DB, filter LevyExportFilter) (*bytes.Buffer, error) {
	query := dbConn.Model(&models.Levy{}).Preload("AccountLines", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	})

	if filter.Status != "" {
		if !models.IsValidLevyStatus(filter.Status) {
			return nil, &ValidationError{Field: "status", Reason: "unknown levy status"}
		}
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CustomsOffice != "" {
		query = query.Where("customs_office = ?", filter.CustomsOffice)
	}
	if filter.IssuedFrom != nil {
		query = query.Where("issue_date >= ?", *filter.IssuedFrom)
	}
	if filter.IssuedTo != nil {
		query = query.Where("issue_date <= ?", *filter.IssuedTo)
	}

	var levies []models.Levy
	if err := query.Order("issue_date ASC").Find(&levies).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch levies for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	// --- Levies Sheet ---
	sheetLevies := "Giros"
	f.SetSheetName("Sheet1", sheetLevies)

	levyHeaders := []string{
		"Número",          // A
		"Tipo",            // B
		"Deudor",          // C
		"RUT",             // D
		"Aduana",          // E
		"Fecha Emisión",   // F
		"Plazo (días)",    // G
		"Vencimiento",     // H
		"Monto Total",     // I
		"Monto Pagado",    // J
		"Saldo Pendiente", // K
		"Estado",          // L
	}
	for i, header := range levyHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetLevies, cell, header)
	}
	f.SetColWidth(sheetLevies, "A", "L", 18)

	for i, levy := range levies {
		row := i + 2
		f.SetCellValue(sheetLevies, fmt.Sprintf("A%d", row), levy.LevyNumber)
		f.SetCellValue(sheetLevies, fmt.Sprintf("B%d", row), levy.Type)
		f.SetCellValue(sheetLevies, fmt.Sprintf("C%d", row), levy.DebtorName)
		f.SetCellValue(sheetLevies, fmt.Sprintf("D%d", row), levy.DebtorTaxID)
		f.SetCellValue(sheetLevies, fmt.Sprintf("E%d", row), levy.CustomsOffice)
		f.SetCellValue(sheetLevies, fmt.Sprintf("F%d", row), levy.IssueDate.Format("2006-01-02"))
		f.SetCellValue(sheetLevies, fmt.Sprintf("G%d", row), levy.TermDays)
		f.SetCellValue(sheetLevies, fmt.Sprintf("H%d", row), levy.DueDate.Format("2006-01-02"))
		f.SetCellValue(sheetLevies, fmt.Sprintf("I%d", row), levy.TotalAmount.StringFixed(2))
		f.SetCellValue(sheetLevies, fmt.Sprintf("J%d", row), levy.AmountPaid.StringFixed(2))
		f.SetCellValue(sheetLevies, fmt.Sprintf("K%d", row), levy.OutstandingBalance().StringFixed(2))
		f.SetCellValue(sheetLevies, fmt.Sprintf("L%d", row), levy.Status)
	}

	// --- Account Lines Sheet ---
	sheetLines := "Cuentas"
	f.NewSheet(sheetLines)

	lineHeaders := []string{
		"Número Giro", // A
		"Código",      // B
		"Concepto",    // C
		"Moneda",      // D
		"Monto",       // E
	}
	for i, header := range lineHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetLines, cell, header)
	}
	f.SetColWidth(sheetLines, "A", "E", 18)

	lineRow := 2
	for _, levy := range levies {
		for _, line := range levy.AccountLines {
			f.SetCellValue(sheetLines, fmt.Sprintf("A%d", lineRow), levy.LevyNumber)
			f.SetCellValue(sheetLines, fmt.Sprintf("B%d", lineRow), line.Code)
			f.SetCellValue(sheetLines, fmt.Sprintf("C%d", lineRow), line.Name)
			f.SetCellValue(sheetLines, fmt.Sprintf("D%d", lineRow), line.Currency)
			f.SetCellValue(sheetLines, fmt.Sprintf("E%d", lineRow), line.Amount.StringFixed(2))
			lineRow++
		}
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheetLevies, "A1", "L1", headerStyle)
	f.SetCellStyle(sheetLines, "A1", "E1", headerStyle)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel buffer: %w", err)
	}

	return buf, nil
}
