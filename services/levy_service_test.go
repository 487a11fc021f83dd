package services

import (
	"testing"
	"time"

	"aduana_flow_app_go/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupLevyTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db.AutoMigrate(&models.Case{}, &models.CaseParty{}, &models.Hearing{}, &models.Act{},
		&models.Charge{}, &models.ChargeAccountLine{}, &models.ChargeParty{},
		&models.Levy{}, &models.LevyAccountLine{}, &models.LevyPayment{},
		&models.Notification{})
	return db
}

func issuedTestCharge(t *testing.T, db *gorm.DB) *models.Charge {
	charge := draftChargeFromCase(t, db)
	_, err := AddAccountLine(db, charge.ID, "178", "Derechos ad valorem", "CLP", decimal.NewFromInt(250000))
	assert.NoError(t, err)
	_, err = AddAccountLine(db, charge.ID, "223", "IVA", "CLP", decimal.NewFromInt(190000))
	assert.NoError(t, err)
	issued, err := IssueCharge(db, charge.ID)
	assert.NoError(t, err)
	return issued
}

func TestDeriveLevyFromChargeSnapshotsLines(t *testing.T) {
	db := setupLevyTestDB()
	charge := issuedTestCharge(t, db)

	levy, err := DeriveLevyFromCharge(db, charge.ID, 0)
	assert.NoError(t, err)
	assert.Equal(t, models.LevyTypeFromCharge, levy.Type)
	assert.Equal(t, models.LevyStatusIssued, levy.Status)
	assert.Equal(t, models.DefaultLevyTermDays, levy.TermDays)
	assert.Equal(t, "33", levy.CustomsOffice)
	assert.Contains(t, levy.LevyNumber, "GIR-")
	assert.Len(t, levy.AccountLines, 2)
	assert.True(t, levy.TotalAmount.Equal(decimal.NewFromInt(440000)))

	// Later edits to the charge never reach the snapshot
	db.Model(&models.ChargeAccountLine{}).
		Where("charge_id = ?", charge.ID).
		Update("amount", decimal.NewFromInt(1))

	refreshed, err := GetLevyByID(db, levy.ID)
	assert.NoError(t, err)
	assert.True(t, refreshed.TotalAmount.Equal(decimal.NewFromInt(440000)))
	lineSum := decimal.Zero
	for _, line := range refreshed.AccountLines {
		lineSum = lineSum.Add(line.Amount)
	}
	assert.True(t, refreshed.TotalAmount.Equal(lineSum))
}

func TestDeriveLevyRequiresIssuedCharge(t *testing.T) {
	db := setupLevyTestDB()
	charge := draftChargeFromCase(t, db)

	_, err := DeriveLevyFromCharge(db, charge.ID, 30)
	assert.True(t, IsValidation(err))
}

func TestDeriveLevyFromCaseRequiresIssuedAct(t *testing.T) {
	db := setupLevyTestDB()
	caseRecord := createTestCase(db)

	// Case not yet fined
	_, err := DeriveLevyFromCase(db, caseRecord.ID, 30)
	assert.True(t, IsValidation(err))

	db.Model(&models.Case{}).Where("id = ?", caseRecord.ID).
		Update("status", models.CaseStatusFined)

	// Fined but no issued act on record
	_, err = DeriveLevyFromCase(db, caseRecord.ID, 30)
	assert.True(t, IsValidation(err))

	hearing := &models.Hearing{
		CaseID:      caseRecord.ID,
		ScheduledAt: time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC),
		Room:        "Sala 2",
		Status:      models.HearingStatusActIssued,
	}
	db.Create(hearing)
	now := time.Now()
	actNumber := "00007/2026"
	db.Create(&models.Act{
		HearingID:          hearing.ID,
		ActNumber:          &actNumber,
		FinalDetermination: models.DeterminationFined,
		FineAmount:         decimal.NewFromInt(600000),
		Issued:             true,
		IssuedAt:           &now,
	})

	levy, err := DeriveLevyFromCase(db, caseRecord.ID, 30)
	assert.NoError(t, err)
	assert.Equal(t, models.LevyTypeFromCase, levy.Type)
	assert.True(t, levy.TotalAmount.Equal(decimal.NewFromInt(600000)))
	assert.Len(t, levy.AccountLines, 1)
	assert.Equal(t, "MULTA", levy.AccountLines[0].Code)
}

func TestApplyPaymentRejectsOverpayment(t *testing.T) {
	db := setupLevyTestDB()
	charge := issuedTestCharge(t, db)
	levy, err := DeriveLevyFromCharge(db, charge.ID, 30)
	assert.NoError(t, err)

	_, err = ApplyPayment(db, levy.ID, decimal.NewFromInt(500000), "tesoreria1", "F-1001")
	assert.True(t, IsValidation(err))

	unchanged, err := GetLevyByID(db, levy.ID)
	assert.NoError(t, err)
	assert.True(t, unchanged.AmountPaid.IsZero())
	assert.Empty(t, unchanged.Payments)
}

func TestApplyPaymentReachesPaid(t *testing.T) {
	db := setupLevyTestDB()
	charge := issuedTestCharge(t, db)
	levy, err := DeriveLevyFromCharge(db, charge.ID, 30)
	assert.NoError(t, err)

	partial, err := ApplyPayment(db, levy.ID, decimal.NewFromInt(400000), "tesoreria1", "F-1001")
	assert.NoError(t, err)
	assert.Equal(t, models.LevyStatusIssued, partial.Status)
	assert.True(t, partial.OutstandingBalance().Equal(decimal.NewFromInt(40000)))

	paid, err := ApplyPayment(db, levy.ID, decimal.NewFromInt(40000), "tesoreria1", "F-1002")
	assert.NoError(t, err)
	assert.Equal(t, models.LevyStatusPaid, paid.Status)
	assert.True(t, paid.OutstandingBalance().IsZero())
	assert.Len(t, paid.Payments, 2)

	_, err = ApplyPayment(db, levy.ID, decimal.NewFromInt(1), "tesoreria1", "F-1003")
	assert.True(t, IsValidation(err))
}

func TestUpdateLevyTermRecomputesFromIssueDate(t *testing.T) {
	db := setupLevyTestDB()
	charge := issuedTestCharge(t, db)
	levy, err := DeriveLevyFromCharge(db, charge.ID, 30)
	assert.NoError(t, err)

	_, err = UpdateLevyTerm(db, levy.ID, 0)
	assert.True(t, IsValidation(err))

	extended, err := UpdateLevyTerm(db, levy.ID, 60)
	assert.NoError(t, err)
	assert.Equal(t, 60, extended.TermDays)
	expected := levy.IssueDate.AddDate(0, 0, 60)
	assert.WithinDuration(t, expected, extended.DueDate, time.Second)

	// A second edit still counts from issuance, not from the prior due date
	again, err := UpdateLevyTerm(db, levy.ID, 15)
	assert.NoError(t, err)
	assert.WithinDuration(t, levy.IssueDate.AddDate(0, 0, 15), again.DueDate, time.Second)
}

func TestRefreshLevyStatusFlipsOverdue(t *testing.T) {
	db := setupLevyTestDB()
	charge := issuedTestCharge(t, db)
	levy, err := DeriveLevyFromCharge(db, charge.ID, 30)
	assert.NoError(t, err)

	// Not yet due
	same, err := RefreshLevyStatus(db, levy)
	assert.NoError(t, err)
	assert.Equal(t, models.LevyStatusIssued, same.Status)

	db.Model(&models.Levy{}).Where("id = ?", levy.ID).
		Update("due_date", time.Now().AddDate(0, 0, -1))

	stale, err := GetLevyByID(db, levy.ID)
	assert.NoError(t, err)
	overdue, err := RefreshLevyStatus(db, stale)
	assert.NoError(t, err)
	assert.Equal(t, models.LevyStatusOverdue, overdue.Status)

	// The flip alerts the office exactly once
	var notifications []models.Notification
	assert.NoError(t, db.Where("levy_id = ?", levy.ID).Find(&notifications).Error)
	assert.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationTypeLevyDue, notifications[0].Type)
	assert.Equal(t, levy.CustomsOffice, notifications[0].CustomsOffice)

	// Re-reading an already overdue levy creates no duplicate
	_, err = RefreshLevyStatus(db, overdue)
	assert.NoError(t, err)
	assert.NoError(t, db.Where("levy_id = ?", levy.ID).Find(&notifications).Error)
	assert.Len(t, notifications, 1)
}

func TestCancelLevyGuards(t *testing.T) {
	db := setupLevyTestDB()
	charge := issuedTestCharge(t, db)
	levy, err := DeriveLevyFromCharge(db, charge.ID, 30)
	assert.NoError(t, err)

	cancelled, err := CancelLevy(db, levy.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.LevyStatusCancelled, cancelled.Status)

	_, err = CancelLevy(db, levy.ID)
	assert.True(t, IsConflict(err))

	_, err = ApplyPayment(db, levy.ID, decimal.NewFromInt(1000), "tesoreria1", "F-1004")
	assert.True(t, IsConflict(err))

	// A fully paid levy cannot be cancelled
	other, err := DeriveLevyFromCharge(db, charge.ID, 30)
	assert.NoError(t, err)
	_, err = ApplyPayment(db, other.ID, other.TotalAmount, "tesoreria1", "F-1005")
	assert.NoError(t, err)
	_, err = CancelLevy(db, other.ID)
	assert.True(t, IsConflict(err))
}
