package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"aduana_flow_app_go/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetLevyByID retrieves a levy with its lines and payments
func GetLevyByID(db *gorm.DB, levyID string) (*models.Levy, error) {
	var levy models.Levy
	err := db.Preload("AccountLines", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order ASC") }).
		Preload("Payments", func(tx *gorm.DB) *gorm.DB { return tx.Order("paid_at ASC") }).
		First(&levy, "id = ?", levyID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLevyNotFound
		}
		return nil, err
	}
	return &levy, nil
}

// DeriveLevyFromCharge creates a levy from an issued charge. Account
// lines are copied verbatim as a snapshot: later edits to the charge
// never flow into the levy.
func DeriveLevyFromCharge(db *gorm.DB, chargeID string, termDays int) (*models.Levy, error) {
	charge, err := GetChargeByID(db, chargeID)
	if err != nil {
		return nil, err
	}
	if charge.Status != models.ChargeStatusIssued {
		return nil, NewValidationError("status", "levy can only be derived from an issued charge")
	}

	lines := make([]models.LevyAccountLine, 0, len(charge.AccountLines))
	total := decimal.Zero
	for _, line := range charge.AccountLines {
		lines = append(lines, models.LevyAccountLine{
			Code:      line.Code,
			Name:      line.Name,
			Currency:  line.Currency,
			Amount:    line.Amount,
			SortOrder: line.SortOrder,
		})
		total = total.Add(line.Amount)
	}

	return createLevy(db, &models.Levy{
		Type:          models.LevyTypeFromCharge,
		ChargeID:      &charge.ID,
		CaseID:        charge.CaseID,
		DebtorTaxID:   charge.DebtorTaxID,
		DebtorName:    charge.DebtorName,
		CustomsOffice: charge.CustomsOffice,
		TotalAmount:   total,
	}, lines, termDays)
}

// DeriveLevyFromCase creates a levy directly from a fined case, using
// the issued act's fine as the single account line.
func DeriveLevyFromCase(db *gorm.DB, caseID string, termDays int) (*models.Levy, error) {
	var caseRecord models.Case
	if err := db.First(&caseRecord, "id = ?", caseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, fmt.Errorf("failed to fetch case: %w", err)
	}
	if caseRecord.Status != models.CaseStatusFined && caseRecord.Status != models.CaseStatusSettled {
		return nil, NewValidationError("status", "levy can only be derived from a fined or settled case")
	}

	var act models.Act
	err := db.Joins("JOIN hearings ON hearings.id = acts.hearing_id").
		Where("hearings.case_id = ? AND acts.issued = ?", caseRecord.ID, true).
		Order("acts.issued_at DESC").
		First(&act).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("act", "no issued act exists for this case")
		}
		return nil, fmt.Errorf("failed to fetch issued act: %w", err)
	}

	lines := []models.LevyAccountLine{{
		Code:      "MULTA",
		Name:      "Multa por infracción aduanera",
		Currency:  "CLP",
		Amount:    act.FineAmount,
		SortOrder: 1,
	}}

	return createLevy(db, &models.Levy{
		Type:          models.LevyTypeFromCase,
		CaseID:        &caseRecord.ID,
		DebtorTaxID:   caseRecord.DebtorTaxID,
		DebtorName:    caseRecord.DebtorName,
		CustomsOffice: caseRecord.CustomsOffice,
		TotalAmount:   act.FineAmount,
	}, lines, termDays)
}

func createLevy(db *gorm.DB, levy *models.Levy, lines []models.LevyAccountLine, termDays int) (*models.Levy, error) {
	if termDays <= 0 {
		termDays = models.DefaultLevyTermDays
	}

	now := time.Now()
	levy.IssueDate = now
	levy.TermDays = termDays
	levy.DueDate = now.AddDate(0, 0, termDays)
	levy.AmountPaid = decimal.Zero
	levy.Status = models.LevyStatusIssued

	err := db.Transaction(func(tx *gorm.DB) error {
		levyNumber, err := NextLevyNumber(tx, now.Year())
		if err != nil {
			return err
		}
		levy.LevyNumber = levyNumber

		if err := tx.Create(levy).Error; err != nil {
			return fmt.Errorf("failed to create levy: %w", err)
		}
		for i := range lines {
			lines[i].LevyID = levy.ID
			if err := tx.Create(&lines[i]).Error; err != nil {
				return fmt.Errorf("failed to create levy account line: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetLevyByID(db, levy.ID)
}

// UpdateLevyTerm changes the collection term. The due date is always
// recomputed from the original issue date, never additively from
// today, so repeated edits cannot drift.
func UpdateLevyTerm(db *gorm.DB, levyID string, termDays int) (*models.Levy, error) {
	if termDays <= 0 {
		return nil, NewValidationError("term_days", "must be greater than zero")
	}

	levy, err := GetLevyByID(db, levyID)
	if err != nil {
		return nil, err
	}
	if levy.Status == models.LevyStatusPaid || levy.Status == models.LevyStatusCancelled {
		return nil, NewConflictError("term cannot change on a paid or cancelled levy")
	}

	result := db.Model(&models.Levy{}).
		Where("id = ? AND version = ?", levy.ID, levy.Version).
		Updates(map[string]interface{}{
			"term_days": termDays,
			"due_date":  levy.IssueDate.AddDate(0, 0, termDays),
			"version":   levy.Version + 1,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, NewConflictError("StaleVersion")
	}

	return GetLevyByID(db, levyID)
}

// ApplyPayment applies a payment against the levy's outstanding
// balance. Overpayment fails and leaves the balance unchanged. When
// the balance reaches zero the levy transitions to PAID.
func ApplyPayment(db *gorm.DB, levyID string, amount decimal.Decimal, recordedBy, reference string) (*models.Levy, error) {
	if !amount.IsPositive() {
		return nil, NewValidationError("amount", "must be greater than zero")
	}

	levy, err := GetLevyByID(db, levyID)
	if err != nil {
		return nil, err
	}
	if levy.Status == models.LevyStatusCancelled {
		return nil, NewConflictError("cannot pay a cancelled levy")
	}
	if amount.GreaterThan(levy.OutstandingBalance()) {
		return nil, NewValidationError("amount", "OverPayment")
	}

	newPaid := levy.AmountPaid.Add(amount)
	status := levy.Status
	if newPaid.Equal(levy.TotalAmount) {
		status = models.LevyStatusPaid
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Levy{}).
			Where("id = ? AND version = ?", levy.ID, levy.Version).
			Updates(map[string]interface{}{
				"amount_paid": newPaid,
				"status":      status,
				"version":     levy.Version + 1,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return NewConflictError("StaleVersion")
		}

		payment := &models.LevyPayment{
			LevyID:     levy.ID,
			Amount:     amount,
			RecordedBy: recordedBy,
			Reference:  reference,
		}
		return tx.Create(payment).Error
	})
	if err != nil {
		return nil, err
	}

	return GetLevyByID(db, levyID)
}

// RefreshLevyStatus flips an unpaid levy past its due date to OVERDUE.
// Evaluated on read; the stored status catches up lazily. The writer
// that wins the flip also records the LEVY_DUE notification, so the
// office is alerted exactly once.
func RefreshLevyStatus(db *gorm.DB, levy *models.Levy) (*models.Levy, error) {
	if !levy.IsOverdue(time.Now()) {
		return levy, nil
	}

	result := db.Model(&models.Levy{}).
		Where("id = ? AND version = ?", levy.ID, levy.Version).
		Updates(map[string]interface{}{
			"status":  models.LevyStatusOverdue,
			"version": levy.Version + 1,
		})
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected > 0 {
		notification := &models.Notification{
			CustomsOffice: levy.CustomsOffice,
			CaseID:        levy.CaseID,
			LevyID:        &levy.ID,
			Type:          models.NotificationTypeLevyDue,
			Title:         "Giro vencido",
			Message: fmt.Sprintf("El giro %s venció el %s con saldo pendiente de %s CLP",
				levy.LevyNumber, levy.DueDate.Format("02-01-2006"), levy.OutstandingBalance().StringFixed(0)),
		}
		if err := NewNotificationService(db).CreateNotification(notification); err != nil {
			log.Printf("[WARNING] Failed to create notification for levy %s: %v", levy.ID, err)
		}
	}

	return GetLevyByID(db, levy.ID)
}

// CancelLevy cancels an unpaid levy
func CancelLevy(db *gorm.DB, levyID string) (*models.Levy, error) {
	levy, err := GetLevyByID(db, levyID)
	if err != nil {
		return nil, err
	}
	if levy.Status == models.LevyStatusPaid {
		return nil, NewConflictError("cannot cancel a paid levy")
	}
	if levy.Status == models.LevyStatusCancelled {
		return nil, NewConflictError("levy already cancelled")
	}

	result := db.Model(&models.Levy{}).
		Where("id = ? AND version = ?", levy.ID, levy.Version).
		Updates(map[string]interface{}{
			"status":  models.LevyStatusCancelled,
			"version": levy.Version + 1,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, NewConflictError("StaleVersion")
	}

	return GetLevyByID(db, levyID)
}
