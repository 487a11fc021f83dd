package services

import (
	"errors"
	"fmt"
	"time"

	"aduana_flow_app_go/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const caseNumberPrefix = "DEN"

// CasePartyInput describes one involved party on intake
type CasePartyInput struct {
	Name      string `json:"name"`
	TaxID     string `json:"tax_id"`
	Role      string `json:"role"`
	Principal bool   `json:"principal"`
}

// CaseIntakeInput carries the fields required to register a denuncia
type CaseIntakeInput struct {
	DebtorTaxID      string           `json:"debtor_tax_id"`
	DebtorName       string           `json:"debtor_name"`
	Infraction       string           `json:"infraction"`
	CustomsOffice    string           `json:"customs_office"`
	FactsDescription string           `json:"facts_description"`
	BaseFineAmount   decimal.Decimal  `json:"base_fine_amount"`
	MaxFineAmount    decimal.Decimal  `json:"max_fine_amount"`
	Parties          []CasePartyInput `json:"parties"`
}

// GetCaseByID retrieves a case with its parties and hearings
func GetCaseByID(db *gorm.DB, caseID string) (*models.Case, error) {
	var caseRecord models.Case
	err := db.Preload("InvolvedParties").
		Preload("Hearings", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at ASC") }).
		First(&caseRecord, "id = ?", caseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, err
	}
	return &caseRecord, nil
}

// GetCaseByNumber retrieves a case by its document number
func GetCaseByNumber(db *gorm.DB, caseNumber string) (*models.Case, error) {
	var caseRecord models.Case
	err := db.Preload("InvolvedParties").
		First(&caseRecord, "case_number = ?", caseNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, err
	}
	return &caseRecord, nil
}

// NextCaseNumber generates the next case number for a year
func NextCaseNumber(db *gorm.DB, year int) (string, error) {
	var last models.Case
	err := db.Where("case_number LIKE ?", fmt.Sprintf("%s-%d-%%", caseNumberPrefix, year)).
		Order("case_number DESC").
		First(&last).Error
	return nextPrefixedNumber(caseNumberPrefix, year, last.CaseNumber, err)
}

// RegisterCase files a new denuncia. Cases are never deleted afterwards,
// only status-transitioned by hearings and act issuance.
func RegisterCase(db *gorm.DB, input CaseIntakeInput) (*models.Case, error) {
	if input.DebtorTaxID == "" {
		return nil, NewValidationError("debtor_tax_id", "is required")
	}
	if input.DebtorName == "" {
		return nil, NewValidationError("debtor_name", "is required")
	}
	if !models.IsValidInfraction(input.Infraction) {
		return nil, NewValidationError("infraction", "unknown infraction classification")
	}
	if input.CustomsOffice == "" {
		return nil, NewValidationError("customs_office", "is required")
	}
	if !input.BaseFineAmount.IsPositive() {
		return nil, NewValidationError("base_fine_amount", "must be greater than zero")
	}
	if !input.MaxFineAmount.IsZero() && input.MaxFineAmount.LessThan(input.BaseFineAmount) {
		return nil, NewValidationError("max_fine_amount", "cannot be below the base fine amount")
	}

	caseRecord := &models.Case{
		DebtorTaxID:      SanitizeText(input.DebtorTaxID),
		DebtorName:       SanitizeText(input.DebtorName),
		Infraction:       input.Infraction,
		CustomsOffice:    input.CustomsOffice,
		FactsDescription: SanitizeText(input.FactsDescription),
		BaseFineAmount:   input.BaseFineAmount,
		MaxFineAmount:    input.MaxFineAmount,
		Status:           models.CaseStatusOpen,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		caseNumber, err := NextCaseNumber(tx, time.Now().Year())
		if err != nil {
			return err
		}
		caseRecord.CaseNumber = caseNumber

		if err := tx.Create(caseRecord).Error; err != nil {
			return fmt.Errorf("failed to create case: %w", err)
		}

		for _, party := range input.Parties {
			if party.Name == "" {
				return NewValidationError("parties", "party name is required")
			}
			record := &models.CaseParty{
				CaseID:    caseRecord.ID,
				Name:      SanitizeText(party.Name),
				TaxID:     party.TaxID,
				Role:      party.Role,
				Principal: party.Principal,
			}
			if err := tx.Create(record).Error; err != nil {
				return fmt.Errorf("failed to create case party: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetCaseByID(db, caseRecord.ID)
}

// CloseCase moves a case into CLOSED. Terminal determinations (FINED,
// ACQUITTED, SETTLED) come from act issuance; CLOSED marks the end of
// the administrative file after collection or claims wrap up.
func CloseCase(db *gorm.DB, caseID, operator string) (*models.Case, error) {
	caseRecord, err := GetCaseByID(db, caseID)
	if err != nil {
		return nil, err
	}
	if caseRecord.Status == models.CaseStatusClosed {
		return nil, NewConflictError("case already closed")
	}
	if caseRecord.Status == models.CaseStatusOpen || caseRecord.Status == models.CaseStatusInHearing {
		return nil, NewValidationError("status", "case cannot close before adjudication")
	}

	now := time.Now()
	result := db.Model(&models.Case{}).
		Where("id = ? AND version = ?", caseRecord.ID, caseRecord.Version).
		Updates(map[string]interface{}{
			"status":            models.CaseStatusClosed,
			"status_changed_at": now,
			"status_changed_by": operator,
			"version":           caseRecord.Version + 1,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, NewConflictError("StaleVersion")
	}

	return GetCaseByID(db, caseID)
}
