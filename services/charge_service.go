package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"aduana_flow_app_go/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ChargeDraftInput carries the operator-supplied fields of a new charge
type ChargeDraftInput struct {
	Origin         string  `json:"origin"`
	CaseID         *string `json:"case_id"`
	CustomsOffice  string  `json:"customs_office"`
	Norm           string  `json:"norm"`
	LegalGround    string  `json:"legal_ground"`
	DebtorTaxID    string  `json:"debtor_tax_id"`
	DebtorName     string  `json:"debtor_name"`
	FactsNarrative string  `json:"facts_narrative"`
}

// GetChargeByID retrieves a charge with its lines and parties
func GetChargeByID(db *gorm.DB, chargeID string) (*models.Charge, error) {
	var charge models.Charge
	err := db.Preload("AccountLines", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order ASC") }).
		Preload("ResponsibleParties").
		First(&charge, "id = ?", chargeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChargeNotFound
		}
		return nil, err
	}
	return &charge, nil
}

// DraftCharge creates a charge in DRAFT. When the origin is a case,
// debtor identity, office, facts and responsible parties are
// pre-populated from it: the first principal involved party gets 100%
// responsibility, the rest 0%, all editable before issuance.
func DraftCharge(db *gorm.DB, input ChargeDraftInput) (*models.Charge, error) {
	if !models.IsValidChargeOrigin(input.Origin) {
		return nil, NewValidationError("origin", "must be CASE, CUSTOMS_PROCEDURE or OTHER")
	}

	charge := &models.Charge{
		Origin:         input.Origin,
		CustomsOffice:  input.CustomsOffice,
		Norm:           input.Norm,
		LegalGround:    input.LegalGround,
		DebtorTaxID:    input.DebtorTaxID,
		DebtorName:     input.DebtorName,
		FactsNarrative: SanitizeText(input.FactsNarrative),
		Status:         models.ChargeStatusDraft,
		TotalAmount:    decimal.Zero,
	}

	var parties []models.ChargeParty
	if input.Origin == models.ChargeOriginCase {
		if input.CaseID == nil {
			return nil, NewValidationError("case_id", "is required for a case-derived charge")
		}
		var caseRecord models.Case
		err := db.Preload("InvolvedParties").First(&caseRecord, "id = ?", *input.CaseID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCaseNotFound
			}
			return nil, fmt.Errorf("failed to fetch case: %w", err)
		}

		charge.CaseID = &caseRecord.ID
		charge.DebtorTaxID = caseRecord.DebtorTaxID
		charge.DebtorName = caseRecord.DebtorName
		charge.CustomsOffice = caseRecord.CustomsOffice
		if charge.FactsNarrative == "" {
			charge.FactsNarrative = caseRecord.FactsDescription
		}

		principalAssigned := false
		for _, party := range caseRecord.InvolvedParties {
			pct := decimal.Zero
			principal := false
			if party.Principal && !principalAssigned {
				pct = decimal.NewFromInt(100)
				principal = true
				principalAssigned = true
			}
			parties = append(parties, models.ChargeParty{
				Name:              party.Name,
				TaxID:             party.TaxID,
				ResponsibilityPct: pct,
				Principal:         principal,
			})
		}
	}

	year := time.Now().Year()
	err := db.Transaction(func(tx *gorm.DB) error {
		chargeNumber, err := NextChargeNumber(tx, year)
		if err != nil {
			return err
		}
		charge.ChargeNumber = chargeNumber

		if err := tx.Create(charge).Error; err != nil {
			return fmt.Errorf("failed to create charge: %w", err)
		}
		for i := range parties {
			parties[i].ChargeID = charge.ID
			if err := tx.Create(&parties[i]).Error; err != nil {
				return fmt.Errorf("failed to create responsible party: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetChargeByID(db, charge.ID)
}

// AddAccountLine appends an account line to a draft charge. Amounts
// must be strictly positive.
func AddAccountLine(db *gorm.DB, chargeID, code, name, currency string, amount decimal.Decimal) (*models.ChargeAccountLine, error) {
	if strings.TrimSpace(code) == "" {
		return nil, NewValidationError("code", "is required")
	}
	if !amount.IsPositive() {
		return nil, NewValidationError("amount", "must be greater than zero")
	}

	charge, err := GetChargeByID(db, chargeID)
	if err != nil {
		return nil, err
	}
	if charge.Status != models.ChargeStatusDraft {
		return nil, NewConflictError("account lines can only be added to a draft charge")
	}

	if currency == "" {
		currency = "CLP"
	}
	line := &models.ChargeAccountLine{
		ChargeID:  charge.ID,
		Code:      strings.TrimSpace(code),
		Name:      strings.TrimSpace(name),
		Currency:  currency,
		Amount:    amount,
		SortOrder: len(charge.AccountLines) + 1,
	}
	if err := db.Create(line).Error; err != nil {
		return nil, fmt.Errorf("failed to create account line: %w", err)
	}
	return line, nil
}

// AddResponsibleParty appends a responsible party to a draft charge
func AddResponsibleParty(db *gorm.DB, chargeID, name, taxID string, pct decimal.Decimal, principal bool) (*models.ChargeParty, error) {
	if strings.TrimSpace(name) == "" {
		return nil, NewValidationError("name", "is required")
	}
	if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
		return nil, NewValidationError("responsibility_pct", "must be between 0 and 100")
	}

	charge, err := GetChargeByID(db, chargeID)
	if err != nil {
		return nil, err
	}
	if charge.Status != models.ChargeStatusDraft {
		return nil, NewConflictError("responsible parties can only be added to a draft charge")
	}

	party := &models.ChargeParty{
		ChargeID:          charge.ID,
		Name:              strings.TrimSpace(name),
		TaxID:             taxID,
		ResponsibilityPct: pct,
		Principal:         principal,
	}
	if err := db.Create(party).Error; err != nil {
		return nil, fmt.Errorf("failed to create responsible party: %w", err)
	}
	return party, nil
}

// UpdateResponsibleParty edits a party's share before issuance
func UpdateResponsibleParty(db *gorm.DB, chargeID, partyID string, pct decimal.Decimal, principal bool) error {
	if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
		return NewValidationError("responsibility_pct", "must be between 0 and 100")
	}

	charge, err := GetChargeByID(db, chargeID)
	if err != nil {
		return err
	}
	if charge.Status != models.ChargeStatusDraft {
		return NewConflictError("responsible parties can only be edited on a draft charge")
	}

	result := db.Model(&models.ChargeParty{}).
		Where("id = ? AND charge_id = ?", partyID, chargeID).
		Updates(map[string]interface{}{
			"responsibility_pct": pct,
			"principal":          principal,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NewValidationError("party_id", "no such responsible party on this charge")
	}
	return nil
}

// IssueCharge moves a charge from DRAFT to ISSUED, irreversibly.
// Requires at least one account line and at least one principal
// responsible party. The total is recomputed here, never earlier.
func IssueCharge(db *gorm.DB, chargeID string) (*models.Charge, error) {
	charge, err := GetChargeByID(db, chargeID)
	if err != nil {
		return nil, err
	}
	if charge.Status == models.ChargeStatusIssued {
		return nil, NewConflictError("charge already issued")
	}
	if len(charge.AccountLines) == 0 {
		return nil, NewValidationError("account_lines", "at least one account line is required")
	}
	if len(charge.ResponsibleParties) == 0 {
		return nil, NewValidationError("responsible_parties", "at least one responsible party is required")
	}
	if !charge.HasPrincipalParty() {
		return nil, NewValidationError("responsible_parties", "at least one party must be marked principal")
	}

	now := time.Now()
	result := db.Model(&models.Charge{}).
		Where("id = ? AND version = ? AND status = ?", charge.ID, charge.Version, models.ChargeStatusDraft).
		Updates(map[string]interface{}{
			"status":       models.ChargeStatusIssued,
			"issued_at":    now,
			"total_amount": charge.ComputeTotal(),
			"version":      charge.Version + 1,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, NewConflictError("StaleVersion")
	}

	return GetChargeByID(db, chargeID)
}
