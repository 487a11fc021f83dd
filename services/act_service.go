package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"aduana_flow_app_go/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PrepareActOptions controls act assembly beyond the templated path.
type PrepareActOptions struct {
	AttenuationPct decimal.Decimal
	// AbsolutionAuthorizedBy must name the authorizing operator to
	// reach an ACQUITTED determination. Absolution is never implied.
	AbsolutionAuthorizedBy *string
	// SettlementAgreed marks the fine as settled by payment agreement.
	SettlementAgreed bool
}

// GetActByID retrieves an act
func GetActByID(db *gorm.DB, actID string) (*models.Act, error) {
	var act models.Act
	if err := db.First(&act, "id = ?", actID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActNotFound
		}
		return nil, err
	}
	return &act, nil
}

// PrepareAct assembles the act draft for a finalized hearing: facts
// narrative from the case, resolution grounds templated from the plea
// outcome, and the computed fine. One act per hearing.
func PrepareAct(db *gorm.DB, hearingID string, opts PrepareActOptions) (*models.Act, error) {
	hearing, err := GetHearingByID(db, hearingID)
	if err != nil {
		return nil, err
	}
	if hearing.Status != models.HearingStatusFinalized {
		return nil, NewValidationError("status", "act can only be prepared for a finalized hearing")
	}

	var existing models.Act
	if err := db.First(&existing, "hearing_id = ?", hearing.ID).Error; err == nil {
		return nil, NewConflictError("act already exists for this hearing")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing act: %w", err)
	}

	var caseRecord models.Case
	if err := db.First(&caseRecord, "id = ?", hearing.CaseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, fmt.Errorf("failed to fetch case: %w", err)
	}

	attenuation := opts.AttenuationPct
	if attenuation.IsZero() {
		attenuation = DefaultAttenuationPct
	}

	fine, err := ComputeFine(caseRecord.BaseFineAmount, caseRecord.EffectiveMaxFine(), hearing.PleaOutcome, attenuation)
	if err != nil {
		return nil, err
	}

	determination := models.DeterminationFined
	grounds := resolutionGrounds(hearing.PleaOutcome, attenuation)

	if opts.AbsolutionAuthorizedBy != nil {
		if strings.TrimSpace(*opts.AbsolutionAuthorizedBy) == "" {
			return nil, NewValidationError("absolution_authorized_by", "absolution requires an authorizing operator")
		}
		determination = models.DeterminationAcquitted
		fine = FineResult{Amount: decimal.Zero, Reason: "Absolución autorizada por " + *opts.AbsolutionAuthorizedBy}
		grounds = "Evaluados los hechos y antecedentes, se absuelve al denunciado de los cargos formulados."
	} else if opts.SettlementAgreed {
		determination = models.DeterminationSettled
	}

	act := &models.Act{
		HearingID:          hearing.ID,
		FactsNarrative:     caseRecord.FactsDescription,
		ResolutionGrounds:  grounds,
		FinalDetermination: determination,
		FineAmount:         fine.Amount,
		FineProvisional:    fine.Provisional,
		FineReason:         fine.Reason,
	}
	if err := db.Create(act).Error; err != nil {
		return nil, fmt.Errorf("failed to create act: %w", err)
	}
	return act, nil
}

// resolutionGrounds templates the resolution text from the plea outcome
func resolutionGrounds(plea string, attenuationPct decimal.Decimal) string {
	switch plea {
	case models.PleaGuilty:
		pct := attenuationPct.Mul(decimal.NewFromInt(100)).StringFixed(0)
		return fmt.Sprintf("Habiéndose allanado el denunciado a la denuncia formulada, se aplica la multa rebajada en un %s%% conforme a la política de atenuación vigente.", pct)
	case models.PleaNonAppearance:
		return "No habiendo comparecido el denunciado a la audiencia citada, se aplica la multa máxima contemplada, sin atenuación posible."
	default:
		return "Evaluados y ponderados los antecedentes y descargos presentados, se resuelve aplicar la multa base, quedando el monto a la espera de reclamo."
	}
}

// ActContentHash computes a stable hash over the frozen draft fields.
// The same draft always hashes to the same value.
func ActContentHash(act *models.Act) string {
	payload, _ := json.Marshal(map[string]string{
		"hearing_id":          act.HearingID,
		"facts_narrative":     act.FactsNarrative,
		"resolution_grounds":  act.ResolutionGrounds,
		"final_determination": act.FinalDetermination,
		"fine_amount":         act.FineAmount.StringFixed(2),
		"fine_reason":         act.FineReason,
	})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// SignAct applies the signing step to a prepared act. Signing twice
// fails with a conflict and leaves the original record untouched.
func SignAct(ctx context.Context, db *gorm.DB, actID, signerName, signerTaxID string) (*models.Act, error) {
	if strings.TrimSpace(signerName) == "" {
		return nil, NewValidationError("signer_name", "is required")
	}

	act, err := GetActByID(db, actID)
	if err != nil {
		return nil, err
	}
	if act.IsSigned() {
		return nil, NewConflictError("AlreadySigned")
	}
	if act.Issued {
		return nil, NewConflictError("act already issued")
	}

	contentHash := ActContentHash(act)
	signature, err := signWithRetry(ctx, contentHash, signerName, signerTaxID)
	if err != nil {
		return nil, err
	}

	result := db.Model(&models.Act{}).
		Where("id = ? AND version = ? AND signed_at IS NULL", act.ID, act.Version).
		Updates(map[string]interface{}{
			"signer_name":   signerName,
			"signer_tax_id": signerTaxID,
			"signed_at":     signature.SignedAt,
			"content_hash":  contentHash,
			"version":       act.Version + 1,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, NewConflictError("AlreadySigned")
	}

	return GetActByID(db, actID)
}

// IssueAct finalizes issuance: assigns the sequential act number, sets
// the issuance flag, moves the hearing to ACT_ISSUED and updates the
// parent case status inside one transaction, so readers never observe
// a partially issued act.
func IssueAct(db *gorm.DB, actID, operator string) (*models.Act, error) {
	act, err := GetActByID(db, actID)
	if err != nil {
		return nil, err
	}
	if act.Issued {
		return nil, NewConflictError("AlreadyIssued")
	}
	if !act.IsSigned() {
		return nil, NewValidationError("signature", "act must be signed before issuance")
	}

	hearing, err := GetHearingByID(db, act.HearingID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = db.Transaction(func(tx *gorm.DB) error {
		actNumber, err := NextActNumber(tx, now.Year())
		if err != nil {
			return err
		}

		result := tx.Model(&models.Act{}).
			Where("id = ? AND version = ? AND issued = ?", act.ID, act.Version, false).
			Updates(map[string]interface{}{
				"act_number": actNumber,
				"issued":     true,
				"issued_at":  now,
				"version":    act.Version + 1,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return NewConflictError("AlreadyIssued")
		}

		hearingResult := tx.Model(&models.Hearing{}).
			Where("id = ? AND version = ?", hearing.ID, hearing.Version).
			Updates(map[string]interface{}{
				"status":  models.HearingStatusActIssued,
				"version": hearing.Version + 1,
			})
		if hearingResult.Error != nil {
			return hearingResult.Error
		}
		if hearingResult.RowsAffected == 0 {
			return NewConflictError("StaleVersion")
		}

		return transitionCaseStatus(tx, hearing.CaseID, act.CaseStatusForDetermination(), operator)
	})
	if err != nil {
		return nil, err
	}

	return GetActByID(db, actID)
}
