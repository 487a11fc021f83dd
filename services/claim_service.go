package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"aduana_flow_app_go/config"
	"aduana_flow_app_go/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Authoritative response-deadline policy. Reconsideration runs in
// business days, tribunal review in calendar days.
const (
	DefaultReconsiderationDeadlineDays = 5
	DefaultTribunalDeadlineDays        = 90
)

// ClaimInput carries the fields of a new claim filing
type ClaimInput struct {
	Kind            string          `json:"kind"`
	OriginType      string          `json:"origin_type"`
	OriginID        string          `json:"origin_id"`
	ClaimantName    string          `json:"claimant_name"`
	ClaimantTaxID   string          `json:"claimant_tax_id"`
	ClaimedAmount   decimal.Decimal `json:"claimed_amount"`
	Grounds         string          `json:"grounds"`
	RequestedRelief string          `json:"requested_relief"`
}

// ClaimResolution is the outcome of resolving a claim. When the claim
// targets a charge or levy and is upheld, the origin's outstanding
// amount must be recomputed by the caller; this service only signals
// the need and never mutates the origin.
type ClaimResolution struct {
	Claim                 *models.Claim
	RequiresRecalculation bool
}

// GetClaimByID retrieves a claim
func GetClaimByID(db *gorm.DB, claimID string) (*models.Claim, error) {
	var claim models.Claim
	if err := db.First(&claim, "id = ?", claimID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClaimNotFound
		}
		return nil, err
	}
	return &claim, nil
}

// GetClaimsByOrigin enumerates all claims filed against one origin
// entity, newest first. Re-filing after a resolution is allowed, so
// the relation is one-to-many.
func GetClaimsByOrigin(db *gorm.DB, originType, originID string) ([]models.Claim, error) {
	var claims []models.Claim
	err := db.Where("origin_type = ? AND origin_id = ?", originType, originID).
		Order("filed_at DESC").
		Find(&claims).Error
	return claims, err
}

// FileClaim validates and files a claim. The response deadline is
// computed from the kind: 5 business days for reconsideration, 90
// calendar days for tribunal review. Filing against a case flips the
// case to CLAIMED.
func FileClaim(db *gorm.DB, input ClaimInput) (*models.Claim, error) {
	if !models.IsValidClaimKind(input.Kind) {
		return nil, NewValidationError("kind", "must be RECONSIDERACION or TRIBUNAL")
	}
	if !models.IsValidClaimOrigin(input.OriginType) {
		return nil, NewValidationError("origin_type", "must be CHARGE, LEVY or CASE")
	}
	if strings.TrimSpace(input.Grounds) == "" {
		return nil, NewValidationError("grounds", "is required")
	}
	if strings.TrimSpace(input.ClaimantName) == "" {
		return nil, NewValidationError("claimant_name", "is required")
	}

	if err := verifyClaimOrigin(db, input.OriginType, input.OriginID); err != nil {
		return nil, err
	}

	now := time.Now()
	var deadline time.Time
	if input.Kind == models.ClaimKindReconsideration {
		deadline = AddBusinessDays(now, DefaultReconsiderationDeadlineDays)
	} else {
		deadline = now.AddDate(0, 0, DefaultTribunalDeadlineDays)
	}

	claim := &models.Claim{
		Kind:             input.Kind,
		OriginType:       input.OriginType,
		OriginID:         input.OriginID,
		ClaimantName:     strings.TrimSpace(input.ClaimantName),
		ClaimantTaxID:    input.ClaimantTaxID,
		ClaimedAmount:    input.ClaimedAmount,
		Grounds:          SanitizeText(input.Grounds),
		RequestedRelief:  SanitizeText(input.RequestedRelief),
		FiledAt:          now,
		ResponseDeadline: deadline,
		Status:           models.ClaimStatusFiled,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		claimNumber, err := NextClaimNumber(tx, now.Year())
		if err != nil {
			return err
		}
		claim.ClaimNumber = claimNumber

		if err := tx.Create(claim).Error; err != nil {
			return fmt.Errorf("failed to create claim: %w", err)
		}

		if input.OriginType == models.ClaimOriginCase {
			return transitionCaseStatus(tx, input.OriginID, models.CaseStatusClaimed, claim.ClaimantName)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return claim, nil
}

func verifyClaimOrigin(db *gorm.DB, originType, originID string) error {
	var err error
	switch originType {
	case models.ClaimOriginCharge:
		err = db.First(&models.Charge{}, "id = ?", originID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChargeNotFound
		}
	case models.ClaimOriginLevy:
		err = db.First(&models.Levy{}, "id = ?", originID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLevyNotFound
		}
	case models.ClaimOriginCase:
		err = db.First(&models.Case{}, "id = ?", originID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCaseNotFound
		}
	}
	if err != nil {
		return fmt.Errorf("failed to verify claim origin: %w", err)
	}
	return nil
}

// AdmitClaim moves a filed claim through admissibility into review
func AdmitClaim(db *gorm.DB, claimID string) (*models.Claim, error) {
	claim, err := GetClaimByID(db, claimID)
	if err != nil {
		return nil, err
	}

	var next string
	switch claim.Status {
	case models.ClaimStatusFiled:
		next = models.ClaimStatusAdmissibilityReview
	case models.ClaimStatusAdmissibilityReview:
		next = models.ClaimStatusUnderReview
	default:
		return nil, NewConflictError("claim is not awaiting admission")
	}

	if err := db.Model(&models.Claim{}).Where("id = ?", claim.ID).Update("status", next).Error; err != nil {
		return nil, err
	}
	return GetClaimByID(db, claimID)
}

// ResolveClaim decides a claim under review. Upheld or partially
// upheld outcomes on charge- or levy-origin claims signal that the
// origin's amounts need recomputation by its own service.
func ResolveClaim(db *gorm.DB, claimID, outcome, rationale, resolvedBy string) (*ClaimResolution, error) {
	if !models.IsValidClaimOutcome(outcome) {
		return nil, NewValidationError("outcome", "must be UPHELD, PARTIALLY_UPHELD or REJECTED")
	}

	claim, err := GetClaimByID(db, claimID)
	if err != nil {
		return nil, err
	}
	if claim.Status == models.ClaimStatusResolved {
		return nil, NewConflictError("claim already resolved")
	}
	if claim.Status != models.ClaimStatusUnderReview {
		return nil, NewValidationError("status", "only a claim under review can be resolved")
	}

	now := time.Now()
	sanitized := SanitizeText(rationale)
	err = db.Model(&models.Claim{}).
		Where("id = ?", claim.ID).
		Updates(map[string]interface{}{
			"status":      models.ClaimStatusResolved,
			"outcome":     outcome,
			"rationale":   sanitized,
			"resolved_at": now,
			"resolved_by": resolvedBy,
		}).Error
	if err != nil {
		return nil, err
	}

	resolved, err := GetClaimByID(db, claimID)
	if err != nil {
		return nil, err
	}

	upheld := outcome == models.ClaimOutcomeUpheld || outcome == models.ClaimOutcomePartiallyUpheld
	monetaryOrigin := claim.OriginType == models.ClaimOriginCharge || claim.OriginType == models.ClaimOriginLevy

	return &ClaimResolution{
		Claim:                 resolved,
		RequiresRecalculation: upheld && monetaryOrigin,
	}, nil
}

// PublishClaimResolution records a CLAIM_RESOLVED notification for the
// origin's office and emails the claimant contact when one is given.
// Best effort: the resolution itself has already committed, so
// failures here only log.
func PublishClaimResolution(db *gorm.DB, cfg *config.Config, claim *models.Claim, notifyEmail string) {
	office, caseID := claimOriginOffice(db, claim)

	message := fmt.Sprintf("El reclamo %s fue resuelto", claim.ClaimNumber)
	if claim.Outcome != nil {
		message = fmt.Sprintf("El reclamo %s fue resuelto: %s", claim.ClaimNumber, *claim.Outcome)
	}

	notification := &models.Notification{
		CustomsOffice: office,
		CaseID:        caseID,
		ClaimID:       &claim.ID,
		Type:          models.NotificationTypeClaimResolved,
		Title:         "Reclamo resuelto",
		Message:       message,
	}
	if err := NewNotificationService(db).CreateNotification(notification); err != nil {
		log.Printf("[WARNING] Failed to create notification for claim %s: %v", claim.ID, err)
	}

	if notifyEmail != "" {
		SendEmailAsync(cfg, BuildClaimResolvedEmail(notifyEmail, claim))
	}
}

// claimOriginOffice resolves the customs office and case context of a
// claim's origin entity for notification targeting.
func claimOriginOffice(db *gorm.DB, claim *models.Claim) (string, *string) {
	switch claim.OriginType {
	case models.ClaimOriginCharge:
		var charge models.Charge
		if err := db.First(&charge, "id = ?", claim.OriginID).Error; err == nil {
			return charge.CustomsOffice, charge.CaseID
		}
	case models.ClaimOriginLevy:
		var levy models.Levy
		if err := db.First(&levy, "id = ?", claim.OriginID).Error; err == nil {
			return levy.CustomsOffice, levy.CaseID
		}
	case models.ClaimOriginCase:
		var caseRecord models.Case
		if err := db.First(&caseRecord, "id = ?", claim.OriginID).Error; err == nil {
			return caseRecord.CustomsOffice, &caseRecord.ID
		}
	}
	return "", nil
}
