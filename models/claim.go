package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Claim kind constants
const (
	ClaimKindReconsideration = "RECONSIDERACION" // short internal review
	ClaimKindTribunal        = "TRIBUNAL"        // external judicial review
)

// Claim status constants
const (
	ClaimStatusFiled               = "FILED"
	ClaimStatusAdmissibilityReview = "ADMISSIBILITY_REVIEW"
	ClaimStatusUnderReview         = "UNDER_REVIEW"
	ClaimStatusResolved            = "RESOLVED"
)

// Claim outcome constants
const (
	ClaimOutcomeUpheld          = "UPHELD"
	ClaimOutcomePartiallyUpheld = "PARTIALLY_UPHELD"
	ClaimOutcomeRejected        = "REJECTED"
)

// Claim origin type constants
const (
	ClaimOriginCharge = "CHARGE"
	ClaimOriginLevy   = "LEVY"
	ClaimOriginCase   = "CASE"
)

// Claim represents a challenge (reclamo) against a charge, levy or
// case. Several claims may target the same origin over time.
type Claim struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ClaimNumber string `gorm:"not null;uniqueIndex" json:"claim_number"`
	Kind        string `gorm:"size:20;not null" json:"kind"`

	// Origin reference
	OriginType string `gorm:"size:10;not null;index:idx_claim_origin" json:"origin_type"`
	OriginID   string `gorm:"type:uuid;not null;index:idx_claim_origin" json:"origin_id"`

	// Claimant
	ClaimantName  string `gorm:"not null" json:"claimant_name"`
	ClaimantTaxID string `gorm:"size:20" json:"claimant_tax_id"`

	ClaimedAmount   decimal.Decimal `gorm:"type:decimal(20,2)" json:"claimed_amount"`
	Grounds         string          `gorm:"type:text;not null" json:"grounds"`
	RequestedRelief string          `gorm:"type:text" json:"requested_relief"`

	FiledAt          time.Time `gorm:"not null" json:"filed_at"`
	ResponseDeadline time.Time `gorm:"not null" json:"response_deadline"`

	// Lifecycle
	Status     string     `gorm:"not null;default:FILED;index" json:"status"`
	Outcome    *string    `gorm:"size:20" json:"outcome,omitempty"`
	Rationale  *string    `gorm:"type:text" json:"rationale,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy *string    `json:"resolved_by,omitempty"`
}

// BeforeCreate hook to generate UUID and default FiledAt
func (c *Claim) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.FiledAt.IsZero() {
		c.FiledAt = time.Now()
	}
	return nil
}

// TableName specifies the table name for Claim model
func (Claim) TableName() string {
	return "claims"
}

// IsResolved reports whether the claim has been decided
func (c *Claim) IsResolved() bool {
	return c.Status == ClaimStatusResolved
}

// IsValidClaimKind checks if the claim kind is valid
func IsValidClaimKind(kind string) bool {
	return kind == ClaimKindReconsideration || kind == ClaimKindTribunal
}

// IsValidClaimOrigin checks if the claim origin type is valid
func IsValidClaimOrigin(originType string) bool {
	switch originType {
	case ClaimOriginCharge, ClaimOriginLevy, ClaimOriginCase:
		return true
	}
	return false
}

// IsValidClaimOutcome checks if the claim outcome is valid
func IsValidClaimOutcome(outcome string) bool {
	switch outcome {
	case ClaimOutcomeUpheld, ClaimOutcomePartiallyUpheld, ClaimOutcomeRejected:
		return true
	}
	return false
}
