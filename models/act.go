package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Final determination constants
const (
	DeterminationFined     = "FINED"
	DeterminationAcquitted = "ACQUITTED"
	DeterminationSettled   = "SETTLED"
)

// Act represents the official record (acta) of a hearing's outcome.
// Exactly one act exists per hearing, created after finalization.
// Once issued, the act is immutable.
type Act struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Hearing relationship (one act per hearing)
	HearingID string  `gorm:"type:uuid;not null;uniqueIndex" json:"hearing_id"`
	Hearing   Hearing `gorm:"foreignKey:HearingID" json:"hearing,omitempty"`

	// Act number, assigned at issuance. Format: <seq>/<year>, unique per year.
	ActNumber *string `gorm:"size:20;uniqueIndex" json:"act_number,omitempty"`

	// Content
	FactsNarrative     string `gorm:"type:text;not null" json:"facts_narrative"`
	ResolutionGrounds  string `gorm:"type:text;not null" json:"resolution_grounds"`
	FinalDetermination string `gorm:"size:20;not null" json:"final_determination"`

	FineAmount      decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"fine_amount"`
	FineProvisional bool            `gorm:"not null;default:false" json:"fine_provisional"`
	FineReason      string          `json:"fine_reason,omitempty"`

	// Signature record
	SignerName  *string    `json:"signer_name,omitempty"`
	SignerTaxID *string    `gorm:"size:20" json:"signer_tax_id,omitempty"`
	SignedAt    *time.Time `json:"signed_at,omitempty"`
	ContentHash *string    `gorm:"size:64" json:"content_hash,omitempty"`

	// Issuance
	Issued   bool       `gorm:"not null;default:false" json:"issued"`
	IssuedAt *time.Time `json:"issued_at,omitempty"`

	// Storage reference of the rendered PDF, set after issuance.
	PDFStorageKey *string `json:"pdf_storage_key,omitempty"`

	// Optimistic concurrency token
	Version int `gorm:"not null;default:1" json:"version"`
}

// BeforeCreate hook to generate UUID
func (a *Act) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Act model
func (Act) TableName() string {
	return "acts"
}

// IsSigned reports whether a signature record exists
func (a *Act) IsSigned() bool {
	return a.SignedAt != nil && a.ContentHash != nil
}

// CaseStatusForDetermination maps the final determination onto the
// parent case status set at issuance.
func (a *Act) CaseStatusForDetermination() string {
	switch a.FinalDetermination {
	case DeterminationAcquitted:
		return CaseStatusAcquitted
	case DeterminationSettled:
		return CaseStatusSettled
	default:
		return CaseStatusFined
	}
}

// IsValidDetermination checks if the final determination is valid
func IsValidDetermination(determination string) bool {
	switch determination {
	case DeterminationFined, DeterminationAcquitted, DeterminationSettled:
		return true
	}
	return false
}
