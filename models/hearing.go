package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Hearing status constants
const (
	HearingStatusScheduled  = "SCHEDULED"
	HearingStatusInProgress = "IN_PROGRESS"
	HearingStatusFinalized  = "FINALIZED"
	HearingStatusActIssued  = "ACT_ISSUED"
)

// Plea outcome constants
const (
	PleaPending       = "PENDING"
	PleaGuilty        = "ALLANAMIENTO"   // Guilty plea, attenuated fine
	PleaDisagreement  = "DESACUERDO"     // Attended and contests the charge
	PleaNonAppearance = "NO_COMPARECIDO" // Did not attend, maximum fine
)

// Hearing represents one adjudication session (audiencia) on a case.
// A case may accumulate several hearings, e.g. after an upheld claim.
type Hearing struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Case relationship
	CaseID string `gorm:"type:uuid;not null;index" json:"case_id"`
	Case   Case   `gorm:"foreignKey:CaseID" json:"case,omitempty"`

	// Scheduling
	ScheduledAt time.Time `gorm:"not null" json:"scheduled_at"`
	Room        string    `gorm:"size:40;not null" json:"room"`

	// Session record. Attended is nil until attendance is recorded.
	Attended       *bool   `json:"attended,omitempty"`
	Representative *string `json:"representative,omitempty"`
	PleaOutcome    string  `gorm:"size:20;not null;default:PENDING" json:"plea_outcome"`
	Remarks        string  `gorm:"type:text" json:"remarks"`

	// Lifecycle
	Status      string     `gorm:"not null;default:SCHEDULED;index" json:"status"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	StartedBy   *string    `json:"started_by,omitempty"`
	FinalizedAt *time.Time `json:"finalized_at,omitempty"`
	FinalizedBy *string    `json:"finalized_by,omitempty"`

	// Optimistic concurrency token
	Version int `gorm:"not null;default:1" json:"version"`

	// Relationships
	Statements []HearingStatement `gorm:"foreignKey:HearingID" json:"statements,omitempty"`
	Evidence   []HearingEvidence  `gorm:"foreignKey:HearingID" json:"evidence,omitempty"`
}

// BeforeCreate hook to generate UUID
func (h *Hearing) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Hearing model
func (Hearing) TableName() string {
	return "hearings"
}

// IsFrozen reports whether the hearing record can no longer be edited.
// All fields freeze when the hearing is finalized.
func (h *Hearing) IsFrozen() bool {
	return h.Status == HearingStatusFinalized || h.Status == HearingStatusActIssued
}

// PleaResolved reports whether a plea outcome has been determined
func (h *Hearing) PleaResolved() bool {
	return h.PleaOutcome != PleaPending && h.PleaOutcome != ""
}

// IsValidPleaOutcome checks if the plea outcome is valid
func IsValidPleaOutcome(plea string) bool {
	switch plea {
	case PleaPending, PleaGuilty, PleaDisagreement, PleaNonAppearance:
		return true
	}
	return false
}
