package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Case status constants
const (
	CaseStatusOpen      = "OPEN"
	CaseStatusInHearing = "IN_HEARING"
	CaseStatusFined     = "FINED"
	CaseStatusAcquitted = "ACQUITTED"
	CaseStatusSettled   = "SETTLED"
	CaseStatusClaimed   = "CLAIMED"
	CaseStatusClosed    = "CLOSED"
)

// Infraction classification constants
const (
	InfractionAdministrativa = "ADMINISTRATIVA" // Administrative infraction
	InfractionPenal          = "PENAL"          // Criminal infraction
)

// Case represents a filed customs infraction (denuncia)
type Case struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Case identification
	CaseNumber string `gorm:"not null;uniqueIndex" json:"case_number"`

	// Debtor (infractor) identity
	DebtorTaxID string `gorm:"size:20;not null;index" json:"debtor_tax_id"`
	DebtorName  string `gorm:"not null" json:"debtor_name"`

	// Classification
	Infraction       string `gorm:"size:20;not null" json:"infraction"`
	CustomsOffice    string `gorm:"size:10;not null" json:"customs_office"`
	FactsDescription string `gorm:"type:text" json:"facts_description"`

	// Fine framework
	BaseFineAmount decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"base_fine_amount"`
	MaxFineAmount  decimal.Decimal `gorm:"type:decimal(20,2)" json:"max_fine_amount"`

	// Status and lifecycle. Cases are never deleted, only status-transitioned.
	Status          string     `gorm:"not null;default:OPEN;index" json:"status"`
	OpenedAt        time.Time  `gorm:"not null" json:"opened_at"`
	StatusChangedAt *time.Time `json:"status_changed_at,omitempty"`
	StatusChangedBy *string    `json:"status_changed_by,omitempty"`

	// Optimistic concurrency token
	Version int `gorm:"not null;default:1" json:"version"`

	// Relationships
	InvolvedParties []CaseParty `gorm:"foreignKey:CaseID" json:"involved_parties,omitempty"`
	Hearings        []Hearing   `gorm:"foreignKey:CaseID" json:"hearings,omitempty"`
}

// BeforeCreate hook to generate UUID and set OpenedAt
func (c *Case) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.OpenedAt.IsZero() {
		c.OpenedAt = time.Now()
	}
	return nil
}

// TableName specifies the table name for Case model
func (Case) TableName() string {
	return "cases"
}

// IsOpen checks if the case is open
func (c *Case) IsOpen() bool {
	return c.Status == CaseStatusOpen
}

// IsTerminal reports whether the case has reached a terminal status.
// Terminal cases drive the goods disposition alert.
func (c *Case) IsTerminal() bool {
	switch c.Status {
	case CaseStatusClosed, CaseStatusFined, CaseStatusAcquitted, CaseStatusSettled:
		return true
	}
	return false
}

// EffectiveMaxFine returns the maximum fine, falling back to the base
// amount when no maximum was recorded on intake.
func (c *Case) EffectiveMaxFine() decimal.Decimal {
	if c.MaxFineAmount.IsZero() {
		return c.BaseFineAmount
	}
	return c.MaxFineAmount
}

// IsValidCaseStatus checks if the status is valid
func IsValidCaseStatus(status string) bool {
	validStatuses := []string{
		CaseStatusOpen,
		CaseStatusInHearing,
		CaseStatusFined,
		CaseStatusAcquitted,
		CaseStatusSettled,
		CaseStatusClaimed,
		CaseStatusClosed,
	}
	for _, s := range validStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidInfraction checks if the infraction classification is valid
func IsValidInfraction(classification string) bool {
	return classification == InfractionAdministrativa || classification == InfractionPenal
}
