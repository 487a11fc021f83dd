package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Charge status constants
const (
	ChargeStatusDraft  = "DRAFT"
	ChargeStatusIssued = "ISSUED"
)

// Charge origin constants
const (
	ChargeOriginCase             = "CASE"
	ChargeOriginCustomsProcedure = "CUSTOMS_PROCEDURE"
	ChargeOriginOther            = "OTHER"
)

// Charge represents a monetary assessment (cargo), either derived from
// a case or raised standalone against a customs procedure.
type Charge struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ChargeNumber string `gorm:"not null;uniqueIndex" json:"charge_number"`

	// Origin
	Origin string  `gorm:"size:20;not null" json:"origin"`
	CaseID *string `gorm:"type:uuid;index" json:"case_id,omitempty"`
	Case   *Case   `gorm:"foreignKey:CaseID" json:"case,omitempty"`

	// Classification
	CustomsOffice string `gorm:"size:10;not null" json:"customs_office"`
	Norm          string `json:"norm"`
	LegalGround   string `json:"legal_ground"`

	// Debtor identity (prefilled from the case when case-derived)
	DebtorTaxID string `gorm:"size:20" json:"debtor_tax_id"`
	DebtorName  string `json:"debtor_name"`

	FactsNarrative string `gorm:"type:text" json:"facts_narrative"`

	// Lifecycle: DRAFT -> ISSUED, irreversible
	Status   string     `gorm:"not null;default:DRAFT;index" json:"status"`
	IssuedAt *time.Time `json:"issued_at,omitempty"`

	// Total recomputed at issuance, never cached earlier.
	TotalAmount decimal.Decimal `gorm:"type:decimal(20,2)" json:"total_amount"`

	// Optimistic concurrency token
	Version int `gorm:"not null;default:1" json:"version"`

	// Relationships
	AccountLines       []ChargeAccountLine `gorm:"foreignKey:ChargeID" json:"account_lines,omitempty"`
	ResponsibleParties []ChargeParty       `gorm:"foreignKey:ChargeID" json:"responsible_parties,omitempty"`
}

// BeforeCreate hook to generate UUID
func (c *Charge) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Charge model
func (Charge) TableName() string {
	return "charges"
}

// ComputeTotal sums the loaded account lines
func (c *Charge) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.AccountLines {
		total = total.Add(line.Amount)
	}
	return total
}

// HasPrincipalParty reports whether at least one responsible party is
// marked principal. Percentages across parties need not sum to 100.
func (c *Charge) HasPrincipalParty() bool {
	for _, p := range c.ResponsibleParties {
		if p.Principal {
			return true
		}
	}
	return false
}

// IsValidChargeOrigin checks if the charge origin is valid
func IsValidChargeOrigin(origin string) bool {
	switch origin {
	case ChargeOriginCase, ChargeOriginCustomsProcedure, ChargeOriginOther:
		return true
	}
	return false
}
