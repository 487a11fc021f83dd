package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Levy status constants
const (
	LevyStatusIssued    = "ISSUED"
	LevyStatusPaid      = "PAID"
	LevyStatusOverdue   = "OVERDUE"
	LevyStatusCancelled = "CANCELLED"
)

// Levy type constants, keyed to origin
const (
	LevyTypeFromCharge = "FROM_CHARGE"
	LevyTypeFromCase   = "FROM_CASE"
	LevyTypeOther      = "OTHER"
)

// DefaultLevyTermDays is the default collection term in calendar days
const DefaultLevyTermDays = 30

// Levy represents a collection instrument (giro) derived from a charge
// or a case. Account lines are a snapshot taken at derivation time and
// do not track later edits to the source.
type Levy struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	LevyNumber string `gorm:"not null;uniqueIndex" json:"levy_number"`
	Type       string `gorm:"size:20;not null" json:"type"`

	// Origin references
	ChargeID *string `gorm:"type:uuid;index" json:"charge_id,omitempty"`
	CaseID   *string `gorm:"type:uuid;index" json:"case_id,omitempty"`

	// Debtor identity
	DebtorTaxID string `gorm:"size:20;not null" json:"debtor_tax_id"`
	DebtorName  string `gorm:"not null" json:"debtor_name"`

	CustomsOffice string `gorm:"size:10;not null" json:"customs_office"`

	// Term. DueDate is always recomputed from IssueDate + TermDays.
	IssueDate time.Time `gorm:"not null" json:"issue_date"`
	TermDays  int       `gorm:"not null;default:30" json:"term_days"`
	DueDate   time.Time `gorm:"not null" json:"due_date"`

	// Amounts. The outstanding balance is a projection (total - paid),
	// never stored independently of payments.
	TotalAmount decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"total_amount"`
	AmountPaid  decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount_paid"`

	Status string `gorm:"not null;default:ISSUED;index" json:"status"`

	// Optimistic concurrency token
	Version int `gorm:"not null;default:1" json:"version"`

	// Relationships
	AccountLines []LevyAccountLine `gorm:"foreignKey:LevyID" json:"account_lines,omitempty"`
	Payments     []LevyPayment     `gorm:"foreignKey:LevyID" json:"payments,omitempty"`
}

// BeforeCreate hook to generate UUID
func (l *Levy) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Levy model
func (Levy) TableName() string {
	return "levies"
}

// OutstandingBalance returns the amount still owed
func (l *Levy) OutstandingBalance() decimal.Decimal {
	return l.TotalAmount.Sub(l.AmountPaid)
}

// IsOverdue reports whether the levy is unpaid past its due date
func (l *Levy) IsOverdue(now time.Time) bool {
	return l.Status == LevyStatusIssued && now.After(l.DueDate) && l.OutstandingBalance().IsPositive()
}

// IsValidLevyStatus checks if the levy status is valid
func IsValidLevyStatus(status string) bool {
	switch status {
	case LevyStatusIssued, LevyStatusPaid, LevyStatusOverdue, LevyStatusCancelled:
		return true
	}
	return false
}

// IsValidLevyType checks if the levy type is valid
func IsValidLevyType(levyType string) bool {
	switch levyType {
	case LevyTypeFromCharge, LevyTypeFromCase, LevyTypeOther:
		return true
	}
	return false
}
