package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Custody status constants
const (
	CustodyInCustody          = "IN_CUSTODY"
	CustodySeized             = "SEIZED"
	CustodyReturned           = "RETURNED"
	CustodyAuctioned          = "AUCTIONED"
	CustodyDestroyed          = "DESTROYED"
	CustodyDonated            = "DONATED"
	CustodyReleasedToOwner    = "RELEASED_TO_OWNER"
	CustodyJudiciallySeized   = "JUDICIALLY_SEIZED"
	CustodyPendingDisposition = "PENDING_DISPOSITION"
	CustodyInTransit          = "IN_TRANSIT"
	CustodyAtPort             = "AT_PORT"
	CustodyInDeposit          = "IN_DEPOSIT"
	CustodyRetained           = "RETAINED"
	CustodyReleased           = "RELEASED"
)

// Good represents customs goods (mercancía) under custody, optionally
// linked to a case or charge.
type Good struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Optional parent process links
	CaseID   *string `gorm:"type:uuid;index" json:"case_id,omitempty"`
	ChargeID *string `gorm:"type:uuid;index" json:"charge_id,omitempty"`

	Description   string          `gorm:"type:text;not null" json:"description"`
	TariffHeading string          `gorm:"size:12" json:"tariff_heading"`
	Quantity      decimal.Decimal `gorm:"type:decimal(20,3);not null" json:"quantity"`
	Unit          string          `gorm:"size:10;not null" json:"unit"`

	CustodyStatus string `gorm:"size:30;not null;default:IN_CUSTODY;index" json:"custody_status"`

	// Recomputed over the full event log on every append.
	ContradictionAlert bool `gorm:"not null;default:false" json:"contradiction_alert"`

	// Relationships
	Events []GoodEvent `gorm:"foreignKey:GoodID" json:"events,omitempty"`
}

// BeforeCreate hook to generate UUID
func (g *Good) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Good model
func (Good) TableName() string {
	return "goods"
}

// terminalCustodyStatuses are the disposition states that close the
// custody lifecycle of a good.
var terminalCustodyStatuses = map[string]bool{
	CustodyReturned:        true,
	CustodyAuctioned:       true,
	CustodyDestroyed:       true,
	CustodyDonated:         true,
	CustodyReleasedToOwner: true,
	CustodyReleased:        true,
}

// IsTerminalCustodyStatus reports whether the status is a terminal disposition
func IsTerminalCustodyStatus(status string) bool {
	return terminalCustodyStatuses[status]
}

// IsValidCustodyStatus checks if the custody status is valid
func IsValidCustodyStatus(status string) bool {
	switch status {
	case CustodyInCustody, CustodySeized, CustodyReturned, CustodyAuctioned,
		CustodyDestroyed, CustodyDonated, CustodyReleasedToOwner,
		CustodyJudiciallySeized, CustodyPendingDisposition, CustodyInTransit,
		CustodyAtPort, CustodyInDeposit, CustodyRetained, CustodyReleased:
		return true
	}
	return false
}
