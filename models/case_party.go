package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CaseParty represents a person or company involved in a case.
// The principal party becomes the primary responsible party when a
// charge is drafted from the case.
type CaseParty struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Case relationship
	CaseID string `gorm:"type:uuid;not null;index" json:"case_id"`
	Case   Case   `gorm:"foreignKey:CaseID" json:"case,omitempty"`

	// Party information
	Name      string `gorm:"not null" json:"name"`
	TaxID     string `gorm:"size:20" json:"tax_id"`
	Role      string `gorm:"size:40" json:"role"` // importador, agente de aduana, transportista...
	Principal bool   `gorm:"not null;default:false" json:"principal"`
}

// BeforeCreate hook to generate UUID
func (cp *CaseParty) BeforeCreate(tx *gorm.DB) error {
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for CaseParty model
func (CaseParty) TableName() string {
	return "case_parties"
}
