package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ChargeParty is a responsible party on a charge with its share of
// responsibility. Shares need not sum to 100 across parties, but a
// charge cannot be issued without a principal party.
type ChargeParty struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ChargeID string `gorm:"type:uuid;not null;index" json:"charge_id"`
	Charge   Charge `gorm:"foreignKey:ChargeID" json:"-"`

	Name              string          `gorm:"not null" json:"name"`
	TaxID             string          `gorm:"size:20" json:"tax_id"`
	ResponsibilityPct decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"responsibility_pct"`
	Principal         bool            `gorm:"not null;default:false" json:"principal"`
}

// BeforeCreate hook to generate UUID
func (p *ChargeParty) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for ChargeParty model
func (ChargeParty) TableName() string {
	return "charge_parties"
}
