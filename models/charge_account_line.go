package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ChargeAccountLine is one account entry on a charge. Amounts are
// always strictly positive.
type ChargeAccountLine struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ChargeID string `gorm:"type:uuid;not null;index" json:"charge_id"`
	Charge   Charge `gorm:"foreignKey:ChargeID" json:"-"`

	Code      string          `gorm:"size:20;not null" json:"code"`
	Name      string          `gorm:"not null" json:"name"`
	Currency  string          `gorm:"size:3;not null;default:CLP" json:"currency"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	SortOrder int             `gorm:"not null" json:"sort_order"`
}

// BeforeCreate hook to generate UUID
func (l *ChargeAccountLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for ChargeAccountLine model
func (ChargeAccountLine) TableName() string {
	return "charge_account_lines"
}
