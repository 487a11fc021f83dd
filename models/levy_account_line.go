package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LevyAccountLine mirrors a charge account line at derivation time.
// Lines are copied verbatim and never re-validated against the source.
type LevyAccountLine struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	LevyID string `gorm:"type:uuid;not null;index" json:"levy_id"`
	Levy   Levy   `gorm:"foreignKey:LevyID" json:"-"`

	Code      string          `gorm:"size:20;not null" json:"code"`
	Name      string          `gorm:"not null" json:"name"`
	Currency  string          `gorm:"size:3;not null;default:CLP" json:"currency"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	SortOrder int             `gorm:"not null" json:"sort_order"`
}

// BeforeCreate hook to generate UUID
func (l *LevyAccountLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for LevyAccountLine model
func (LevyAccountLine) TableName() string {
	return "levy_account_lines"
}
