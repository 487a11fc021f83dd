package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LevyPayment records one payment applied against a levy
type LevyPayment struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	LevyID string `gorm:"type:uuid;not null;index" json:"levy_id"`
	Levy   Levy   `gorm:"foreignKey:LevyID" json:"-"`

	Amount     decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	PaidAt     time.Time       `gorm:"not null" json:"paid_at"`
	RecordedBy string          `json:"recorded_by"`
	Reference  string          `json:"reference,omitempty"` // bank or treasury reference
}

// BeforeCreate hook to generate UUID and default PaidAt
func (p *LevyPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.PaidAt.IsZero() {
		p.PaidAt = time.Now()
	}
	return nil
}

// TableName specifies the table name for LevyPayment model
func (LevyPayment) TableName() string {
	return "levy_payments"
}
