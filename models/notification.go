package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types
const (
	NotificationTypeActIssued     = "ACT_ISSUED"
	NotificationTypeLevyDue       = "LEVY_DUE"
	NotificationTypeClaimResolved = "CLAIM_RESOLVED"
)

type Notification struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Targeting. Empty operator means all operators of the office.
	CustomsOffice string  `gorm:"size:10;index" json:"customs_office"`
	Operator      *string `gorm:"index" json:"operator,omitempty"`

	// Context
	CaseID  *string `gorm:"type:uuid" json:"case_id,omitempty"`
	ActID   *string `gorm:"type:uuid" json:"act_id,omitempty"`
	ClaimID *string `gorm:"type:uuid" json:"claim_id,omitempty"`
	LevyID  *string `gorm:"type:uuid" json:"levy_id,omitempty"`

	// Content
	Type    string `gorm:"not null" json:"type"`
	Title   string `gorm:"not null" json:"title"`
	Message string `gorm:"type:text" json:"message"`

	// Read tracking
	ReadAt *time.Time `json:"read_at,omitempty"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Notification) TableName() string {
	return "notifications"
}
