package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HearingStatement is one attendee statement taken during a hearing.
// Statements are append-only while the hearing is in progress.
type HearingStatement struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	HearingID string  `gorm:"type:uuid;not null;index" json:"hearing_id"`
	Hearing   Hearing `gorm:"foreignKey:HearingID" json:"-"`

	DeclarantName string `gorm:"not null" json:"declarant_name"`
	Content       string `gorm:"type:text;not null" json:"content"`
	SortOrder     int    `gorm:"not null" json:"sort_order"`
}

// BeforeCreate hook to generate UUID
func (s *HearingStatement) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for HearingStatement model
func (HearingStatement) TableName() string {
	return "hearing_statements"
}
