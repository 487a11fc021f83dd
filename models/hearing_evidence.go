package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HearingEvidence is a document presented during a hearing. The file
// itself lives in external storage; only the reference is kept here.
type HearingEvidence struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	HearingID string  `gorm:"type:uuid;not null;index" json:"hearing_id"`
	Hearing   Hearing `gorm:"foreignKey:HearingID" json:"-"`

	Description string `gorm:"not null" json:"description"`
	StorageKey  string `json:"storage_key,omitempty"`
	SortOrder   int    `gorm:"not null" json:"sort_order"`
}

// BeforeCreate hook to generate UUID
func (e *HearingEvidence) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for HearingEvidence model
func (HearingEvidence) TableName() string {
	return "hearing_evidence"
}
