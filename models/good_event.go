package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Custody event kind constants
const (
	GoodEventSeizure         = "SEIZURE"
	GoodEventReturn          = "RETURN"
	GoodEventDestruction     = "DESTRUCTION"
	GoodEventAuction         = "AUCTION"
	GoodEventDonation        = "DONATION"
	GoodEventOwnerRelease    = "OWNER_RELEASE"
	GoodEventRetention       = "RETENTION"
	GoodEventTransfer        = "TRANSFER"
	GoodEventJudicialSeizure = "JUDICIAL_SEIZURE"
	GoodEventDeposit         = "DEPOSIT"
)

// GoodEvent is one chain-of-custody entry in a good's ordered event log
type GoodEvent struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	GoodID string `gorm:"type:uuid;not null;index" json:"good_id"`
	Good   Good   `gorm:"foreignKey:GoodID" json:"-"`

	EventKind     string    `gorm:"size:20;not null" json:"event_kind"`
	OccurredAt    time.Time `gorm:"not null" json:"occurred_at"`
	Authority     *string   `json:"authority,omitempty"`
	ResolutionRef *string   `json:"resolution_ref,omitempty"`
	NewLocation   *string   `json:"new_location,omitempty"`
	Operator      string    `gorm:"not null" json:"operator"`
	SortOrder     int       `gorm:"not null" json:"sort_order"`
}

// BeforeCreate hook to generate UUID
func (e *GoodEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for GoodEvent model
func (GoodEvent) TableName() string {
	return "good_events"
}

// terminalDispositionEvents are event kinds that end custody
var terminalDispositionEvents = map[string]bool{
	GoodEventDestruction:  true,
	GoodEventAuction:      true,
	GoodEventDonation:     true,
	GoodEventReturn:       true,
	GoodEventOwnerRelease: true,
}

// IsTerminalDispositionEvent reports whether the event kind disposes of the good
func IsTerminalDispositionEvent(kind string) bool {
	return terminalDispositionEvents[kind]
}
