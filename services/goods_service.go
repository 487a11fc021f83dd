package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"aduana_flow_app_go/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// custodyTransitions maps an event kind to the custody status it sets
var custodyTransitions = map[string]string{
	models.GoodEventSeizure:         models.CustodySeized,
	models.GoodEventReturn:          models.CustodyReturned,
	models.GoodEventDestruction:     models.CustodyDestroyed,
	models.GoodEventAuction:         models.CustodyAuctioned,
	models.GoodEventDonation:        models.CustodyDonated,
	models.GoodEventOwnerRelease:    models.CustodyReleasedToOwner,
	models.GoodEventRetention:       models.CustodyRetained,
	models.GoodEventTransfer:        models.CustodyInTransit,
	models.GoodEventJudicialSeizure: models.CustodyJudiciallySeized,
	models.GoodEventDeposit:         models.CustodyInDeposit,
}

// GoodEventInput carries the fields of a custody event
type GoodEventInput struct {
	EventKind     string
	OccurredAt    time.Time
	Authority     *string
	ResolutionRef *string
	NewLocation   *string
	Operator      string
}

// GoodView is a good projected with its lazily evaluated disposition
// alert, which depends on the linked case or charge status the tracker
// does not own.
type GoodView struct {
	models.Good
	DispositionAlert bool `json:"disposition_alert"`
}

// GoodIntakeInput carries the fields required to register a good
type GoodIntakeInput struct {
	CaseID        *string
	ChargeID      *string
	Description   string
	TariffHeading string
	Quantity      decimal.Decimal
	Unit          string
}

// RegisterGood places a good under custody tracking
func RegisterGood(db *gorm.DB, input GoodIntakeInput) (*models.Good, error) {
	if input.Description == "" {
		return nil, NewValidationError("description", "is required")
	}
	if !input.Quantity.IsPositive() {
		return nil, NewValidationError("quantity", "must be greater than zero")
	}
	if input.Unit == "" {
		return nil, NewValidationError("unit", "is required")
	}

	good := &models.Good{
		CaseID:        input.CaseID,
		ChargeID:      input.ChargeID,
		Description:   SanitizeText(input.Description),
		TariffHeading: input.TariffHeading,
		Quantity:      input.Quantity,
		Unit:          input.Unit,
		CustodyStatus: models.CustodyInCustody,
	}
	if err := db.Create(good).Error; err != nil {
		return nil, fmt.Errorf("failed to create good: %w", err)
	}
	return GetGoodByID(db, good.ID)
}

// GetGoodByID retrieves a good with its ordered event log
func GetGoodByID(db *gorm.DB, goodID string) (*models.Good, error) {
	var good models.Good
	err := db.Preload("Events", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order ASC") }).
		First(&good, "id = ?", goodID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGoodNotFound
		}
		return nil, err
	}
	return &good, nil
}

// RecordGoodEvent appends a chain-of-custody event, applies the
// custody transition for its kind, and re-runs contradiction detection
// over the full event log. The log is small; a full re-scan on every
// append keeps the check trivially correct.
func RecordGoodEvent(db *gorm.DB, goodID string, input GoodEventInput) (*models.Good, error) {
	newStatus, known := custodyTransitions[input.EventKind]
	if !known {
		return nil, NewValidationError("event_kind", "unknown custody event kind")
	}
	if input.OccurredAt.IsZero() {
		return nil, NewValidationError("occurred_at", "is required")
	}
	if input.Operator == "" {
		return nil, NewValidationError("operator", "is required")
	}

	good, err := GetGoodByID(db, goodID)
	if err != nil {
		return nil, err
	}

	event := models.GoodEvent{
		GoodID:        good.ID,
		EventKind:     input.EventKind,
		OccurredAt:    input.OccurredAt,
		Authority:     input.Authority,
		ResolutionRef: input.ResolutionRef,
		NewLocation:   input.NewLocation,
		Operator:      input.Operator,
		SortOrder:     len(good.Events) + 1,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("failed to create custody event: %w", err)
		}

		log := append(good.Events, event)
		contradiction := detectContradiction(log)

		return tx.Model(&models.Good{}).
			Where("id = ?", good.ID).
			Updates(map[string]interface{}{
				"custody_status":      newStatus,
				"contradiction_alert": contradiction,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	return GetGoodByID(db, goodID)
}

// detectContradiction scans the event log in chronological order for a
// terminal disposition event followed by a later custody event. A good
// retained after its recorded destruction is a contradiction.
func detectContradiction(events []models.GoodEvent) bool {
	ordered := make([]models.GoodEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OccurredAt.Before(ordered[j].OccurredAt)
	})

	disposed := false
	for _, event := range ordered {
		if disposed && !models.IsTerminalDispositionEvent(event.EventKind) {
			return true
		}
		if models.IsTerminalDispositionEvent(event.EventKind) {
			disposed = true
		}
	}
	return false
}

// ProjectGood evaluates the disposition alert for a good against its
// linked case or charge. The alert fires when the parent process has
// reached a terminal status while the good's custody is still open.
func ProjectGood(db *gorm.DB, good *models.Good) (*GoodView, error) {
	view := &GoodView{Good: *good}

	parentTerminal, err := goodParentTerminal(db, good)
	if err != nil {
		return nil, err
	}

	if parentTerminal && !models.IsTerminalCustodyStatus(good.CustodyStatus) {
		view.DispositionAlert = true
	}
	return view, nil
}

func goodParentTerminal(db *gorm.DB, good *models.Good) (bool, error) {
	if good.CaseID != nil {
		var caseRecord models.Case
		if err := db.First(&caseRecord, "id = ?", *good.CaseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, ErrCaseNotFound
			}
			return false, err
		}
		return caseRecord.IsTerminal(), nil
	}
	if good.ChargeID != nil {
		var charge models.Charge
		if err := db.First(&charge, "id = ?", *good.ChargeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, ErrChargeNotFound
			}
			return false, err
		}
		return charge.Status == models.ChargeStatusIssued, nil
	}
	return false, nil
}
