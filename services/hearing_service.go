package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"aduana_flow_app_go/models"

	"gorm.io/gorm"
)

// GetHearingByID retrieves a hearing with its statements and evidence
func GetHearingByID(db *gorm.DB, hearingID string) (*models.Hearing, error) {
	var hearing models.Hearing
	err := db.Preload("Statements", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order ASC") }).
		Preload("Evidence", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order ASC") }).
		First(&hearing, "id = ?", hearingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHearingNotFound
		}
		return nil, err
	}
	return &hearing, nil
}

// ScheduleHearing creates a hearing in SCHEDULED for a case.
// Date, time and room are all required.
func ScheduleHearing(db *gorm.DB, caseID, dateStr, timeStr, room string) (*models.Hearing, error) {
	if strings.TrimSpace(dateStr) == "" {
		return nil, NewValidationError("date", "is required")
	}
	if strings.TrimSpace(timeStr) == "" {
		return nil, NewValidationError("time", "is required")
	}
	if strings.TrimSpace(room) == "" {
		return nil, NewValidationError("room", "is required")
	}

	scheduledAt, err := time.Parse("2006-01-02 15:04", dateStr+" "+timeStr)
	if err != nil {
		return nil, NewValidationError("date", "invalid date/time, expected YYYY-MM-DD and HH:MM")
	}

	var caseRecord models.Case
	if err := db.First(&caseRecord, "id = ?", caseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, fmt.Errorf("failed to fetch case: %w", err)
	}

	hearing := &models.Hearing{
		CaseID:      caseRecord.ID,
		ScheduledAt: scheduledAt,
		Room:        strings.TrimSpace(room),
		PleaOutcome: models.PleaPending,
		Status:      models.HearingStatusScheduled,
	}
	if err := db.Create(hearing).Error; err != nil {
		return nil, fmt.Errorf("failed to create hearing: %w", err)
	}
	return hearing, nil
}

// StartHearing moves a hearing from SCHEDULED to IN_PROGRESS and marks
// the parent case IN_HEARING. Calling start on a hearing that is
// already in progress or finalized is a no-op returning the current
// state, mirroring re-entry into a running session.
func StartHearing(db *gorm.DB, hearingID, operator string) (*models.Hearing, error) {
	hearing, err := GetHearingByID(db, hearingID)
	if err != nil {
		return nil, err
	}

	if hearing.Status != models.HearingStatusScheduled {
		return hearing, nil
	}

	now := time.Now()
	err = db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Hearing{}).
			Where("id = ? AND version = ?", hearing.ID, hearing.Version).
			Updates(map[string]interface{}{
				"status":     models.HearingStatusInProgress,
				"started_at": now,
				"started_by": operator,
				"version":    hearing.Version + 1,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return NewConflictError("StaleVersion")
		}

		return transitionCaseStatus(tx, hearing.CaseID, models.CaseStatusInHearing, operator)
	})
	if err != nil {
		return nil, err
	}

	return GetHearingByID(db, hearingID)
}

// RecordAttendance records whether the summoned party attended.
// Settable only while the hearing is in progress. Non-attendance
// immediately forces the plea outcome to NO_COMPARECIDO, clearing any
// prior plea; recording attendance again resets a forced outcome.
func RecordAttendance(db *gorm.DB, hearingID string, attended bool, representative *string) (*models.Hearing, error) {
	hearing, err := GetHearingByID(db, hearingID)
	if err != nil {
		return nil, err
	}
	if hearing.Status != models.HearingStatusInProgress {
		return nil, NewValidationError("status", "attendance can only be recorded while the hearing is in progress")
	}

	plea := hearing.PleaOutcome
	if !attended {
		plea = models.PleaNonAppearance
	} else if plea == models.PleaNonAppearance {
		plea = models.PleaPending
	}

	result := db.Model(&models.Hearing{}).
		Where("id = ? AND version = ?", hearing.ID, hearing.Version).
		Updates(map[string]interface{}{
			"attended":       attended,
			"representative": representative,
			"plea_outcome":   plea,
			"version":        hearing.Version + 1,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, NewConflictError("StaleVersion")
	}

	return GetHearingByID(db, hearingID)
}

// RecordPlea records the infractor's plea. Settable only while the
// hearing is in progress and the party attended.
func RecordPlea(db *gorm.DB, hearingID, plea string) (*models.Hearing, error) {
	if plea != models.PleaGuilty && plea != models.PleaDisagreement {
		return nil, NewValidationError("plea_outcome", "must be ALLANAMIENTO or DESACUERDO")
	}

	hearing, err := GetHearingByID(db, hearingID)
	if err != nil {
		return nil, err
	}
	if hearing.Status != models.HearingStatusInProgress {
		return nil, NewValidationError("status", "plea can only be recorded while the hearing is in progress")
	}
	if hearing.Attended == nil || !*hearing.Attended {
		return nil, NewValidationError("attended", "plea requires a recorded attendance")
	}

	result := db.Model(&models.Hearing{}).
		Where("id = ? AND version = ?", hearing.ID, hearing.Version).
		Updates(map[string]interface{}{
			"plea_outcome": plea,
			"version":      hearing.Version + 1,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, NewConflictError("StaleVersion")
	}

	return GetHearingByID(db, hearingID)
}

// AddStatement appends an attendee statement. Append-only while the
// hearing is in progress; rejected once finalized.
func AddStatement(db *gorm.DB, hearingID, declarantName, content string) (*models.HearingStatement, error) {
	hearing, err := GetHearingByID(db, hearingID)
	if err != nil {
		return nil, err
	}
	if hearing.Status != models.HearingStatusInProgress {
		return nil, NewValidationError("status", "statements can only be added while the hearing is in progress")
	}
	if strings.TrimSpace(declarantName) == "" {
		return nil, NewValidationError("declarant_name", "is required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, NewValidationError("content", "is required")
	}

	statement := &models.HearingStatement{
		HearingID:     hearing.ID,
		DeclarantName: strings.TrimSpace(declarantName),
		Content:       SanitizeText(content),
		SortOrder:     len(hearing.Statements) + 1,
	}
	if err := db.Create(statement).Error; err != nil {
		return nil, fmt.Errorf("failed to create statement: %w", err)
	}
	return statement, nil
}

// AddEvidence appends an evidence document reference. Append-only
// while the hearing is in progress; rejected once finalized.
func AddEvidence(db *gorm.DB, hearingID, description, storageKey string) (*models.HearingEvidence, error) {
	hearing, err := GetHearingByID(db, hearingID)
	if err != nil {
		return nil, err
	}
	if hearing.Status != models.HearingStatusInProgress {
		return nil, NewValidationError("status", "evidence can only be added while the hearing is in progress")
	}
	if strings.TrimSpace(description) == "" {
		return nil, NewValidationError("description", "is required")
	}

	evidence := &models.HearingEvidence{
		HearingID:   hearing.ID,
		Description: strings.TrimSpace(description),
		StorageKey:  storageKey,
		SortOrder:   len(hearing.Evidence) + 1,
	}
	if err := db.Create(evidence).Error; err != nil {
		return nil, fmt.Errorf("failed to create evidence: %w", err)
	}
	return evidence, nil
}

// FinalizeHearing moves a hearing from IN_PROGRESS to FINALIZED and
// freezes all its fields. The plea outcome must be resolved: an
// attended hearing with no recorded plea fails rather than defaulting
// to a legal outcome.
func FinalizeHearing(db *gorm.DB, hearingID, remarks, operator string) (*models.Hearing, error) {
	hearing, err := GetHearingByID(db, hearingID)
	if err != nil {
		return nil, err
	}
	if hearing.IsFrozen() {
		return nil, NewConflictError("hearing already finalized")
	}
	if hearing.Status != models.HearingStatusInProgress {
		return nil, NewValidationError("status", "only an in-progress hearing can be finalized")
	}
	if hearing.Attended == nil {
		return nil, NewValidationError("attended", "attendance must be recorded before finalizing")
	}
	if !hearing.PleaResolved() {
		return nil, NewValidationError("plea_outcome", "ResultUndetermined")
	}

	now := time.Now()
	result := db.Model(&models.Hearing{}).
		Where("id = ? AND version = ?", hearing.ID, hearing.Version).
		Updates(map[string]interface{}{
			"status":       models.HearingStatusFinalized,
			"remarks":      SanitizeText(remarks),
			"finalized_at": now,
			"finalized_by": operator,
			"version":      hearing.Version + 1,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, NewConflictError("StaleVersion")
	}

	return GetHearingByID(db, hearingID)
}

// transitionCaseStatus updates a case's status with change tracking
func transitionCaseStatus(tx *gorm.DB, caseID, status, operator string) error {
	now := time.Now()
	result := tx.Model(&models.Case{}).
		Where("id = ?", caseID).
		Updates(map[string]interface{}{
			"status":            status,
			"status_changed_at": now,
			"status_changed_by": operator,
			"version":           gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCaseNotFound
	}
	return nil
}
