package services

import (
	"context"
	"errors"
	"testing"

	"aduana_flow_app_go/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupActTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db.AutoMigrate(&models.Case{}, &models.CaseParty{}, &models.Hearing{},
		&models.HearingStatement{}, &models.HearingEvidence{}, &models.Act{})
	return db
}

// finalizedHearing drives a hearing through the wizard to FINALIZED
// with the given attendance and plea.
func finalizedHearing(t *testing.T, db *gorm.DB, attended bool, plea string) *models.Hearing {
	caseRecord := createTestCase(db)
	hearing, err := ScheduleHearing(db, caseRecord.ID, "2026-09-01", "10:30", "Sala 2")
	assert.NoError(t, err)
	_, err = StartHearing(db, hearing.ID, "fiscalizador1")
	assert.NoError(t, err)
	_, err = RecordAttendance(db, hearing.ID, attended, nil)
	assert.NoError(t, err)
	if attended {
		_, err = RecordPlea(db, hearing.ID, plea)
		assert.NoError(t, err)
	}
	finalized, err := FinalizeHearing(db, hearing.ID, "", "fiscalizador1")
	assert.NoError(t, err)
	return finalized
}

func TestPrepareActGuiltyPleaAttenuatesFine(t *testing.T) {
	db := setupActTestDB()
	hearing := finalizedHearing(t, db, true, models.PleaGuilty)

	act, err := PrepareAct(db, hearing.ID, PrepareActOptions{})
	assert.NoError(t, err)
	assert.Equal(t, models.DeterminationFined, act.FinalDetermination)
	assert.True(t, act.FineAmount.Equal(decimal.NewFromInt(600000)),
		"expected 600000, got %s", act.FineAmount)
	assert.False(t, act.FineProvisional)
	assert.Contains(t, act.ResolutionGrounds, "allanado")
}

func TestPrepareActNonAppearanceAppliesMaximum(t *testing.T) {
	db := setupActTestDB()
	hearing := finalizedHearing(t, db, false, "")

	act, err := PrepareAct(db, hearing.ID, PrepareActOptions{})
	assert.NoError(t, err)
	assert.True(t, act.FineAmount.Equal(decimal.NewFromInt(1500000)),
		"expected 1500000, got %s", act.FineAmount)
	assert.Contains(t, act.ResolutionGrounds, "comparecido")
}

func TestPrepareActDisagreementIsProvisional(t *testing.T) {
	db := setupActTestDB()
	hearing := finalizedHearing(t, db, true, models.PleaDisagreement)

	act, err := PrepareAct(db, hearing.ID, PrepareActOptions{})
	assert.NoError(t, err)
	assert.True(t, act.FineAmount.Equal(decimal.NewFromInt(1000000)))
	assert.True(t, act.FineProvisional)
}

func TestPrepareActRequiresFinalizedHearing(t *testing.T) {
	db := setupActTestDB()
	caseRecord := createTestCase(db)
	hearing, err := ScheduleHearing(db, caseRecord.ID, "2026-09-01", "10:30", "Sala 2")
	assert.NoError(t, err)

	_, err = PrepareAct(db, hearing.ID, PrepareActOptions{})
	assert.True(t, IsValidation(err))
}

func TestPrepareActOnlyOncePerHearing(t *testing.T) {
	db := setupActTestDB()
	hearing := finalizedHearing(t, db, true, models.PleaGuilty)

	_, err := PrepareAct(db, hearing.ID, PrepareActOptions{})
	assert.NoError(t, err)

	_, err = PrepareAct(db, hearing.ID, PrepareActOptions{})
	assert.True(t, IsConflict(err))
}

func TestPrepareActAbsolutionRequiresAuthorization(t *testing.T) {
	db := setupActTestDB()
	hearing := finalizedHearing(t, db, true, models.PleaDisagreement)

	empty := ""
	_, err := PrepareAct(db, hearing.ID, PrepareActOptions{AbsolutionAuthorizedBy: &empty})
	assert.True(t, IsValidation(err))

	authorizer := "jefe.fiscalizacion"
	act, err := PrepareAct(db, hearing.ID, PrepareActOptions{AbsolutionAuthorizedBy: &authorizer})
	assert.NoError(t, err)
	assert.Equal(t, models.DeterminationAcquitted, act.FinalDetermination)
	assert.True(t, act.FineAmount.IsZero())
}

func TestActContentHashIsStable(t *testing.T) {
	act := &models.Act{
		HearingID:          "h1",
		FactsNarrative:     "hechos",
		ResolutionGrounds:  "fundamentos",
		FinalDetermination: models.DeterminationFined,
		FineAmount:         decimal.NewFromInt(600000),
	}

	first := ActContentHash(act)
	second := ActContentHash(act)
	assert.Equal(t, first, second)
	assert.Len(t, first, 64)

	act.FineAmount = decimal.NewFromInt(600001)
	assert.NotEqual(t, first, ActContentHash(act))
}

func TestSignActTwiceConflicts(t *testing.T) {
	db := setupActTestDB()
	hearing := finalizedHearing(t, db, true, models.PleaGuilty)
	act, err := PrepareAct(db, hearing.ID, PrepareActOptions{})
	assert.NoError(t, err)

	signed, err := SignAct(context.Background(), db, act.ID, "María Soto", "9.876.543-2")
	assert.NoError(t, err)
	assert.True(t, signed.IsSigned())
	originalHash := *signed.ContentHash
	originalSignedAt := *signed.SignedAt

	_, err = SignAct(context.Background(), db, act.ID, "Otro Firmante", "1.111.111-1")
	var conflict *ConflictError
	assert.True(t, errors.As(err, &conflict))
	assert.Equal(t, "AlreadySigned", conflict.Reason)

	// The original signature record is untouched
	unchanged, err := GetActByID(db, act.ID)
	assert.NoError(t, err)
	assert.Equal(t, originalHash, *unchanged.ContentHash)
	assert.Equal(t, originalSignedAt.Unix(), unchanged.SignedAt.Unix())
	assert.Equal(t, "María Soto", *unchanged.SignerName)
}

func TestIssueActRequiresSignature(t *testing.T) {
	db := setupActTestDB()
	hearing := finalizedHearing(t, db, true, models.PleaGuilty)
	act, err := PrepareAct(db, hearing.ID, PrepareActOptions{})
	assert.NoError(t, err)

	_, err = IssueAct(db, act.ID, "fiscalizador1")
	assert.True(t, IsValidation(err))
}

func TestIssueActUpdatesCaseAtomically(t *testing.T) {
	db := setupActTestDB()
	hearing := finalizedHearing(t, db, true, models.PleaGuilty)
	act, err := PrepareAct(db, hearing.ID, PrepareActOptions{})
	assert.NoError(t, err)
	_, err = SignAct(context.Background(), db, act.ID, "María Soto", "9.876.543-2")
	assert.NoError(t, err)

	issued, err := IssueAct(db, act.ID, "fiscalizador1")
	assert.NoError(t, err)
	assert.True(t, issued.Issued)
	assert.NotNil(t, issued.ActNumber)
	assert.NotNil(t, issued.IssuedAt)

	var updatedHearing models.Hearing
	db.First(&updatedHearing, "id = ?", hearing.ID)
	assert.Equal(t, models.HearingStatusActIssued, updatedHearing.Status)

	var updatedCase models.Case
	db.First(&updatedCase, "id = ?", hearing.CaseID)
	assert.Equal(t, models.CaseStatusFined, updatedCase.Status)

	_, err = IssueAct(db, act.ID, "fiscalizador1")
	var conflict *ConflictError
	assert.True(t, errors.As(err, &conflict))
	assert.Equal(t, "AlreadyIssued", conflict.Reason)
}
