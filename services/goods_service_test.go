package services

import (
	"testing"
	"time"

	"aduana_flow_app_go/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupGoodsTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db.AutoMigrate(&models.Case{}, &models.CaseParty{}, &models.Charge{},
		&models.ChargeAccountLine{}, &models.ChargeParty{},
		&models.Good{}, &models.GoodEvent{})
	return db
}

func registerTestGood(t *testing.T, db *gorm.DB, caseID *string) *models.Good {
	good, err := RegisterGood(db, GoodIntakeInput{
		CaseID:        caseID,
		Description:   "Cajas de cigarrillos sin declarar",
		TariffHeading: "2402.20.00",
		Quantity:      decimal.NewFromInt(120),
		Unit:          "CAJA",
	})
	assert.NoError(t, err)
	return good
}

func goodEventAt(kind string, occurredAt time.Time) GoodEventInput {
	return GoodEventInput{
		EventKind:  kind,
		OccurredAt: occurredAt,
		Operator:   "fiscalizador1",
	}
}

func TestRegisterGoodValidation(t *testing.T) {
	db := setupGoodsTestDB()

	_, err := RegisterGood(db, GoodIntakeInput{Quantity: decimal.NewFromInt(1), Unit: "KG"})
	assert.True(t, IsValidation(err))

	_, err = RegisterGood(db, GoodIntakeInput{Description: "Textiles", Quantity: decimal.Zero, Unit: "KG"})
	assert.True(t, IsValidation(err))

	_, err = RegisterGood(db, GoodIntakeInput{Description: "Textiles", Quantity: decimal.NewFromInt(1)})
	assert.True(t, IsValidation(err))

	good := registerTestGood(t, db, nil)
	assert.Equal(t, models.CustodyInCustody, good.CustodyStatus)
	assert.False(t, good.ContradictionAlert)
}

func TestRecordGoodEventAppliesCustodyTransition(t *testing.T) {
	db := setupGoodsTestDB()
	good := registerTestGood(t, db, nil)
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	seized, err := RecordGoodEvent(db, good.ID, goodEventAt(models.GoodEventSeizure, base))
	assert.NoError(t, err)
	assert.Equal(t, models.CustodySeized, seized.CustodyStatus)
	assert.Len(t, seized.Events, 1)

	retained, err := RecordGoodEvent(db, good.ID, goodEventAt(models.GoodEventRetention, base.AddDate(0, 0, 2)))
	assert.NoError(t, err)
	assert.Equal(t, models.CustodyRetained, retained.CustodyStatus)
	assert.Equal(t, 2, retained.Events[1].SortOrder)
	assert.False(t, retained.ContradictionAlert)
}

func TestRecordGoodEventRejectsUnknownKind(t *testing.T) {
	db := setupGoodsTestDB()
	good := registerTestGood(t, db, nil)

	_, err := RecordGoodEvent(db, good.ID, goodEventAt("INSPECTION", time.Now()))
	assert.True(t, IsValidation(err))

	_, err = RecordGoodEvent(db, good.ID, GoodEventInput{EventKind: models.GoodEventSeizure, Operator: "x"})
	assert.True(t, IsValidation(err))

	_, err = RecordGoodEvent(db, good.ID, GoodEventInput{EventKind: models.GoodEventSeizure, OccurredAt: time.Now()})
	assert.True(t, IsValidation(err))
}

func TestContradictionAfterTerminalDisposition(t *testing.T) {
	db := setupGoodsTestDB()
	good := registerTestGood(t, db, nil)
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	RecordGoodEvent(db, good.ID, goodEventAt(models.GoodEventSeizure, base))
	RecordGoodEvent(db, good.ID, goodEventAt(models.GoodEventDestruction, base.AddDate(0, 0, 5)))

	// A custody event after the recorded destruction is a contradiction
	flagged, err := RecordGoodEvent(db, good.ID, goodEventAt(models.GoodEventRetention, base.AddDate(0, 0, 9)))
	assert.NoError(t, err)
	assert.True(t, flagged.ContradictionAlert)
}

func TestNoContradictionWhenDispositionIsLast(t *testing.T) {
	db := setupGoodsTestDB()
	good := registerTestGood(t, db, nil)
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	RecordGoodEvent(db, good.ID, goodEventAt(models.GoodEventSeizure, base))
	RecordGoodEvent(db, good.ID, goodEventAt(models.GoodEventRetention, base.AddDate(0, 0, 2)))
	final, err := RecordGoodEvent(db, good.ID, goodEventAt(models.GoodEventDestruction, base.AddDate(0, 0, 9)))
	assert.NoError(t, err)
	assert.False(t, final.ContradictionAlert)
	assert.Equal(t, models.CustodyDestroyed, final.CustodyStatus)
}

func TestContradictionUsesOccurrenceOrderNotInsertionOrder(t *testing.T) {
	db := setupGoodsTestDB()
	good := registerTestGood(t, db, nil)
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	// The destruction is recorded last but occurred before the retention
	RecordGoodEvent(db, good.ID, goodEventAt(models.GoodEventSeizure, base))
	RecordGoodEvent(db, good.ID, goodEventAt(models.GoodEventRetention, base.AddDate(0, 0, 6)))
	flagged, err := RecordGoodEvent(db, good.ID, goodEventAt(models.GoodEventDestruction, base.AddDate(0, 0, 3)))
	assert.NoError(t, err)
	assert.True(t, flagged.ContradictionAlert)
}

func TestProjectGoodDispositionAlert(t *testing.T) {
	db := setupGoodsTestDB()
	caseRecord := createTestCase(db)
	good := registerTestGood(t, db, &caseRecord.ID)

	// Open case, open custody: no alert
	view, err := ProjectGood(db, good)
	assert.NoError(t, err)
	assert.False(t, view.DispositionAlert)

	db.Model(&models.Case{}).Where("id = ?", caseRecord.ID).
		Update("status", models.CaseStatusFined)

	// Terminal case, custody still open: alert
	view, err = ProjectGood(db, good)
	assert.NoError(t, err)
	assert.True(t, view.DispositionAlert)

	// Disposing of the good clears the condition
	disposed, err := RecordGoodEvent(db, good.ID, goodEventAt(models.GoodEventAuction, time.Now()))
	assert.NoError(t, err)
	view, err = ProjectGood(db, disposed)
	assert.NoError(t, err)
	assert.False(t, view.DispositionAlert)
}

func TestProjectGoodUnlinkedNeverAlerts(t *testing.T) {
	db := setupGoodsTestDB()
	good := registerTestGood(t, db, nil)

	view, err := ProjectGood(db, good)
	assert.NoError(t, err)
	assert.False(t, view.DispositionAlert)
}
