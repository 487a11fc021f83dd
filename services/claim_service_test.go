package services

import (
	"testing"
	"time"

	"aduana_flow_app_go/config"
	"aduana_flow_app_go/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupClaimTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db.AutoMigrate(&models.Case{}, &models.CaseParty{}, &models.Charge{},
		&models.ChargeAccountLine{}, &models.ChargeParty{},
		&models.Levy{}, &models.LevyAccountLine{}, &models.LevyPayment{},
		&models.Claim{}, &models.Notification{})
	return db
}

func fileTestClaim(t *testing.T, db *gorm.DB, kind, originType, originID string) *models.Claim {
	claim, err := FileClaim(db, ClaimInput{
		Kind:          kind,
		OriginType:    originType,
		OriginID:      originID,
		ClaimantName:  "Importadora Andes Ltda",
		ClaimantTaxID: "12.345.678-9",
		ClaimedAmount: decimal.NewFromInt(440000),
		Grounds:       "El cargo imputa derechos ya enterados en la DIN original.",
	})
	assert.NoError(t, err)
	return claim
}

func TestFileClaimValidation(t *testing.T) {
	db := setupClaimTestDB()
	caseRecord := createTestCase(db)

	_, err := FileClaim(db, ClaimInput{Kind: "APELACION", OriginType: models.ClaimOriginCase, OriginID: caseRecord.ID, ClaimantName: "X", Grounds: "g"})
	assert.True(t, IsValidation(err))

	_, err = FileClaim(db, ClaimInput{Kind: models.ClaimKindReconsideration, OriginType: "FACTURA", OriginID: caseRecord.ID, ClaimantName: "X", Grounds: "g"})
	assert.True(t, IsValidation(err))

	_, err = FileClaim(db, ClaimInput{Kind: models.ClaimKindReconsideration, OriginType: models.ClaimOriginCase, OriginID: caseRecord.ID, ClaimantName: "X", Grounds: "   "})
	assert.True(t, IsValidation(err))

	_, err = FileClaim(db, ClaimInput{Kind: models.ClaimKindReconsideration, OriginType: models.ClaimOriginCase, OriginID: "no-such-case", ClaimantName: "X", Grounds: "g"})
	assert.ErrorIs(t, err, ErrCaseNotFound)
}

func TestFileClaimDeadlinesByKind(t *testing.T) {
	db := setupClaimTestDB()
	caseRecord := createTestCase(db)

	recon := fileTestClaim(t, db, models.ClaimKindReconsideration, models.ClaimOriginCase, caseRecord.ID)
	assert.Contains(t, recon.ClaimNumber, "REC-")
	assert.Equal(t, models.ClaimStatusFiled, recon.Status)
	expectedRecon := AddBusinessDays(recon.FiledAt, DefaultReconsiderationDeadlineDays)
	assert.WithinDuration(t, expectedRecon, recon.ResponseDeadline, time.Second)
	// Weekends never count toward the reconsideration window
	assert.NotEqual(t, time.Saturday, recon.ResponseDeadline.Weekday())
	assert.NotEqual(t, time.Sunday, recon.ResponseDeadline.Weekday())

	tribunal := fileTestClaim(t, db, models.ClaimKindTribunal, models.ClaimOriginCase, caseRecord.ID)
	expectedTribunal := tribunal.FiledAt.AddDate(0, 0, DefaultTribunalDeadlineDays)
	assert.WithinDuration(t, expectedTribunal, tribunal.ResponseDeadline, time.Second)
}

func TestFileClaimAgainstCaseFlipsStatus(t *testing.T) {
	db := setupClaimTestDB()
	caseRecord := createTestCase(db)
	db.Model(&models.Case{}).Where("id = ?", caseRecord.ID).
		Update("status", models.CaseStatusFined)

	fileTestClaim(t, db, models.ClaimKindReconsideration, models.ClaimOriginCase, caseRecord.ID)

	var updated models.Case
	db.First(&updated, "id = ?", caseRecord.ID)
	assert.Equal(t, models.CaseStatusClaimed, updated.Status)
}

func TestAdmitClaimTwoStep(t *testing.T) {
	db := setupClaimTestDB()
	caseRecord := createTestCase(db)
	claim := fileTestClaim(t, db, models.ClaimKindReconsideration, models.ClaimOriginCase, caseRecord.ID)

	reviewing, err := AdmitClaim(db, claim.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.ClaimStatusAdmissibilityReview, reviewing.Status)

	underReview, err := AdmitClaim(db, claim.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.ClaimStatusUnderReview, underReview.Status)

	_, err = AdmitClaim(db, claim.ID)
	assert.True(t, IsConflict(err))
}

func TestResolveClaimRequiresUnderReview(t *testing.T) {
	db := setupClaimTestDB()
	caseRecord := createTestCase(db)
	claim := fileTestClaim(t, db, models.ClaimKindReconsideration, models.ClaimOriginCase, caseRecord.ID)

	_, err := ResolveClaim(db, claim.ID, models.ClaimOutcomeRejected, "extemporáneo", "abogado1")
	assert.True(t, IsValidation(err))

	AdmitClaim(db, claim.ID)
	AdmitClaim(db, claim.ID)

	_, err = ResolveClaim(db, claim.ID, "MAYBE", "r", "abogado1")
	assert.True(t, IsValidation(err))

	resolution, err := ResolveClaim(db, claim.ID, models.ClaimOutcomeRejected, "Los descargos no desvirtúan los hechos.", "abogado1")
	assert.NoError(t, err)
	assert.Equal(t, models.ClaimStatusResolved, resolution.Claim.Status)
	assert.NotNil(t, resolution.Claim.ResolvedAt)

	_, err = ResolveClaim(db, claim.ID, models.ClaimOutcomeRejected, "r", "abogado1")
	assert.True(t, IsConflict(err))
}

func TestResolveClaimSignalsRecalculation(t *testing.T) {
	db := setupClaimTestDB()
	charge := issuedTestCharge(t, db)
	levy, err := DeriveLevyFromCharge(db, charge.ID, 30)
	assert.NoError(t, err)
	caseRecord := createTestCase(db)

	cases := []struct {
		originType string
		originID   string
		outcome    string
		expect     bool
	}{
		{models.ClaimOriginCharge, charge.ID, models.ClaimOutcomeUpheld, true},
		{models.ClaimOriginLevy, levy.ID, models.ClaimOutcomePartiallyUpheld, true},
		{models.ClaimOriginCharge, charge.ID, models.ClaimOutcomeRejected, false},
		{models.ClaimOriginCase, caseRecord.ID, models.ClaimOutcomeUpheld, false},
	}
	for _, tc := range cases {
		claim := fileTestClaim(t, db, models.ClaimKindReconsideration, tc.originType, tc.originID)
		AdmitClaim(db, claim.ID)
		AdmitClaim(db, claim.ID)
		resolution, err := ResolveClaim(db, claim.ID, tc.outcome, "Resuelto conforme a los antecedentes.", "abogado1")
		assert.NoError(t, err)
		assert.Equal(t, tc.expect, resolution.RequiresRecalculation,
			"origin %s outcome %s", tc.originType, tc.outcome)
	}
}

func TestGetClaimsByOriginAllowsRefiling(t *testing.T) {
	db := setupClaimTestDB()
	caseRecord := createTestCase(db)

	first := fileTestClaim(t, db, models.ClaimKindReconsideration, models.ClaimOriginCase, caseRecord.ID)
	AdmitClaim(db, first.ID)
	AdmitClaim(db, first.ID)
	_, err := ResolveClaim(db, first.ID, models.ClaimOutcomeRejected, "Rechazado.", "abogado1")
	assert.NoError(t, err)

	second := fileTestClaim(t, db, models.ClaimKindTribunal, models.ClaimOriginCase, caseRecord.ID)
	assert.NotEqual(t, first.ClaimNumber, second.ClaimNumber)

	claims, err := GetClaimsByOrigin(db, models.ClaimOriginCase, caseRecord.ID)
	assert.NoError(t, err)
	assert.Len(t, claims, 2)
}

func TestPublishClaimResolutionCreatesNotification(t *testing.T) {
	db := setupClaimTestDB()
	cfg := &config.Config{EmailTestMode: true}
	caseRecord := createTestCase(db)

	claim := fileTestClaim(t, db, models.ClaimKindReconsideration, models.ClaimOriginCase, caseRecord.ID)
	AdmitClaim(db, claim.ID)
	AdmitClaim(db, claim.ID)
	resolution, err := ResolveClaim(db, claim.ID, models.ClaimOutcomeRejected, "Los derechos figuran impagos en tesorería.", "abogado1")
	assert.NoError(t, err)

	PublishClaimResolution(db, cfg, resolution.Claim, "contacto@andes.cl")

	var notifications []models.Notification
	assert.NoError(t, db.Find(&notifications).Error)
	assert.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationTypeClaimResolved, notifications[0].Type)
	assert.Equal(t, caseRecord.CustomsOffice, notifications[0].CustomsOffice)
	assert.Equal(t, claim.ID, *notifications[0].ClaimID)
	assert.Equal(t, caseRecord.ID, *notifications[0].CaseID)
	assert.Contains(t, notifications[0].Message, models.ClaimOutcomeRejected)
}

func TestPublishClaimResolutionLevyOrigin(t *testing.T) {
	db := setupClaimTestDB()
	cfg := &config.Config{EmailTestMode: true}
	charge := issuedTestCharge(t, db)
	levy, err := DeriveLevyFromCharge(db, charge.ID, 0)
	assert.NoError(t, err)

	claim := fileTestClaim(t, db, models.ClaimKindTribunal, models.ClaimOriginLevy, levy.ID)
	AdmitClaim(db, claim.ID)
	AdmitClaim(db, claim.ID)
	resolution, err := ResolveClaim(db, claim.ID, models.ClaimOutcomeUpheld, "Se acoge el reclamo en todas sus partes.", "abogado1")
	assert.NoError(t, err)

	PublishClaimResolution(db, cfg, resolution.Claim, "")

	var notification models.Notification
	assert.NoError(t, db.First(&notification, "claim_id = ?", claim.ID).Error)
	assert.Equal(t, models.NotificationTypeClaimResolved, notification.Type)
	assert.Equal(t, levy.CustomsOffice, notification.CustomsOffice)
	assert.Equal(t, *levy.CaseID, *notification.CaseID)
}
