package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"time"

	"aduana_flow_app_go/config"
	"aduana_flow_app_go/models"

	"gorm.io/gorm"
)

// ActTemplatePath points at the act layout. Overridable in tests.
var ActTemplatePath = "templates/acts/act.html"

type actTemplateData struct {
	ActNumber         string
	CaseNumber        string
	DebtorName        string
	DebtorTaxID       string
	CustomsOffice     string
	IssuedAt          string
	FactsNarrative    string
	ResolutionGrounds string
	Determination     string
	FineAmount        string
	FineReason        string
	SignerName        string
	ContentHash       string
}

// RenderActHTML renders an issued act into the official document layout
func RenderActHTML(db *gorm.DB, act *models.Act) (string, error) {
	if !act.Issued || act.ActNumber == nil {
		return "", NewValidationError("issued", "only an issued act can be rendered")
	}

	hearing, err := GetHearingByID(db, act.HearingID)
	if err != nil {
		return "", err
	}
	var caseRecord models.Case
	if err := db.First(&caseRecord, "id = ?", hearing.CaseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrCaseNotFound
		}
		return "", err
	}

	tmpl, err := template.ParseFiles(ActTemplatePath)
	if err != nil {
		return "", fmt.Errorf("failed to parse act template: %w", err)
	}

	data := actTemplateData{
		ActNumber:         *act.ActNumber,
		CaseNumber:        caseRecord.CaseNumber,
		DebtorName:        caseRecord.DebtorName,
		DebtorTaxID:       caseRecord.DebtorTaxID,
		CustomsOffice:     caseRecord.CustomsOffice,
		FactsNarrative:    act.FactsNarrative,
		ResolutionGrounds: act.ResolutionGrounds,
		Determination:     determinationText(act.FinalDetermination),
		FineReason:        act.FineReason,
	}
	if act.IssuedAt != nil {
		data.IssuedAt = act.IssuedAt.Format("02-01-2006")
	}
	if act.FineAmount.IsPositive() {
		data.FineAmount = act.FineAmount.StringFixed(0)
	}
	if act.SignerName != nil {
		data.SignerName = *act.SignerName
	}
	if act.ContentHash != nil {
		data.ContentHash = *act.ContentHash
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render act template: %w", err)
	}
	return buf.String(), nil
}

func determinationText(determination string) string {
	switch determination {
	case models.DeterminationAcquitted:
		return "Se absuelve al denunciado de los cargos formulados."
	case models.DeterminationSettled:
		return "Se tiene por resuelta la denuncia mediante pago convenido."
	default:
		return "Se aplica multa al denunciado conforme a los considerandos precedentes."
	}
}

// PublishIssuedAct renders the act PDF, stores it, records the storage
// key and notifies the office. Best effort: the issuance itself has
// already committed, so failures here only log.
func PublishIssuedAct(ctx context.Context, db *gorm.DB, cfg *config.Config, actID, notifyEmail string) {
	act, err := GetActByID(db, actID)
	if err != nil {
		log.Printf("[WARNING] Cannot publish act %s: %v", actID, err)
		return
	}

	html, err := RenderActHTML(db, act)
	if err != nil {
		log.Printf("[WARNING] Failed to render act %s: %v", actID, err)
		return
	}

	renderCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pdf, err := GeneratePDF(renderCtx, html, ActPDFOptions())
	if err != nil {
		// Retry once: PDF rendering is an external collaborator.
		pdf, err = GeneratePDF(renderCtx, html, ActPDFOptions())
		if err != nil {
			log.Printf("[WARNING] Failed to generate PDF for act %s: %v", actID, err)
			return
		}
	}

	key := fmt.Sprintf("acts/%d/%s.pdf", time.Now().Year(), act.ID)
	if Storage != nil && Storage.IsConfigured() {
		result, err := Storage.UploadBytes(renderCtx, pdf, key, "application/pdf")
		if err != nil {
			log.Printf("[WARNING] Failed to store PDF for act %s: %v", actID, err)
			return
		}
		if err := db.Model(&models.Act{}).Where("id = ?", act.ID).Update("pdf_storage_key", result.Key).Error; err != nil {
			log.Printf("[WARNING] Failed to record PDF key for act %s: %v", actID, err)
		}
	}

	hearing, err := GetHearingByID(db, act.HearingID)
	if err != nil {
		return
	}
	var caseRecord models.Case
	if err := db.First(&caseRecord, "id = ?", hearing.CaseID).Error; err != nil {
		return
	}

	notification := &models.Notification{
		CustomsOffice: caseRecord.CustomsOffice,
		CaseID:        &caseRecord.ID,
		ActID:         &act.ID,
		Type:          models.NotificationTypeActIssued,
		Title:         "Acta emitida",
		Message:       fmt.Sprintf("Se emitió el acta %s para la denuncia %s", *act.ActNumber, caseRecord.CaseNumber),
	}
	if err := NewNotificationService(db).CreateNotification(notification); err != nil {
		log.Printf("[WARNING] Failed to create notification for act %s: %v", actID, err)
	}

	if notifyEmail != "" {
		SendEmailAsync(cfg, BuildActIssuedEmail(notifyEmail, act, caseRecord.CaseNumber))
	}
}
