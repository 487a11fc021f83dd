package services

import (
	"fmt"
	"log"
	"strings"

	"aduana_flow_app_go/config"
	"aduana_flow_app_go/models"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// BuildActIssuedEmail notifies the office inbox that an act was issued
func BuildActIssuedEmail(toEmail string, act *models.Act, caseNumber string) *Email {
	actNumber := ""
	if act.ActNumber != nil {
		actNumber = *act.ActNumber
	}
	return &Email{
		To:      []string{toEmail},
		Subject: fmt.Sprintf("Acta %s emitida (denuncia %s)", actNumber, caseNumber),
		TextBody: fmt.Sprintf(
			"Se ha emitido el acta %s para la denuncia %s.\nResolución: %s\nMulta: %s CLP\n",
			actNumber, caseNumber, act.FinalDetermination, act.FineAmount.StringFixed(0)),
	}
}

// BuildClaimResolvedEmail notifies the claimant contact of a resolution
func BuildClaimResolvedEmail(toEmail string, claim *models.Claim) *Email {
	outcome := ""
	if claim.Outcome != nil {
		outcome = *claim.Outcome
	}
	return &Email{
		To:      []string{toEmail},
		Subject: fmt.Sprintf("Reclamo %s resuelto", claim.ClaimNumber),
		TextBody: fmt.Sprintf(
			"El reclamo %s presentado por %s ha sido resuelto.\nResultado: %s\n",
			claim.ClaimNumber, claim.ClaimantName, outcome),
	}
}

// SendEmail delivers an email via Resend, or logs it in test mode
func SendEmail(cfg *config.Config, email *Email) error {
	// In development mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	// Validate configuration
	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
	}
	if email.HTMLBody != "" {
		params.Html = email.HTMLBody
	}
	if email.TextBody != "" {
		params.Text = email.TextBody
	}
	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %v", err)
	}

	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// SendEmailAsync sends an email in the background
func SendEmailAsync(cfg *config.Config, email *Email) {
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}

	go func() {
		if err := SendEmail(cfg, emailCopy); err != nil {
			log.Printf("Error sending async email: %v", err)
		}
	}()
}

// logEmailToConsole logs email details in test mode
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\nEMAIL (test mode - not actually sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n%s\n%s", email.TextBody, separator)
}
