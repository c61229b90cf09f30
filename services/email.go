package services

import (
	"fmt"
	"log"
	"strings"

	"call_flow_app_go/config"
	"call_flow_app_go/models"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// BuildEmergencyAlertEmail builds the alert sent to the tenant contact
// address when a call is flagged as an emergency.
func BuildEmergencyAlertEmail(tenant *models.Tenant, call *models.Call) *Email {
	var b strings.Builder
	b.WriteString("L'agent IA a detecte une situation d'urgence pendant un appel.\n\n")
	if call.EmergencyType != nil {
		b.WriteString(fmt.Sprintf("Motif: %s\n", *call.EmergencyType))
	}
	if call.CallerNumber != nil {
		b.WriteString(fmt.Sprintf("Numero de l'appelant: %s\n", *call.CallerNumber))
	}
	if call.Summary != nil {
		b.WriteString("\nResume de l'appel:\n")
		b.WriteString(*call.Summary)
		b.WriteString("\n")
	}
	b.WriteString("\nConsultez le dossier de l'appel pour rappeler au plus vite.\n")

	return &Email{
		To:       []string{tenant.ContactEmail},
		Subject:  "[URGENT] Appel signale par l'agent IA",
		TextBody: b.String(),
	}
}

// SendEmail sends an email via Resend, or logs it to the console when
// EmailTestMode is enabled.
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

	if len(email.To) == 0 || email.To[0] == "" {
		return fmt.Errorf("email has no recipient")
	}

	// Create Resend client
	client := resend.NewClient(cfg.ResendAPIKey)

	// Build the from address
	fromAddress := fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom)

	params := &resend.SendEmailRequest{
		From:    fromAddress,
		To:      email.To,
		Subject: email.Subject,
	}

	// Set body (prefer HTML if available)
	if email.HTMLBody != "" {
		params.Html = email.HTMLBody
	}
	if email.TextBody != "" {
		params.Text = email.TextBody
	}

	// Validate we have at least one body
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

// SendEmailAsync sends an email in a goroutine; failures are logged, not
// surfaced. Used for alerts emitted from the webhook path, which must
// never block or fail the provider's delivery.
func SendEmailAsync(cfg *config.Config, email *Email) {
	// Create a copy of the email to avoid race conditions
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}

	go func(cfg *config.Config, email *Email) {
		if err := SendEmail(cfg, email); err != nil {
			log.Printf("Error sending async email: %v", err)
		}
	}(cfg, emailCopy)
}

func logEmailToConsole(email *Email) {
	log.Println("==================== EMAIL (test mode) ====================")
	log.Printf("To:      %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	if email.TextBody != "" {
		log.Printf("Body:\n%s", email.TextBody)
	}
	log.Println("============================================================")
}
