package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"call_flow_app_go/config"
	"call_flow_app_go/db"
	"call_flow_app_go/models"
	"call_flow_app_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ElevenLabsWebhookHandler is the entry point for all inbound voice-agent
// events. It authenticates the raw body, decodes the envelope and routes
// by event type.
//
// Response contract: business-logic non-events (unknown type, missing
// conversation id, unresolvable tenant) are acknowledged with 200 so the
// provider stops retrying; only auth failures (401) and unexpected
// processing failures (500) return error codes. The provider retries on
// 5xx, which is safe because every step below is idempotent.
func ElevenLabsWebhookHandler(c echo.Context) error {
	cfg := c.Get("config").(*config.Config)

	rawBody, err := io.ReadAll(c.Request().Body)
	if err != nil {
		log.Printf("[Webhook] Failed to read request body: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	signature := c.Request().Header.Get("Elevenlabs-Signature")
	if !services.VerifyWebhookSignature(rawBody, signature, cfg.WebhookSecret) {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid signature"})
	}

	event, err := services.ParseWebhookEvent(rawBody)
	if err != nil {
		log.Printf("[Webhook] %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	switch {
	case event.Type == services.EventTypeInitiation:
		return handleInitiation(c, event.Data)
	case services.IsPostCallEvent(event.Type):
		return handlePostCall(c, cfg, event.Data)
	case event.Type == services.EventTypePing:
		return c.JSON(http.StatusOK, map[string]bool{"pong": true})
	default:
		// Forward-compatibility valve: acknowledge unknown kinds so the
		// provider does not retry them.
		log.Printf("[Webhook] Unknown event type: %s", event.Type)
		return acknowledge(c)
	}
}

func acknowledge(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}

func handleInitiation(c echo.Context, data json.RawMessage) error {
	in, err := services.ParseInitiationData(data)
	if err != nil {
		log.Printf("[Webhook] %v", err)
		return acknowledge(c)
	}
	if in.ConversationID == "" {
		return acknowledge(c)
	}

	tenantID, err := services.ResolveTenant(db.DB, in.AgentID)
	if errors.Is(err, services.ErrNoTenant) {
		// Configuration gap, not a request error
		log.Println("[Webhook] No tenant configured, dropping initiation event")
		return acknowledge(c)
	}
	if err != nil {
		log.Printf("[Webhook] Failed to resolve tenant: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	if err := services.CreateCallFromInitiation(db.DB, tenantID, in.ConversationID); err != nil {
		log.Printf("[Webhook] %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return acknowledge(c)
}

func handlePostCall(c echo.Context, cfg *config.Config, data json.RawMessage) error {
	pc, err := services.ParsePostCallData(data)
	if err != nil {
		// Recognized event kind with an unusable payload: acknowledge
		// rather than poison-pill the provider's retry queue.
		log.Printf("[Webhook] %v", err)
		return acknowledge(c)
	}
	if pc.ConversationID == "" {
		log.Println("[Webhook] No conversation_id in post-call payload")
		return acknowledge(c)
	}

	log.Printf("[Webhook] Processing post-call event for conversation %s", pc.ConversationID)

	// An existing row pins the tenant; otherwise the completion arrived
	// first (or the initiation was dropped) and we resolve from scratch.
	existing, err := services.GetCallByExternalID(db.DB, pc.ConversationID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[Webhook] Failed to look up call: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
		existing = nil
	}

	var tenantID string
	if existing != nil {
		tenantID = existing.TenantID
	} else {
		tenantID, err = services.ResolveTenant(db.DB, pc.AgentID)
		if errors.Is(err, services.ErrNoTenant) {
			log.Println("[Webhook] No tenant configured, dropping post-call event")
			return acknowledge(c)
		}
		if err != nil {
			log.Printf("[Webhook] Failed to resolve tenant: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
	}

	transcriptText := pc.TranscriptText()
	summary := pc.SummaryText()

	isEmergency, emergencyType := false, ""
	if emergencyDetectionEnabled(tenantID) {
		isEmergency, emergencyType = services.DetectEmergency(transcriptText)
	}

	status := models.CallStatusCompleted
	if pc.Unsuccessful() {
		status = models.CallStatusFailed
	}

	fields := services.CompletionFields{
		Status:      status,
		Duration:    pc.DurationSecs(),
		IsEmergency: isEmergency,
	}
	if transcriptText != "" {
		fields.TranscriptRaw = &transcriptText
	}
	if turns := pc.Turns(); len(turns) > 0 {
		if encoded, err := json.Marshal(turns); err == nil {
			s := string(encoded)
			fields.TranscriptJSON = &s
		}
	}
	if summary != "" {
		fields.Summary = &summary
	}
	if len(pc.AnalysisRaw) > 0 {
		s := string(pc.AnalysisRaw)
		fields.AnalysisJSON = &s
	}
	if collected := pc.DataCollection(); len(collected) > 0 {
		if encoded, err := json.Marshal(collected); err == nil {
			s := string(encoded)
			fields.ExtractedData = &s
		}
	}
	if emergencyType != "" {
		fields.EmergencyType = &emergencyType
	}

	call, err := services.UpsertCompletedCall(db.DB, tenantID, pc.ConversationID, fields)
	if err != nil {
		log.Printf("[Webhook] %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	contact := services.ExtractContactInfo(pc.DataCollection(), transcriptText)
	result, err := services.CorrelateCallProspect(db.DB, call, contact, summary)
	if err != nil {
		log.Printf("[Webhook] %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	// Side effects are emitted only on first application: the link guard
	// covers prospect notifications, the pre-update row covers emergency
	// ones. Failures here are logged, never surfaced - the call row is
	// already durable.
	notifier := services.NewNotificationService(db.DB)

	if result != nil && result.Linked && result.CreatedProspect {
		var prospect models.Prospect
		if err := db.DB.First(&prospect, "id = ?", result.ProspectID).Error; err == nil {
			if err := notifier.NotifyNewProspect(call, &prospect); err != nil {
				log.Printf("[Webhook] Failed to create prospect notification: %v", err)
			}
		}
	}

	if isEmergency && (existing == nil || !existing.IsEmergency) {
		if err := notifier.NotifyEmergencyCall(call); err != nil {
			log.Printf("[Webhook] Failed to create emergency notification: %v", err)
		}
		var tenant models.Tenant
		if err := db.DB.First(&tenant, "id = ?", tenantID).Error; err == nil && tenant.ContactEmail != "" {
			services.SendEmailAsync(cfg, services.BuildEmergencyAlertEmail(&tenant, call))
		}
	}

	return acknowledge(c)
}

// emergencyDetectionEnabled honours the tenant's agent configuration;
// detection defaults to on when no config row exists.
func emergencyDetectionEnabled(tenantID string) bool {
	var agentConfig models.AgentConfig
	err := db.DB.Where("tenant_id = ?", tenantID).First(&agentConfig).Error
	if err != nil {
		return true
	}
	return agentConfig.EnableEmergencyDetection
}
