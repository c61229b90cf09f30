package services

import (
	"fmt"
	"log"
	"time"

	"call_flow_app_go/models"

	"gorm.io/gorm"
)

// CorrelationResult describes what CorrelateCallProspect did.
type CorrelationResult struct {
	ProspectID      string
	CreatedProspect bool // a new prospect row was created
	Linked          bool // this invocation performed the call->prospect link
}

// CorrelateCallProspect makes sure a call with any identifying data ends
// up linked to exactly one prospect in its tenant.
//
// Already-linked calls are left alone, which is what makes completion
// replays safe. Dedup is by phone number (raw digits or E.164, against
// primary or alternate phone) - a best-effort matching key, not a
// uniqueness constraint. The link itself is a compare-and-set on
// prospect_id IS NULL, so when two deliveries race, exactly one of them
// observes Linked=true; the AI summary note is written only in that
// branch, which keeps it at-most-once without a multi-statement
// transaction.
//
// Returns nil when there is nothing to do (already linked, or no
// identifying fields extracted) - that is not an error.
func CorrelateCallProspect(dbConn *gorm.DB, call *models.Call, contact ExtractedContact, summary string) (*CorrelationResult, error) {
	if call.ProspectID != nil {
		return nil, nil
	}
	if !contact.HasAny() {
		return nil, nil
	}

	result := &CorrelationResult{}

	if contact.Phone != "" {
		existing, err := findProspectByPhone(dbConn, call.TenantID, contact.Phone)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			result.ProspectID = existing.ID
		}
	}

	if result.ProspectID == "" {
		prospect, err := createProspectFromCall(dbConn, call.TenantID, contact)
		if err != nil {
			return nil, err
		}
		result.ProspectID = prospect.ID
		result.CreatedProspect = true
	}

	// Compare-and-set: only the first writer links the call. The loser of
	// a concurrent race sees zero rows affected and skips the note.
	res := dbConn.Model(&models.Call{}).
		Where("id = ? AND prospect_id IS NULL", call.ID).
		Update("prospect_id", result.ProspectID)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to link call %s to prospect: %w", call.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		log.Printf("[Correlator] Call %s already linked by a concurrent delivery", call.ID)
		return result, nil
	}
	result.Linked = true
	call.ProspectID = &result.ProspectID

	if summary != "" {
		note := &models.Note{
			ProspectID: result.ProspectID,
			Type:       models.NoteTypeAISummary,
			Content:    "Resume IA de l'appel:\n" + summary,
		}
		if err := dbConn.Create(note).Error; err != nil {
			return result, fmt.Errorf("failed to create summary note: %w", err)
		}
	}

	return result, nil
}

// findProspectByPhone matches an active prospect in the tenant by phone,
// trying both the raw value and its E.164 form against primary and
// alternate numbers.
func findProspectByPhone(dbConn *gorm.DB, tenantID, phone string) (*models.Prospect, error) {
	candidates := []string{phone}
	if e164 := PhoneToE164(phone); e164 != "" && e164 != phone {
		candidates = append(candidates, e164)
	}

	var prospect models.Prospect
	err := dbConn.Where("tenant_id = ? AND is_active = ? AND (phone IN ? OR alternate_phone IN ?)",
		tenantID, true, candidates, candidates).
		First(&prospect).Error
	if err == nil {
		return &prospect, nil
	}
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return nil, fmt.Errorf("failed to search prospect by phone: %w", err)
}

func createProspectFromCall(dbConn *gorm.DB, tenantID string, contact ExtractedContact) (*models.Prospect, error) {
	now := time.Now()
	prospect := &models.Prospect{
		TenantID:        tenantID,
		Source:          models.ProspectSourceCallAI,
		IsActive:        true,
		LastContactedAt: &now,
	}
	if contact.Phone != "" {
		prospect.Phone = &contact.Phone
	}
	if contact.FirstName != "" {
		prospect.FirstName = &contact.FirstName
	}
	if contact.LastName != "" {
		prospect.LastName = &contact.LastName
	}
	if contact.Email != "" {
		prospect.Email = &contact.Email
	}

	if err := dbConn.Create(prospect).Error; err != nil {
		return nil, fmt.Errorf("failed to create prospect: %w", err)
	}
	return prospect, nil
}
