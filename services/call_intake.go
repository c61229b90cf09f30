package services

import (
	"fmt"
	"time"

	"call_flow_app_go/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Call lifecycle, keyed entirely by the provider conversation id.
//
// The provider delivers events at-least-once and in no particular
// order, so every entry point here must be safe to re-run and safe to
// race against a concurrent delivery of the same conversation. The
// lookup-or-create step is a single atomic upsert guarded by the unique
// index on calls.external_id - never a read followed by a conditional
// write, because two concurrent requests must not both observe "no row"
// and both create one.

// CreateCallFromInitiation records a conversation start. Duplicate
// initiation events are a no-op: the insert does nothing on conflict and
// existing content fields are never overwritten.
func CreateCallFromInitiation(dbConn *gorm.DB, tenantID, externalID string) error {
	now := time.Now()
	call := &models.Call{
		TenantID:   tenantID,
		ExternalID: externalID,
		Direction:  models.CallDirectionInbound,
		Status:     models.CallStatusInProgress,
		StartedAt:  &now,
	}

	err := dbConn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoNothing: true,
	}).Create(call).Error
	if err != nil {
		return fmt.Errorf("failed to create call %s: %w", externalID, err)
	}
	return nil
}

// CompletionFields carries everything a post-call event can contribute
// to the call row. Nil pointer fields are left untouched on update.
type CompletionFields struct {
	Status         string // COMPLETED or FAILED
	TranscriptRaw  *string
	TranscriptJSON *string
	Summary        *string
	AnalysisJSON   *string
	ExtractedData  *string
	Duration       *int
	IsEmergency    bool
	EmergencyType  *string
}

// UpsertCompletedCall applies a post-call event to the call row,
// creating the row directly in a terminal state when the completion
// arrived before (or instead of) the initiation event.
//
// Re-applying the same completion writes the same values again - the
// operation is idempotent, which is the correctness backstop for the
// provider's retries on 5xx.
func UpsertCompletedCall(dbConn *gorm.DB, tenantID, externalID string, fields CompletionFields) (*models.Call, error) {
	if !models.IsValidCallStatus(fields.Status) {
		return nil, fmt.Errorf("invalid completion status %q", fields.Status)
	}

	now := time.Now()
	call := &models.Call{
		TenantID:   tenantID,
		ExternalID: externalID,
		Direction:  models.CallDirectionInbound,
		Status:     fields.Status,
		StartedAt:  &now,
	}
	err := dbConn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoNothing: true,
	}).Create(call).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert call %s: %w", externalID, err)
	}

	updates := map[string]interface{}{
		"status":       fields.Status,
		"ended_at":     now,
		"is_emergency": fields.IsEmergency,
	}
	if fields.TranscriptRaw != nil {
		updates["transcript_raw"] = *fields.TranscriptRaw
	}
	if fields.TranscriptJSON != nil {
		updates["transcript_json"] = *fields.TranscriptJSON
	}
	if fields.Summary != nil {
		updates["summary"] = *fields.Summary
	}
	if fields.AnalysisJSON != nil {
		updates["analysis_json"] = *fields.AnalysisJSON
	}
	if fields.ExtractedData != nil {
		updates["extracted_data"] = *fields.ExtractedData
	}
	if fields.Duration != nil {
		updates["duration"] = *fields.Duration
	}
	if fields.EmergencyType != nil {
		updates["emergency_type"] = *fields.EmergencyType
	}

	err = dbConn.Model(&models.Call{}).
		Where("external_id = ?", externalID).
		Updates(updates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update call %s: %w", externalID, err)
	}

	var updated models.Call
	if err := dbConn.Where("external_id = ?", externalID).First(&updated).Error; err != nil {
		return nil, fmt.Errorf("failed to reload call %s: %w", externalID, err)
	}
	return &updated, nil
}

// GetCallByExternalID looks up a call by its provider conversation id.
func GetCallByExternalID(dbConn *gorm.DB, externalID string) (*models.Call, error) {
	var call models.Call
	if err := dbConn.Where("external_id = ?", externalID).First(&call).Error; err != nil {
		return nil, err
	}
	return &call, nil
}
