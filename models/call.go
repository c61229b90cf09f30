package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Call status constants
const (
	CallStatusInProgress = "IN_PROGRESS"
	CallStatusCompleted  = "COMPLETED"
	CallStatusFailed     = "FAILED"
)

// Call direction constants
const (
	CallDirectionInbound  = "INBOUND"
	CallDirectionOutbound = "OUTBOUND"
)

// Call represents one conversation handled by the AI voice agent.
//
// ExternalID is the provider-issued conversation id and the idempotency
// key for the whole ingestion pipeline: webhook deliveries arrive
// out of order and at-least-once, and the unique index on external_id is
// what guarantees a single row per conversation no matter how events
// are duplicated or interleaved.
type Call struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	TenantID string `gorm:"type:uuid;index;not null" json:"tenant_id"`
	Tenant   Tenant `gorm:"foreignKey:TenantID" json:"-"`

	// Set once the call has been correlated with a prospect
	ProspectID *string   `gorm:"type:uuid;index" json:"prospect_id,omitempty"`
	Prospect   *Prospect `gorm:"foreignKey:ProspectID" json:"prospect,omitempty"`

	// Provider conversation id (idempotency key)
	ExternalID string `gorm:"uniqueIndex;not null" json:"external_id"`

	Direction string `gorm:"size:10;not null;default:'INBOUND'" json:"direction"`
	Status    string `gorm:"size:20;not null;default:'IN_PROGRESS';index" json:"status"`

	// Caller info (filled progressively as events arrive)
	CallerNumber *string `gorm:"size:30" json:"caller_number,omitempty"`
	CallerName   *string `gorm:"size:200" json:"caller_name,omitempty"`

	// Content
	TranscriptRaw  *string `gorm:"type:text" json:"transcript_raw,omitempty"`
	TranscriptJSON *string `gorm:"type:text" json:"-"` // serialized []TranscriptTurn
	Summary        *string `gorm:"type:text" json:"summary,omitempty"`
	AnalysisJSON   *string `gorm:"type:text" json:"-"` // serialized provider analysis payload
	ExtractedData  *string `gorm:"type:text" json:"-"` // serialized data-collection fields

	// Metrics
	Duration *int `json:"duration,omitempty"` // seconds

	// Emergency detection
	IsEmergency   bool    `gorm:"not null;default:false;index" json:"is_emergency"`
	EmergencyType *string `gorm:"size:100" json:"emergency_type,omitempty"`

	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

func (c *Call) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

func (Call) TableName() string {
	return "calls"
}

// IsValidCallStatus checks if the status is valid
func IsValidCallStatus(status string) bool {
	switch status {
	case CallStatusInProgress, CallStatusCompleted, CallStatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether the call has reached a final state.
// Terminal calls never transition back to IN_PROGRESS.
func (c *Call) IsTerminal() bool {
	return c.Status == CallStatusCompleted || c.Status == CallStatusFailed
}
