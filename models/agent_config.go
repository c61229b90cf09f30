package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AgentConfig holds the voice-agent settings for a tenant. The
// ElevenLabsAgentID is how inbound webhook events are attributed to a
// tenant: events carry the provider's agent_id, which we look up here.
type AgentConfig struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	TenantID string `gorm:"type:uuid;uniqueIndex;not null" json:"tenant_id"`
	Tenant   Tenant `gorm:"foreignKey:TenantID" json:"-"`

	// Provider mapping
	ElevenLabsAgentID string `gorm:"index" json:"eleven_labs_agent_id"`

	// Agent behaviour
	AgentName       string `gorm:"size:100;default:'Assistant'" json:"agent_name"`
	PrimaryLanguage string `gorm:"size:10;default:'fr'" json:"primary_language"`

	// Safety
	EnableEmergencyDetection bool    `gorm:"not null;default:true" json:"enable_emergency_detection"`
	EmergencyTransferNumber  *string `gorm:"size:20" json:"emergency_transfer_number,omitempty"`
}

func (a *AgentConfig) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

func (AgentConfig) TableName() string {
	return "agent_configs"
}
