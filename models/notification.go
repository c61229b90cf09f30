package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types
const (
	NotificationTypeNewProspect   = "NEW_PROSPECT"
	NotificationTypeEmergencyCall = "EMERGENCY_CALL"
	NotificationTypeSystem        = "SYSTEM"
)

type Notification struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Targeting
	TenantID string `gorm:"type:uuid;not null;index" json:"tenant_id"`

	// Context
	CallID     *string `gorm:"type:uuid" json:"call_id,omitempty"`
	ProspectID *string `gorm:"type:uuid" json:"prospect_id,omitempty"`

	// Content
	Type    string `gorm:"not null" json:"type"`
	Title   string `gorm:"not null" json:"title"`
	Message string `gorm:"type:text" json:"message"`
	LinkURL string `json:"link_url,omitempty"` // e.g., "/prospects/{prospect_id}"

	// Read tracking
	ReadAt *time.Time `json:"read_at,omitempty"`

	// Relationships
	Tenant   Tenant    `gorm:"foreignKey:TenantID" json:"-"`
	Call     *Call     `gorm:"foreignKey:CallID" json:"-"`
	Prospect *Prospect `gorm:"foreignKey:ProspectID" json:"-"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
