package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Prospect source constants
const (
	ProspectSourceCallAI  = "CALL_AI"
	ProspectSourceManual  = "MANUAL"
	ProspectSourceWebsite = "WEBSITE"
)

// Prospect represents a potential client of the firm. Prospects created
// by the call pipeline are tagged with source CALL_AI and deduplicated
// within a tenant by phone number (best effort: phone may be missing or
// shared, so this is a matching key, not a uniqueness constraint).
type Prospect struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	TenantID string `gorm:"type:uuid;index;not null" json:"tenant_id"`
	Tenant   Tenant `gorm:"foreignKey:TenantID" json:"-"`

	FirstName *string `gorm:"size:100" json:"first_name,omitempty"`
	LastName  *string `gorm:"size:100" json:"last_name,omitempty"`

	Phone          *string `gorm:"size:30;index" json:"phone,omitempty"`
	AlternatePhone *string `gorm:"size:30" json:"alternate_phone,omitempty"`
	Email          *string `gorm:"size:255" json:"email,omitempty"`

	Source          string  `gorm:"size:20;not null;default:'MANUAL'" json:"source"`
	CaseDescription *string `gorm:"type:text" json:"case_description,omitempty"`

	IsActive        bool       `gorm:"not null;default:true;index" json:"is_active"`
	LastContactedAt *time.Time `json:"last_contacted_at,omitempty"`

	// Relationships
	Notes []Note `gorm:"foreignKey:ProspectID" json:"notes,omitempty"`
	Calls []Call `gorm:"foreignKey:ProspectID" json:"-"`
}

func (p *Prospect) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

func (Prospect) TableName() string {
	return "prospects"
}

// FullName returns the display name, empty when nothing is known
func (p *Prospect) FullName() string {
	parts := []string{}
	if p.FirstName != nil && *p.FirstName != "" {
		parts = append(parts, *p.FirstName)
	}
	if p.LastName != nil && *p.LastName != "" {
		parts = append(parts, *p.LastName)
	}
	return strings.Join(parts, " ")
}
