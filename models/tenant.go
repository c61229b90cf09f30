package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tenant represents a law firm (cabinet) using the platform. Every record
// in the system is partitioned by tenant id.
type Tenant struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name         string `gorm:"not null" json:"name"`
	ContactEmail string `json:"contact_email"`
	Phone        string `json:"phone"`
	Timezone     string `gorm:"not null;default:'Europe/Paris'" json:"timezone"`
	IsActive     bool   `gorm:"not null;default:true" json:"is_active"`

	// Relationships
	AgentConfig *AgentConfig `gorm:"foreignKey:TenantID" json:"-"`
	Prospects   []Prospect   `gorm:"foreignKey:TenantID" json:"-"`
	Calls       []Call       `gorm:"foreignKey:TenantID" json:"-"`
}

func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

func (Tenant) TableName() string {
	return "tenants"
}
