package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Note types
const (
	NoteTypeManual    = "MANUAL"
	NoteTypeAISummary = "AI_SUMMARY"
	NoteTypeSystem    = "SYSTEM"
	NoteTypeFollowUp  = "FOLLOW_UP"
)

// Note is an append-only annotation on a prospect. Notes written by the
// call pipeline carry type AI_SUMMARY and a nil AuthorID (machine
// generated); they are never edited or deleted by the pipeline.
type Note struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ProspectID string   `gorm:"type:uuid;index;not null" json:"prospect_id"`
	Prospect   Prospect `gorm:"foreignKey:ProspectID" json:"-"`

	// nil = machine generated
	AuthorID *string `gorm:"type:uuid" json:"author_id,omitempty"`

	Type    string `gorm:"size:20;not null;default:'MANUAL'" json:"type"`
	Content string `gorm:"type:text;not null" json:"content"`
}

func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}

func (Note) TableName() string {
	return "notes"
}

// IsMachineGenerated reports whether the note was written by the pipeline
func (n *Note) IsMachineGenerated() bool {
	return n.AuthorID == nil
}
