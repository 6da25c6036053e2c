package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Exam owns its questions and attempts. SourceDocumentIDs records which
// documents the questions were generated from; it is the retrieval scope for
// answer explanations.
type Exam struct {
	ID                uint                      `gorm:"primarykey" json:"id"`
	OwnerID           uint                      `json:"owner_id" gorm:"not null;index"`
	Title             string                    `json:"title" gorm:"not null"`
	Description       string                    `json:"description,omitempty"`
	DurationMinutes   *int                      `json:"duration_minutes,omitempty"`
	IsPublished       bool                      `json:"is_published" gorm:"default:false"`
	SourceDocumentIDs datatypes.JSONSlice[uint] `json:"source_document_ids" gorm:"not null"`
	Questions         []Question                `json:"questions,omitempty" gorm:"foreignKey:ExamID"`
	Attempts          []ExamAttempt             `json:"-" gorm:"foreignKey:ExamID"`
	CreatedAt         time.Time                 `json:"created_at"`
	UpdatedAt         time.Time                 `json:"updated_at"`
	DeletedAt         gorm.DeletedAt            `gorm:"index" json:"-"`
}
