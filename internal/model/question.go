package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeTrueFalse      QuestionType = "true_false"
)

// Question invariants: true_false questions carry options exactly
// ["True","False"]; multiple_choice questions carry at least 3 options and,
// when CorrectAnswer is set, it equals exactly one option. Questions are
// immutable once the exam-generation run that created them is done.
type Question struct {
	ID            uint                        `gorm:"primarykey" json:"id"`
	ExamID        uint                        `json:"exam_id" gorm:"not null;index"`
	Prompt        string                      `json:"question" gorm:"type:text;not null"`
	Type          QuestionType                `json:"type" gorm:"not null"`
	Options       datatypes.JSONSlice[string] `json:"options" gorm:"not null"`
	CorrectAnswer *string                     `json:"correct_answer,omitempty" gorm:"type:text"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
	DeletedAt     gorm.DeletedAt              `gorm:"index" json:"-"`
}
