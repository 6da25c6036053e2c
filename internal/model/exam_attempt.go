package model

import (
	"time"
)

// ExamAttempt is one user's run through an exam. It is created with one empty
// Answer per question and moves one-way from in-progress to complete; once
// IsComplete is set no answer mutation is accepted.
type ExamAttempt struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	ExamID      uint       `json:"exam_id" gorm:"not null;index"`
	Exam        Exam       `json:"exam,omitempty" gorm:"foreignKey:ExamID"`
	OwnerID     uint       `json:"owner_id" gorm:"not null;index"`
	IsComplete  bool       `json:"is_complete" gorm:"default:false"`
	Score       *float64   `json:"score,omitempty"` // 0-100, set at finalize
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Answers     []Answer   `json:"answers,omitempty" gorm:"foreignKey:AttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
