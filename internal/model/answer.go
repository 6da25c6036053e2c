package model

import (
	"time"
)

// Answer rows are pre-created (one per question) when the attempt is created.
// Response is mutable until the attempt completes; IsCorrect and Explanation
// are written exactly once, during scoring.
type Answer struct {
	ID          uint               `gorm:"primarykey" json:"id"`
	AttemptID   uint               `json:"attempt_id" gorm:"not null;uniqueIndex:idx_answer_attempt_question"`
	QuestionID  uint               `json:"question_id" gorm:"not null;uniqueIndex:idx_answer_attempt_question"`
	Question    Question           `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	Response    string             `json:"response" gorm:"type:text"`
	IsCorrect   *bool              `json:"is_correct,omitempty"`
	Explanation *AnswerExplanation `json:"explanation,omitempty" gorm:"foreignKey:AnswerID"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
