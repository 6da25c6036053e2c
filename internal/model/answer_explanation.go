package model

import (
	"time"
)

// AnswerExplanation is generated only for incorrect answers that had both a
// grading key and a non-empty response. One per answer, never updated.
type AnswerExplanation struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	AnswerID        uint      `json:"answer_id" gorm:"not null;uniqueIndex"`
	Explanation     string    `json:"explanation" gorm:"type:text;not null"`
	KeyTakeaway     string    `json:"key_takeaway" gorm:"type:text;not null"`
	SuggestedReview string    `json:"suggested_review" gorm:"type:text;not null"`
	CreatedAt       time.Time `json:"created_at"`
}
