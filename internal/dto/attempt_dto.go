package dto

import "time"

// AnswerUpdate targets one answer row either by its id or by its question id.
type AnswerUpdate struct {
	ID         *uint  `json:"id"`
	QuestionID *uint  `json:"question_id"`
	Response   string `json:"response"`
}

type CreateAttemptRequest struct {
	ExamID     uint           `json:"exam_id" binding:"required"`
	Answers    []AnswerUpdate `json:"answers" binding:"omitempty,dive"`
	IsComplete bool           `json:"is_complete"`
}

type UpdateAttemptRequest struct {
	Answers    []AnswerUpdate `json:"answers" binding:"omitempty,dive"`
	IsComplete bool           `json:"is_complete"`
}

type ExplanationResponse struct {
	Explanation     string `json:"explanation"`
	KeyTakeaway     string `json:"key_takeaway"`
	SuggestedReview string `json:"suggested_review"`
}

type AnswerResponse struct {
	ID          uint                 `json:"id"`
	QuestionID  uint                 `json:"question_id"`
	Response    string               `json:"response"`
	IsCorrect   *bool                `json:"is_correct,omitempty"`
	Question    *QuestionResponse    `json:"question,omitempty"`
	Explanation *ExplanationResponse `json:"explanation,omitempty"`
}

type AttemptResponse struct {
	ID          uint             `json:"id"`
	ExamID      uint             `json:"exam_id"`
	OwnerID     uint             `json:"owner_id"`
	IsComplete  bool             `json:"is_complete"`
	Score       *float64         `json:"score,omitempty"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	Answers     []AnswerResponse `json:"answers,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type AttemptListResponse struct {
	Attempts []AttemptResponse `json:"attempts"`
	Total    int64             `json:"total"`
}
