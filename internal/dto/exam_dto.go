package dto

import "time"

// GenerateExamRequest drives LLM question generation from a set of processed
// documents.
type GenerateExamRequest struct {
	DocumentIDs   []uint   `json:"document_ids" binding:"required,min=1"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	NumQuestions  int      `json:"num_questions" binding:"omitempty,min=1,max=50"`
	Difficulty    string   `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	QuestionTypes []string `json:"question_types" binding:"omitempty,dive,oneof=multiple_choice true_false"`
}

type UpdateExamRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	DurationMinutes *int    `json:"duration_minutes"`
	IsPublished     *bool   `json:"is_published"`
}

type QuestionResponse struct {
	ID            uint     `json:"id"`
	ExamID        uint     `json:"exam_id"`
	Prompt        string   `json:"question"`
	Type          string   `json:"type"`
	Options       []string `json:"options"`
	CorrectAnswer *string  `json:"correct_answer,omitempty"`
}

type ExamResponse struct {
	ID                uint               `json:"id"`
	OwnerID           uint               `json:"owner_id"`
	Title             string             `json:"title"`
	Description       string             `json:"description,omitempty"`
	DurationMinutes   *int               `json:"duration_minutes,omitempty"`
	IsPublished       bool               `json:"is_published"`
	SourceDocumentIDs []uint             `json:"source_document_ids"`
	Questions         []QuestionResponse `json:"questions,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

type ExamListResponse struct {
	Exams []ExamResponse `json:"exams"`
	Total int64          `json:"total"`
}
