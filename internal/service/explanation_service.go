package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"studyforge/internal/model"
)

// explanationOutput is the structured shape requested from the model for a
// single wrong answer.
type explanationOutput struct {
	Explanation     string `json:"explanation"`
	KeyTakeaway     string `json:"key_takeaway"`
	SuggestedReview string `json:"suggested_review"`
}

// ExplanationService produces a tutor-style explanation for a wrong answer,
// grounded in chunks retrieved from the exam's source documents.
type ExplanationService interface {
	ExplainAnswer(ctx context.Context, exam *model.Exam, question *model.Question, response string) (*model.AnswerExplanation, error)
}

type explanationService struct {
	embedder  EmbeddingService
	retriever RetrievalService
	completer CompletionService
}

func NewExplanationService(embedder EmbeddingService, retriever RetrievalService, completer CompletionService) ExplanationService {
	return &explanationService{embedder: embedder, retriever: retriever, completer: completer}
}

func (s *explanationService) ExplainAnswer(ctx context.Context, exam *model.Exam, question *model.Question, response string) (*model.AnswerExplanation, error) {
	if question.CorrectAnswer == nil || *question.CorrectAnswer == "" {
		return nil, fmt.Errorf("%w: question %d has no correct answer", ErrExplanationFailed, question.ID)
	}

	query := fmt.Sprintf("Question: %s\nCorrect answer: %s\nStudent answer: %s",
		question.Prompt, *question.CorrectAnswer, response)

	queryEmbedding, err := s.embedder.EmbedOne(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExplanationFailed, err)
	}

	contextChunks, err := s.retriever.Retrieve(ctx, []uint(exam.SourceDocumentIDs), queryEmbedding, DefaultTopK)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExplanationFailed, err)
	}
	if len(contextChunks) == 0 {
		log.Warn().Uint("exam_id", exam.ID).Uint("question_id", question.ID).
			Msg("No study material retrieved for explanation")
	}

	prompt := buildExplanationPrompt(question.Prompt, *question.CorrectAnswer, response, contextChunks)

	var out explanationOutput
	if err := s.completer.CompleteStructured(ctx, prompt, "explanation_output", &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExplanationFailed, err)
	}

	return &model.AnswerExplanation{
		Explanation:     out.Explanation,
		KeyTakeaway:     out.KeyTakeaway,
		SuggestedReview: out.SuggestedReview,
	}, nil
}

func buildExplanationPrompt(question, correctAnswer, userAnswer string, contextChunks []string) string {
	return fmt.Sprintf(`You are a friendly, concise tutor helping a student learn from a mistake.

Rules (must follow):
- Use ONLY the study material below
- Do NOT restate the material verbatim
- Do NOT say "the material says" or similar phrases
- Be brief (1-4 sentences total)
- Be encouraging and slightly playful, not academic

Task:
Explain why the student's answer is incorrect and what they should remember next time.

Question:
%s

Correct answer:
%s

Student answer:
%s

Study material:
%s

Explain clearly using ONLY the material above.
Avoid introducing new facts.
`, question, correctAnswer, userAnswer, strings.Join(contextChunks, "\n\n"))
}
