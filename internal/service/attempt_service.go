package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"studyforge/internal/dto"
	"studyforge/internal/model"
	"studyforge/internal/repository"
)

// AttemptService owns the attempt lifecycle: creation pre-populates one empty
// answer per question, answers stay mutable until the attempt is finalized,
// and finalization scores deterministically before generating explanations.
type AttemptService interface {
	CreateAttempt(ctx context.Context, ownerID uint, req dto.CreateAttemptRequest) (*dto.AttemptResponse, error)
	GetAttempt(id uint) (*dto.AttemptResponse, error)
	ListAttempts(examID, ownerID uint) (*dto.AttemptListResponse, error)
	UpdateAttempt(ctx context.Context, id uint, req dto.UpdateAttemptRequest) (*dto.AttemptResponse, error)
}

type attemptService struct {
	db                 *gorm.DB
	examRepository     repository.ExamRepository
	questionRepository repository.QuestionRepository
	attemptRepository  repository.AttemptRepository
	answerRepository   repository.AnswerRepository
	explainer          ExplanationService
}

func NewAttemptService(
	db *gorm.DB,
	examRepository repository.ExamRepository,
	questionRepository repository.QuestionRepository,
	attemptRepository repository.AttemptRepository,
	answerRepository repository.AnswerRepository,
	explainer ExplanationService,
) AttemptService {
	return &attemptService{
		db:                 db,
		examRepository:     examRepository,
		questionRepository: questionRepository,
		attemptRepository:  attemptRepository,
		answerRepository:   answerRepository,
		explainer:          explainer,
	}
}

func (s *attemptService) CreateAttempt(ctx context.Context, ownerID uint, req dto.CreateAttemptRequest) (*dto.AttemptResponse, error) {
	exam, err := s.examRepository.FindByID(req.ExamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	questions, err := s.questionRepository.FindByExamID(exam.ID)
	if err != nil {
		return nil, err
	}

	attempt := &model.ExamAttempt{
		ExamID:  exam.ID,
		OwnerID: ownerID,
		Answers: make([]model.Answer, 0, len(questions)),
	}
	for _, q := range questions {
		attempt.Answers = append(attempt.Answers, model.Answer{QuestionID: q.ID, Response: ""})
	}
	if err := s.attemptRepository.Create(attempt); err != nil {
		return nil, err
	}

	if len(req.Answers) > 0 {
		if err := s.applyAnswerUpdates(attempt.ID, req.Answers); err != nil {
			return nil, err
		}
	}
	if req.IsComplete {
		if err := s.finalize(ctx, attempt.ID); err != nil {
			return nil, err
		}
	}

	return s.GetAttempt(attempt.ID)
}

func (s *attemptService) GetAttempt(id uint) (*dto.AttemptResponse, error) {
	attempt, err := s.attemptRepository.FindByIDWithDetails(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, err
	}
	return attemptToResponse(attempt), nil
}

func (s *attemptService) ListAttempts(examID, ownerID uint) (*dto.AttemptListResponse, error) {
	attempts, err := s.attemptRepository.FindAllByExamAndOwner(examID, ownerID)
	if err != nil {
		return nil, err
	}
	resp := &dto.AttemptListResponse{
		Attempts: make([]dto.AttemptResponse, 0, len(attempts)),
		Total:    int64(len(attempts)),
	}
	for i := range attempts {
		resp.Attempts = append(resp.Attempts, *attemptToResponse(&attempts[i]))
	}
	return resp, nil
}

func (s *attemptService) UpdateAttempt(ctx context.Context, id uint, req dto.UpdateAttemptRequest) (*dto.AttemptResponse, error) {
	attempt, err := s.attemptRepository.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, err
	}
	if attempt.IsComplete {
		return nil, ErrAttemptAlreadyComplete
	}

	if len(req.Answers) > 0 {
		if err := s.applyAnswerUpdates(attempt.ID, req.Answers); err != nil {
			return nil, err
		}
	}
	if req.IsComplete {
		if err := s.finalize(ctx, attempt.ID); err != nil {
			return nil, err
		}
	}

	return s.GetAttempt(attempt.ID)
}

// applyAnswerUpdates resolves each update by answer id first, then by
// (attempt, question). An answer id pointing into another attempt is
// rejected.
func (s *attemptService) applyAnswerUpdates(attemptID uint, updates []dto.AnswerUpdate) error {
	for _, update := range updates {
		var answer *model.Answer
		var err error

		if update.ID != nil {
			answer, err = s.answerRepository.FindByID(*update.ID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		if answer == nil && update.QuestionID != nil {
			answer, err = s.answerRepository.FindByAttemptAndQuestion(attemptID, *update.QuestionID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		if answer == nil {
			return ErrAnswerNotFound
		}
		if answer.AttemptID != attemptID {
			return ErrAnswerMismatch
		}

		answer.Response = update.Response
		if err := s.answerRepository.Update(answer); err != nil {
			return err
		}
	}
	return nil
}

// ScoreAnswers grades every answer in place and returns how many were
// correct out of the total. Unanswered questions and questions without a
// grading key count as incorrect.
func ScoreAnswers(answers []*model.Answer) (correct, total int) {
	total = len(answers)
	for _, answer := range answers {
		if answer.Question.CorrectAnswer == nil || *answer.Question.CorrectAnswer == "" || answer.Response == "" {
			wrong := false
			answer.IsCorrect = &wrong
			continue
		}
		got := strings.ToLower(strings.TrimSpace(answer.Response))
		want := strings.ToLower(strings.TrimSpace(*answer.Question.CorrectAnswer))
		isCorrect := got == want
		answer.IsCorrect = &isCorrect
		if isCorrect {
			correct++
		}
	}
	return correct, total
}

// finalize is idempotent. Scoring commits before explanation generation so a
// failing LLM call never loses the score.
func (s *attemptService) finalize(ctx context.Context, attemptID uint) error {
	attempt, err := s.attemptRepository.FindByIDWithDetails(attemptID)
	if err != nil {
		return err
	}
	if attempt.IsComplete {
		return nil
	}

	answers := make([]*model.Answer, len(attempt.Answers))
	for i := range attempt.Answers {
		answers[i] = &attempt.Answers[i]
	}
	correct, total := ScoreAnswers(answers)

	score := 0.0
	if total > 0 {
		score = float64(correct) / float64(total) * 100
	}
	now := time.Now().UTC()
	attempt.IsComplete = true
	attempt.CompletedAt = &now
	attempt.Score = &score

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, answer := range answers {
			if err := tx.Model(&model.Answer{}).Where("id = ?", answer.ID).
				Update("is_correct", answer.IsCorrect).Error; err != nil {
				return err
			}
		}
		return tx.Model(&model.ExamAttempt{}).Where("id = ?", attempt.ID).
			Updates(map[string]interface{}{
				"is_complete":  true,
				"completed_at": now,
				"score":        score,
			}).Error
	})
	if err != nil {
		return err
	}

	log.Info().Uint("attempt_id", attempt.ID).Float64("score", score).
		Int("correct", correct).Int("total", total).Msg("Attempt finalized")

	s.generateExplanations(ctx, &attempt.Exam, answers)
	return nil
}

// generateExplanations is best effort. A failed explanation is logged and
// skipped; the attempt stays finalized either way.
func (s *attemptService) generateExplanations(ctx context.Context, exam *model.Exam, answers []*model.Answer) {
	for _, answer := range answers {
		if answer.IsCorrect != nil && *answer.IsCorrect {
			continue
		}
		if answer.Question.CorrectAnswer == nil || *answer.Question.CorrectAnswer == "" || answer.Response == "" {
			continue
		}
		if answer.Explanation != nil {
			continue
		}
		if _, err := s.answerRepository.FindExplanationByAnswerID(answer.ID); err == nil {
			continue
		}

		explanation, err := s.explainer.ExplainAnswer(ctx, exam, &answer.Question, answer.Response)
		if err != nil {
			log.Error().Err(err).Uint("answer_id", answer.ID).Msg("Failed to generate answer explanation")
			continue
		}
		explanation.AnswerID = answer.ID
		if err := s.answerRepository.CreateExplanation(explanation); err != nil {
			log.Error().Err(err).Uint("answer_id", answer.ID).Msg("Failed to persist answer explanation")
		}
	}
}

func attemptToResponse(attempt *model.ExamAttempt) *dto.AttemptResponse {
	var resp dto.AttemptResponse
	copier.Copy(&resp, attempt)

	// Nested answers are mapped by hand: copier does not follow the JSON
	// slice column types reliably.
	resp.Answers = make([]dto.AnswerResponse, 0, len(attempt.Answers))
	for i := range attempt.Answers {
		answer := &attempt.Answers[i]
		out := dto.AnswerResponse{
			ID:         answer.ID,
			QuestionID: answer.QuestionID,
			Response:   answer.Response,
			IsCorrect:  answer.IsCorrect,
		}
		if answer.Question.ID != 0 {
			out.Question = &dto.QuestionResponse{
				ID:            answer.Question.ID,
				ExamID:        answer.Question.ExamID,
				Prompt:        answer.Question.Prompt,
				Type:          string(answer.Question.Type),
				Options:       []string(answer.Question.Options),
				CorrectAnswer: answer.Question.CorrectAnswer,
			}
		}
		if answer.Explanation != nil {
			out.Explanation = &dto.ExplanationResponse{
				Explanation:     answer.Explanation.Explanation,
				KeyTakeaway:     answer.Explanation.KeyTakeaway,
				SuggestedReview: answer.Explanation.SuggestedReview,
			}
		}
		resp.Answers = append(resp.Answers, out)
	}
	return &resp
}
