package service

import (
	"context"
	"errors"

	"github.com/jinzhu/copier"
	"gorm.io/gorm"

	"studyforge/internal/dto"
	"studyforge/internal/model"
	"studyforge/internal/repository"
)

// ExamService exposes exam CRUD plus generation. Update only touches
// metadata; questions are fixed at generation time.
type ExamService interface {
	Generate(ctx context.Context, ownerID uint, req dto.GenerateExamRequest) (*dto.ExamResponse, error)
	GetExam(id uint) (*dto.ExamResponse, error)
	ListExams(ownerID uint, skip, limit int) (*dto.ExamListResponse, error)
	UpdateExam(id uint, req dto.UpdateExamRequest) (*dto.ExamResponse, error)
	DeleteExam(id uint) error
}

type examService struct {
	examRepository repository.ExamRepository
	generator      ExamGenerationService
}

func NewExamService(examRepository repository.ExamRepository, generator ExamGenerationService) ExamService {
	return &examService{examRepository: examRepository, generator: generator}
}

func (s *examService) Generate(ctx context.Context, ownerID uint, req dto.GenerateExamRequest) (*dto.ExamResponse, error) {
	questionTypes := make([]model.QuestionType, 0, len(req.QuestionTypes))
	for _, t := range req.QuestionTypes {
		questionTypes = append(questionTypes, model.QuestionType(t))
	}

	exam, err := s.generator.GenerateExam(ctx, GenerateExamParams{
		OwnerID:       ownerID,
		DocumentIDs:   req.DocumentIDs,
		Title:         req.Title,
		Description:   req.Description,
		NumQuestions:  req.NumQuestions,
		Difficulty:    req.Difficulty,
		QuestionTypes: questionTypes,
	})
	if err != nil {
		return nil, err
	}
	return examToResponse(exam), nil
}

func (s *examService) GetExam(id uint) (*dto.ExamResponse, error) {
	exam, err := s.examRepository.FindByIDWithQuestions(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}
	return examToResponse(exam), nil
}

func (s *examService) ListExams(ownerID uint, skip, limit int) (*dto.ExamListResponse, error) {
	exams, total, err := s.examRepository.FindAllByOwner(ownerID, skip, limit)
	if err != nil {
		return nil, err
	}
	resp := &dto.ExamListResponse{
		Exams: make([]dto.ExamResponse, 0, len(exams)),
		Total: total,
	}
	for i := range exams {
		resp.Exams = append(resp.Exams, *examToResponse(&exams[i]))
	}
	return resp, nil
}

func (s *examService) UpdateExam(id uint, req dto.UpdateExamRequest) (*dto.ExamResponse, error) {
	exam, err := s.examRepository.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		exam.Title = *req.Title
	}
	if req.Description != nil {
		exam.Description = *req.Description
	}
	if req.DurationMinutes != nil {
		exam.DurationMinutes = req.DurationMinutes
	}
	if req.IsPublished != nil {
		exam.IsPublished = *req.IsPublished
	}
	if err := s.examRepository.Update(exam); err != nil {
		return nil, err
	}
	return examToResponse(exam), nil
}

func (s *examService) DeleteExam(id uint) error {
	if _, err := s.examRepository.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrExamNotFound
		}
		return err
	}
	return s.examRepository.Delete(id)
}

func examToResponse(exam *model.Exam) *dto.ExamResponse {
	var resp dto.ExamResponse
	copier.Copy(&resp, exam)
	resp.SourceDocumentIDs = []uint(exam.SourceDocumentIDs)
	resp.Questions = make([]dto.QuestionResponse, 0, len(exam.Questions))
	for i := range exam.Questions {
		q := &exam.Questions[i]
		resp.Questions = append(resp.Questions, dto.QuestionResponse{
			ID:            q.ID,
			ExamID:        q.ExamID,
			Prompt:        q.Prompt,
			Type:          string(q.Type),
			Options:       []string(q.Options),
			CorrectAnswer: q.CorrectAnswer,
		})
	}
	return &resp
}
