package repository

import (
	"studyforge/internal/model"

	"gorm.io/gorm"
)

type AnswerRepository interface {
	FindByID(id uint) (*model.Answer, error)
	FindByAttemptAndQuestion(attemptID, questionID uint) (*model.Answer, error)
	Update(answer *model.Answer) error
	CreateExplanation(explanation *model.AnswerExplanation) error
	FindExplanationByAnswerID(answerID uint) (*model.AnswerExplanation, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) FindByID(id uint) (*model.Answer, error) {
	var answer model.Answer
	if err := r.db.First(&answer, id).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *answerRepository) FindByAttemptAndQuestion(attemptID, questionID uint) (*model.Answer, error) {
	var answer model.Answer
	err := r.db.Where("attempt_id = ? AND question_id = ?", attemptID, questionID).First(&answer).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *answerRepository) Update(answer *model.Answer) error {
	return r.db.Save(answer).Error
}

func (r *answerRepository) CreateExplanation(explanation *model.AnswerExplanation) error {
	return r.db.Create(explanation).Error
}

func (r *answerRepository) FindExplanationByAnswerID(answerID uint) (*model.AnswerExplanation, error) {
	var explanation model.AnswerExplanation
	err := r.db.Where("answer_id = ?", answerID).First(&explanation).Error
	if err != nil {
		return nil, err
	}
	return &explanation, nil
}
