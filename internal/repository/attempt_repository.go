package repository

import (
	"studyforge/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository interface {
	Create(attempt *model.ExamAttempt) error
	FindByID(id uint) (*model.ExamAttempt, error)
	FindByIDWithDetails(id uint) (*model.ExamAttempt, error)
	FindAllByExamAndOwner(examID, ownerID uint) ([]model.ExamAttempt, error)
	Update(attempt *model.ExamAttempt) error
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Create(attempt *model.ExamAttempt) error {
	// GORM creates the pre-populated Answers alongside the attempt row.
	return r.db.Create(attempt).Error
}

func (r *attemptRepository) FindByID(id uint) (*model.ExamAttempt, error) {
	var attempt model.ExamAttempt
	if err := r.db.First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindByIDWithDetails(id uint) (*model.ExamAttempt, error) {
	var attempt model.ExamAttempt
	err := r.db.
		Preload("Exam").
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.id ASC")
		}).
		Preload("Answers.Question").
		Preload("Answers.Explanation").
		First(&attempt, id).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindAllByExamAndOwner(examID, ownerID uint) ([]model.ExamAttempt, error) {
	var attempts []model.ExamAttempt
	err := r.db.Where("exam_id = ? AND owner_id = ?", examID, ownerID).
		Order("created_at DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *attemptRepository) Update(attempt *model.ExamAttempt) error {
	return r.db.Save(attempt).Error
}
