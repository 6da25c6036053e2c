package repository

import (
	"studyforge/internal/model"

	"gorm.io/gorm"
)

type ExamRepository interface {
	Create(exam *model.Exam) error
	FindByID(id uint) (*model.Exam, error)
	FindByIDWithQuestions(id uint) (*model.Exam, error)
	FindAllByOwner(ownerID uint, skip, limit int) ([]model.Exam, int64, error)
	Update(exam *model.Exam) error
	Delete(id uint) error
}

type examRepository struct {
	db *gorm.DB
}

func NewExamRepository(db *gorm.DB) ExamRepository {
	return &examRepository{db: db}
}

func (r *examRepository) Create(exam *model.Exam) error {
	// GORM creates associated questions when exam.Questions is populated.
	return r.db.Create(exam).Error
}

func (r *examRepository) FindByID(id uint) (*model.Exam, error) {
	var exam model.Exam
	if err := r.db.First(&exam, id).Error; err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *examRepository) FindByIDWithQuestions(id uint) (*model.Exam, error) {
	var exam model.Exam
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.id ASC")
	}).First(&exam, id).Error
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *examRepository) FindAllByOwner(ownerID uint, skip, limit int) ([]model.Exam, int64, error) {
	var exams []model.Exam
	var count int64
	if err := r.db.Model(&model.Exam{}).Where("owner_id = ?", ownerID).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Where("owner_id = ?", ownerID).
		Preload("Questions").
		Order("created_at DESC").
		Offset(skip).Limit(limit).
		Find(&exams).Error
	return exams, count, err
}

func (r *examRepository) Update(exam *model.Exam) error {
	return r.db.Save(exam).Error
}

// Delete cascades to questions, attempts, their answers and explanations.
func (r *examRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var attemptIDs []uint
		if err := tx.Model(&model.ExamAttempt{}).Where("exam_id = ?", id).Pluck("id", &attemptIDs).Error; err != nil {
			return err
		}
		if len(attemptIDs) > 0 {
			var answerIDs []uint
			if err := tx.Model(&model.Answer{}).Where("attempt_id IN ?", attemptIDs).Pluck("id", &answerIDs).Error; err != nil {
				return err
			}
			if len(answerIDs) > 0 {
				if err := tx.Where("answer_id IN ?", answerIDs).Delete(&model.AnswerExplanation{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("attempt_id IN ?", attemptIDs).Delete(&model.Answer{}).Error; err != nil {
				return err
			}
			if err := tx.Where("exam_id = ?", id).Delete(&model.ExamAttempt{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("exam_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Exam{}, id).Error
	})
}
