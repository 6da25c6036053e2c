package repository

import (
	"studyforge/internal/model"

	"gorm.io/gorm"
)

type DocumentRepository interface {
	Create(document *model.Document) error
	FindByID(id uint) (*model.Document, error)
	FindByIDs(ids []uint) ([]model.Document, error)
	FindAllByOwner(ownerID uint, skip, limit int) ([]model.Document, int64, error)
	Update(document *model.Document) error
	Delete(id uint) error
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(document *model.Document) error {
	return r.db.Create(document).Error
}

func (r *documentRepository) FindByID(id uint) (*model.Document, error) {
	var document model.Document
	if err := r.db.First(&document, id).Error; err != nil {
		return nil, err
	}
	return &document, nil
}

func (r *documentRepository) FindByIDs(ids []uint) ([]model.Document, error) {
	var documents []model.Document
	if len(ids) == 0 {
		return documents, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&documents).Error
	return documents, err
}

func (r *documentRepository) FindAllByOwner(ownerID uint, skip, limit int) ([]model.Document, int64, error) {
	var documents []model.Document
	var count int64
	if err := r.db.Model(&model.Document{}).Where("owner_id = ?", ownerID).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Offset(skip).Limit(limit).
		Find(&documents).Error
	return documents, count, err
}

func (r *documentRepository) Update(document *model.Document) error {
	return r.db.Save(document).Error
}

// Delete removes the document and all of its chunks in one transaction.
func (r *documentRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).Delete(&model.DocumentChunk{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Document{}, id).Error
	})
}
