package repository

import (
	"studyforge/internal/model"

	"gorm.io/gorm"
)

type ChunkRepository interface {
	CreateBatch(tx *gorm.DB, chunks []model.DocumentChunk) error
	FindByDocumentIDs(documentIDs []uint) ([]model.DocumentChunk, error)
	CountByDocumentID(documentID uint) (int64, error)
}

type chunkRepository struct {
	db *gorm.DB
}

func NewChunkRepository(db *gorm.DB) ChunkRepository {
	return &chunkRepository{db: db}
}

// CreateBatch inserts all chunks using the given transaction handle so the
// caller can commit them together with the document status update.
func (r *chunkRepository) CreateBatch(tx *gorm.DB, chunks []model.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if tx == nil {
		tx = r.db
	}
	return tx.Create(&chunks).Error
}

func (r *chunkRepository) FindByDocumentIDs(documentIDs []uint) ([]model.DocumentChunk, error) {
	var chunks []model.DocumentChunk
	if len(documentIDs) == 0 {
		return chunks, nil
	}
	err := r.db.Where("document_id IN ?", documentIDs).Order("id ASC").Find(&chunks).Error
	return chunks, err
}

func (r *chunkRepository) CountByDocumentID(documentID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.DocumentChunk{}).Where("document_id = ?", documentID).Count(&count).Error
	return count, err
}
