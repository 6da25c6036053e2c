package service

import (
	"bytes"
	"context"
	"errors"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"studyforge/internal/dto"
	"studyforge/internal/model"
	"studyforge/internal/repository"
)

// DocumentService covers the upload lifecycle. Upload stores the object and
// returns immediately with status "processing"; ingestion runs in the
// background and flips the status to "ready" or "failed".
type DocumentService interface {
	Upload(ctx context.Context, ownerID uint, filename, contentType string, data []byte) (*dto.DocumentResponse, error)
	GetDocument(id uint) (*dto.DocumentResponse, error)
	ListDocuments(ownerID uint, skip, limit int) (*dto.DocumentListResponse, error)
	UpdateDocument(id uint, req dto.UpdateDocumentRequest) (*dto.DocumentResponse, error)
	DeleteDocument(ctx context.Context, id uint) error
}

type documentService struct {
	documentRepository repository.DocumentRepository
	storage            ObjectStorage
	ingestion          IngestionService
}

func NewDocumentService(
	documentRepository repository.DocumentRepository,
	storage ObjectStorage,
	ingestion IngestionService,
) DocumentService {
	return &documentService{
		documentRepository: documentRepository,
		storage:            storage,
		ingestion:          ingestion,
	}
}

func (s *documentService) Upload(ctx context.Context, ownerID uint, filename, contentType string, data []byte) (*dto.DocumentResponse, error) {
	key := s.storage.BuildKey(ownerID, filename)
	if err := s.storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, err
	}

	document := &model.Document{
		OwnerID:     ownerID,
		Filename:    filename,
		StorageKey:  key,
		StorageURL:  s.storage.URL(key),
		ContentType: contentType,
		Size:        int64(len(data)),
		Status:      model.DocumentStatusProcessing,
	}
	if err := s.documentRepository.Create(document); err != nil {
		return nil, err
	}

	// The request returns before ingestion finishes; clients poll status.
	go func(documentID uint) {
		if err := s.ingestion.Ingest(context.Background(), documentID); err != nil {
			log.Error().Err(err).Uint("document_id", documentID).Msg("Background ingestion failed")
		}
	}(document.ID)

	return s.toResponse(document), nil
}

func (s *documentService) GetDocument(id uint) (*dto.DocumentResponse, error) {
	document, err := s.findDocument(id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(document), nil
}

func (s *documentService) ListDocuments(ownerID uint, skip, limit int) (*dto.DocumentListResponse, error) {
	documents, total, err := s.documentRepository.FindAllByOwner(ownerID, skip, limit)
	if err != nil {
		return nil, err
	}
	resp := &dto.DocumentListResponse{
		Documents: make([]dto.DocumentResponse, 0, len(documents)),
		Total:     total,
	}
	for i := range documents {
		resp.Documents = append(resp.Documents, *s.toResponse(&documents[i]))
	}
	return resp, nil
}

func (s *documentService) UpdateDocument(id uint, req dto.UpdateDocumentRequest) (*dto.DocumentResponse, error) {
	document, err := s.findDocument(id)
	if err != nil {
		return nil, err
	}
	document.Filename = req.Filename
	if err := s.documentRepository.Update(document); err != nil {
		return nil, err
	}
	return s.toResponse(document), nil
}

func (s *documentService) DeleteDocument(ctx context.Context, id uint) error {
	document, err := s.findDocument(id)
	if err != nil {
		return err
	}
	if document.StorageKey != "" {
		if err := s.storage.Delete(ctx, document.StorageKey); err != nil {
			log.Warn().Err(err).Str("storage_key", document.StorageKey).Msg("Failed to delete stored object")
		}
	}
	return s.documentRepository.Delete(id)
}

func (s *documentService) findDocument(id uint) (*model.Document, error) {
	document, err := s.documentRepository.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return document, nil
}

func (s *documentService) toResponse(document *model.Document) *dto.DocumentResponse {
	var resp dto.DocumentResponse
	copier.Copy(&resp, document)
	resp.Status = string(document.Status)
	return &resp
}
