package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"studyforge/internal/model"
	"studyforge/internal/repository"
)

// IngestionService turns an uploaded object into ready-to-query chunks:
// fetch, extract, split, embed, persist. The document finishes in "ready" or
// "failed"; nothing else moves it out of "processing".
type IngestionService interface {
	Ingest(ctx context.Context, documentID uint) error
}

type ingestionService struct {
	db                 *gorm.DB
	documentRepository repository.DocumentRepository
	chunkRepository    repository.ChunkRepository
	storage            ObjectStorage
	extractor          TextExtractor
	chunker            *Chunker
	embedder           EmbeddingService
}

func NewIngestionService(
	db *gorm.DB,
	documentRepository repository.DocumentRepository,
	chunkRepository repository.ChunkRepository,
	storage ObjectStorage,
	extractor TextExtractor,
	embedder EmbeddingService,
) IngestionService {
	return &ingestionService{
		db:                 db,
		documentRepository: documentRepository,
		chunkRepository:    chunkRepository,
		storage:            storage,
		extractor:          extractor,
		chunker:            DefaultChunker(),
		embedder:           embedder,
	}
}

func (s *ingestionService) Ingest(ctx context.Context, documentID uint) error {
	document, err := s.documentRepository.FindByID(documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		return err
	}

	log.Info().Uint("document_id", document.ID).Str("filename", document.Filename).Msg("Starting document ingestion")

	if err := s.run(ctx, document); err != nil {
		log.Error().Err(err).Uint("document_id", document.ID).Msg("Document ingestion failed")
		msg := err.Error()
		document.Status = model.DocumentStatusFailed
		document.ProcessingError = &msg
		if updateErr := s.documentRepository.Update(document); updateErr != nil {
			log.Error().Err(updateErr).Uint("document_id", document.ID).Msg("Failed to record ingestion failure")
		}
		return err
	}

	log.Info().Uint("document_id", document.ID).Int("chunks", document.ChunkCount).Msg("Document ingestion complete")
	return nil
}

func (s *ingestionService) run(ctx context.Context, document *model.Document) error {
	data, err := s.storage.Fetch(ctx, document.StorageKey)
	if err != nil {
		return fmt.Errorf("failed to fetch stored object: %w", err)
	}

	text, err := s.extractor.Extract(data, document.Filename)
	if err != nil {
		return err
	}

	pieces := s.chunker.Split(text)
	if len(pieces) == 0 {
		return fmt.Errorf("document produced no text to chunk")
	}

	vectors, err := s.embedder.EmbedMany(ctx, pieces)
	if err != nil {
		return fmt.Errorf("failed to embed chunks: %w", err)
	}

	chunks := make([]model.DocumentChunk, len(pieces))
	for i, piece := range pieces {
		embedding := pgvector.NewVector(vectors[i])
		chunks[i] = model.DocumentChunk{
			DocumentID: document.ID,
			Text:       piece,
			Size:       len(piece),
			Embedding:  &embedding,
			Method:     ChunkMethodFixedSize,
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.chunkRepository.CreateBatch(tx, chunks); err != nil {
			return fmt.Errorf("failed to persist chunks: %w", err)
		}
		document.Status = model.DocumentStatusReady
		document.ExtractedText = &text
		document.ChunkCount = len(chunks)
		document.ProcessingError = nil
		return tx.Save(document).Error
	})
}
