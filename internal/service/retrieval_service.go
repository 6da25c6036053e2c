package service

import (
	"context"
	"math"
	"sort"

	"studyforge/internal/model"
	"studyforge/internal/repository"
)

// DefaultTopK is the number of chunks returned when the caller does not ask
// for a specific count.
const DefaultTopK = 4

// RetrievalService ranks stored chunks against a query vector and returns the
// text of the closest ones, scoped to the given documents.
type RetrievalService interface {
	Retrieve(ctx context.Context, documentIDs []uint, queryEmbedding []float32, k int) ([]string, error)
}

type retrievalService struct {
	chunkRepository repository.ChunkRepository
}

func NewRetrievalService(chunkRepository repository.ChunkRepository) RetrievalService {
	return &retrievalService{chunkRepository: chunkRepository}
}

func (s *retrievalService) Retrieve(ctx context.Context, documentIDs []uint, queryEmbedding []float32, k int) ([]string, error) {
	if len(documentIDs) == 0 {
		return nil, nil
	}
	if k <= 0 {
		k = DefaultTopK
	}

	chunks, err := s.chunkRepository.FindByDocumentIDs(documentIDs)
	if err != nil {
		return nil, err
	}

	type scored struct {
		chunk    model.DocumentChunk
		distance float64
	}
	candidates := make([]scored, 0, len(chunks))
	for _, c := range chunks {
		if c.Embedding == nil {
			continue
		}
		candidates = append(candidates, scored{
			chunk:    c,
			distance: cosineDistance(queryEmbedding, c.Embedding.Slice()),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	if k > len(candidates) {
		k = len(candidates)
	}
	texts := make([]string, 0, k)
	for _, c := range candidates[:k] {
		texts = append(texts, c.chunk.Text)
	}
	return texts, nil
}

// cosineDistance returns 1 - cos(a, b). Zero-norm vectors are treated as
// maximally distant.
func cosineDistance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1.0
	}
	return 1.0 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
