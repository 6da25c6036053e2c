package service

import (
	"fmt"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200

	// ChunkMethodFixedSize tags chunk rows with the strategy that produced them.
	ChunkMethodFixedSize = "fixed-size"
)

// Chunker splits extracted text into fixed-size overlapping windows. Each
// window (except the last) is exactly ChunkSize characters; consecutive
// windows share at most Overlap characters. When a paragraph boundary falls
// inside the overlap region, the next window starts right after it so chunks
// tend to open on paragraph starts.
type Chunker struct {
	ChunkSize int
	Overlap   int
}

func NewChunker(chunkSize, overlap int) (*Chunker, error) {
	if chunkSize < 1 {
		return nil, fmt.Errorf("chunk size must be at least 1, got %d", chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("overlap must satisfy 0 <= overlap < chunk size, got %d", overlap)
	}
	return &Chunker{ChunkSize: chunkSize, Overlap: overlap}, nil
}

func DefaultChunker() *Chunker {
	return &Chunker{ChunkSize: DefaultChunkSize, Overlap: DefaultChunkOverlap}
}

// Split returns the chunks for text, in order. Empty input yields no chunks.
// Sizes and offsets count runes, not bytes, so multi-byte text is never cut
// mid-character.
func (c *Chunker) Split(text string) []string {
	if len(text) == 0 {
		return nil
	}

	runes := []rune(text)
	var chunks []string
	start := 0
	for {
		end := start + c.ChunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			return chunks
		}
		chunks = append(chunks, string(runes[start:end]))

		next := end - c.Overlap
		// Prefer to open the next chunk on a paragraph boundary when one falls
		// inside the overlap region.
		for i := end - 2; i >= next; i-- {
			if runes[i] == '\n' && runes[i+1] == '\n' {
				if i+2 < end {
					next = i + 2
				}
				break
			}
		}
		if next <= start {
			next = start + 1
		}
		start = next
	}
}
