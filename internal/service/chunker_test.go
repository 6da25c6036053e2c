package service

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNewChunkerValidation(t *testing.T) {
	tests := []struct {
		name      string
		chunkSize int
		overlap   int
		wantErr   bool
	}{
		{name: "valid", chunkSize: 100, overlap: 20, wantErr: false},
		{name: "zero overlap", chunkSize: 10, overlap: 0, wantErr: false},
		{name: "zero size", chunkSize: 0, overlap: 0, wantErr: true},
		{name: "negative overlap", chunkSize: 10, overlap: -1, wantErr: true},
		{name: "overlap equals size", chunkSize: 10, overlap: 10, wantErr: true},
		{name: "overlap exceeds size", chunkSize: 10, overlap: 20, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewChunker(tt.chunkSize, tt.overlap)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewChunker(%d, %d) error = %v, wantErr %v", tt.chunkSize, tt.overlap, err, tt.wantErr)
			}
		})
	}
}

func TestSplitEmptyText(t *testing.T) {
	c, _ := NewChunker(10, 2)
	if got := c.Split(""); got != nil {
		t.Fatalf("Split(\"\") = %v, want nil", got)
	}
}

func TestSplitShortText(t *testing.T) {
	c, _ := NewChunker(100, 20)
	chunks := c.Split("short text")
	if len(chunks) != 1 || chunks[0] != "short text" {
		t.Fatalf("Split returned %v, want the whole text as one chunk", chunks)
	}
}

func TestSplitOverlappingWindows(t *testing.T) {
	c, _ := NewChunker(10, 2)
	chunks := c.Split("A cat sat. A dog ran.")

	want := []string{"A cat sat.", "t. A dog r", " ran."}
	if len(chunks) != len(want) {
		t.Fatalf("got %d chunks %v, want %d", len(chunks), chunks, len(want))
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, chunks[i], want[i])
		}
	}
}

func TestSplitChunkSizes(t *testing.T) {
	c, _ := NewChunker(50, 10)
	text := strings.Repeat("lorem ipsum dolor sit amet ", 40)
	chunks := c.Split(text)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks[:len(chunks)-1] {
		if len(chunk) != 50 {
			t.Errorf("chunk %d has length %d, want 50", i, len(chunk))
		}
	}
	last := chunks[len(chunks)-1]
	if len(last) == 0 || len(last) > 50 {
		t.Errorf("last chunk has length %d, want 1..50", len(last))
	}
}

func TestSplitCoversWholeText(t *testing.T) {
	c, _ := NewChunker(30, 8)
	text := strings.Repeat("abcdefghij", 25)
	chunks := c.Split(text)

	// Merging consecutive chunks on their shared overlap must reconstruct
	// the input with nothing lost or duplicated.
	merged := chunks[0]
	for _, chunk := range chunks[1:] {
		n := 0
		for try := c.Overlap; try > 0; try-- {
			if strings.HasSuffix(merged, chunk[:try]) {
				n = try
				break
			}
		}
		merged += chunk[n:]
	}
	if merged != text {
		t.Fatalf("merged chunks do not reconstruct the input (got %d chars, want %d)", len(merged), len(text))
	}
}

func TestSplitPrefersParagraphBoundary(t *testing.T) {
	c, _ := NewChunker(10, 4)
	chunks := c.Split("aaaaaa\n\nbbbbbbbbbb")

	if len(chunks) != 2 {
		t.Fatalf("got %d chunks %v, want 2", len(chunks), chunks)
	}
	if chunks[1] != "bbbbbbbbbb" {
		t.Errorf("second chunk = %q, want it to start right after the paragraph break", chunks[1])
	}
}

func TestSplitKeepsMultiByteRunesIntact(t *testing.T) {
	c, _ := NewChunker(10, 2)
	text := "héllo wörld, thïs ïs a tèst of ünïcode chunkïng"
	chunks := c.Split(text)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if !utf8.ValidString(chunk) {
			t.Errorf("chunk %d = %q is not valid UTF-8", i, chunk)
		}
	}
	for i, chunk := range chunks[:len(chunks)-1] {
		if n := utf8.RuneCountInString(chunk); n != 10 {
			t.Errorf("chunk %d has %d runes, want 10", i, n)
		}
	}
}

func TestDefaultChunker(t *testing.T) {
	c := DefaultChunker()
	if c.ChunkSize != DefaultChunkSize || c.Overlap != DefaultChunkOverlap {
		t.Fatalf("DefaultChunker() = %+v, want size %d overlap %d", c, DefaultChunkSize, DefaultChunkOverlap)
	}
}
