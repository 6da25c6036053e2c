package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// DocumentChunk is one bounded slice of a document's extracted text, embedded
// for retrieval. Rows are created in a batch by the ingestion pipeline and
// never updated afterwards.
type DocumentChunk struct {
	ID         uint             `gorm:"primarykey" json:"id"`
	DocumentID uint             `json:"document_id" gorm:"not null;index"`
	Text       string           `json:"text" gorm:"type:text;not null"`
	Size       int              `json:"size"` // character length of Text
	Embedding  *pgvector.Vector `json:"-" gorm:"type:vector(1536)"`
	Method     string           `json:"method" gorm:"default:'fixed-size'"`
	CreatedAt  time.Time        `json:"created_at"`
}
