package model

import (
	"time"
)

type DocumentStatus string

const (
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusReady      DocumentStatus = "ready"
	DocumentStatusFailed     DocumentStatus = "failed"
)

// Document is an uploaded study file. Status starts at "processing" and is moved
// to "ready" or "failed" exclusively by the ingestion pipeline; both are terminal.
type Document struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	OwnerID         uint            `json:"owner_id" gorm:"not null;index"`
	Filename        string          `json:"filename" gorm:"not null"`
	StorageKey      string          `json:"storage_key" gorm:"size:1024"`
	StorageURL      string          `json:"storage_url,omitempty"`
	ContentType     string          `json:"content_type,omitempty"`
	Size            int64           `json:"size,omitempty"`
	Status          DocumentStatus  `json:"status" gorm:"not null;default:'processing'"`
	ExtractedText   *string         `json:"extracted_text,omitempty" gorm:"type:text"`
	ChunkCount      int             `json:"chunk_count"`
	ProcessingError *string         `json:"processing_error,omitempty" gorm:"type:text"`
	Chunks          []DocumentChunk `json:"-" gorm:"foreignKey:DocumentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
