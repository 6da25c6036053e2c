package dto

import "time"

type DocumentResponse struct {
	ID              uint      `json:"id"`
	OwnerID         uint      `json:"owner_id"`
	Filename        string    `json:"filename"`
	ContentType     string    `json:"content_type,omitempty"`
	Size            int64     `json:"size,omitempty"`
	Status          string    `json:"status"`
	ChunkCount      int       `json:"chunk_count"`
	ProcessingError *string   `json:"processing_error,omitempty"`
	StorageURL      string    `json:"storage_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type DocumentListResponse struct {
	Documents []DocumentResponse `json:"documents"`
	Total     int64              `json:"total"`
}

// UpdateDocumentRequest only allows renaming; content and status are owned by
// the ingestion pipeline.
type UpdateDocumentRequest struct {
	Filename string `json:"filename" binding:"required"`
}
