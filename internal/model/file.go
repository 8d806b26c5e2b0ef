package model

import "time"

// StoredFile represents an uploaded document.
// Handle is the opaque identifier used for all external addressing; ID is internal.
type StoredFile struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"user"`
	DisplayName string    `json:"file_name"`
	StorageKey  string    `json:"file_content"`
	Extension   string    `json:"-"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	Handle      string    `json:"file_identifier"`
	CreatedAt   time.Time `json:"upload_timestamp"`
}
