package model

import "time"

// StatusDraft is the workflow status assigned to newly uploaded documents.
// Status is free-form beyond this default; admins may set any label and
// no transition graph is enforced.
const StatusDraft = "Draft"

// Document represents a stored file in the system.
// This is a pure domain model with no database-specific dependencies or tags.
// FileData carries the full binary content; use DocumentSummary for listings.
type Document struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	FileData []byte    `json:"-"`
	FileName string    `json:"file_name"`
	Status   string    `json:"status"`
	UserID   int64     `json:"user_id"`
	FileDate time.Time `json:"file_date"`
}

// DocumentSummary is one row of the document listing: document metadata
// joined with the owning username, without the blob.
type DocumentSummary struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	FileName string    `json:"file_name"`
	Status   string    `json:"status"`
	FileDate time.Time `json:"file_date"`
	Owner    string    `json:"owner"`
}

// DocumentFile is the payload returned for downloads: the stored bytes
// and the original file name supplied at upload time.
type DocumentFile struct {
	FileName string
	FileData []byte
}
