package repository

import (
	"context"

	"docflow/internal/model"
)

// SortColumn is the closed set of columns a document listing may be ordered by.
// Values outside this set never reach SQL; the service normalizes caller input
// before building a ListQuery.
type SortColumn string

const (
	SortByTitle    SortColumn = "title"
	SortByFileDate SortColumn = "file_date"
	SortByStatus   SortColumn = "status"
)

// SortOrder is the sort direction for a document listing.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// ListQuery holds validated ordering parameters for List.
type ListQuery struct {
	SortBy SortColumn
	Order  SortOrder
}

// DocumentRepository defines data access for documents using SQL queries only.
// No business logic here — strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document row. Status and file date come from the
	// schema defaults. Returns the generated id.
	Create(ctx context.Context, doc *model.Document) (int64, error)

	// FindByID returns document metadata (no blob) by its id.
	// Returns sql.ErrNoRows when the row does not exist.
	FindByID(ctx context.Context, id int64) (*model.Document, error)

	// List returns every document joined with its owning username,
	// ordered per the query. No pagination.
	List(ctx context.Context, q ListQuery) ([]model.DocumentSummary, error)

	// UpdateStatus overwrites the status of the row matching id.
	// A missing id is a no-op, not an error.
	UpdateStatus(ctx context.Context, id int64, status string) error

	// Delete removes a document by id. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id int64) error

	// FetchFile returns the stored bytes and file name for a document.
	// Returns sql.ErrNoRows when the row does not exist.
	FetchFile(ctx context.Context, id int64) (*model.DocumentFile, error)
}
