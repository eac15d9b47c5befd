package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"docflow/internal/model"
	"docflow/internal/repository"
)

var (
	ErrNotFound            = errors.New("document not found")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrExtensionNotAllowed = errors.New("file type is not allowed")
	ErrFileRequired        = errors.New("file name and content are required")
	ErrTitleRequired       = errors.New("title is required")
)

// DocumentService defines the use cases for handling documents.
// Role gating for status changes stays in the handler layer; the delete
// ownership policy lives here.
type DocumentService interface {
	// List returns every document with its owning username. sortBy and order
	// are free-form caller input, normalized against the allow-lists
	// {title, file_date, status} and {asc, desc}; anything else falls back
	// to file_date descending.
	List(ctx context.Context, sortBy, order string) ([]model.DocumentSummary, error)

	// Upload stores a new document owned by ownerID. The file extension must
	// be on the configured allow-list. Returns the new document id.
	Upload(ctx context.Context, title, fileName string, data []byte, ownerID int64) (int64, error)

	// ChangeStatus overwrites the status of the given document.
	// A missing id is a no-op.
	ChangeStatus(ctx context.Context, id int64, status string) error

	// Delete removes a document. Only the owner or an admin may delete;
	// deleting a missing document succeeds as a no-op.
	Delete(ctx context.Context, id int64, actor *model.User) error

	// Download returns the stored bytes and file name, or ErrNotFound.
	Download(ctx context.Context, id int64) (*model.DocumentFile, error)
}

type documentService struct {
	repo       repository.DocumentRepository
	allowedExt map[string]struct{}
}

// NewDocumentService constructs a new DocumentService. allowedExtensions are
// lowercase extensions without the leading dot.
func NewDocumentService(repo repository.DocumentRepository, allowedExtensions []string) DocumentService {
	allowed := make(map[string]struct{}, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		allowed[strings.ToLower(ext)] = struct{}{}
	}
	return &documentService{repo: repo, allowedExt: allowed}
}

// NormalizeSort maps arbitrary caller strings to the closed sort enums,
// applying the documented defaults (file_date, desc).
func NormalizeSort(sortBy, order string) repository.ListQuery {
	q := repository.ListQuery{
		SortBy: repository.SortByFileDate,
		Order:  repository.OrderDesc,
	}
	switch repository.SortColumn(sortBy) {
	case repository.SortByTitle, repository.SortByFileDate, repository.SortByStatus:
		q.SortBy = repository.SortColumn(sortBy)
	}
	if repository.SortOrder(order) == repository.OrderAsc {
		q.Order = repository.OrderAsc
	}
	return q
}

func (s *documentService) List(ctx context.Context, sortBy, order string) ([]model.DocumentSummary, error) {
	items, err := s.repo.List(ctx, NormalizeSort(sortBy, order))
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return items, nil
}

func (s *documentService) Upload(ctx context.Context, title, fileName string, data []byte, ownerID int64) (int64, error) {
	if strings.TrimSpace(title) == "" {
		return 0, ErrTitleRequired
	}
	if fileName == "" || len(data) == 0 {
		return 0, ErrFileRequired
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	if _, ok := s.allowedExt[ext]; !ok {
		return 0, ErrExtensionNotAllowed
	}

	id, err := s.repo.Create(ctx, &model.Document{
		Title:    title,
		FileData: data,
		FileName: fileName,
		UserID:   ownerID,
	})
	if err != nil {
		return 0, fmt.Errorf("create document: %w", err)
	}
	return id, nil
}

func (s *documentService) ChangeStatus(ctx context.Context, id int64, status string) error {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return nil
}

func (s *documentService) Delete(ctx context.Context, id int64, actor *model.User) error {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Deleting a missing document is a no-op, matching UpdateStatus.
			return nil
		}
		return fmt.Errorf("find document: %w", err)
	}

	if !actor.IsAdmin() && doc.UserID != actor.ID {
		return ErrPermissionDenied
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (s *documentService) Download(ctx context.Context, id int64) (*model.DocumentFile, error) {
	f, err := s.repo.FetchFile(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch file: %w", err)
	}
	return f, nil
}
