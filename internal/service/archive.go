package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"docflow/internal/repository"
	"docflow/internal/storage"
)

// ArchiveService copies every stored document blob into object storage
// under a timestamped prefix. The database stays the source of truth; the
// snapshot is an offline backup.
type ArchiveService interface {
	Run(ctx context.Context) (int, error)
}

type archiveService struct {
	docRepo repository.DocumentRepository
	store   storage.Storage
	now     func() time.Time
}

func NewArchiveService(docRepo repository.DocumentRepository, store storage.Storage) ArchiveService {
	return &archiveService{docRepo: docRepo, store: store, now: time.Now}
}

// Run snapshots all documents and returns how many objects were written.
// It stops at the first failure so a partial prefix is never mistaken for a
// complete snapshot.
func (s *archiveService) Run(ctx context.Context) (int, error) {
	docs, err := s.docRepo.List(ctx, repository.ListQuery{
		SortBy: repository.SortByFileDate,
		Order:  repository.OrderAsc,
	})
	if err != nil {
		return 0, fmt.Errorf("list documents: %w", err)
	}

	prefix := "archive/" + s.now().UTC().Format("20060102T150405Z")

	for i, doc := range docs {
		f, err := s.docRepo.FetchFile(ctx, doc.ID)
		if err != nil {
			return i, fmt.Errorf("fetch document %d: %w", doc.ID, err)
		}

		key := fmt.Sprintf("%s/%d_%s", prefix, doc.ID, f.FileName)
		_, err = s.store.Put(ctx, key, bytes.NewReader(f.FileData), storage.PutOptions{
			Size:        int64(len(f.FileData)),
			ContentType: "application/octet-stream",
			Metadata: map[string]string{
				"document-id": strconv.FormatInt(doc.ID, 10),
				"title":       doc.Title,
				"status":      doc.Status,
				"owner":       doc.Owner,
			},
		})
		if err != nil {
			return i, fmt.Errorf("store document %d: %w", doc.ID, err)
		}
	}

	return len(docs), nil
}
