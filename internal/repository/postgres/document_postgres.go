package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"docflow/internal/model"
	"docflow/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// sortColumns maps the closed SortColumn enum to SQL fragments. Order-by
// clauses are built only from these values, never from caller strings.
var sortColumns = map[repository.SortColumn]string{
	repository.SortByTitle:    "d.title",
	repository.SortByFileDate: "d.file_date",
	repository.SortByStatus:   "d.status",
}

// Create inserts a new document row and returns the generated id.
// Status and file_date come from the column defaults.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (int64, error) {
	const q = `
		INSERT INTO documents (title, file_data, file_name, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, q,
		doc.Title,
		doc.FileData,
		doc.FileName,
		doc.UserID,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// FindByID fetches document metadata by id, without the blob.
func (r *DocumentPostgres) FindByID(ctx context.Context, id int64) (*model.Document, error) {
	const q = `
		SELECT id, title, file_name, status, user_id, file_date
		FROM documents
		WHERE id = $1
	`
	var d model.Document
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID,
		&d.Title,
		&d.FileName,
		&d.Status,
		&d.UserID,
		&d.FileDate,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// List returns every document joined with its owning username, ordered per
// the validated query. The whole table is returned on every call.
func (r *DocumentPostgres) List(ctx context.Context, q repository.ListQuery) ([]model.DocumentSummary, error) {
	col, ok := sortColumns[q.SortBy]
	if !ok {
		col = sortColumns[repository.SortByFileDate]
	}
	dir := "DESC"
	if q.Order == repository.OrderAsc {
		dir = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT d.id, d.title, d.file_name, d.status, d.file_date, u.username
		FROM documents d
		JOIN users u ON d.user_id = u.id
		ORDER BY %s %s, d.id %s
	`, col, dir, dir)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.DocumentSummary, 0)
	for rows.Next() {
		var s model.DocumentSummary
		if err := rows.Scan(
			&s.ID,
			&s.Title,
			&s.FileName,
			&s.Status,
			&s.FileDate,
			&s.Owner,
		); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// UpdateStatus overwrites the status of the row matching id.
// A missing id affects zero rows and is not an error.
func (r *DocumentPostgres) UpdateStatus(ctx context.Context, id int64, status string) error {
	const q = `UPDATE documents SET status = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

// Delete removes a document by id. It does not return an error if the row does not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM documents WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

// FetchFile returns the stored bytes and original file name for a document.
func (r *DocumentPostgres) FetchFile(ctx context.Context, id int64) (*model.DocumentFile, error) {
	const q = `SELECT file_data, file_name FROM documents WHERE id = $1`
	var f model.DocumentFile
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&f.FileData, &f.FileName); err != nil {
		return nil, err
	}
	return &f, nil
}
