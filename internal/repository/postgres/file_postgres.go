package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"docexchange/internal/errs"
	"docexchange/internal/model"
	"docexchange/internal/repository"
)

// FilePostgres is a PostgreSQL implementation of repository.FileRepository.
// Handle and storage key uniqueness are enforced by table constraints.
type FilePostgres struct {
	db *sql.DB
}

// NewFilePostgres creates a new FilePostgres repository.
func NewFilePostgres(db *sql.DB) *FilePostgres {
	return &FilePostgres{db: db}
}

var _ repository.FileRepository = (*FilePostgres)(nil)

const fileColumns = `id, owner_id, display_name, storage_key, extension, size, content_type, handle, created_at`

// NextID reserves an id from the stored_files sequence.
func (r *FilePostgres) NextID(ctx context.Context) (int64, error) {
	const q = `SELECT nextval(pg_get_serial_sequence('stored_files', 'id'))`
	var id int64
	if err := r.db.QueryRowContext(ctx, q).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Create inserts a new file row and returns the stored record.
func (r *FilePostgres) Create(ctx context.Context, f *model.StoredFile) (*model.StoredFile, error) {
	const q = `
		INSERT INTO stored_files (id, owner_id, display_name, storage_key, extension, size, content_type, handle, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + fileColumns
	row := r.db.QueryRowContext(ctx, q,
		f.ID,
		f.OwnerID,
		f.DisplayName,
		f.StorageKey,
		f.Extension,
		f.Size,
		f.ContentType,
		f.Handle,
		f.CreatedAt,
	)
	out, err := scanFile(row)
	if err != nil {
		if uniqueConstraint(err) == constraintFileHandle {
			return nil, fmt.Errorf("insert file %d: %w", f.ID, errs.ErrDuplicateHandle)
		}
		return nil, err
	}
	return out, nil
}

// FindByID fetches a single file by its internal id.
func (r *FilePostgres) FindByID(ctx context.Context, id int64) (*model.StoredFile, error) {
	const q = `SELECT ` + fileColumns + ` FROM stored_files WHERE id = $1`
	f, err := scanFile(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, notFound(err, "file")
	}
	return f, nil
}

// FindByHandle fetches a single file by its opaque handle.
func (r *FilePostgres) FindByHandle(ctx context.Context, handle string) (*model.StoredFile, error) {
	const q = `SELECT ` + fileColumns + ` FROM stored_files WHERE handle = $1`
	f, err := scanFile(r.db.QueryRowContext(ctx, q, handle))
	if err != nil {
		return nil, notFound(err, "file")
	}
	return f, nil
}

// List returns files using LIMIT/OFFSET pagination and a total count.
func (r *FilePostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.StoredFile], error) {
	const qCount = `SELECT COUNT(*) FROM stored_files`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + fileColumns + `
		FROM stored_files
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.StoredFile, 0)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.StoredFile]{
		Items: items,
		Total: total,
	}, nil
}

// ListAfter pages with a (created_at, id) keyset so concurrent inserts do not shift later pages.
func (r *FilePostgres) ListAfter(ctx context.Context, last *model.StoredFile, limit int) ([]model.StoredFile, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if last == nil {
		const qFirst = `
			SELECT ` + fileColumns + `
			FROM stored_files
			ORDER BY created_at DESC, id DESC
			LIMIT $1
		`
		rows, err = r.db.QueryContext(ctx, qFirst, limit)
	} else {
		const qAfter = `
			SELECT ` + fileColumns + `
			FROM stored_files
			WHERE (created_at, id) < ($1, $2)
			ORDER BY created_at DESC, id DESC
			LIMIT $3
		`
		rows, err = r.db.QueryContext(ctx, qAfter, last.CreatedAt, last.ID, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.StoredFile, 0, limit)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *f)
	}
	return items, rows.Err()
}

func scanFile(row rowScanner) (*model.StoredFile, error) {
	var f model.StoredFile
	if err := row.Scan(
		&f.ID,
		&f.OwnerID,
		&f.DisplayName,
		&f.StorageKey,
		&f.Extension,
		&f.Size,
		&f.ContentType,
		&f.Handle,
		&f.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &f, nil
}
