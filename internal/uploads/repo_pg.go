package uploads

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new upload row.
func (r *PGRepo) Create(ctx context.Context, upload Upload) error {
	const query = `
INSERT INTO user_uploads (
    id,
    owner_id,
    source_kind,
    source_locator,
    title,
    status,
    size_bytes,
    duration_minutes,
    error_message,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	var errMsg sql.NullString
	if upload.ErrorMessage != nil {
		errMsg = sql.NullString{String: *upload.ErrorMessage, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		upload.ID,
		upload.OwnerID,
		upload.SourceKind,
		upload.SourceLocator,
		upload.Title,
		upload.Status,
		upload.SizeBytes,
		upload.DurationMinutes,
		errMsg,
		upload.CreatedAt,
		upload.CreatedAt,
	)
	return err
}

const selectColumns = `
SELECT id, owner_id, source_kind, source_locator, title, status, size_bytes, duration_minutes, error_message, created_at, started_at, completed_at, updated_at`

// GetByID returns an upload by its ID.
func (r *PGRepo) GetByID(ctx context.Context, uploadID string) (Upload, error) {
	query := selectColumns + `
FROM user_uploads
WHERE id = $1`

	row := r.DB.QueryRowContext(ctx, query, uploadID)
	upload, err := scanUpload(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Upload{}, ErrNotFound
		}
		return Upload{}, err
	}
	return upload, nil
}

// ListByOwner returns an owner's uploads, newest first.
func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Upload, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := selectColumns + `
FROM user_uploads
WHERE owner_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	uploads := []Upload{}
	for rows.Next() {
		upload, err := scanUpload(rows)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, upload)
	}
	return uploads, rows.Err()
}

// UpdateStatus performs the conditional transition in a single statement.
// Zero rows affected with an existing row means the status moved underneath
// us, which surfaces as ErrStatusConflict.
func (r *PGRepo) UpdateStatus(ctx context.Context, uploadID, from, to string, patch StatusPatch) error {
	const query = `
UPDATE user_uploads
SET status = $3,
    title = COALESCE($4, title),
    size_bytes = COALESCE($5, size_bytes),
    duration_minutes = COALESCE($6, duration_minutes),
    error_message = COALESCE($7, error_message),
    started_at = COALESCE($8, started_at),
    completed_at = COALESCE($9, completed_at),
    updated_at = $10
WHERE id = $1 AND status = $2`

	res, err := r.DB.ExecContext(
		ctx,
		query,
		uploadID,
		from,
		to,
		patch.Title,
		patch.SizeBytes,
		patch.DurationMinutes,
		patch.ErrorMessage,
		patch.StartedAt,
		patch.CompletedAt,
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	if _, err := r.GetByID(ctx, uploadID); err != nil {
		return err
	}
	return ErrStatusConflict
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUpload(row rowScanner) (Upload, error) {
	var upload Upload
	var errMsg sql.NullString
	var startedAt, completedAt sql.NullTime
	err := row.Scan(
		&upload.ID,
		&upload.OwnerID,
		&upload.SourceKind,
		&upload.SourceLocator,
		&upload.Title,
		&upload.Status,
		&upload.SizeBytes,
		&upload.DurationMinutes,
		&errMsg,
		&upload.CreatedAt,
		&startedAt,
		&completedAt,
		&upload.UpdatedAt,
	)
	if err != nil {
		return Upload{}, err
	}
	if errMsg.Valid {
		upload.ErrorMessage = &errMsg.String
	}
	if startedAt.Valid {
		upload.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		upload.CompletedAt = &completedAt.Time
	}
	return upload, nil
}

var _ Repo = (*PGRepo)(nil)
