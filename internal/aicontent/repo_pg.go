package aicontent

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a content row. The unique index on upload_id keeps the
// one-row-per-upload invariant when two workers race.
func (r *PGRepo) Create(ctx context.Context, content Content) error {
	const query = `
INSERT INTO ai_content (
    id,
    upload_id,
    owner_id,
    content_type,
    raw_content,
    summary,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		content.ID,
		content.UploadID,
		content.OwnerID,
		content.ContentType,
		content.RawContent,
		content.Summary,
		content.CreatedAt,
	)
	if err != nil && isUniqueViolation(err) {
		return ErrExists
	}
	return err
}

// GetByUploadID returns the content row for an upload.
func (r *PGRepo) GetByUploadID(ctx context.Context, uploadID string) (Content, error) {
	const query = `
SELECT id, upload_id, owner_id, content_type, raw_content, summary, created_at
FROM ai_content
WHERE upload_id = $1`

	var content Content
	err := r.DB.QueryRowContext(ctx, query, uploadID).Scan(
		&content.ID,
		&content.UploadID,
		&content.OwnerID,
		&content.ContentType,
		&content.RawContent,
		&content.Summary,
		&content.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Content{}, ErrNotFound
		}
		return Content{}, err
	}
	return content, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "duplicate key")
}

var _ Repo = (*PGRepo)(nil)
