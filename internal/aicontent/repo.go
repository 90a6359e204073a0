package aicontent

import "context"

// Repo defines persistence operations for AI content.
type Repo interface {
	Create(ctx context.Context, content Content) error
	GetByUploadID(ctx context.Context, uploadID string) (Content, error)
}
