package aicontent

import (
	"context"
	"sync"
)

// MemoryRepo stores content in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu       sync.RWMutex
	byUpload map[string]Content
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byUpload: make(map[string]Content)}
}

// Create stores the content, enforcing one row per upload.
func (r *MemoryRepo) Create(ctx context.Context, content Content) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byUpload[content.UploadID]; ok {
		return ErrExists
	}
	r.byUpload[content.UploadID] = content
	return nil
}

// GetByUploadID returns the content row for an upload.
func (r *MemoryRepo) GetByUploadID(ctx context.Context, uploadID string) (Content, error) {
	if err := ctx.Err(); err != nil {
		return Content{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	content, ok := r.byUpload[uploadID]
	if !ok {
		return Content{}, ErrNotFound
	}
	return content, nil
}

var _ Repo = (*MemoryRepo)(nil)
