package uploads

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores uploads in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu      sync.RWMutex
	byID    map[string]Upload
	byOwner map[string][]string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:    make(map[string]Upload),
		byOwner: make(map[string][]string),
	}
}

// Create stores the upload.
func (r *MemoryRepo) Create(ctx context.Context, upload Upload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[upload.ID] = upload
	r.byOwner[upload.OwnerID] = append(r.byOwner[upload.OwnerID], upload.ID)
	return nil
}

// GetByID returns an upload by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, uploadID string) (Upload, error) {
	if err := ctx.Err(); err != nil {
		return Upload{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	upload, ok := r.byID[uploadID]
	if !ok {
		return Upload{}, ErrNotFound
	}
	return upload, nil
}

// ListByOwner returns an owner's uploads, newest first, with limit/offset.
func (r *MemoryRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Upload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	ids := r.byOwner[ownerID]
	uploads := make([]Upload, 0, len(ids))
	for _, id := range ids {
		uploads = append(uploads, r.byID[id])
	}
	r.mu.RUnlock()

	sort.Slice(uploads, func(i, j int) bool {
		return uploads[i].CreatedAt.After(uploads[j].CreatedAt)
	})

	if offset >= len(uploads) {
		return []Upload{}, nil
	}
	end := len(uploads)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return uploads[offset:end], nil
}

// UpdateStatus performs the conditional transition and applies the patch.
func (r *MemoryRepo) UpdateStatus(ctx context.Context, uploadID, from, to string, patch StatusPatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	upload, ok := r.byID[uploadID]
	if !ok {
		return ErrNotFound
	}
	if upload.Status != from {
		return ErrStatusConflict
	}

	upload.Status = to
	if patch.Title != nil {
		upload.Title = *patch.Title
	}
	if patch.SizeBytes != nil {
		upload.SizeBytes = *patch.SizeBytes
	}
	if patch.DurationMinutes != nil {
		upload.DurationMinutes = *patch.DurationMinutes
	}
	if patch.ErrorMessage != nil {
		upload.ErrorMessage = patch.ErrorMessage
	}
	if patch.StartedAt != nil {
		upload.StartedAt = patch.StartedAt
	}
	if patch.CompletedAt != nil {
		upload.CompletedAt = patch.CompletedAt
	}
	upload.UpdatedAt = time.Now().UTC()
	r.byID[uploadID] = upload
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
