package uploads

import (
	"context"
	"time"
)

// StatusPatch carries optional fields written together with a status
// transition. Nil pointers are left untouched.
type StatusPatch struct {
	Title           *string
	SizeBytes       *int64
	DurationMinutes *int
	ErrorMessage    *string
	StartedAt       *time.Time
	CompletedAt     *time.Time
}

// Repo defines persistence operations for the upload ledger.
// UpdateStatus is conditional: the row must currently hold the `from`
// status or ErrStatusConflict is returned and nothing changes.
type Repo interface {
	Create(ctx context.Context, upload Upload) error
	GetByID(ctx context.Context, uploadID string) (Upload, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Upload, error)
	UpdateStatus(ctx context.Context, uploadID, from, to string, patch StatusPatch) error
}
