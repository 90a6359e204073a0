package uploads

import "time"

// Source kinds for uploaded study material.
const (
	KindDocument = "document"
	KindVideo    = "video"
)

// Lifecycle statuses. Every record ends in completed or failed.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Upload is one row of the ingestion ledger.
type Upload struct {
	ID              string
	OwnerID         string
	SourceKind      string
	SourceLocator   string
	Title           string
	Status          string
	SizeBytes       int64
	DurationMinutes int
	ErrorMessage    *string
	CreatedAt       time.Time
	StartedAt       *time.Time
	CompletedAt     *time.Time
	UpdatedAt       time.Time
}
