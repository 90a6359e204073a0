package uploads

import "time"

// UploadResponse is the outward-facing representation of a ledger row.
type UploadResponse struct {
	UploadID        string     `json:"uploadId"`
	SourceKind      string     `json:"sourceKind"`
	Title           string     `json:"title"`
	Status          string     `json:"status"`
	SizeBytes       int64      `json:"sizeBytes,omitempty"`
	DurationMinutes int        `json:"durationMinutes,omitempty"`
	ErrorMessage    *string    `json:"errorMessage,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	StartedAt       *time.Time `json:"startedAt,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
}

func toResponse(upload Upload) UploadResponse {
	return UploadResponse{
		UploadID:        upload.ID,
		SourceKind:      upload.SourceKind,
		Title:           upload.Title,
		Status:          upload.Status,
		SizeBytes:       upload.SizeBytes,
		DurationMinutes: upload.DurationMinutes,
		ErrorMessage:    upload.ErrorMessage,
		CreatedAt:       upload.CreatedAt,
		StartedAt:       upload.StartedAt,
		CompletedAt:     upload.CompletedAt,
	}
}
