package aicontent

import "time"

// Content type values, one per source kind.
const (
	TypeDocumentSummary        = "document_summary"
	TypeVideoTranscriptSummary = "video_transcript_summary"
)

// Content is the AI-generated annotation attached to a completed upload.
// There is at most one row per upload.
type Content struct {
	ID          string
	UploadID    string
	OwnerID     string
	ContentType string
	RawContent  string
	Summary     string
	CreatedAt   time.Time
}
