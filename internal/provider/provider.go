package provider

import "context"

// DocumentInput carries a stored document payload for extraction.
type DocumentInput struct {
	FileName string
	MimeType string
	Data     []byte
}

// VideoInput identifies a video to transcribe.
type VideoInput struct {
	VideoID string
	URL     string
}

// ExtractResult is the output of an extraction call. DurationMinutes is
// zero when the provider cannot determine it.
type ExtractResult struct {
	Text            string
	Title           string
	DurationMinutes int
}

// Source kinds accepted by Summarize.
const (
	SourceDocument = "document"
	SourceVideo    = "video"
)

// SummarizeInput carries extracted text to be summarized.
type SummarizeInput struct {
	Text       string
	SourceName string
	SourceKind string
}

// RespondInput carries a chat message with optional grounding context.
type RespondInput struct {
	Message string
	Context string
}

// Extractor pulls raw text out of a source artifact.
type Extractor interface {
	ExtractDocument(ctx context.Context, input DocumentInput) (ExtractResult, error)
	ExtractVideo(ctx context.Context, input VideoInput) (ExtractResult, error)
}

// Summarizer produces a study summary from extracted text.
type Summarizer interface {
	Summarize(ctx context.Context, input SummarizeInput) (string, error)
}

// Responder answers a conversational message.
type Responder interface {
	Respond(ctx context.Context, input RespondInput) (string, error)
}
