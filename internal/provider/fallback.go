package provider

import (
	"context"
	"fmt"
)

const (
	fallbackDocumentSummary = "Great content uploaded! Betam gobez! This material contains valuable information for your studies."
	fallbackVideoSummary    = "Wayz ena! Great video choice! This content has valuable educational material for your studies."
	fallbackChatResponse    = "Selam! I'm having trouble connecting right now. Please try again! Gobez neh!"
)

// FallbackExtractor produces deterministic placeholder text when no real
// extraction is possible. Duration is always reported as unknown.
type FallbackExtractor struct{}

func (FallbackExtractor) ExtractDocument(ctx context.Context, input DocumentInput) (ExtractResult, error) {
	if err := ctx.Err(); err != nil {
		return ExtractResult{}, err
	}
	text := fmt.Sprintf("Content extracted from %s. The document could not be parsed, so this placeholder stands in for its text.", input.FileName)
	return ExtractResult{Text: text}, nil
}

func (FallbackExtractor) ExtractVideo(ctx context.Context, input VideoInput) (ExtractResult, error) {
	if err := ctx.Err(); err != nil {
		return ExtractResult{}, err
	}
	text := fmt.Sprintf("Transcript for YouTube video %s is unavailable. The video was recorded in the library without its spoken content.", input.VideoID)
	return ExtractResult{
		Text:  text,
		Title: "YouTube Video " + input.VideoID,
	}, nil
}

// FallbackSummarizer returns a canned encouragement keyed by source kind.
type FallbackSummarizer struct{}

func (FallbackSummarizer) Summarize(ctx context.Context, input SummarizeInput) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if input.SourceKind == SourceVideo {
		return fallbackVideoSummary, nil
	}
	return fallbackDocumentSummary, nil
}

// FallbackResponder keeps the chat surface alive when the provider is down.
type FallbackResponder struct{}

func (FallbackResponder) Respond(ctx context.Context, input RespondInput) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return fallbackChatResponse, nil
}

var (
	_ Extractor  = FallbackExtractor{}
	_ Summarizer = FallbackSummarizer{}
	_ Responder  = FallbackResponder{}
)
