package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestFallbackExtractorDocument(t *testing.T) {
	res, err := FallbackExtractor{}.ExtractDocument(context.Background(), DocumentInput{FileName: "notes.pdf"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(res.Text, "notes.pdf") {
		t.Fatalf("expected file name in placeholder text, got %q", res.Text)
	}
	if res.DurationMinutes != 0 {
		t.Fatalf("expected unknown duration, got %d", res.DurationMinutes)
	}
}

func TestFallbackExtractorVideo(t *testing.T) {
	res, err := FallbackExtractor{}.ExtractVideo(context.Background(), VideoInput{VideoID: "dQw4w9WgXcQ"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(res.Text, "dQw4w9WgXcQ") {
		t.Fatalf("expected video id in placeholder text, got %q", res.Text)
	}
	if res.Title != "YouTube Video dQw4w9WgXcQ" {
		t.Fatalf("unexpected title: %q", res.Title)
	}
	if res.DurationMinutes != 0 {
		t.Fatalf("expected unknown duration, got %d", res.DurationMinutes)
	}
}

func TestFallbackSummarizerByKind(t *testing.T) {
	doc, err := FallbackSummarizer{}.Summarize(context.Background(), SummarizeInput{SourceKind: SourceDocument})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(doc, "Betam gobez") {
		t.Fatalf("unexpected document summary: %q", doc)
	}

	video, err := FallbackSummarizer{}.Summarize(context.Background(), SummarizeInput{SourceKind: SourceVideo})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(video, "Wayz ena") {
		t.Fatalf("unexpected video summary: %q", video)
	}
}

func TestIsSoft(t *testing.T) {
	soft := &SoftError{Status: 503, Reason: "overloaded"}
	if !IsSoft(soft) {
		t.Fatalf("expected SoftError to be soft")
	}
	if !IsSoft(fmt.Errorf("summarize: %w", soft)) {
		t.Fatalf("expected wrapped SoftError to be soft")
	}
	if IsSoft(errors.New("credential missing")) {
		t.Fatalf("plain error must not be soft")
	}
	if IsSoft(nil) {
		t.Fatalf("nil must not be soft")
	}
}
