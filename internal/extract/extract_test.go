package extract

import (
	"context"
	"testing"
)

func TestPDFTextEmptyData(t *testing.T) {
	if _, err := PDFText(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty data")
	}
}

func TestPDFTextInvalidData(t *testing.T) {
	if _, err := PDFText(context.Background(), []byte("this is not a pdf")); err == nil {
		t.Fatalf("expected error for invalid data")
	}
}

func TestPDFTextCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := PDFText(ctx, []byte("%PDF-1.4")); err == nil {
		t.Fatalf("expected context error")
	}
}
