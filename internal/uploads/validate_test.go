package uploads

import "testing"

func pdfSniff() []byte {
	return []byte("%PDF-1.4\n% some content")
}

func TestValidateDocumentAccepts(t *testing.T) {
	if err := ValidateDocument("application/pdf", pdfSniff(), 1024); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// parameterized declared types still count as PDF
	if err := ValidateDocument("application/pdf; charset=binary", pdfSniff(), 1024); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateDocumentRejectsDeclaredType(t *testing.T) {
	err := ValidateDocument("text/plain", pdfSniff(), 1024)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateDocumentRejectsSniffedType(t *testing.T) {
	err := ValidateDocument("application/pdf", []byte("just plain text here"), 1024)
	if err == nil || !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateDocumentSizeBounds(t *testing.T) {
	if err := ValidateDocument("application/pdf", pdfSniff(), 0); err == nil || !IsValidation(err) {
		t.Fatalf("expected validation error for empty file, got %v", err)
	}
	if err := ValidateDocument("application/pdf", pdfSniff(), MaxDocumentSizeBytes+1); err == nil || !IsValidation(err) {
		t.Fatalf("expected validation error for oversize file, got %v", err)
	}
	if err := ValidateDocument("application/pdf", pdfSniff(), MaxDocumentSizeBytes); err != nil {
		t.Fatalf("boundary size must be accepted: %v", err)
	}
}

func TestParseYouTubeID(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ?si=xyz", "dQw4w9WgXcQ"},
	}
	for _, tc := range cases {
		got, err := ParseYouTubeID(tc.url)
		if err != nil {
			t.Fatalf("ParseYouTubeID(%q): %v", tc.url, err)
		}
		if got != tc.want {
			t.Fatalf("ParseYouTubeID(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestParseYouTubeIDRejects(t *testing.T) {
	for _, url := range []string{
		"",
		"https://vimeo.com/12345",
		"https://example.com/watch?v=abc",
		"not a url",
	} {
		if _, err := ParseYouTubeID(url); err == nil || !IsValidation(err) {
			t.Fatalf("expected validation error for %q, got %v", url, err)
		}
	}
}
