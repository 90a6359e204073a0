package uploads

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

const (
	// PDFMimeType is the only accepted document type.
	PDFMimeType = "application/pdf"
	// MaxDocumentSizeBytes caps PDF submissions at 20 MiB.
	MaxDocumentSizeBytes = 20 * 1024 * 1024
	// MaxVideoDurationMinutes caps videos once the provider reports a duration.
	MaxVideoDurationMinutes = 30
)

var youtubeIDPattern = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([^&\n?#]+)`)

// ValidateDocument checks the declared type, sniffed type, and size of a
// PDF submission. sniff holds at most the first 512 bytes of the payload.
func ValidateDocument(declaredMime string, sniff []byte, sizeBytes int64) error {
	declared := strings.ToLower(strings.TrimSpace(strings.Split(declaredMime, ";")[0]))
	if declared != PDFMimeType {
		return &ValidationError{Reason: "only PDF files are supported"}
	}
	if sizeBytes <= 0 {
		return &ValidationError{Reason: "file is empty"}
	}
	if sizeBytes > MaxDocumentSizeBytes {
		return &ValidationError{Reason: fmt.Sprintf("PDF files must be %d MB or smaller", MaxDocumentSizeBytes/(1024*1024))}
	}
	if detected := http.DetectContentType(sniff); detected != PDFMimeType {
		return &ValidationError{Reason: "file content is not a PDF"}
	}
	return nil
}

// ParseYouTubeID extracts the video ID from a watch or short URL.
func ParseYouTubeID(url string) (string, error) {
	match := youtubeIDPattern.FindStringSubmatch(strings.TrimSpace(url))
	if match == nil || match[1] == "" {
		return "", &ValidationError{Reason: "invalid YouTube URL"}
	}
	return match[1], nil
}
