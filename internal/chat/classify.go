package chat

import "strings"

// ResponseType tells the client how to render a reply.
type ResponseType string

const (
	TypeText       ResponseType = "text"
	TypeSummary    ResponseType = "summary"
	TypeQuiz       ResponseType = "quiz"
	TypeFlashcards ResponseType = "flashcards"
)

// Classify maps a student message to a response type by keyword.
func Classify(message string) ResponseType {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "quiz") || strings.Contains(lower, "test"):
		return TypeQuiz
	case strings.Contains(lower, "flashcard") || strings.Contains(lower, "memorize"):
		return TypeFlashcards
	case strings.Contains(lower, "summary") || strings.Contains(lower, "summarize"):
		return TypeSummary
	default:
		return TypeText
	}
}
