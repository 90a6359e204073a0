package chat

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		message string
		want    ResponseType
	}{
		{"give me a quiz on chapter 2", TypeQuiz},
		{"Test my knowledge please", TypeQuiz},
		{"make flashcards for these terms", TypeFlashcards},
		{"help me memorize the formulas", TypeFlashcards},
		{"can you summarize this?", TypeSummary},
		{"I want a summary of the video", TypeSummary},
		{"explain photosynthesis", TypeText},
		{"", TypeText},
	}
	for _, tc := range cases {
		if got := Classify(tc.message); got != tc.want {
			t.Fatalf("Classify(%q) = %q, want %q", tc.message, got, tc.want)
		}
	}
}

func TestClassifyQuizWinsOverSummary(t *testing.T) {
	// keyword precedence follows the check order: quiz before summary
	if got := Classify("quiz me on the summary"); got != TypeQuiz {
		t.Fatalf("expected quiz, got %q", got)
	}
}
