package question

import "github.com/studydrill/backend/internal/id"

// SeedBank is the built-in bank used when no persisted bank exists yet
// (first run, or an unreadable blob).
func SeedBank() []Question {
	seed := []struct {
		prompt string
		answer string
		tags   []string
	}{
		{
			"What is a goroutine?",
			"A lightweight thread of execution managed by the Go runtime.",
			[]string{"go", "concurrency"},
		},
		{
			"What does a channel provide?",
			"A typed conduit for sending and receiving values between goroutines.",
			[]string{"go", "concurrency"},
		},
		{
			"When does a deferred function run?",
			"When the surrounding function returns, in last-in-first-out order.",
			[]string{"go"},
		},
		{
			"What is the zero value of a slice?",
			"nil — a slice with no backing array, zero length, and zero capacity.",
			[]string{"go", "basics"},
		},
		{
			"How do you signal that a function can fail?",
			"Return an error as the last return value and check it at the call site.",
			[]string{"go", "basics", "errors"},
		},
	}

	bank := make([]Question, len(seed))
	for i, s := range seed {
		bank[i] = Question{
			ID:          id.GenerateID(),
			Prompt:      s.prompt,
			ModelAnswer: s.answer,
			Tags:        s.tags,
			SourceNote:  "built-in",
		}
	}
	return bank
}
