package question

import (
	"errors"
	"math/rand"

	"github.com/studydrill/backend/internal/id"
)

// Question is a single quiz item. Questions are immutable once created;
// the only way to change them is replacing the whole bank via import.
type Question struct {
	ID          string   `json:"id"`
	Prompt      string   `json:"prompt"`
	ModelAnswer string   `json:"model_answer"`
	Tags        []string `json:"tags,omitempty"`
	SourceNote  string   `json:"source_note,omitempty"`
}

// Filter restricts selection to questions carrying at least one of the
// given tags. An empty tag set means no restriction.
type Filter struct {
	Tags []string
}

func (f Filter) matches(q Question) bool {
	if len(f.Tags) == 0 {
		return true
	}
	for _, want := range f.Tags {
		for _, have := range q.Tags {
			if want == have {
				return true
			}
		}
	}
	return false
}

// New creates a Question with a generated ID.
func New(prompt, modelAnswer string, tags []string) (Question, error) {
	if prompt == "" {
		return Question{}, errors.New("question prompt cannot be empty")
	}
	return Question{
		ID:          id.GenerateID(),
		Prompt:      prompt,
		ModelAnswer: modelAnswer,
		Tags:        tags,
	}, nil
}

// SelectPool returns the bank entries surviving the filter. The result
// shares backing questions with the bank but is a fresh slice.
func SelectPool(bank []Question, filter Filter) []Question {
	pool := make([]Question, 0, len(bank))
	for _, q := range bank {
		if filter.matches(q) {
			pool = append(pool, q)
		}
	}
	return pool
}

// PickRandom draws one question uniformly at random from the pool.
// An empty pool yields nil, not an error; callers render an empty state.
func PickRandom(rng *rand.Rand, pool []Question) *Question {
	if len(pool) == 0 {
		return nil
	}
	q := pool[rng.Intn(len(pool))]
	return &q
}

// ShuffledCopy returns a new slice with the pool in random order
// (Fisher–Yates). The input is left untouched.
func ShuffledCopy(rng *rand.Rand, pool []Question) []Question {
	shuffled := make([]Question, len(pool))
	copy(shuffled, pool)

	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled
}
