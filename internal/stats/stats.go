package stats

import (
	"math"

	"github.com/studydrill/backend/internal/domain/history"
)

// Counts tracks attempts against one question or one tag.
type Counts struct {
	Attempts  int `json:"attempts"`
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

// Stats is the full aggregation of the history log.
type Stats struct {
	Total      int               `json:"total"`
	Correct    int               `json:"correct"`
	Incorrect  int               `json:"incorrect"`
	Accuracy   int               `json:"accuracy"`
	ByQuestion map[string]Counts `json:"by_question"`
	ByTag      map[string]Counts `json:"by_tag"`
}

// Aggregate folds the history log into summary counters in one pass.
// An entry counts once per snapshot tag it carries, so a two-tag entry
// increments two tag buckets.
func Aggregate(entries []history.Entry) Stats {
	s := Stats{
		ByQuestion: make(map[string]Counts),
		ByTag:      make(map[string]Counts),
	}

	for _, e := range entries {
		s.Total++
		if e.Correct {
			s.Correct++
		} else {
			s.Incorrect++
		}

		q := s.ByQuestion[e.QID]
		bump(&q, e.Correct)
		s.ByQuestion[e.QID] = q

		for _, tag := range e.Tags {
			t := s.ByTag[tag]
			bump(&t, e.Correct)
			s.ByTag[tag] = t
		}
	}

	s.Accuracy = Accuracy(s.Total, s.Correct)
	return s
}

func bump(c *Counts, correct bool) {
	c.Attempts++
	if correct {
		c.Correct++
	} else {
		c.Incorrect++
	}
}

// Accuracy is the correct percentage, rounded half-up, 0 for no attempts.
func Accuracy(attempts, correct int) int {
	if attempts == 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(attempts)))
}

// GoalPct reports progress toward the daily goal, clamped to 0–100.
// A non-positive goal reads as 0% rather than dividing by zero.
func GoalPct(todayCount, dailyGoal int) int {
	if dailyGoal <= 0 {
		return 0
	}
	pct := int(math.Round(100 * float64(todayCount) / float64(dailyGoal)))
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}
