package stats

import "sort"

// Attempt thresholds below which an accuracy figure is noise, not signal.
// Tags aggregate several questions, so they need more samples than a
// single question does.
const (
	TagThreshold      = 3
	QuestionThreshold = 2
)

// weakLimit caps how many weak areas are surfaced.
const weakLimit = 5

// WeakArea is one low-accuracy tag or question.
type WeakArea struct {
	Key      string `json:"key"` // tag name or question id
	Attempts int    `json:"attempts"`
	Accuracy int    `json:"accuracy"`
}

// WeakTags ranks tags by ascending accuracy, surfacing the five weakest.
// Tags with fewer than TagThreshold attempts are excluded.
func WeakTags(byTag map[string]Counts) []WeakArea {
	return rankWeak(byTag, TagThreshold)
}

// WeakQuestions ranks questions by ascending accuracy, surfacing the five
// weakest. Questions with fewer than QuestionThreshold attempts are excluded.
func WeakQuestions(byQuestion map[string]Counts) []WeakArea {
	return rankWeak(byQuestion, QuestionThreshold)
}

func rankWeak(buckets map[string]Counts, threshold int) []WeakArea {
	ranked := make([]WeakArea, 0, len(buckets))
	for key, c := range buckets {
		if c.Attempts < threshold {
			continue
		}
		ranked = append(ranked, WeakArea{
			Key:      key,
			Attempts: c.Attempts,
			Accuracy: Accuracy(c.Attempts, c.Correct),
		})
	}

	// Lowest accuracy first; on ties the more-attempted entry is the more
	// reliable signal and surfaces first. Key order breaks exact ties so
	// the ranking is deterministic across map iterations.
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Accuracy != ranked[j].Accuracy {
			return ranked[i].Accuracy < ranked[j].Accuracy
		}
		if ranked[i].Attempts != ranked[j].Attempts {
			return ranked[i].Attempts > ranked[j].Attempts
		}
		return ranked[i].Key < ranked[j].Key
	})

	if len(ranked) > weakLimit {
		ranked = ranked[:weakLimit]
	}
	return ranked
}
