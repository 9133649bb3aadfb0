package history

import (
	"time"

	"github.com/studydrill/backend/internal/id"
)

// MaxEntries caps the log; the oldest entries are evicted first.
const MaxEntries = 5000

// Entry records one graded attempt. Tags is a snapshot of the question's
// tags at attempt time, so tag attribution survives later bank edits even
// when QID no longer resolves.
type Entry struct {
	ID      string    `json:"id"`
	QID     string    `json:"qid"`
	Correct bool      `json:"correct"`
	At      time.Time `json:"at"`
	Tags    []string  `json:"tags,omitempty"`
}

// Log is the append-only attempt record, held newest-first.
type Log struct {
	entries []Entry
}

// NewLog wraps already-persisted entries (newest-first). Anything beyond
// the cap is dropped from the tail.
func NewLog(entries []Entry) *Log {
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	return &Log{entries: entries}
}

// Append records an attempt against a question, snapshotting its tags.
// The returned entry is what was stored.
func (l *Log) Append(qid string, correct bool, tags []string, at time.Time) Entry {
	snapshot := make([]string, len(tags))
	copy(snapshot, tags)

	e := Entry{
		ID:      id.GenerateID(),
		QID:     qid,
		Correct: correct,
		At:      at,
		Tags:    snapshot,
	}

	l.entries = append([]Entry{e}, l.entries...)
	if len(l.entries) > MaxEntries {
		l.entries = l.entries[:MaxEntries]
	}
	return e
}

// Entries returns the log newest-first. The slice must not be mutated.
func (l *Log) Entries() []Entry {
	return l.entries
}

func (l *Log) Len() int {
	return len(l.entries)
}

// TodayCount counts entries recorded on the same local calendar date as now.
// The log is newest-first, so the scan stops at the first older entry.
func (l *Log) TodayCount(now time.Time) int {
	y, m, d := now.Date()
	count := 0
	for _, e := range l.entries {
		ey, em, ed := e.At.In(now.Location()).Date()
		if ey == y && em == m && ed == d {
			count++
			continue
		}
		if e.At.Before(now) {
			break
		}
	}
	return count
}
