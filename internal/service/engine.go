// internal/service/engine.go
package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/studydrill/backend/internal/domain/history"
	"github.com/studydrill/backend/internal/domain/question"
	"github.com/studydrill/backend/internal/domain/session"
	"github.com/studydrill/backend/internal/domain/settings"
	"github.com/studydrill/backend/internal/notify"
	"github.com/studydrill/backend/internal/scheduler"
	"github.com/studydrill/backend/internal/stats"
	"github.com/studydrill/backend/internal/store"
	"github.com/studydrill/backend/internal/worker"
)

// ErrNotAnArray rejects a bank import whose payload is not a JSON array.
// It is the one import failure surfaced to the user; the in-memory bank
// stays untouched when it happens.
var ErrNotAnArray = errors.New("bank import must be a JSON array")

// Engine owns the bank, history log, settings, and the interactive session
// behind a single mutex. Every operation runs to completion before another
// starts, so no caller ever observes a partial mutation. Persistence is
// emitted as fire-and-forget jobs on a single-worker queue, which keeps
// per-key writes ordered.
type Engine struct {
	store     store.Store
	scheduler *scheduler.Scheduler
	notifier  notify.Notifier
	logger    *slog.Logger
	rng       *rand.Rand
	now       func() time.Time
	saves     *worker.Pool[error]

	mu      sync.Mutex
	bank    []question.Question
	log     *history.Log
	cfg     settings.Settings
	filter  question.Filter
	session *session.Session
}

// NewEngine assembles the engine around already-loaded state. The caller is
// responsible for having substituted defaults for missing or corrupt blobs.
func NewEngine(
	bank []question.Question,
	log *history.Log,
	cfg settings.Settings,
	st store.Store,
	sched *scheduler.Scheduler,
	notifier notify.Notifier,
	rng *rand.Rand,
	logger *slog.Logger,
) *Engine {
	e := &Engine{
		store:     st,
		scheduler: sched,
		notifier:  notifier,
		logger:    logger,
		rng:       rng,
		now:       time.Now,
		saves:     worker.NewPool[error](1, 16),
		bank:      bank,
		log:       log,
		cfg:       cfg.Normalize(),
		session:   session.New(),
	}

	go e.drainSaves()
	return e
}

// Close flushes the persistence queue. Call once, after the HTTP surface
// has stopped.
func (e *Engine) Close() {
	e.saves.Close()
}

func (e *Engine) drainSaves() {
	for res := range e.saves.Results() {
		if res.Output != nil {
			e.logger.Error("persist failed", "key", res.JobID, "error", res.Output)
		}
	}
}

// ── Snapshots ───────────────────────────────────────────────────────────────

// Snapshot is the engine state the presentation layer renders from.
type Snapshot struct {
	Mode       session.Mode       `json:"mode"`
	Current    *question.Question `json:"current,omitempty"`
	ShowAnswer bool               `json:"show_answer"`
	ExamIndex  int                `json:"exam_index"`
	ExamTotal  int                `json:"exam_total"`
	FilterTags []string           `json:"filter_tags"`
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	s := Snapshot{
		Mode:       e.session.Mode,
		ShowAnswer: e.session.ShowAnswer,
		ExamIndex:  e.session.ExamIndex,
		ExamTotal:  len(e.session.ExamOrder),
		FilterTags: e.filter.Tags,
	}

	switch e.session.Mode {
	case session.ModePractice:
		s.Current = e.session.Current
	case session.ModeExam:
		s.Current = e.session.ExamQuestion()
	}
	return s
}

// ── Practice mode ───────────────────────────────────────────────────────────

// NextQuestion draws a fresh practice question from the filtered pool.
// An empty pool leaves no current question; that is an empty state for the
// UI, not an error.
func (e *Engine) NextQuestion() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	pool := question.SelectPool(e.bank, e.filter)
	e.session.SetCurrent(question.PickRandom(e.rng, pool))
	return e.snapshotLocked()
}

// Grade records the self-reported outcome for the current practice question
// and immediately redraws. Grading with no current question is a silent
// no-op; the UI should not allow it, but the engine must not blow up.
func (e *Engine) Grade(correct bool) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	q := e.session.Current
	if q == nil || e.session.Mode != session.ModePractice {
		return e.snapshotLocked()
	}

	e.appendHistoryLocked(q, correct)

	pool := question.SelectPool(e.bank, e.filter)
	e.session.SetCurrent(question.PickRandom(e.rng, pool))
	return e.snapshotLocked()
}

// ToggleShowAnswer flips the reveal flag; twice is a no-op.
func (e *Engine) ToggleShowAnswer() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.session.ToggleShowAnswer()
	return e.snapshotLocked()
}

// SetFilter replaces the active tag filter. It applies to the next draw and
// the next exam; the current question stays on screen.
func (e *Engine) SetFilter(tags []string) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.filter = question.Filter{Tags: tags}
	return e.snapshotLocked()
}

// ── Exam mode ───────────────────────────────────────────────────────────────

// StartExam shuffles the filtered pool and fixes the first testLength
// questions as the exam order. A pool smaller than the requested length
// gives a shorter exam; an empty pool gives a zero-length exam that lands
// directly in the result view.
func (e *Engine) StartExam() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	length := e.cfg.TestLength
	if length < settings.MinTestLength {
		length = settings.MinTestLength
	}
	if length > settings.MaxTestLength {
		length = settings.MaxTestLength
	}

	order := question.ShuffledCopy(e.rng, question.SelectPool(e.bank, e.filter))
	if len(order) > length {
		order = order[:length]
	}

	e.session.BeginExam(order)
	return e.snapshotLocked()
}

// AnswerExam grades the current exam question, records it to history, and
// advances. Answering an exhausted exam is a silent no-op.
func (e *Engine) AnswerExam(correct bool) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	q := e.session.RecordAnswer(correct)
	if q != nil {
		e.appendHistoryLocked(q, correct)
	}
	return e.snapshotLocked()
}

// ExamResult is the finished exam's summary.
type ExamResult struct {
	Score  session.Score       `json:"score"`
	Missed []question.Question `json:"missed"`
}

// Result returns the exam summary and whether the session is actually in
// the result state.
func (e *Engine) Result() (ExamResult, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.Mode != session.ModeExamResult {
		return ExamResult{}, false
	}
	return ExamResult{
		Score:  e.session.ExamScore(),
		Missed: e.session.Missed(),
	}, true
}

// BackToPractice discards the exam session. Recorded history stays.
func (e *Engine) BackToPractice() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.session.BackToPractice()
	return e.snapshotLocked()
}

// ── History ─────────────────────────────────────────────────────────────────

func (e *Engine) appendHistoryLocked(q *question.Question, correct bool) {
	e.log.Append(q.ID, correct, q.Tags, e.now())

	entries := e.log.Entries()
	e.saves.Submit(store.KeyHistory, func() error {
		return e.store.SaveHistory(entries)
	})
}

// ── Analytics ───────────────────────────────────────────────────────────────

// WeakQuestion is a weak area joined back against the live bank. The prompt
// falls back to the raw question id when the bank no longer resolves it.
type WeakQuestion struct {
	stats.WeakArea
	Prompt string `json:"prompt"`
}

// Overview bundles everything the analytics view renders.
type Overview struct {
	Stats         stats.Stats      `json:"stats"`
	WeakTags      []stats.WeakArea `json:"weak_tags"`
	WeakQuestions []WeakQuestion   `json:"weak_questions"`
	TodayCount    int              `json:"today_count"`
	DailyGoal     int              `json:"daily_goal"`
	GoalPct       int              `json:"goal_pct"`
}

func (e *Engine) Overview() Overview {
	e.mu.Lock()
	defer e.mu.Unlock()

	agg := stats.Aggregate(e.log.Entries())

	prompts := make(map[string]string, len(e.bank))
	for _, q := range e.bank {
		prompts[q.ID] = q.Prompt
	}

	weakQs := make([]WeakQuestion, 0, 5)
	for _, w := range stats.WeakQuestions(agg.ByQuestion) {
		prompt, ok := prompts[w.Key]
		if !ok {
			prompt = w.Key
		}
		weakQs = append(weakQs, WeakQuestion{WeakArea: w, Prompt: prompt})
	}

	today := e.log.TodayCount(e.now())
	return Overview{
		Stats:         agg,
		WeakTags:      stats.WeakTags(agg.ByTag),
		WeakQuestions: weakQs,
		TodayCount:    today,
		DailyGoal:     e.cfg.DailyGoal,
		GoalPct:       stats.GoalPct(today, e.cfg.DailyGoal),
	}
}

// ── Bank ────────────────────────────────────────────────────────────────────

func (e *Engine) Bank() []question.Question {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bank
}

// ImportBank replaces the bank wholesale. The only gate is "parses as a
// JSON array"; individual elements are taken as-is, so malformed entries
// become zero-valued questions and surface at selection time, not here.
// On failure the in-memory bank is left unchanged.
func (e *Engine) ImportBank(raw []byte) (int, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return 0, ErrNotAnArray
	}
	// Unmarshal accepts "null" into a slice; only a real array counts.
	if elements == nil && !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		return 0, ErrNotAnArray
	}

	bank := make([]question.Question, len(elements))
	for i, el := range elements {
		_ = json.Unmarshal(el, &bank[i])
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.bank = bank
	e.saves.Submit(store.KeyBank, func() error {
		return e.store.SaveBank(bank)
	})
	return len(bank), nil
}

// ExportBank emits the current bank as pretty-printed JSON.
func (e *Engine) ExportBank() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return json.MarshalIndent(e.bank, "", "  ")
}

// ── Settings ────────────────────────────────────────────────────────────────

func (e *Engine) Settings() settings.Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// UpdateSettings replaces the settings wholesale, persists them, and
// notifies the reminder scheduler so a stale timer can never fire. Enabling
// reminders is gated on notification permission: when the platform denies
// it, the toggle reverts and everything else still applies.
func (e *Engine) UpdateSettings(next settings.Settings) settings.Settings {
	next = next.Normalize()

	if next.ReminderEnabled && !e.notifier.RequestPermission() {
		e.logger.Warn("notification permission denied, reminders stay off")
		next.ReminderEnabled = false
	}

	e.mu.Lock()
	e.cfg = next
	e.saves.Submit(store.KeySettings, func() error {
		return e.store.SaveSettings(next)
	})
	e.mu.Unlock()

	e.scheduler.OnSettingsChanged(next)
	return next
}
