package service_test

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/studydrill/backend/internal/domain/history"
	"github.com/studydrill/backend/internal/domain/question"
	"github.com/studydrill/backend/internal/domain/session"
	"github.com/studydrill/backend/internal/domain/settings"
	"github.com/studydrill/backend/internal/scheduler"
	"github.com/studydrill/backend/internal/service"
	"github.com/studydrill/backend/internal/store"
)

// fakeStore is an in-memory store.Store capturing what the engine persists.
type fakeStore struct {
	mu           sync.Mutex
	bank         []question.Question
	histories    [][]history.Entry
	settings     []settings.Settings
	bankSaves    int
	historySaves int
}

func (f *fakeStore) SaveBank(bank []question.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bank = bank
	f.bankSaves++
	return nil
}

func (f *fakeStore) LoadBank() ([]question.Question, error) { return nil, store.ErrNotFound }

func (f *fakeStore) SaveHistory(entries []history.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.histories = append(f.histories, entries)
	f.historySaves++
	return nil
}

func (f *fakeStore) LoadHistory() ([]history.Entry, error) { return nil, store.ErrNotFound }

func (f *fakeStore) SaveSettings(s settings.Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settings = append(f.settings, s)
	return nil
}

func (f *fakeStore) LoadSettings() (settings.Settings, error) {
	return settings.Settings{}, store.ErrNotFound
}

func (f *fakeStore) Close() error { return nil }

// permissionNotifier lets tests choose the permission answer.
type permissionNotifier struct {
	granted bool
}

func (n *permissionNotifier) RequestPermission() bool { return n.granted }
func (n *permissionNotifier) Fire(title, body string) {}

func taggedBank(n int, tag string) []question.Question {
	bank := make([]question.Question, n)
	for i := range bank {
		bank[i] = question.Question{
			ID:     fmt.Sprintf("%s%d", tag, i),
			Prompt: fmt.Sprintf("Prompt %d", i),
			Tags:   []string{tag},
		}
	}
	return bank
}

func newTestEngine(t *testing.T, bank []question.Question, cfg settings.Settings) (*service.Engine, *fakeStore) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := &permissionNotifier{granted: true}
	sched := scheduler.New(notifier, logger)
	t.Cleanup(sched.Stop)

	fs := &fakeStore{}
	engine := service.NewEngine(
		bank,
		history.NewLog(nil),
		cfg,
		fs,
		sched,
		notifier,
		rand.New(rand.NewSource(1)),
		logger,
	)
	return engine, fs
}

// ── Practice ────────────────────────────────────────────────────────────────

func TestGrade_NoCurrentQuestionIsNoOp(t *testing.T) {
	engine, _ := newTestEngine(t, taggedBank(5, "go"), settings.Default())

	snap := engine.Grade(true)

	if snap.Mode != session.ModePractice || snap.Current != nil {
		t.Errorf("expected unchanged practice state, got %+v", snap)
	}
	if total := engine.Overview().Stats.Total; total != 0 {
		t.Errorf("no history entry expected, got %d", total)
	}
}

func TestNextQuestion_DrawsFromFilteredPool(t *testing.T) {
	bank := append(taggedBank(3, "go"), taggedBank(3, "sql")...)
	engine, _ := newTestEngine(t, bank, settings.Default())

	engine.SetFilter([]string{"sql"})

	for i := 0; i < 10; i++ {
		snap := engine.NextQuestion()
		if snap.Current == nil {
			t.Fatal("expected a question from a non-empty pool")
		}
		if snap.Current.Tags[0] != "sql" {
			t.Fatalf("filter leaked: drew %s", snap.Current.ID)
		}
	}
}

func TestNextQuestion_EmptyPoolYieldsNoQuestion(t *testing.T) {
	engine, _ := newTestEngine(t, taggedBank(3, "go"), settings.Default())

	engine.SetFilter([]string{"nothing-has-this"})
	snap := engine.NextQuestion()

	if snap.Current != nil {
		t.Errorf("expected empty state, got %v", snap.Current)
	}
}

func TestGrade_AppendsHistoryAndRedraws(t *testing.T) {
	engine, _ := newTestEngine(t, taggedBank(5, "go"), settings.Default())

	engine.NextQuestion()
	snap := engine.Grade(true)

	if snap.Current == nil {
		t.Error("expected an immediate redraw after grading")
	}

	overview := engine.Overview()
	if overview.Stats.Total != 1 || overview.Stats.Correct != 1 {
		t.Errorf("expected 1 correct attempt recorded, got %+v", overview.Stats)
	}
	if c := overview.Stats.ByTag["go"]; c.Attempts != 1 {
		t.Errorf("expected tag snapshot recorded, got %+v", c)
	}
}

// ── Exam ────────────────────────────────────────────────────────────────────

func TestStartExam_PoolSmallerThanTestLength(t *testing.T) {
	cfg := settings.Default()
	cfg.TestLength = 10
	engine, _ := newTestEngine(t, taggedBank(3, "go"), cfg)

	snap := engine.StartExam()

	if snap.ExamTotal != 3 {
		t.Errorf("expected 3-question exam, got %d", snap.ExamTotal)
	}
}

func TestStartExam_TruncatesToTestLength(t *testing.T) {
	cfg := settings.Default()
	cfg.TestLength = 10
	engine, _ := newTestEngine(t, taggedBank(20, "go"), cfg)

	snap := engine.StartExam()

	if snap.ExamTotal != 10 {
		t.Errorf("expected 10-question exam, got %d", snap.ExamTotal)
	}
}

func TestStartExam_EmptyPoolGoesStraightToResult(t *testing.T) {
	engine, _ := newTestEngine(t, taggedBank(3, "go"), settings.Default())
	engine.SetFilter([]string{"missing"})

	snap := engine.StartExam()

	if snap.Mode != session.ModeExamResult {
		t.Fatalf("expected exam_result, got %s", snap.Mode)
	}

	result, ok := engine.Result()
	if !ok {
		t.Fatal("expected a result for the zero-length exam")
	}
	if result.Score.Total != 0 || result.Score.Pct != 0 {
		t.Errorf("expected zero score, got %+v", result.Score)
	}
}

func TestExam_FullFlow(t *testing.T) {
	cfg := settings.Default()
	cfg.TestLength = 5
	engine, _ := newTestEngine(t, taggedBank(5, "go"), cfg)

	snap := engine.StartExam()
	if snap.Mode != session.ModeExam || snap.ExamTotal != 5 {
		t.Fatalf("bad exam start: %+v", snap)
	}

	outcomes := []bool{true, false, true, true, false}
	for i, correct := range outcomes {
		if snap.ExamIndex != i {
			t.Fatalf("expected index %d, got %d", i, snap.ExamIndex)
		}
		snap = engine.AnswerExam(correct)
	}

	if snap.Mode != session.ModeExamResult {
		t.Fatalf("expected exam_result after last answer, got %s", snap.Mode)
	}

	result, ok := engine.Result()
	if !ok {
		t.Fatal("expected finished exam result")
	}
	if result.Score.Correct != 3 || result.Score.Total != 5 || result.Score.Pct != 60 {
		t.Errorf("expected 3/5 (60%%), got %+v", result.Score)
	}
	if len(result.Missed) != 2 {
		t.Errorf("expected 2 missed questions, got %d", len(result.Missed))
	}

	// Every answer also landed in the history log.
	if total := engine.Overview().Stats.Total; total != 5 {
		t.Errorf("expected 5 history entries, got %d", total)
	}

	snap = engine.BackToPractice()
	if snap.Mode != session.ModePractice || snap.ExamTotal != 0 {
		t.Errorf("expected clean practice state, got %+v", snap)
	}
	if total := engine.Overview().Stats.Total; total != 5 {
		t.Errorf("history must survive leaving the exam, got %d", total)
	}
}

func TestAnswerExam_ExhaustedIsNoOp(t *testing.T) {
	cfg := settings.Default()
	cfg.TestLength = 5
	engine, _ := newTestEngine(t, taggedBank(5, "go"), cfg)

	engine.StartExam()
	for i := 0; i < 5; i++ {
		engine.AnswerExam(true)
	}

	engine.AnswerExam(false)

	if total := engine.Overview().Stats.Total; total != 5 {
		t.Errorf("answering an exhausted exam must not record history, got %d", total)
	}
}

func TestResult_NotAvailableDuringExam(t *testing.T) {
	engine, _ := newTestEngine(t, taggedBank(5, "go"), settings.Default())

	engine.StartExam()

	if _, ok := engine.Result(); ok {
		t.Error("result must not be available mid-exam")
	}
}

// ── Bank import/export ──────────────────────────────────────────────────────

func TestImportBank_RejectsNonArray(t *testing.T) {
	engine, _ := newTestEngine(t, taggedBank(3, "go"), settings.Default())

	_, err := engine.ImportBank([]byte(`{"id": "q1"}`))

	if !errors.Is(err, service.ErrNotAnArray) {
		t.Fatalf("expected ErrNotAnArray, got %v", err)
	}
	if len(engine.Bank()) != 3 {
		t.Error("failed import must leave the bank untouched")
	}
}

func TestImportBank_ReplacesWholesale(t *testing.T) {
	engine, _ := newTestEngine(t, taggedBank(3, "go"), settings.Default())

	count, err := engine.ImportBank([]byte(`[
		{"id": "n1", "prompt": "New 1", "model_answer": "A1", "tags": ["new"]},
		{"id": "n2", "prompt": "New 2", "model_answer": "A2"}
	]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 imported, got %d", count)
	}

	bank := engine.Bank()
	if len(bank) != 2 || bank[0].ID != "n1" {
		t.Errorf("expected replacement bank, got %+v", bank)
	}
}

func TestImportBank_ToleratesMalformedElements(t *testing.T) {
	engine, _ := newTestEngine(t, taggedBank(1, "go"), settings.Default())

	count, err := engine.ImportBank([]byte(`[{"id": "ok"}, 5, "junk"]`))
	if err != nil {
		t.Fatalf("array with odd elements must import, got %v", err)
	}
	if count != 3 {
		t.Errorf("expected all 3 elements kept, got %d", count)
	}
}

func TestExportBank_PrettyPrinted(t *testing.T) {
	engine, _ := newTestEngine(t, taggedBank(2, "go"), settings.Default())

	raw, err := engine.ExportBank()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := string(raw)
	if !strings.HasPrefix(out, "[") || !strings.Contains(out, "\n  ") {
		t.Errorf("expected indented JSON array, got %q", out[:40])
	}
}

// ── Settings ────────────────────────────────────────────────────────────────

func TestUpdateSettings_ClampsAndPersists(t *testing.T) {
	engine, fs := newTestEngine(t, taggedBank(3, "go"), settings.Default())

	next := settings.Default()
	next.TestLength = 500
	next.DailyGoal = 0
	applied := engine.UpdateSettings(next)

	if applied.TestLength != settings.MaxTestLength {
		t.Errorf("expected test length clamped to %d, got %d", settings.MaxTestLength, applied.TestLength)
	}
	if applied.DailyGoal != 1 {
		t.Errorf("expected daily goal raised to 1, got %d", applied.DailyGoal)
	}

	engine.Close()
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if len(fs.settings) != 1 {
		t.Fatalf("expected settings persisted once, got %d", len(fs.settings))
	}
	if fs.settings[0].TestLength != settings.MaxTestLength {
		t.Error("persisted settings must be the clamped ones")
	}
}

func TestUpdateSettings_PermissionDeniedRevertsToggle(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := &permissionNotifier{granted: false}
	sched := scheduler.New(notifier, logger)
	t.Cleanup(sched.Stop)

	engine := service.NewEngine(
		taggedBank(3, "go"),
		history.NewLog(nil),
		settings.Default(),
		&fakeStore{},
		sched,
		notifier,
		rand.New(rand.NewSource(1)),
		logger,
	)

	next := settings.Default()
	next.ReminderEnabled = true
	applied := engine.UpdateSettings(next)

	if applied.ReminderEnabled {
		t.Error("reminder toggle must revert when permission is denied")
	}
}

// ── Persistence ─────────────────────────────────────────────────────────────

func TestGrade_PersistsHistoryThroughQueue(t *testing.T) {
	engine, fs := newTestEngine(t, taggedBank(3, "go"), settings.Default())

	engine.NextQuestion()
	engine.Grade(true)
	engine.NextQuestion()
	engine.Grade(false)

	engine.Close() // flush the queue

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.historySaves != 2 {
		t.Fatalf("expected 2 history saves, got %d", fs.historySaves)
	}
	last := fs.histories[len(fs.histories)-1]
	if len(last) != 2 {
		t.Errorf("expected final save to carry both entries, got %d", len(last))
	}
	if last[0].Correct {
		t.Error("history must be newest-first; latest attempt was incorrect")
	}
}
