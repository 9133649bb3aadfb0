package session

import (
	"math"

	"github.com/studydrill/backend/internal/domain/question"
)

// Mode identifies where the session state machine currently is.
type Mode string

const (
	ModePractice   Mode = "practice"
	ModeExam       Mode = "exam"
	ModeExamResult Mode = "exam_result"
)

// Answer is one graded exam answer, in answer order.
type Answer struct {
	QID     string `json:"qid"`
	Correct bool   `json:"correct"`
}

// Score summarizes a finished exam.
type Score struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
	Pct     int `json:"pct"`
}

// Session is the in-memory interactive state. It is never persisted: a
// restart always begins a fresh practice session.
type Session struct {
	Mode        Mode
	Current     *question.Question
	ShowAnswer  bool
	ExamOrder   []question.Question
	ExamIndex   int
	ExamAnswers []Answer
}

// New starts in practice mode with no question drawn yet.
func New() *Session {
	return &Session{Mode: ModePractice}
}

// SetCurrent installs a freshly drawn practice question (nil for an empty
// pool) and hides the answer again.
func (s *Session) SetCurrent(q *question.Question) {
	s.Current = q
	s.ShowAnswer = false
}

// ToggleShowAnswer flips the reveal flag. It only applies while a question
// can be on screen, i.e. in practice and exam modes.
func (s *Session) ToggleShowAnswer() {
	if s.Mode == ModePractice || s.Mode == ModeExam {
		s.ShowAnswer = !s.ShowAnswer
	}
}

// BeginExam replaces any prior exam state with a fixed question order.
// An empty order is a finished exam: it lands directly in the result view
// with a zero score rather than an unanswerable exam.
func (s *Session) BeginExam(order []question.Question) {
	s.ExamOrder = order
	s.ExamIndex = 0
	s.ExamAnswers = make([]Answer, 0, len(order))
	s.ShowAnswer = false
	s.Current = nil

	if len(order) == 0 {
		s.Mode = ModeExamResult
		return
	}
	s.Mode = ModeExam
}

// ExamQuestion returns the question awaiting an answer, or nil when the
// exam is not active or already exhausted.
func (s *Session) ExamQuestion() *question.Question {
	if s.Mode != ModeExam || s.ExamIndex >= len(s.ExamOrder) {
		return nil
	}
	q := s.ExamOrder[s.ExamIndex]
	return &q
}

// RecordAnswer logs the outcome for the current exam question and advances.
// Answering an exhausted exam is a silent no-op. The returned question is
// the one that was answered, nil on no-op.
func (s *Session) RecordAnswer(correct bool) *question.Question {
	q := s.ExamQuestion()
	if q == nil {
		return nil
	}

	s.ExamAnswers = append(s.ExamAnswers, Answer{QID: q.ID, Correct: correct})
	s.ExamIndex++
	s.ShowAnswer = false

	if s.ExamIndex == len(s.ExamOrder) {
		s.Mode = ModeExamResult
	}
	return q
}

// ExamScore computes the result summary. Valid at any point; a zero-length
// exam scores 0/0.
func (s *Session) ExamScore() Score {
	correct := 0
	for _, a := range s.ExamAnswers {
		if a.Correct {
			correct++
		}
	}

	total := len(s.ExamOrder)
	pct := 0
	if total > 0 {
		pct = int(math.Round(100 * float64(correct) / float64(total)))
	}
	return Score{Correct: correct, Total: total, Pct: pct}
}

// Missed returns the exam questions answered incorrectly, in exam order,
// each at most once even if a qid was somehow answered twice.
func (s *Session) Missed() []question.Question {
	wrong := make(map[string]bool)
	for _, a := range s.ExamAnswers {
		if !a.Correct {
			wrong[a.QID] = true
		}
	}

	missed := make([]question.Question, 0, len(wrong))
	for _, q := range s.ExamOrder {
		if wrong[q.ID] {
			missed = append(missed, q)
			delete(wrong, q.ID)
		}
	}
	return missed
}

// BackToPractice discards all exam state. History entries recorded during
// the exam are untouched; only the in-memory session resets.
func (s *Session) BackToPractice() {
	s.Mode = ModePractice
	s.Current = nil
	s.ShowAnswer = false
	s.ExamOrder = nil
	s.ExamIndex = 0
	s.ExamAnswers = nil
}
