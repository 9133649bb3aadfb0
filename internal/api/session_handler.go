package api

import (
	"net/http"
)

// ── Request / Response types ────────────────────────────────────────────────

type GradeRequest struct {
	Correct bool `json:"correct" example:"true"`
}

type SetFilterRequest struct {
	Tags []string `json:"tags" example:"go,concurrency"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /session
func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.Snapshot())
}

// POST /practice/next
func (h *Handler) nextQuestion(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.NextQuestion())
}

// POST /practice/grade
//
// Grading without a current question is a no-op by design: the response is
// still 200 with the unchanged snapshot, never an error.
func (h *Handler) gradeQuestion(w http.ResponseWriter, r *http.Request) {
	var req GradeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	respondJSON(w, http.StatusOK, h.engine.Grade(req.Correct))
}

// POST /session/reveal
func (h *Handler) toggleReveal(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.ToggleShowAnswer())
}

// PUT /session/filter
func (h *Handler) setFilter(w http.ResponseWriter, r *http.Request) {
	var req SetFilterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	respondJSON(w, http.StatusOK, h.engine.SetFilter(req.Tags))
}
