package api

import (
	"net/http"
)

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /exam/start
//
// A pool smaller than the configured test length yields a shorter exam; an
// empty pool yields a zero-length exam already in the result state. Both
// are 201s — the client renders whatever mode the snapshot reports.
func (h *Handler) startExam(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusCreated, h.engine.StartExam())
}

// POST /exam/answer
func (h *Handler) answerExam(w http.ResponseWriter, r *http.Request) {
	var req GradeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	respondJSON(w, http.StatusOK, h.engine.AnswerExam(req.Correct))
}

// GET /exam/result
func (h *Handler) examResult(w http.ResponseWriter, r *http.Request) {
	result, ok := h.engine.Result()
	if !ok {
		respondError(w, http.StatusConflict, "no finished exam")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// POST /exam/practice
func (h *Handler) backToPractice(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.BackToPractice())
}
