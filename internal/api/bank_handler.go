package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/studydrill/backend/internal/service"
)

// maxImportBytes bounds how much of an import payload is read.
const maxImportBytes = 8 << 20

// ── Request / Response types ────────────────────────────────────────────────

type ImportResult struct {
	QuestionsImported int `json:"questions_imported"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /bank
func (h *Handler) getBank(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.Bank())
}

// POST /bank/import
//
// The body is the raw replacement bank. The only gate is "parses as a JSON
// array"; a failure leaves the in-memory bank untouched and is the one
// import error surfaced to the user.
func (h *Handler) importBank(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	count, err := h.engine.ImportBank(raw)
	if errors.Is(err, service.ErrNotAnArray) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("bank import failed", "error", err)
		respondError(w, http.StatusInternalServerError, "import failed")
		return
	}

	respondJSON(w, http.StatusCreated, ImportResult{QuestionsImported: count})
}

// GET /bank/export
func (h *Handler) exportBank(w http.ResponseWriter, r *http.Request) {
	raw, err := h.engine.ExportBank()
	if err != nil {
		h.logger.Error("bank export failed", "error", err)
		respondError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=studydrill-bank.json")
	w.Write(raw)
}
