// internal/api/router.go
package api

import "net/http"

func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Session
	mux.HandleFunc("GET /session", h.getSession)
	mux.HandleFunc("POST /session/reveal", h.toggleReveal)
	mux.HandleFunc("PUT /session/filter", h.setFilter)

	// Practice
	mux.HandleFunc("POST /practice/next", h.nextQuestion)
	mux.HandleFunc("POST /practice/grade", h.gradeQuestion)

	// Exam
	mux.HandleFunc("POST /exam/start", h.startExam)
	mux.HandleFunc("POST /exam/answer", h.answerExam)
	mux.HandleFunc("GET /exam/result", h.examResult)
	mux.HandleFunc("POST /exam/practice", h.backToPractice)

	// Bank
	mux.HandleFunc("GET /bank", h.getBank)
	mux.HandleFunc("POST /bank/import", h.importBank)
	mux.HandleFunc("GET /bank/export", h.exportBank)

	// Analytics
	mux.HandleFunc("GET /stats", h.getStats)

	// Settings
	mux.HandleFunc("GET /settings", h.getSettings)
	mux.HandleFunc("PUT /settings", h.updateSettings)
}
