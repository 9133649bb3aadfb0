package api

import (
	"net/http"

	"github.com/studydrill/backend/internal/domain/settings"
)

// ── Request / Response types ────────────────────────────────────────────────

type UpdateSettingsRequest struct {
	ReminderEnabled bool   `json:"reminder_enabled" example:"true"`
	ReminderTime    string `json:"reminder_time" example:"19:30"`
	ReminderDays    []int  `json:"reminder_days" example:"1,3,5"`
	ReminderMessage string `json:"reminder_message" example:"Time to practice!"`
	DailyGoal       int    `json:"daily_goal" example:"10"`
	TestLength      int    `json:"test_length" example:"10"`
	Theme           string `json:"theme" example:"dark"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /settings
func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.Settings())
}

// PUT /settings
//
// Settings are replaced wholesale, never patched. The response carries the
// applied settings, which may differ from the request: values are clamped,
// and the reminder toggle reverts when notification permission is denied.
func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	applied := h.engine.UpdateSettings(settings.Settings{
		ReminderEnabled: req.ReminderEnabled,
		ReminderTime:    req.ReminderTime,
		ReminderDays:    req.ReminderDays,
		ReminderMessage: req.ReminderMessage,
		DailyGoal:       req.DailyGoal,
		TestLength:      req.TestLength,
		Theme:           req.Theme,
	})

	respondJSON(w, http.StatusOK, applied)
}
