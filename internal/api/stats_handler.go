package api

import "net/http"

// GET /stats
//
// Stats are recomputed from the history log on every call; there is no
// cached aggregate to drift out of sync with the bank or the log.
func (h *Handler) getStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.Overview())
}
