package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler methods for routerHandlers.
// These are used by both the standalone router (for testing) and the full Server.

func (h *routerHandlers) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"sessions": h.registry.Sessions(),
	})
}

func (h *routerHandlers) handleSessionState(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	state := h.registry.Get(id)
	if state == nil {
		writeError(w, "session not found", http.StatusNotFound)
		return
	}

	// Same snapshot the WebSocket broadcast pushes.
	writeJSON(w, state.Snapshot())
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
