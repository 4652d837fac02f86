package handlers

import (
	"fmt"
	"net/http"
)

// handleChat handles POST /chat/. Model failures are reported in the body
// with status 200; only a malformed request is rejected.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	if req.Query == nil || req.Data == nil {
		respondError(w, http.StatusBadRequest, "query and data are required")
		return
	}

	respondJSON(w, http.StatusOK, h.chat.Ask(r.Context(), *req.Query, req.Data))
}
