package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// handleWarehouseQuery handles POST /warehouse/query
func (h *Handler) handleWarehouseQuery(w http.ResponseWriter, r *http.Request) {
	var req WarehouseQueryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	if strings.TrimSpace(req.SQL) == "" {
		respondError(w, http.StatusBadRequest, "sql is required")
		return
	}

	args := make([]any, len(req.Params))
	for i, p := range req.Params {
		args[i] = queryArg(p)
	}

	t, err := h.warehouse.RunQuery(r.Context(), req.SQL, args...)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, t.Records())
}

// handleWarehouseSchema handles GET /warehouse/schema
func (h *Handler) handleWarehouseSchema(w http.ResponseWriter, r *http.Request) {
	tables, err := h.warehouse.Describe(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tables)
}

// queryArg turns decoded JSON numbers into driver-friendly int64 or float64.
func queryArg(p interface{}) any {
	n, ok := p.(json.Number)
	if !ok {
		return p
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
