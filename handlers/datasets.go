package handlers

import (
	"fmt"
	"net/http"

	"agridash/dataset"
	"agridash/services"
	"agridash/utils"
)

const previewRows = 10

// handlePreview handles POST /datasets/preview
func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	t, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	cols := t.Columns()
	names := make([]string, len(cols))
	dtypes := make([]dataset.Value, len(cols))
	for i, c := range cols {
		names[i] = c.Name
		dtypes[i] = dataset.String(c.DType())
	}

	respondJSON(w, http.StatusOK, PreviewResponse{
		Columns: names,
		DTypes:  dataset.Record{Names: names, Values: dtypes},
		Head:    t.Head(previewRows).Records(),
	})
}

// handleRecommend handles POST /recommend/
func (h *Handler) handleRecommend(w http.ResponseWriter, r *http.Request) {
	t, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	resp := RecommendResponse{Recommendation: services.RecommendChart(t)}
	if r.URL.Query().Get("render") == "chartjs" {
		resp.ChartJS, resp.Options = utils.ParseRecommendationToChartJS(resp.Recommendation, t)
	}
	respondJSON(w, http.StatusOK, resp)
}

// readUpload decodes the CSV sent in the multipart "file" field. On failure
// it has already written the response.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (*dataset.Table, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid upload: %v", err))
		return nil, false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file is required")
		return nil, false
	}
	defer file.Close()

	t, err := dataset.ReadCSV(file, header.Filename)
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	return t, true
}
