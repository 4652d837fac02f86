package handlers

import (
	"encoding/json"

	"agridash/dataset"
	"agridash/services"
)

// CropVisualizationRequest selects districts, crops and years by membership.
type CropVisualizationRequest struct {
	Districts []string `json:"districts"`
	Crops     []string `json:"crops"`
	Years     []int    `json:"years"`
}

// CorrelationRequest names exactly one district and crop.
type CorrelationRequest struct {
	District *string `json:"district"`
	Crop     *string `json:"crop"`
}

type ChatRequest struct {
	Query *string         `json:"query"`
	Data  json.RawMessage `json:"data"`
}

type WarehouseQueryRequest struct {
	SQL    string        `json:"sql"`
	Params []interface{} `json:"params,omitempty"`
}

// PreviewResponse describes an uploaded CSV. DTypes keeps column order.
type PreviewResponse struct {
	Columns []string         `json:"columns"`
	DTypes  dataset.Record   `json:"dtypes"`
	Head    []dataset.Record `json:"head"`
}

// RecommendResponse is a recommendation, optionally with Chart.js rendering.
type RecommendResponse struct {
	services.Recommendation
	ChartJS map[string]interface{} `json:"chartjs,omitempty"`
	Options map[string]interface{} `json:"options,omitempty"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
