package handlers

import (
	"fmt"
	"net/http"

	"agridash/dataset"
	"agridash/insights"
)

// handleDistricts handles GET /insights/districts
func (h *Handler) handleDistricts(w http.ResponseWriter, r *http.Request) {
	h.listDistinct(w, r, insights.ColDistrict)
}

// handleCrops handles GET /insights/crops
func (h *Handler) handleCrops(w http.ResponseWriter, r *http.Request) {
	h.listDistinct(w, r, insights.ColCrop)
}

func (h *Handler) listDistinct(w http.ResponseWriter, r *http.Request, column string) {
	crops, err := h.loader.Load(r.Context(), dataset.CategoryCrop)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, insights.ListDistinct(crops, column))
}

// handleCropVisualization handles POST /insights/crop_visualization
func (h *Handler) handleCropVisualization(w http.ResponseWriter, r *http.Request) {
	var req CropVisualizationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	if req.Districts == nil || req.Crops == nil || req.Years == nil {
		respondError(w, http.StatusBadRequest, "districts, crops and years are required")
		return
	}

	crops, err := h.loader.Load(r.Context(), dataset.CategoryCrop)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	result, err := insights.AggregateYield(crops, req.Districts, req.Crops, req.Years)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result.Records())
}

// handleEnvironmentalCorrelation handles POST /insights/environmental_correlation
func (h *Handler) handleEnvironmentalCorrelation(w http.ResponseWriter, r *http.Request) {
	var req CorrelationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	if req.District == nil || req.Crop == nil {
		respondError(w, http.StatusBadRequest, "district and crop are required")
		return
	}

	crops, err := h.loader.Load(r.Context(), dataset.CategoryCrop)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rainfall, err := h.loader.Load(r.Context(), dataset.CategoryRainfall)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	merged, err := insights.Correlate(crops, rainfall, *req.District, *req.Crop)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, merged.Records())
}

// handleAirQuality handles GET /insights/air_quality
func (h *Handler) handleAirQuality(w http.ResponseWriter, r *http.Request) {
	t, err := h.loader.Load(r.Context(), dataset.CategoryAirQuality)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, t.Records())
}

// handleRainfall handles GET /insights/rainfall
func (h *Handler) handleRainfall(w http.ResponseWriter, r *http.Request) {
	rainfall, err := h.loader.Load(r.Context(), dataset.CategoryRainfall)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	t, err := insights.RainfallTable(rainfall)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, t.Records())
}
