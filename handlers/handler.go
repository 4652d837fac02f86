package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"agridash/database"
	"agridash/dataset"
	"agridash/services"
)

// DatasetLoader loads one raw dataset category.
type DatasetLoader interface {
	Load(ctx context.Context, cat dataset.Category) (*dataset.Table, error)
}

// QueryRunner executes read-only warehouse queries.
type QueryRunner interface {
	RunQuery(ctx context.Context, sqlText string, args ...any) (*dataset.Table, error)
	Describe(ctx context.Context) ([]database.TableSchema, error)
}

// ChatAsker relays a question about records to a language model.
type ChatAsker interface {
	Ask(ctx context.Context, query string, data json.RawMessage) services.ChatResult
}

// Handler serves the dashboard API. It keeps no per-request state.
type Handler struct {
	loader         DatasetLoader
	warehouse      QueryRunner
	chat           ChatAsker
	maxUploadBytes int64
	log            *zap.Logger
}

func New(loader DatasetLoader, warehouse QueryRunner, chat ChatAsker, maxUploadBytes int64, log *zap.Logger) *Handler {
	return &Handler{
		loader:         loader,
		warehouse:      warehouse,
		chat:           chat,
		maxUploadBytes: maxUploadBytes,
		log:            log.Named("api"),
	}
}

// Register mounts every route on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/", h.handleRoot).Methods(http.MethodGet)

	insights := r.PathPrefix("/insights").Subrouter()
	insights.HandleFunc("/districts", h.handleDistricts).Methods(http.MethodGet)
	insights.HandleFunc("/crops", h.handleCrops).Methods(http.MethodGet)
	insights.HandleFunc("/crop_visualization", h.handleCropVisualization).Methods(http.MethodPost)
	insights.HandleFunc("/environmental_correlation", h.handleEnvironmentalCorrelation).Methods(http.MethodPost)
	insights.HandleFunc("/air_quality", h.handleAirQuality).Methods(http.MethodGet)
	insights.HandleFunc("/rainfall", h.handleRainfall).Methods(http.MethodGet)

	r.HandleFunc("/datasets/preview", h.handlePreview).Methods(http.MethodPost)

	// both spellings: a redirect would drop the multipart body
	r.HandleFunc("/recommend/", h.handleRecommend).Methods(http.MethodPost)
	r.HandleFunc("/recommend", h.handleRecommend).Methods(http.MethodPost)
	r.HandleFunc("/chat/", h.handleChat).Methods(http.MethodPost)
	r.HandleFunc("/chat", h.handleChat).Methods(http.MethodPost)

	r.HandleFunc("/warehouse/query", h.handleWarehouseQuery).Methods(http.MethodPost)
	r.HandleFunc("/warehouse/schema", h.handleWarehouseSchema).Methods(http.MethodGet)
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, StatusResponse{Status: "ok", Message: "Karnataka Environmental API running"})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// fail maps component errors onto HTTP statuses.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		h.log.Info("request rejected", zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
	}
	respondError(w, status, err.Error())
}

func statusFor(err error) int {
	var (
		notFound *dataset.NotFoundError
		decode   *dataset.DecodeError
		query    *dataset.QueryError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &decode), errors.Is(err, dataset.ErrMissingColumn):
		return http.StatusUnprocessableEntity
	case errors.As(err, &query):
		if query.Op == "open" || query.Op == "begin" {
			// the warehouse itself is missing or refusing connections
			return http.StatusServiceUnavailable
		}
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// decodeJSON reads a JSON request body into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	return dec.Decode(dst)
}
