// Package httpx provides the HTTP control surface for the convo-eval service.
package httpx

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/target/convo-eval/internal/domain/model"
	"github.com/target/convo-eval/internal/service"
)

// EvaluationHandlers provides HTTP handlers for evaluation job operations.
type EvaluationHandlers struct {
	Runner              *service.EvaluationRunner
	Registry            *service.JobRegistry
	DefaultLookbackDays int
	Logger              *slog.Logger
}

// CreateEvaluation starts a new evaluation job and returns its initial snapshot.
func (h *EvaluationHandlers) CreateEvaluation(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEvaluationRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_request", Err: err})
		return
	}

	job, err := h.Runner.StartJob(r.Context(), req.Params(h.DefaultLookbackDays))
	if err != nil {
		if h.Logger != nil {
			h.Logger.ErrorContext(r.Context(), "start evaluation job", "error", err)
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "start_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, job)
}

// GetEvaluation returns the snapshot of one job, or 404 if unknown.
func (h *EvaluationHandlers) GetEvaluation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	job, ok := h.Registry.Get(id)
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     errors.New("job not found"),
		})
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

// evaluationListResponse wraps the job list for the list endpoint.
type evaluationListResponse struct {
	Evaluations []model.Job `json:"evaluations"`
}

// ListEvaluations returns all jobs, newest first. The optional "start" query
// parameter filters to jobs created at or after the given RFC 3339 timestamp;
// a malformed value is ignored rather than rejected.
func (h *EvaluationHandlers) ListEvaluations(w http.ResponseWriter, r *http.Request) {
	var since *time.Time
	if raw := r.URL.Query().Get("start"); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			since = &ts
		}
	}

	jobs := h.Registry.List(since)
	WriteJSON(w, http.StatusOK, evaluationListResponse{Evaluations: jobs})
}

// StopEvaluation marks a job as stopped. Stop requests are advisory:
// in-flight evaluations drain naturally.
func (h *EvaluationHandlers) StopEvaluation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !h.Registry.Stop(id) {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     errors.New("job not found or not running"),
		})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Job %s stopped successfully", id),
	})
}

// metricsResponse wraps the configured metric definitions.
type metricsResponse struct {
	Metrics      []model.Metric `json:"metrics"`
	TotalMetrics int            `json:"total_metrics"`
}

// ListMetrics returns the configured evaluation metrics.
func (h *EvaluationHandlers) ListMetrics(w http.ResponseWriter, _ *http.Request) {
	metrics := h.Runner.Metrics()
	if metrics == nil {
		metrics = []model.Metric{}
	}
	WriteJSON(w, http.StatusOK, metricsResponse{Metrics: metrics, TotalMetrics: len(metrics)})
}
