package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/target/convo-eval/internal/service"
)

// RouterServices holds the services needed by the HTTP router.
type RouterServices struct {
	Runner              *service.EvaluationRunner
	Registry            *service.JobRegistry
	DefaultLookbackDays int
	Logger              *slog.Logger // Optional: request logging
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	handlers := &EvaluationHandlers{
		Runner:              services.Runner,
		Registry:            services.Registry,
		DefaultLookbackDays: services.DefaultLookbackDays,
		Logger:              services.Logger,
	}

	mux.Handle("POST /api/evaluations", http.HandlerFunc(handlers.CreateEvaluation))
	mux.Handle("GET /api/evaluations", http.HandlerFunc(handlers.ListEvaluations))
	mux.Handle("GET /api/evaluations/{id}", http.HandlerFunc(handlers.GetEvaluation))
	mux.Handle("POST /api/evaluations/{id}/stop", http.HandlerFunc(handlers.StopEvaluation))
	mux.Handle("GET /api/metrics", http.HandlerFunc(handlers.ListMetrics))
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	if services.Logger != nil {
		return withRequestLogging(services.Logger, mux)
	}
	return mux
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// withRequestLogging logs one line per completed request.
func withRequestLogging(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.InfoContext(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
