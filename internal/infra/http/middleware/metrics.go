package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsImported = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_imported_total",
			Help: "Total number of leads written by imports",
		},
	)

	importBatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_import_batches_total",
			Help: "Total number of import batches by result",
		},
		[]string{"result"},
	)

	loginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Total number of login attempts by result",
		},
		[]string{"result"},
	)

	statusChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_status_changes_total",
			Help: "Total number of lead status transitions by target status",
		},
		[]string{"status"},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_errors_total",
			Help: "Total number of integration errors",
		},
		[]string{"service"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern usa o padrão do chi (/leads/{id}) para não explodir a
// cardinalidade com um label por lead.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}

// Recorder expõe os contadores de negócio para os casos de uso.
type Recorder struct{}

func (Recorder) RecordImportBatch(result string, leads int) {
	importBatches.WithLabelValues(result).Inc()
	if result == "ok" {
		leadsImported.Add(float64(leads))
	}
}

func (Recorder) RecordLogin(result string) {
	loginAttempts.WithLabelValues(result).Inc()
}

func (Recorder) RecordStatusChange(status string) {
	statusChanges.WithLabelValues(status).Inc()
}
