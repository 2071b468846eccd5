// Package chi serves the MCP streamable HTTP endpoint together with health and metrics routes.
package chi

import (
	"context"
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/elasticsearch-mcp/internal/metrics"
	healthuc "github.com/kailas-cloud/elasticsearch-mcp/internal/usecase/health"
)

// MCPPath is where the streamable MCP handler is mounted.
const MCPPath = "/mcp"

// HealthChecker reports cluster reachability.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Options configures the router.
type Options struct {
	MCP     http.Handler
	Health  HealthChecker
	APIKeys []string
	Logger  *zap.Logger
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
	Error  string            `json:"error,omitempty"`
}

// NewRouter assembles middleware and routes.
func NewRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gochi.NewRouter()
	r.Use(JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEvent(logger))
	r.Use(BearerAuthMiddleware(opts.APIKeys))
	r.Use(metrics.Middleware())

	r.Handle(MCPPath, opts.MCP)
	r.Get("/health", healthHandler(opts.Health))
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})
	return r
}

func healthHandler(h HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := h.Check(r.Context())

		checks := make(map[string]string, len(report.Checks))
		for k, v := range report.Checks {
			checks[k] = string(v)
		}

		status := http.StatusOK
		if report.Status != healthuc.Healthy {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, healthResponse{
			Status: string(report.Status),
			Checks: checks,
			Error:  report.Error,
		})
	}
}
