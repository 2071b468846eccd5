package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Unhealthy indicates the cluster is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// CheckElasticsearch is the name of the cluster check.
const CheckElasticsearch = "elasticsearch"

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
	// Error holds the ping failure, empty when healthy.
	Error string
}

// Service coordinates health checks.
type Service struct {
	es Pinger
}

// New creates a Service.
func New(es Pinger) *Service {
	return &Service{es: es}
}

// Check pings the cluster.
func (s *Service) Check(ctx context.Context) Report {
	if err := s.es.Ping(ctx); err != nil {
		return Report{
			Status: Unhealthy,
			Checks: map[string]CheckResult{CheckElasticsearch: CheckError},
			Error:  err.Error(),
		}
	}
	return Report{
		Status: Healthy,
		Checks: map[string]CheckResult{CheckElasticsearch: CheckOK},
	}
}
