package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the cache is down but ranking still works.
	Degraded Status = "degraded"
	// Unhealthy indicates the embedding provider is unreachable.
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

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	cache     CachePinger
	embedding EmbeddingChecker
}

// New creates a Service. embedding can be nil.
func New(cache CachePinger, embedding EmbeddingChecker) *Service {
	return &Service{cache: cache, embedding: embedding}
}

// Check runs health checks against all components. A failing cache degrades
// the service; a failing embedding provider makes it unhealthy because no
// ranking can be produced without embeddings.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.cache.Ping(ctx); err != nil {
		checks["cache"] = CheckError
	} else {
		checks["cache"] = CheckOK
	}

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks["embedding"] = CheckError
		} else {
			checks["embedding"] = CheckOK
		}
	}

	status := Healthy
	if checks["cache"] == CheckError {
		status = Degraded
	}
	if checks["embedding"] == CheckError {
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks}
}
