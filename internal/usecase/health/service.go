package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
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

// DefaultCheckTimeout bounds each component check.
const DefaultCheckTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db      DBPinger
	timeout time.Duration
}

// New creates a Service.
func New(db DBPinger) *Service {
	return &Service{db: db, timeout: DefaultCheckTimeout}
}

// WithTimeout overrides the per-check timeout.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{
		"database": s.ping(ctx),
	}

	failed := 0
	for _, v := range checks {
		if v == CheckError {
			failed++
		}
	}

	status := Healthy
	switch {
	case failed == len(checks):
		status = Unhealthy
	case failed > 0:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}

func (s *Service) ping(ctx context.Context) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.db.Ping(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
