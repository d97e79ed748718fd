package devhabit

import (
	"context"

	healthuc "github.com/devhabit/devhabit/internal/usecase/health"
)

// Health checks the health of all system components.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	status := HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
	if report.Status != healthuc.Healthy {
		c.obs.warn("health check failed", "status", status.Status)
	}
	return status
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
