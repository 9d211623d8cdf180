package driving

import (
	"context"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
)

// HealthChecker verifies JustGo connectivity.
type HealthChecker interface {
	// HealthCheck authenticates if needed and reports connection state.
	HealthCheck(ctx context.Context) (*domain.HealthReport, error)
}
