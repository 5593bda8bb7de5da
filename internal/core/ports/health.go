package ports

import "context"

// HealthChecker reports the health of an external dependency.
type HealthChecker interface {
	Ping(ctx context.Context) error
	Name() string
}
