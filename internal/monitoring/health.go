package monitoring

import (
	"net/http"

	"github.com/heptiolabs/healthcheck"

	"github.com/govindup63/Ghstmail.me/internal/storage"
)

// HealthChecker wires liveness and readiness probes for the server.
type HealthChecker struct {
	health healthcheck.Handler
}

// Pingable is anything with a Health probe, e.g. the redis cache.
type Pingable interface {
	Health() error
}

// NewHealthChecker builds the probe set over the storage backend and
// any optional extras.
func NewHealthChecker(store storage.Store, extras map[string]Pingable) *HealthChecker {
	hc := &HealthChecker{health: healthcheck.NewHandler()}

	hc.health.AddReadinessCheck("storage", func() error {
		return store.Health()
	})
	for name, p := range extras {
		probe := p
		hc.health.AddReadinessCheck(name, func() error {
			return probe.Health()
		})
	}

	return hc
}

// LiveEndpoint serves the liveness probe.
func (hc *HealthChecker) LiveEndpoint() http.HandlerFunc {
	return hc.health.LiveEndpoint
}

// ReadyEndpoint serves the readiness probe.
func (hc *HealthChecker) ReadyEndpoint() http.HandlerFunc {
	return hc.health.ReadyEndpoint
}
