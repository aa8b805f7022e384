package health

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"exectimer/internal/config"
)

func NewHealthzProvider(cfg config.Config, log logrus.FieldLogger) *HealthzProvider {
	return &HealthzProvider{
		log:            log,
		startupTimeout: cfg.Server.StartupTimeout,
	}
}

// HealthzProvider tracks the lifecycle of the application server for the
// healthz endpoints.
type HealthzProvider struct {
	log            logrus.FieldLogger
	startupTimeout time.Duration

	startingAt *time.Time
	servingAt  *time.Time
	stoppingAt *time.Time

	healthMu sync.Mutex
}

// CheckReadiness passes only while the server is accepting requests.
func (h *HealthzProvider) CheckReadiness(r *http.Request) error {
	h.healthMu.Lock()
	defer h.healthMu.Unlock()

	if h.stoppingAt != nil {
		return fmt.Errorf("server is shutting down")
	}
	if h.servingAt == nil {
		if h.startingAt == nil {
			return fmt.Errorf("server startup not started")
		}
		return fmt.Errorf("server not serving yet")
	}
	return nil
}

// CheckLiveness passes if:
//   - server is serving or shutting down, OR
//   - server is still starting within the startup timeout
func (h *HealthzProvider) CheckLiveness(r *http.Request) error {
	h.healthMu.Lock()
	defer h.healthMu.Unlock()

	if h.servingAt != nil || h.stoppingAt != nil {
		return nil
	}

	if h.startingAt != nil {
		if since := time.Since(*h.startingAt); since > h.startupTimeout {
			return fmt.Errorf("server startup exceeded timeout of %s", h.startupTimeout)
		}
		return nil
	}

	return fmt.Errorf("server not started")
}

// Starting marks the beginning of server startup.
func (h *HealthzProvider) Starting() {
	h.healthMu.Lock()
	defer h.healthMu.Unlock()

	h.startingAt = lo.ToPtr(time.Now())
	h.servingAt = nil
	h.stoppingAt = nil
}

// MarkServing marks the server as accepting requests.
func (h *HealthzProvider) MarkServing() {
	h.healthMu.Lock()
	defer h.healthMu.Unlock()

	if h.startingAt != nil {
		h.log.WithField("startup_ms", time.Since(*h.startingAt).Milliseconds()).Info("server is serving")
	}
	h.servingAt = lo.ToPtr(time.Now())
}

// MarkStopping fails readiness so no new traffic is routed during shutdown.
func (h *HealthzProvider) MarkStopping() {
	h.healthMu.Lock()
	defer h.healthMu.Unlock()

	h.stoppingAt = lo.ToPtr(time.Now())
}
