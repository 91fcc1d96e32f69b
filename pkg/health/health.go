// Package health tracks the reachability of the storage gateway.
package health

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Status represents the current health status.
type Status string

const (
	// StatusHealthy indicates the last gateway call succeeded.
	StatusHealthy Status = "healthy"
	// StatusUnhealthy indicates the last gateway call failed.
	StatusUnhealthy Status = "unhealthy"
	// StatusUnknown indicates no call has completed yet.
	StatusUnknown Status = "unknown"
)

// Probe checks the gateway. It is called by the monitoring loop.
type Probe func(ctx context.Context) error

// Tracker records the outcome of gateway calls.
type Tracker struct {
	mu                  sync.RWMutex
	status              Status
	lastCheck           time.Time
	lastError           error
	consecutiveFailures int
	logger              *slog.Logger
	cancel              context.CancelFunc
	now                 func() time.Time
}

// Info contains current health information.
type Info struct {
	Status              Status    `json:"status"`
	LastCheck           time.Time `json:"last_check"`
	LastError           string    `json:"last_error,omitempty"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	IsConnected         bool      `json:"is_connected"`
}

// NewTracker creates a tracker in the unknown state.
func NewTracker(logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Tracker{
		status: StatusUnknown,
		logger: logger,
		now:    time.Now,
	}
}

// Record updates the status with the outcome of a gateway call.
func (h *Tracker) Record(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastCheck = h.now()
	if err != nil {
		h.status = StatusUnhealthy
		h.lastError = err
		h.consecutiveFailures++
		h.logger.Debug("Gateway call failed",
			slog.String("error", err.Error()),
			slog.Int("consecutive_failures", h.consecutiveFailures))
		return
	}

	if h.status == StatusUnhealthy {
		h.logger.Info("Gateway health restored")
	}
	h.status = StatusHealthy
	h.lastError = nil
	h.consecutiveFailures = 0
}

// Start runs probe every interval while the gateway is unhealthy, so the
// status recovers without user action. A zero interval disables the loop.
func (h *Tracker) Start(ctx context.Context, interval time.Duration, probe Probe) {
	if interval <= 0 || probe == nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	h.mu.Lock()
	h.cancel = cancel
	h.mu.Unlock()

	go h.healthCheckLoop(ctx, interval, probe)
}

// Stop stops the monitoring loop.
func (h *Tracker) Stop() {
	h.mu.RLock()
	cancel := h.cancel
	h.mu.RUnlock()
	if cancel != nil {
		cancel()
	}
}

// GetHealthInfo returns current health information.
func (h *Tracker) GetHealthInfo() Info {
	h.mu.RLock()
	defer h.mu.RUnlock()

	errorMsg := ""
	if h.lastError != nil {
		errorMsg = h.lastError.Error()
	}

	return Info{
		Status:              h.status,
		LastCheck:           h.lastCheck,
		LastError:           errorMsg,
		ConsecutiveFailures: h.consecutiveFailures,
		IsConnected:         h.status == StatusHealthy,
	}
}

// IsHealthy returns true if the last gateway call succeeded.
func (h *Tracker) IsHealthy() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.status == StatusHealthy
}

func (h *Tracker) healthCheckLoop(ctx context.Context, interval time.Duration, probe Probe) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if h.GetHealthInfo().Status != StatusUnhealthy {
				continue
			}
			h.checkHealth(ctx, interval, probe)
		}
	}
}

func (h *Tracker) checkHealth(ctx context.Context, timeout time.Duration, probe Probe) {
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := probe(probeCtx)
	if ctx.Err() != nil {
		return
	}
	h.Record(err)
}
