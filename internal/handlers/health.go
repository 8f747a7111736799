package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/speedernet/storefront/internal/platform/httpx"
)

// HealthHandlers serves the liveness and readiness endpoints.
type HealthHandlers struct {
	version string
	started time.Time
	now     func() time.Time
	ready   func(ctx context.Context) error
}

// HealthOption customises the health handlers.
type HealthOption func(*HealthHandlers)

// NewHealthHandlers constructs health handlers with the supplied options.
func NewHealthHandlers(opts ...HealthOption) *HealthHandlers {
	h := &HealthHandlers{
		now:     time.Now,
		started: time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// WithHealthVersion sets the version string reported by the endpoints.
func WithHealthVersion(version string) HealthOption {
	return func(h *HealthHandlers) {
		h.version = version
	}
}

// WithHealthClock overrides the time source.
func WithHealthClock(now func() time.Time) HealthOption {
	return func(h *HealthHandlers) {
		if now != nil {
			h.now = now
			h.started = now()
		}
	}
}

// WithReadinessCheck sets the check run by /readyz. A nil check reports ready.
func WithReadinessCheck(check func(ctx context.Context) error) HealthOption {
	return func(h *HealthHandlers) {
		h.ready = check
	}
}

type healthPayload struct {
	Status    string `json:"status"`
	Version   string `json:"version,omitempty"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp"`
}

// Healthz reports process liveness.
func (h *HealthHandlers) Healthz(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	writeJSONResponse(w, http.StatusOK, healthPayload{
		Status:    "ok",
		Version:   h.version,
		Uptime:    now.Sub(h.started).String(),
		Timestamp: now.UTC().Format(time.RFC3339),
	})
}

// Readyz reports whether the catalog is loaded and the service can serve traffic.
func (h *HealthHandlers) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		if err := h.ready(r.Context()); err != nil {
			httpx.WriteError(r.Context(), w, httpx.NewError("not_ready", err.Error(), http.StatusServiceUnavailable))
			return
		}
	}
	now := h.now()
	writeJSONResponse(w, http.StatusOK, healthPayload{
		Status:    "ok",
		Version:   h.version,
		Uptime:    now.Sub(h.started).String(),
		Timestamp: now.UTC().Format(time.RFC3339),
	})
}
