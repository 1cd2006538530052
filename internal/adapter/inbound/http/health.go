package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"

	"github.com/ares-mcp/ares-mcp-server/internal/adapter/outbound/memory"
	"github.com/ares-mcp/ares-mcp-server/internal/service"
)

// HealthResponse is the JSON response from the /health endpoint.
type HealthResponse struct {
	Status  string            `json:"status"`            // "healthy" or "unhealthy"
	Checks  map[string]string `json:"checks"`            // Component check results
	Version string            `json:"version,omitempty"` // Optional version info
}

// errorRatioThreshold marks the server unhealthy once this share of at
// least minCallsForRatio tool calls has failed.
const (
	errorRatioThreshold = 90
	minCallsForRatio    = 20
)

// HealthChecker verifies component health.
type HealthChecker struct {
	rateLimiter *memory.SlidingWindowLimiter
	dispatcher  *service.ToolDispatcher
	version     string
}

// NewHealthChecker creates a HealthChecker with optional components.
// Pass nil for components that aren't available.
func NewHealthChecker(
	rateLimiter *memory.SlidingWindowLimiter,
	dispatcher *service.ToolDispatcher,
	version string,
) *HealthChecker {
	return &HealthChecker{
		rateLimiter: rateLimiter,
		dispatcher:  dispatcher,
		version:     version,
	}
}

// Check performs health checks on all components.
func (h *HealthChecker) Check() HealthResponse {
	checks := make(map[string]string)
	healthy := true

	if h.rateLimiter != nil {
		// Stats() acquires the limiter lock - if this hangs, we have a problem
		stats := h.rateLimiter.Stats()
		limit := h.rateLimiter.Config().MaxRequests
		if stats.Tracked >= limit {
			checks["rate_limiter"] = fmt.Sprintf("saturated: %d/%d", stats.Tracked, limit)
		} else {
			checks["rate_limiter"] = fmt.Sprintf("ok: %d/%d", stats.Tracked, limit)
		}
	} else {
		checks["rate_limiter"] = "not configured"
	}

	if h.dispatcher != nil {
		stats := h.dispatcher.Stats()
		percent := int64(0)
		if stats.Calls > 0 {
			percent = stats.Errors * 100 / stats.Calls
		}
		if stats.Calls >= minCallsForRatio && percent >= errorRatioThreshold {
			checks["tools"] = fmt.Sprintf("degraded: %d/%d failed (%d%%)", stats.Errors, stats.Calls, percent)
			healthy = false
		} else {
			checks["tools"] = fmt.Sprintf("ok: %d/%d failed (%d%%)", stats.Errors, stats.Calls, percent)
		}
	} else {
		checks["tools"] = "not configured"
	}

	checks["goroutines"] = fmt.Sprintf("%d", runtime.NumGoroutine())

	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}

	return HealthResponse{
		Status:  status,
		Checks:  checks,
		Version: h.version,
	}
}

// Handler returns an HTTP handler for the health endpoint.
func (h *HealthChecker) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		health := h.Check()

		w.Header().Set("Content-Type", "application/json")
		if health.Status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}

		_ = json.NewEncoder(w).Encode(health)
	})
}

// healthHandler is the fallback /health handler used without a checker.
func healthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(HealthResponse{Status: "healthy", Checks: map[string]string{}})
	})
}
