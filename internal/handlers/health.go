package handlers

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Check probes one dependency
type Check func(ctx context.Context) error

type namedCheck struct {
	name     string
	critical bool
	check    Check
}

// Health serves the liveness, readiness and detailed health endpoints
type Health struct {
	mu      sync.RWMutex
	checks  []namedCheck
	info    map[string]func() interface{}
	timeout time.Duration
	now     func() time.Time
}

// NewHealth creates an empty Health
func NewHealth() *Health {
	return &Health{info: make(map[string]func() interface{}), timeout: 3 * time.Second, now: time.Now}
}

// AddCheck registers a dependency check. Critical checks gate readiness.
func (h *Health) AddCheck(name string, critical bool, c Check) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks = append(h.checks, namedCheck{name: name, critical: critical, check: c})
}

// AddInfo registers a value reported by /api/health
func (h *Health) AddInfo(name string, fn func() interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.info[name] = fn
}

// run executes the selected checks and reports the failures by name
func (h *Health) run(ctx context.Context, criticalOnly bool) (map[string]interface{}, bool) {
	h.mu.RLock()
	checks := append([]namedCheck(nil), h.checks...)
	h.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	healthy := true
	results := make(map[string]interface{}, len(checks))
	for _, c := range checks {
		if criticalOnly && !c.critical {
			continue
		}
		if err := c.check(ctx); err != nil {
			healthy = false
			results[c.name] = map[string]interface{}{"status": "unhealthy", "error": err.Error()}
			continue
		}
		results[c.name] = map[string]interface{}{"status": "healthy"}
	}
	return results, healthy
}

// Health reports every check plus runtime info
func (h *Health) Health(w http.ResponseWriter, r *http.Request) {
	checks, healthy := h.run(r.Context(), false)

	h.mu.RLock()
	names := make([]string, 0, len(h.info))
	for name := range h.info {
		names = append(names, name)
	}
	sort.Strings(names)
	info := make(map[string]interface{}, len(names))
	for _, name := range names {
		info[name] = h.info[name]()
	}
	h.mu.RUnlock()

	status, code := "ok", http.StatusOK
	if !healthy {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]interface{}{
		"status":    status,
		"timestamp": h.now().Unix(),
		"checks":    checks,
		"info":      info,
	})
}

// Liveness handles Kubernetes liveness probes. Dependencies are not checked.
func (h *Health) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "alive",
		"timestamp": h.now().Unix(),
	})
}

// Readiness handles Kubernetes readiness probes using the critical checks
func (h *Health) Readiness(w http.ResponseWriter, r *http.Request) {
	checks, healthy := h.run(r.Context(), true)
	if !healthy {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "not_ready",
			"checks":    checks,
			"timestamp": h.now().Unix(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ready",
		"timestamp": h.now().Unix(),
	})
}
