package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// ReadyCheck probes one dependency for readiness.
type ReadyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// healthManager aggregates readiness checks for the health endpoints.
type healthManager struct {
	mu      sync.Mutex
	service string
	checks  []ReadyCheck
}

var health = &healthManager{}

// InitHealthManager resets the health state for the named service.
func InitHealthManager(service string) {
	health.mu.Lock()
	defer health.mu.Unlock()
	health.service = service
	health.checks = nil
}

// RegisterReadyCheck adds a readiness probe.
func RegisterReadyCheck(c ReadyCheck) {
	health.mu.Lock()
	defer health.mu.Unlock()
	health.checks = append(health.checks, c)
}

// healthStatus is the response body for health endpoints.
type healthStatus struct {
	Status  string            `json:"status"`
	Service string            `json:"service,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// Health reports overall health (currently identical to readiness).
func Health(w http.ResponseWriter, r *http.Request) {
	Ready(w, r)
}

// Live reports process liveness. Always healthy while the process runs.
func Live(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, http.StatusOK, healthStatus{Status: "ok", Service: health.service})
}

// Startup reports startup completion. The server only registers routes
// after initialization, so reaching this handler means startup finished.
func Startup(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, http.StatusOK, healthStatus{Status: "ok", Service: health.service})
}

// Ready runs every registered readiness probe with a short deadline.
func Ready(w http.ResponseWriter, r *http.Request) {
	health.mu.Lock()
	checks := make([]ReadyCheck, len(health.checks))
	copy(checks, health.checks)
	service := health.service
	health.mu.Unlock()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := healthStatus{Status: "ok", Service: service, Checks: map[string]string{}}
	code := http.StatusOK

	for _, c := range checks {
		if err := c.Check(ctx); err != nil {
			status.Status = "degraded"
			status.Checks[c.Name] = err.Error()
			code = http.StatusServiceUnavailable
			continue
		}
		status.Checks[c.Name] = "ok"
	}

	if len(status.Checks) == 0 {
		status.Checks = nil
	}

	writeHealth(w, code, status)
}

func writeHealth(w http.ResponseWriter, code int, status healthStatus) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(status)
}
