package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger checks a dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	backend string
	storage Pinger
}

// NewHealthHandler creates a new HealthHandler for the named snapshot backend.
func NewHealthHandler(backend string, storage Pinger) *HealthHandler {
	return &HealthHandler{
		backend: backend,
		storage: storage,
	}
}

// Liveness returns 200 if the service is alive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness returns 200 if the snapshot backend is reachable.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if h.storage != nil {
		if err := h.storage.Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, h.backend+" unhealthy", err.Error())
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ready",
		"storage": h.backend,
	})
}
