package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/scrimnight/scrimnight/internal/api/middleware"
	"github.com/scrimnight/scrimnight/internal/api/response"
)

// DBPinger checks database connectivity.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles the GET /health endpoint.
type HealthHandler struct {
	pinger  DBPinger
	version string
}

// NewHealthHandler creates a new HealthHandler. A nil pinger reports the
// in-memory store.
func NewHealthHandler(pinger DBPinger, version string) *HealthHandler {
	return &HealthHandler{
		pinger:  pinger,
		version: version,
	}
}

type databaseStatus struct {
	Store     string `json:"store"`
	Connected bool   `json:"connected"`
}

type healthData struct {
	Status   string         `json:"status"`
	Version  string         `json:"version"`
	Database databaseStatus `json:"database"`
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	data := healthData{
		Status:   "healthy",
		Version:  h.version,
		Database: databaseStatus{Store: "memory", Connected: true},
	}

	if h.pinger != nil {
		data.Database.Store = "postgres"
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.pinger.Ping(ctx); err != nil {
			slog.Warn("database ping failed", "error", err)
			data.Status = "degraded"
			data.Database.Connected = false
		}
	}

	response.Success(w, http.StatusOK, data, requestID)
}
