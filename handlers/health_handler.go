package handlers

import (
	"net/http"
	"time"

	"github.com/wayfarerhq/route-gateway/app"
	"github.com/wayfarerhq/route-gateway/utils"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheck handles GET /healthz. It returns 200 whenever the process is
// serving.
func HealthCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteJSON(w, http.StatusOK, HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// ReadinessCheck handles GET /readyz. The gateway stays ready while
// disconnected — the offline provider serves then — so connectivity is
// reported as a check, not as a failure.
func ReadinessCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]string)

		status := "ready"
		if deps.Monitor.CurrentlyConnected() {
			checks["connectivity"] = "connected"
			checks["preferred_provider"] = "network"
		} else {
			checks["connectivity"] = "disconnected"
			checks["preferred_provider"] = "offline"
			status = "degraded"
		}

		_ = utils.WriteJSON(w, http.StatusOK, HealthResponse{
			Status:    status,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks:    checks,
		})
	}
}
