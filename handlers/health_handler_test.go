package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wayfarerhq/route-gateway/app"
	"github.com/wayfarerhq/route-gateway/services/connectivity"
)

func TestHealthCheck(t *testing.T) {
	deps := &app.Dependencies{Logger: zap.NewNop(), Monitor: connectivity.NewStatic(true)}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	HealthCheck(deps).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestReadinessCheck(t *testing.T) {
	t.Run("connected", func(t *testing.T) {
		deps := &app.Dependencies{Logger: zap.NewNop(), Monitor: connectivity.NewStatic(true)}

		w := httptest.NewRecorder()
		ReadinessCheck(deps).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusOK, w.Code)

		var resp HealthResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "ready", resp.Status)
		assert.Equal(t, "connected", resp.Checks["connectivity"])
		assert.Equal(t, "network", resp.Checks["preferred_provider"])
	})

	t.Run("disconnected stays serving", func(t *testing.T) {
		deps := &app.Dependencies{Logger: zap.NewNop(), Monitor: connectivity.NewStatic(false)}

		w := httptest.NewRecorder()
		ReadinessCheck(deps).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusOK, w.Code)

		var resp HealthResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "degraded", resp.Status)
		assert.Equal(t, "offline", resp.Checks["preferred_provider"])
	})
}
