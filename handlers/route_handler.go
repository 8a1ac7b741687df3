package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/wayfarerhq/route-gateway/app"
	"github.com/wayfarerhq/route-gateway/models"
	"github.com/wayfarerhq/route-gateway/services/providers"
	"github.com/wayfarerhq/route-gateway/utils"
)

// ComputeRouteResponse is the payload returned for a successful computation.
type ComputeRouteResponse struct {
	Routes []models.RouteCandidate `json:"routes"`
}

// ComputeRouteHandler handles POST /api/v1/routes. It validates the request,
// hands it to the hybrid dispatcher, and maps the terminal outcome to HTTP.
func ComputeRouteHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RouteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			_ = utils.WriteBadRequest(w, "invalid JSON body", nil)
			return
		}

		if err := utils.ValidateStruct(&req); err != nil {
			var verr *utils.ValidationError
			if errors.As(err, &verr) {
				_ = utils.WriteBadRequest(w, verr.Message, verr.FieldDetails())
				return
			}
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}
		if req.Profile != "" && !req.Profile.Valid() {
			_ = utils.WriteBadRequest(w, "unknown profile", map[string]interface{}{
				"profile": string(req.Profile),
			})
			return
		}

		routes, err := deps.Planner.GetRouteSync(r.Context(), &req)
		if err != nil {
			writeProviderError(w, deps.Logger, err)
			return
		}

		_ = utils.WriteOK(w, ComputeRouteResponse{Routes: routes})
	}
}

// writeProviderError maps a dispatch failure to an HTTP response. Only the
// last attempted provider's failure ever reaches here.
func writeProviderError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var perr *providers.ProviderError
	if errors.As(err, &perr) {
		logger.Warn("route computation failed",
			zap.String("provider", perr.Provider),
			zap.String("code", perr.Code),
			zap.Error(err))
		_ = utils.WriteBadGateway(w, perr.Message, map[string]interface{}{
			"provider": perr.Provider,
			"code":     perr.Code,
		})
		return
	}

	logger.Error("route computation failed", zap.Error(err))
	_ = utils.WriteInternalServerError(w, "route computation failed")
}
