// Package network implements the network-backed route provider: an adapter
// over a remote directions API. The wire contract (request/response JSON) is
// owned by the remote service; this package only translates to and from the
// route model and normalizes failures to ProviderError.
package network

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/wayfarerhq/route-gateway/models"
	"github.com/wayfarerhq/route-gateway/services/providers"
)

const (
	// Name is the provider name reported by this adapter.
	Name = "network"

	defaultTimeout = 15 * time.Second

	// httpMaxIdleConns bounds the keep-alive pool toward the directions API.
	httpMaxIdleConns    = 10
	httpIdleConnTimeout = 30 * time.Second
)

// Config holds network provider configuration.
type Config struct {
	// BaseURL is the directions API endpoint, e.g.
	// "https://directions.example.com/v2/routes:compute".
	BaseURL string

	// APIKey authenticates against the directions API.
	APIKey string

	// Timeout bounds one HTTP exchange.
	Timeout time.Duration
}

// Adapter implements providers.RouteProvider against a remote directions API.
type Adapter struct {
	config     Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAdapter creates a network route provider.
func NewAdapter(config Config, logger *zap.Logger) *Adapter {
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}
	return &Adapter{
		config: config,
		logger: logger,
		httpClient: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        httpMaxIdleConns,
				MaxIdleConnsPerHost: httpMaxIdleConns,
				IdleConnTimeout:     httpIdleConnTimeout,
			},
		},
	}
}

// Name returns the provider name
func (a *Adapter) Name() string {
	return Name
}

// GetRoute performs the HTTP exchange on its own goroutine and invokes cb
// exactly once with the outcome.
func (a *Adapter) GetRoute(ctx context.Context, req *models.RouteRequest, cb providers.Callback) {
	go func() {
		routes, err := a.compute(ctx, req)
		if err != nil {
			cb.OnFailure(err)
			return
		}
		cb.OnResponse(routes)
	}()
}

func (a *Adapter) compute(ctx context.Context, req *models.RouteRequest) ([]models.RouteCandidate, error) {
	body, err := json.Marshal(buildWireRequest(req))
	if err != nil {
		return nil, providers.NewProviderError(Name, providers.CodeUnspecified, "marshal request", 0, err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, a.config.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, providers.NewProviderError(Name, providers.CodeUnspecified, "create request", 0, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", a.config.APIKey)

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, providers.NewProviderError(Name, providers.CodeTransportFailure, "http request failed", 0, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, providers.NewProviderError(Name, providers.CodeTransportFailure, "read response", httpResp.StatusCode, err)
	}

	if httpResp.StatusCode != http.StatusOK {
		a.logger.Warn("directions api returned non-200",
			zap.Int("status", httpResp.StatusCode))
		return nil, providers.NewProviderError(Name, providers.CodeTransportFailure,
			fmt.Sprintf("directions api status %d", httpResp.StatusCode), httpResp.StatusCode, nil)
	}

	var wire wireResponse
	if err := json.Unmarshal(respBody, &wire); err != nil {
		return nil, providers.NewProviderError(Name, providers.CodeMalformedResponse, "unmarshal response", httpResp.StatusCode, err)
	}

	if len(wire.Routes) == 0 {
		return nil, providers.NewProviderError(Name, providers.CodeNoRoute, "no routes returned", httpResp.StatusCode, nil)
	}

	routes := make([]models.RouteCandidate, 0, len(wire.Routes))
	for _, wr := range wire.Routes {
		routes = append(routes, wr.toModel())
	}
	return routes, nil
}

// --- wire types for the remote directions API ---

type wireRequest struct {
	Origin             wireLatLng   `json:"origin"`
	Destination        wireLatLng   `json:"destination"`
	Waypoints          []wireLatLng `json:"waypoints,omitempty"`
	Profile            string       `json:"profile"`
	LanguageCode       string       `json:"languageCode,omitempty"`
	VoiceInstructions  bool         `json:"voiceInstructions,omitempty"`
	BannerInstructions bool         `json:"bannerInstructions,omitempty"`
}

type wireLatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type wireResponse struct {
	Routes []wireRoute `json:"routes"`
}

type wireRoute struct {
	Geometry        string    `json:"geometry"`
	DistanceMeters  float64   `json:"distanceMeters"`
	DurationSeconds float64   `json:"durationSeconds"`
	Legs            []wireLeg `json:"legs"`
}

type wireLeg struct {
	DistanceMeters  float64    `json:"distanceMeters"`
	DurationSeconds float64    `json:"durationSeconds"`
	Summary         string     `json:"summary,omitempty"`
	Steps           []wireStep `json:"steps"`
}

type wireStep struct {
	DistanceMeters  float64 `json:"distanceMeters"`
	DurationSeconds float64 `json:"durationSeconds"`
	Geometry        string  `json:"geometry,omitempty"`
	Maneuver        struct {
		Type        string     `json:"type"`
		Modifier    string     `json:"modifier,omitempty"`
		Instruction string     `json:"instruction,omitempty"`
		Location    wireLatLng `json:"location"`
	} `json:"maneuver"`
	VoiceInstructions []struct {
		DistanceAlongMeters float64 `json:"distanceAlongMeters"`
		Announcement        string  `json:"announcement"`
		SSML                string  `json:"ssml,omitempty"`
	} `json:"voiceInstructions,omitempty"`
	BannerInstructions []struct {
		DistanceAlongMeters float64 `json:"distanceAlongMeters"`
		PrimaryText         string  `json:"primaryText"`
		SecondaryText       string  `json:"secondaryText,omitempty"`
	} `json:"bannerInstructions,omitempty"`
}

func buildWireRequest(req *models.RouteRequest) wireRequest {
	profile := req.Profile
	if profile == "" {
		profile = models.ProfileDriving
	}

	wr := wireRequest{
		Origin:             wireLatLng{req.Origin.Latitude, req.Origin.Longitude},
		Destination:        wireLatLng{req.Destination.Latitude, req.Destination.Longitude},
		Profile:            string(profile),
		LanguageCode:       req.Language,
		VoiceInstructions:  req.VoiceInstructions,
		BannerInstructions: req.BannerInstructions,
	}
	for _, wp := range req.Waypoints {
		wr.Waypoints = append(wr.Waypoints, wireLatLng{wp.Coordinate.Latitude, wp.Coordinate.Longitude})
	}
	return wr
}

func (wr wireRoute) toModel() models.RouteCandidate {
	candidate := models.RouteCandidate{
		Geometry:        wr.Geometry,
		DistanceMeters:  wr.DistanceMeters,
		DurationSeconds: wr.DurationSeconds,
		Provider:        Name,
	}
	for _, wl := range wr.Legs {
		leg := models.RouteLeg{
			DistanceMeters:  wl.DistanceMeters,
			DurationSeconds: wl.DurationSeconds,
			Summary:         wl.Summary,
		}
		for _, ws := range wl.Steps {
			step := models.RouteStep{
				DistanceMeters:  ws.DistanceMeters,
				DurationSeconds: ws.DurationSeconds,
				Geometry:        ws.Geometry,
				Maneuver: models.Maneuver{
					Type:        ws.Maneuver.Type,
					Modifier:    ws.Maneuver.Modifier,
					Instruction: ws.Maneuver.Instruction,
					Location: models.Coordinate{
						Latitude:  ws.Maneuver.Location.Latitude,
						Longitude: ws.Maneuver.Location.Longitude,
					},
				},
			}
			for _, vi := range ws.VoiceInstructions {
				step.VoiceInstructions = append(step.VoiceInstructions, models.VoiceInstruction{
					DistanceAlongMeters: vi.DistanceAlongMeters,
					Announcement:        vi.Announcement,
					SSML:                vi.SSML,
				})
			}
			for _, bi := range ws.BannerInstructions {
				step.BannerInstructions = append(step.BannerInstructions, models.BannerInstruction{
					DistanceAlongMeters: bi.DistanceAlongMeters,
					PrimaryText:         bi.PrimaryText,
					SecondaryText:       bi.SecondaryText,
				})
			}
			leg.Steps = append(leg.Steps, step)
		}
		candidate.Legs = append(candidate.Legs, leg)
	}
	return candidate
}
