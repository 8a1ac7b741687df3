package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/wayfarerhq/route-gateway/config"
	"github.com/wayfarerhq/route-gateway/middleware"
	"github.com/wayfarerhq/route-gateway/models"
	"github.com/wayfarerhq/route-gateway/services/connectivity"
	"github.com/wayfarerhq/route-gateway/services/dispatch"
	"github.com/wayfarerhq/route-gateway/services/providers/network"
	"github.com/wayfarerhq/route-gateway/services/providers/offline"
)

// RoutePlanner is the dispatcher surface the HTTP layer depends on.
type RoutePlanner interface {
	GetRouteSync(ctx context.Context, req *models.RouteRequest) ([]models.RouteCandidate, error)
}

// Dependencies holds all application dependencies. This is the central
// wiring point for dependency injection.
type Dependencies struct {
	Config  *config.Config
	Logger  *zap.Logger
	Monitor connectivity.Monitor
	Planner RoutePlanner

	// AuthMiddleware is nil when no JWT secret is configured; the route
	// API is then unauthenticated.
	AuthMiddleware *middleware.AuthMiddleware

	probeMonitor *connectivity.ProbeMonitor
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	deps.initConnectivity(ctx, cfg)
	deps.initDispatcher(cfg)
	deps.initAuth(cfg)

	logger.Info("all dependencies initialized")
	return deps, nil
}

// Close releases background resources (the connectivity probe loop).
func (d *Dependencies) Close() {
	if d.probeMonitor != nil {
		d.probeMonitor.Close()
	}
}

func (d *Dependencies) initConnectivity(ctx context.Context, cfg *config.Config) {
	if cfg.Connectivity.ForceOffline {
		d.Monitor = connectivity.NewStatic(false)
		d.Logger.Info("connectivity pinned to offline")
		return
	}

	probe := connectivity.TCPProbe(cfg.Connectivity.ProbeAddr, cfg.Connectivity.ProbeTimeout)
	monitor := connectivity.NewProbeMonitor(probe, cfg.Connectivity.Interval, d.Logger)
	monitor.Start(ctx)

	d.Monitor = monitor
	d.probeMonitor = monitor
	d.Logger.Info("connectivity monitor started",
		zap.String("probe_addr", cfg.Connectivity.ProbeAddr),
		zap.Duration("interval", cfg.Connectivity.Interval))
}

func (d *Dependencies) initDispatcher(cfg *config.Config) {
	networkProvider := network.NewAdapter(network.Config{
		BaseURL: cfg.Network.BaseURL,
		APIKey:  cfg.Network.APIKey,
		Timeout: cfg.Network.Timeout,
	}, d.Logger.Named("network"))

	engine := offline.NewEstimator(cfg.Offline.Coverage)
	offlineProvider := offline.NewAdapter(engine, d.Logger.Named("offline"))

	d.Planner = dispatch.NewDispatcher(networkProvider, offlineProvider, d.Monitor, d.Logger.Named("dispatch"))
	d.Logger.Info("dispatcher initialized",
		zap.Int("coverage_regions", len(cfg.Offline.Coverage)))
}

func (d *Dependencies) initAuth(cfg *config.Config) {
	if cfg.Auth.JWTSecret == "" {
		d.Logger.Warn("JWT secret not set, route API is unauthenticated")
		return
	}
	validator := middleware.NewHS256Validator(cfg.Auth.JWTSecret)
	d.AuthMiddleware = middleware.NewAuthMiddleware(validator, d.Logger)
}
