package offline

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/wayfarerhq/route-gateway/models"
	"github.com/wayfarerhq/route-gateway/services/providers"
)

// Name is the provider name reported by this adapter.
const Name = "offline"

// Adapter implements providers.RouteProvider over an on-device Engine. The
// engine search runs on a worker goroutine so the caller's goroutine is
// never blocked by graph traversal.
type Adapter struct {
	engine Engine
	logger *zap.Logger
}

// NewAdapter creates an offline route provider around engine.
func NewAdapter(engine Engine, logger *zap.Logger) *Adapter {
	return &Adapter{engine: engine, logger: logger}
}

// Name returns the provider name
func (a *Adapter) Name() string {
	return Name
}

// GetRoute runs the engine search off-thread and invokes cb exactly once.
func (a *Adapter) GetRoute(ctx context.Context, req *models.RouteRequest, cb providers.Callback) {
	go func() {
		routes, err := a.engine.Search(ctx, req)
		if err != nil {
			cb.OnFailure(a.translate(err))
			return
		}
		if len(routes) == 0 {
			cb.OnFailure(providers.NewProviderError(Name, providers.CodeNoRoute, "engine returned no routes", 0, nil))
			return
		}
		cb.OnResponse(routes)
	}()
}

func (a *Adapter) translate(err error) error {
	if errors.Is(err, ErrOutsideCoverage) {
		a.logger.Debug("offline search outside coverage", zap.Error(err))
		return providers.NewProviderError(Name, providers.CodeNoRoute, "no viable edge near endpoint", 0, err)
	}
	return providers.NewProviderError(Name, providers.CodeUnspecified, "engine search failed", 0, err)
}
