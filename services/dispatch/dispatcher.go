// Package dispatch contains the hybrid dispatcher: the component that picks
// one of the two route providers per request based on connectivity, watches
// the outcome, and fails over to the alternate provider at most once before
// reporting a terminal result to the caller.
package dispatch

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wayfarerhq/route-gateway/models"
	"github.com/wayfarerhq/route-gateway/services/connectivity"
	"github.com/wayfarerhq/route-gateway/services/providers"
)

// Dispatcher routes each request to the network or offline provider and
// fails over to the other one when the first cannot produce a result.
type Dispatcher struct {
	network providers.RouteProvider
	local   providers.RouteProvider
	monitor connectivity.Monitor
	logger  *zap.Logger
}

// NewDispatcher creates a dispatcher over the two providers and a
// connectivity monitor. The monitor is polled once per call; flips during an
// in-flight attempt do not redirect it.
func NewDispatcher(network, local providers.RouteProvider, monitor connectivity.Monitor, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		network: network,
		local:   local,
		monitor: monitor,
		logger:  logger,
	}
}

// attempt is the per-call bookkeeping record. The provider pair is fixed at
// creation; fallbackUsed flips at most once. The provider contract (exactly
// one callback invocation, fallback launched only after the primary's
// callback fired) makes all touches of an attempt strictly sequential, so no
// locking is needed.
type attempt struct {
	id       string
	ctx      context.Context
	req      *models.RouteRequest
	fallback providers.RouteProvider

	fallbackUsed bool
	cb           providers.Callback
}

// GetRoute starts one dispatch attempt and returns immediately. cb is
// invoked exactly once: with the first successful candidate list, or with
// the last attempted provider's failure after the single failover was
// exhausted.
//
// Selection is a pure function of connectivity at call time: connected means
// the network provider goes first, otherwise (including when the state is
// unknown) the local provider goes first. Concurrent calls create
// independent attempts.
func (d *Dispatcher) GetRoute(ctx context.Context, req *models.RouteRequest, cb providers.Callback) {
	connected := d.monitor.CurrentlyConnected()

	primary, fallback := d.local, d.network
	if connected {
		primary, fallback = d.network, d.local
	}

	at := &attempt{
		id:       uuid.NewString(),
		ctx:      ctx,
		req:      req,
		fallback: fallback,
		cb:       cb,
	}

	d.logger.Debug("dispatching route request",
		zap.String("attempt_id", at.id),
		zap.Bool("connected", connected),
		zap.String("primary", primary.Name()),
		zap.String("fallback", fallback.Name()))

	primary.GetRoute(ctx, req, &legCallback{d: d, at: at, provider: primary.Name()})
}

// GetRouteSync dispatches req and blocks until the terminal outcome. When
// ctx expires first it stops waiting, but the in-flight provider call still
// runs to completion; the dispatcher never cancels an attempt.
func (d *Dispatcher) GetRouteSync(ctx context.Context, req *models.RouteRequest) ([]models.RouteCandidate, error) {
	routesCh := make(chan []models.RouteCandidate, 1)
	errCh := make(chan error, 1)

	d.GetRoute(ctx, req, providers.CallbackFuncs{
		Response: func(routes []models.RouteCandidate) { routesCh <- routes },
		Failure:  func(err error) { errCh <- err },
	})

	select {
	case routes := <-routesCh:
		return routes, nil
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// legCallback is the internal callback bound to one provider invocation of
// one attempt. A fresh one is created for the fallback leg.
type legCallback struct {
	d          *Dispatcher
	at         *attempt
	provider   string
	isFallback bool
}

// OnResponse forwards a success to the caller unchanged, whichever leg it
// came from.
func (c *legCallback) OnResponse(routes []models.RouteCandidate) {
	c.d.logger.Info("route computed",
		zap.String("attempt_id", c.at.id),
		zap.String("provider", c.provider),
		zap.Bool("via_fallback", c.isFallback),
		zap.Int("candidates", len(routes)))
	c.at.cb.OnResponse(routes)
}

// OnFailure absorbs the primary's failure and launches the single fallback;
// the fallback's failure is the only one surfaced to the caller.
func (c *legCallback) OnFailure(err error) {
	if !c.isFallback && !c.at.fallbackUsed {
		c.at.fallbackUsed = true
		c.d.logger.Warn("primary provider failed, failing over",
			zap.String("attempt_id", c.at.id),
			zap.String("provider", c.provider),
			zap.String("fallback", c.at.fallback.Name()),
			zap.Error(err))
		c.at.fallback.GetRoute(c.at.ctx, c.at.req, &legCallback{
			d:          c.d,
			at:         c.at,
			provider:   c.at.fallback.Name(),
			isFallback: true,
		})
		return
	}

	c.d.logger.Warn("fallback provider failed, surfacing error",
		zap.String("attempt_id", c.at.id),
		zap.String("provider", c.provider),
		zap.Error(err))
	c.at.cb.OnFailure(err)
}
