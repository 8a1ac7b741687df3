package providers

import (
	"context"

	"github.com/wayfarerhq/route-gateway/models"
)

// Callback receives the outcome of a route computation. A provider invokes
// exactly one of the two methods, exactly once per GetRoute call. The
// dispatcher's failover bookkeeping depends on this contract: zero
// invocations stall an attempt forever, a second invocation corrupts it.
type Callback interface {
	// OnResponse delivers a non-empty, ordered list of candidates.
	OnResponse(routes []models.RouteCandidate)

	// OnFailure delivers the terminal error for this computation.
	OnFailure(err error)
}

// CallbackFuncs adapts plain functions to the Callback interface. Either
// field may be nil; the corresponding delivery is then dropped.
type CallbackFuncs struct {
	Response func(routes []models.RouteCandidate)
	Failure  func(err error)
}

func (c CallbackFuncs) OnResponse(routes []models.RouteCandidate) {
	if c.Response != nil {
		c.Response(routes)
	}
}

func (c CallbackFuncs) OnFailure(err error) {
	if c.Failure != nil {
		c.Failure(err)
	}
}

// RouteProvider computes candidate routes for a request. Two variants exist
// behind this contract: a network-backed directions API and a local on-device
// engine. GetRoute returns immediately; the computation runs on the
// provider's own execution context and reports through cb.
//
// The request must be passed through unmodified.
type RouteProvider interface {
	// Name returns the provider name (e.g. "network", "offline").
	Name() string

	// GetRoute computes routes for req and invokes cb exactly once.
	GetRoute(ctx context.Context, req *models.RouteRequest, cb Callback)
}
