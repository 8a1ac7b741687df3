// Package offline implements the locally-resident route provider. The
// adapter runs an Engine search off the caller's goroutine and normalizes
// engine errors to ProviderError. The native tile-graph search stays behind
// the Engine interface; the shipped estimator engine produces straight-line
// candidates over configured tile coverage.
package offline

import (
	"context"
	"errors"

	"github.com/wayfarerhq/route-gateway/models"
)

// ErrOutsideCoverage is returned by an engine when an endpoint has no tile
// edge nearby.
var ErrOutsideCoverage = errors.New("no tile coverage near point")

// Engine performs the on-device route search. Implementations are
// synchronous; the adapter owns the worker goroutine.
type Engine interface {
	// Search computes candidate routes, or returns ErrOutsideCoverage when
	// an endpoint falls outside the loaded tiles.
	Search(ctx context.Context, req *models.RouteRequest) ([]models.RouteCandidate, error)
}

// Region is a tile coverage bounding box.
type Region struct {
	MinLat float64
	MinLon float64
	MaxLat float64
	MaxLon float64
}

// Contains reports whether the coordinate lies inside the region.
func (r Region) Contains(c models.Coordinate) bool {
	return c.Latitude >= r.MinLat && c.Latitude <= r.MaxLat &&
		c.Longitude >= r.MinLon && c.Longitude <= r.MaxLon
}
