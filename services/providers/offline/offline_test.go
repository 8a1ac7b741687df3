package offline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wayfarerhq/route-gateway/models"
	"github.com/wayfarerhq/route-gateway/services/providers"
)

// berlin covers the test coordinates used below.
var berlin = Region{MinLat: 52.3, MinLon: 13.0, MaxLat: 52.7, MaxLon: 13.8}

func testRequest() *models.RouteRequest {
	return &models.RouteRequest{
		Origin:      models.Coordinate{Latitude: 52.52, Longitude: 13.405},
		Destination: models.Coordinate{Latitude: 52.5, Longitude: 13.39},
		Profile:     models.ProfileDriving,
	}
}

func TestEstimatorSearch(t *testing.T) {
	engine := NewEstimator([]Region{berlin})

	routes, err := engine.Search(context.Background(), testRequest())
	require.NoError(t, err)
	require.Len(t, routes, 1)

	route := routes[0]
	assert.Equal(t, "offline", route.Provider)
	assert.NotEmpty(t, route.Geometry)
	// ~2.4 km between the two points.
	assert.InDelta(t, 2450, route.DistanceMeters, 150)
	assert.Greater(t, route.DurationSeconds, 0.0)

	require.Len(t, route.Legs, 1)
	require.Len(t, route.Legs[0].Steps, 2)
	assert.Equal(t, "depart", route.Legs[0].Steps[0].Maneuver.Type)
	assert.Equal(t, "arrive", route.Legs[0].Steps[1].Maneuver.Type)
	assert.Empty(t, route.Legs[0].Steps[0].VoiceInstructions)
}

func TestEstimatorSearchWaypointsAndInstructions(t *testing.T) {
	engine := NewEstimator([]Region{berlin})

	req := testRequest()
	req.Waypoints = []models.Waypoint{
		{Coordinate: models.Coordinate{Latitude: 52.51, Longitude: 13.4}},
	}
	req.VoiceInstructions = true
	req.BannerInstructions = true

	routes, err := engine.Search(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, routes[0].Legs, 2)

	depart := routes[0].Legs[0].Steps[0]
	require.Len(t, depart.VoiceInstructions, 1)
	require.Len(t, depart.BannerInstructions, 1)
	assert.Equal(t, depart.Maneuver.Instruction, depart.VoiceInstructions[0].Announcement)
}

func TestEstimatorSearchOutsideCoverage(t *testing.T) {
	engine := NewEstimator([]Region{berlin})

	req := testRequest()
	req.Destination = models.Coordinate{Latitude: 48.85, Longitude: 2.35} // Paris

	_, err := engine.Search(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutsideCoverage)
}

func TestEstimatorNoCoverageMeansEverywhere(t *testing.T) {
	engine := NewEstimator(nil)

	routes, err := engine.Search(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Len(t, routes, 1)
}

func TestEstimatorProfileSpeeds(t *testing.T) {
	engine := NewEstimator(nil)

	drivingReq := testRequest()
	walkingReq := testRequest()
	walkingReq.Profile = models.ProfileWalking

	driving, err := engine.Search(context.Background(), drivingReq)
	require.NoError(t, err)
	walking, err := engine.Search(context.Background(), walkingReq)
	require.NoError(t, err)

	assert.Greater(t, walking[0].DurationSeconds, driving[0].DurationSeconds)
}

// scriptedEngine lets adapter tests control the search result.
type scriptedEngine struct {
	routes []models.RouteCandidate
	err    error
}

func (s *scriptedEngine) Search(ctx context.Context, req *models.RouteRequest) ([]models.RouteCandidate, error) {
	return s.routes, s.err
}

func awaitOutcome(t *testing.T, adapter *Adapter, req *models.RouteRequest) ([]models.RouteCandidate, error) {
	t.Helper()
	routesCh := make(chan []models.RouteCandidate, 1)
	errCh := make(chan error, 1)
	adapter.GetRoute(context.Background(), req, providers.CallbackFuncs{
		Response: func(routes []models.RouteCandidate) { routesCh <- routes },
		Failure:  func(err error) { errCh <- err },
	})
	select {
	case routes := <-routesCh:
		return routes, nil
	case err := <-errCh:
		return nil, err
	case <-time.After(2 * time.Second):
		t.Fatal("no callback delivery")
		return nil, nil
	}
}

func TestAdapterSuccess(t *testing.T) {
	engine := &scriptedEngine{routes: []models.RouteCandidate{{Provider: Name}}}
	adapter := NewAdapter(engine, zap.NewNop())

	routes, err := awaitOutcome(t, adapter, testRequest())
	require.NoError(t, err)
	assert.Len(t, routes, 1)
	assert.Equal(t, "offline", adapter.Name())
}

func TestAdapterCoverageMissBecomesNoRoute(t *testing.T) {
	engine := &scriptedEngine{err: ErrOutsideCoverage}
	adapter := NewAdapter(engine, zap.NewNop())

	_, err := awaitOutcome(t, adapter, testRequest())
	require.Error(t, err)
	assert.Equal(t, providers.CodeNoRoute, providers.ErrorCode(err))
}

func TestAdapterEngineFailureBecomesUnspecified(t *testing.T) {
	engine := &scriptedEngine{err: errors.New("graph corrupted")}
	adapter := NewAdapter(engine, zap.NewNop())

	_, err := awaitOutcome(t, adapter, testRequest())
	require.Error(t, err)
	assert.Equal(t, providers.CodeUnspecified, providers.ErrorCode(err))
}

func TestAdapterEmptyResultBecomesNoRoute(t *testing.T) {
	engine := &scriptedEngine{}
	adapter := NewAdapter(engine, zap.NewNop())

	_, err := awaitOutcome(t, adapter, testRequest())
	require.Error(t, err)
	assert.Equal(t, providers.CodeNoRoute, providers.ErrorCode(err))
}
