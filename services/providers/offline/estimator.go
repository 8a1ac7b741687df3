package offline

import (
	"context"
	"fmt"
	"math"

	"github.com/twpayne/go-polyline"

	"github.com/wayfarerhq/route-gateway/models"
)

// Travel speeds in m/s used by the estimator, keyed by profile.
// ~30 km/h is a typical urban driving speed.
var profileSpeedMPS = map[models.Profile]float64{
	models.ProfileDriving: 30.0 / 3.6,
	models.ProfileCycling: 15.0 / 3.6,
	models.ProfileWalking: 5.0 / 3.6,
}

// Estimator is a straight-line route engine over a set of tile coverage
// regions. It stands in for a full graph search: one candidate per request,
// legs drawn as great-circle segments between consecutive stops.
type Estimator struct {
	coverage []Region
}

// NewEstimator creates an estimator engine. With no regions every point is
// considered covered.
func NewEstimator(coverage []Region) *Estimator {
	return &Estimator{coverage: coverage}
}

// Search implements Engine.
func (e *Estimator) Search(ctx context.Context, req *models.RouteRequest) ([]models.RouteCandidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stops := make([]models.Coordinate, 0, len(req.Waypoints)+2)
	stops = append(stops, req.Origin)
	for _, wp := range req.Waypoints {
		stops = append(stops, wp.Coordinate)
	}
	stops = append(stops, req.Destination)

	for _, stop := range stops {
		if !e.covered(stop) {
			return nil, fmt.Errorf("point %.5f,%.5f: %w", stop.Latitude, stop.Longitude, ErrOutsideCoverage)
		}
	}

	speed := profileSpeedMPS[req.Profile]
	if speed == 0 {
		speed = profileSpeedMPS[models.ProfileDriving]
	}

	candidate := models.RouteCandidate{Provider: Name}
	coords := make([][]float64, 0, len(stops))
	for i := 0; i+1 < len(stops); i++ {
		from, to := stops[i], stops[i+1]
		distM := haversineMeters(from, to)
		durS := distM / speed

		leg := models.RouteLeg{
			DistanceMeters:  distM,
			DurationSeconds: durS,
			Steps: []models.RouteStep{
				departStep(from, to, distM, durS, req),
				arriveStep(to, req),
			},
		}
		candidate.Legs = append(candidate.Legs, leg)
		candidate.DistanceMeters += distM
		candidate.DurationSeconds += durS
		coords = append(coords, []float64{from.Latitude, from.Longitude})
	}
	last := stops[len(stops)-1]
	coords = append(coords, []float64{last.Latitude, last.Longitude})
	candidate.Geometry = string(polyline.EncodeCoords(coords))

	return []models.RouteCandidate{candidate}, nil
}

func (e *Estimator) covered(c models.Coordinate) bool {
	if len(e.coverage) == 0 {
		return true
	}
	for _, region := range e.coverage {
		if region.Contains(c) {
			return true
		}
	}
	return false
}

func departStep(from, to models.Coordinate, distM, durS float64, req *models.RouteRequest) models.RouteStep {
	instruction := fmt.Sprintf("Head toward %.5f, %.5f", to.Latitude, to.Longitude)
	step := models.RouteStep{
		DistanceMeters:  distM,
		DurationSeconds: durS,
		Geometry: string(polyline.EncodeCoords([][]float64{
			{from.Latitude, from.Longitude},
			{to.Latitude, to.Longitude},
		})),
		Maneuver: models.Maneuver{
			Type:        "depart",
			Instruction: instruction,
			Location:    from,
		},
	}
	if req.VoiceInstructions {
		step.VoiceInstructions = []models.VoiceInstruction{
			{DistanceAlongMeters: distM, Announcement: instruction},
		}
	}
	if req.BannerInstructions {
		step.BannerInstructions = []models.BannerInstruction{
			{DistanceAlongMeters: distM, PrimaryText: instruction},
		}
	}
	return step
}

func arriveStep(at models.Coordinate, req *models.RouteRequest) models.RouteStep {
	const instruction = "You have arrived"
	step := models.RouteStep{
		Maneuver: models.Maneuver{
			Type:        "arrive",
			Instruction: instruction,
			Location:    at,
		},
	}
	if req.VoiceInstructions {
		step.VoiceInstructions = []models.VoiceInstruction{
			{Announcement: instruction},
		}
	}
	if req.BannerInstructions {
		step.BannerInstructions = []models.BannerInstruction{
			{PrimaryText: instruction},
		}
	}
	return step
}

// haversineMeters computes the great-circle distance in meters between two
// WGS84 points.
func haversineMeters(a, b models.Coordinate) float64 {
	const earthRadiusM = 6_371_000.0
	const deg2rad = math.Pi / 180.0

	dLat := (b.Latitude - a.Latitude) * deg2rad
	dLon := (b.Longitude - a.Longitude) * deg2rad
	latA := a.Latitude * deg2rad
	latB := b.Latitude * deg2rad

	sinDLat := math.Sin(dLat / 2)
	sinDLon := math.Sin(dLon / 2)
	h := sinDLat*sinDLat + math.Cos(latA)*math.Cos(latB)*sinDLon*sinDLon
	return earthRadiusM * 2 * math.Asin(math.Sqrt(h))
}
