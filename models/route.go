package models

import "time"

// Profile identifies the travel profile a route is computed for.
type Profile string

const (
	ProfileDriving Profile = "driving"
	ProfileWalking Profile = "walking"
	ProfileCycling Profile = "cycling"
)

// Valid reports whether the profile is one of the supported values.
func (p Profile) Valid() bool {
	switch p {
	case ProfileDriving, ProfileWalking, ProfileCycling:
		return true
	}
	return false
}

// Coordinate is a WGS84 point.
type Coordinate struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

// Waypoint is an intermediate stop between origin and destination.
type Waypoint struct {
	Coordinate Coordinate `json:"coordinate"`
	Name       string     `json:"name,omitempty"`
}

// RouteRequest describes one trip-planning request.
//
// A request is immutable once built: the dispatcher and both providers pass
// it through without touching coordinates, profile, or options.
type RouteRequest struct {
	Origin      Coordinate `json:"origin" validate:"required"`
	Destination Coordinate `json:"destination" validate:"required"`
	Waypoints   []Waypoint `json:"waypoints,omitempty" validate:"dive"`

	// Profile selects the travel mode. Defaults to driving when empty.
	Profile Profile `json:"profile,omitempty"`

	// Language is a BCP 47 tag for turn instructions (e.g. "en-US").
	Language string `json:"language,omitempty"`

	// VoiceInstructions and BannerInstructions ask providers to include
	// spoken / visual guidance on each step.
	VoiceInstructions  bool `json:"voice_instructions,omitempty"`
	BannerInstructions bool `json:"banner_instructions,omitempty"`
}

// RouteCandidate is one computed route. Candidates are produced only by a
// route provider; nothing downstream constructs or edits one.
type RouteCandidate struct {
	// Geometry is the full route shape as an encoded polyline
	// (Google's Encoded Polyline Algorithm format, precision 5).
	Geometry string `json:"geometry"`

	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`

	Legs []RouteLeg `json:"legs"`

	// Provider names the provider that produced this candidate.
	Provider string `json:"provider,omitempty"`
}

// Duration returns the candidate travel time as a time.Duration.
func (c *RouteCandidate) Duration() time.Duration {
	return time.Duration(c.DurationSeconds * float64(time.Second))
}

// RouteLeg is the portion of a route between two consecutive waypoints.
type RouteLeg struct {
	DistanceMeters  float64     `json:"distance_meters"`
	DurationSeconds float64     `json:"duration_seconds"`
	Summary         string      `json:"summary,omitempty"`
	Steps           []RouteStep `json:"steps"`
}

// RouteStep is a single instruction segment within a leg.
type RouteStep struct {
	DistanceMeters  float64  `json:"distance_meters"`
	DurationSeconds float64  `json:"duration_seconds"`
	Geometry        string   `json:"geometry,omitempty"`
	Maneuver        Maneuver `json:"maneuver"`

	VoiceInstructions  []VoiceInstruction  `json:"voice_instructions,omitempty"`
	BannerInstructions []BannerInstruction `json:"banner_instructions,omitempty"`
}

// Maneuver describes the action at the start of a step.
type Maneuver struct {
	// Type is the maneuver kind (e.g. "depart", "turn", "arrive").
	Type        string     `json:"type"`
	Modifier    string     `json:"modifier,omitempty"`
	Instruction string     `json:"instruction,omitempty"`
	Location    Coordinate `json:"location"`
}

// VoiceInstruction is a spoken guidance prompt for a step.
type VoiceInstruction struct {
	// DistanceAlongMeters is how far before the maneuver the prompt fires.
	DistanceAlongMeters float64 `json:"distance_along_meters"`
	Announcement        string  `json:"announcement"`
	SSML                string  `json:"ssml,omitempty"`
}

// BannerInstruction is the visual guidance shown during a step.
type BannerInstruction struct {
	DistanceAlongMeters float64 `json:"distance_along_meters"`
	PrimaryText         string  `json:"primary_text"`
	SecondaryText       string  `json:"secondary_text,omitempty"`
}
