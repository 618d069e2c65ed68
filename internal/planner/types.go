package planner

import (
	"errors"
	"time"

	"github.com/kelvin-ux/sailing-regates-route/internal/geo"
	"github.com/kelvin-ux/sailing-regates-route/internal/polar"
)

// ErrKind classifies a planning failure for adapters to map onto
// their own transport (see internal/api for the HTTP mapping).
type ErrKind string

const (
	ErrInvalidRequest ErrKind = "invalid_request"
	ErrTimeout        ErrKind = "timeout"
	ErrInternal       ErrKind = "internal"
)

// PlanError carries a classified planning failure. NoRouteFound is
// deliberately not one of these kinds: the core signals it by
// returning a fallback Route with Fallback=true rather than an error,
// per the propagation policy.
type PlanError struct {
	Kind ErrKind
	Err  error
}

func (e *PlanError) Error() string { return string(e.Kind) + ": " + e.Err.Error() }
func (e *PlanError) Unwrap() error { return e.Err }

func invalidRequest(err error) *PlanError { return &PlanError{Kind: ErrInvalidRequest, Err: err} }
func timeout(err error) *PlanError        { return &PlanError{Kind: ErrTimeout, Err: err} }
func internalErr(err error) *PlanError    { return &PlanError{Kind: ErrInternal, Err: err} }

var (
	errSameOrigin     = errors.New("origin and destination must differ")
	errBadCoordinate  = errors.New("coordinate out of range")
	errBadResolution  = errors.New("grid_resolution_nm must be in [0.1, 2.0]")
	errBadMargin      = errors.New("corridor_margin_nm must be in [0.5, 10.0]")
	errMalformedPolar = errors.New("polar curve is malformed")
)

// Request describes a single planning request.
type Request struct {
	Origin            geo.Point
	Destination       geo.Point
	GridResolutionNM   float64
	CorridorMarginNM   float64
	Polar              *polar.Curve // optional, default supplied when nil
	Deadline           time.Duration // optional, default supplied when zero
	Seed               *int64        // optional sampler seed
}

const (
	minGridResolutionNM = 0.1
	maxGridResolutionNM = 2.0
	minCorridorMarginNM = 0.5
	maxCorridorMarginNM = 10.0

	// DefaultDeadline is the wall-clock budget applied when the
	// request does not specify one.
	DefaultDeadline = 30 * time.Second
)

func (r Request) validate() error {
	if !r.Origin.Valid() || !r.Destination.Valid() {
		return invalidRequest(errBadCoordinate)
	}
	if r.Origin.Equal(r.Destination) {
		return invalidRequest(errSameOrigin)
	}
	if r.GridResolutionNM < minGridResolutionNM || r.GridResolutionNM > maxGridResolutionNM {
		return invalidRequest(errBadResolution)
	}
	if r.CorridorMarginNM < minCorridorMarginNM || r.CorridorMarginNM > maxCorridorMarginNM {
		return invalidRequest(errBadMargin)
	}
	if r.Polar != nil {
		if err := r.Polar.Validate(); err != nil {
			return invalidRequest(errMalformedPolar)
		}
	}
	return nil
}

// Leg is one edge of a computed route, with reporting metadata
// recomputed for the actual direction of travel.
type Leg struct {
	From, To     geo.Point
	BearingDeg   float64
	DistanceNM   float64
	WindSpeedMS  float64
	WindDirDeg   float64
	BoatSpeedKts float64
	TimeHours    float64
}

// Route is the planner's output: an ordered, non-empty waypoint
// sequence with per-leg and aggregate metrics.
type Route struct {
	Waypoints     []geo.Point
	Legs          []Leg
	TotalDistanceNM float64
	TotalTimeHours  float64
	Fallback      bool // true when no path was found and this is the direct-leg substitute
}
