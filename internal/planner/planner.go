// Package planner is the facade the outer API invokes: it orchestrates
// corridor sampling, graph construction, and search into a single
// Plan call, and reports NoRouteFound as a flagged fallback route
// rather than an error.
package planner

import (
	"context"
	"errors"
	"math"

	"github.com/kelvin-ux/sailing-regates-route/internal/corridor"
	"github.com/kelvin-ux/sailing-regates-route/internal/geo"
	"github.com/kelvin-ux/sailing-regates-route/internal/obstacle"
	"github.com/kelvin-ux/sailing-regates-route/internal/polar"
	"github.com/kelvin-ux/sailing-regates-route/internal/routegraph"
	"github.com/kelvin-ux/sailing-regates-route/internal/search"
	"github.com/kelvin-ux/sailing-regates-route/internal/wind"
)

// Plan computes a time-optimal route from request.Origin to
// request.Destination inside field, avoiding obstacles, using curve
// (or the default polar when request.Polar is nil).
//
// A search that exhausts the open set is not an error: Plan returns a
// two-point direct route with Fallback set to true, matching the
// spec's NoRouteFound propagation policy. Callers that want to treat
// this as an error condition should check Route.Fallback themselves.
func Plan(ctx context.Context, request Request, obstacles []obstacle.Obstacle, field wind.Field) (Route, error) {
	if err := request.validate(); err != nil {
		return Route{}, err
	}

	deadline := request.Deadline
	if deadline <= 0 {
		deadline = DefaultDeadline
	}
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	curve := polar.Default()
	if request.Polar != nil {
		curve = *request.Polar
	}

	samples, err := corridor.Generate(ctx, corridor.Config{
		MinDistanceNM: request.GridResolutionNM,
		MarginNM:      request.CorridorMarginNM,
		Seed:          request.Seed,
	}, request.Origin, request.Destination)
	if err != nil {
		return Route{}, classifyContextErr(err)
	}

	maxEdgeNM := routegraph.MaxEdgeFactor * request.GridResolutionNM
	graph, err := routegraph.Build(ctx, samples, obstacles, field, curve, maxEdgeNM)
	if err != nil {
		return Route{}, classifyContextErr(err)
	}

	startIdx := graph.NearestVertex(request.Origin)
	goalIdx := graph.NearestVertex(request.Destination)

	vRef := referenceSpeed(curve)
	result, err := search.AStar(ctx, graph, startIdx, goalIdx, vRef)
	if err != nil {
		if errors.Is(err, search.ErrNoPath) {
			return fallbackRoute(request, field, curve), nil
		}
		return Route{}, classifyContextErr(err)
	}

	return assembleRoute(graph, result, field, curve)
}

// referenceSpeed derives a tight admissible heuristic bound: the
// polar's peak speed scaled by the maximum wind factor, per the
// spec's guidance that this is "acceptable and tighter" than a flat
// default.
func referenceSpeed(curve polar.Curve) float64 {
	peak := 0.0
	for _, k := range curve.Knots {
		if k.SpeedKts > peak {
			peak = k.SpeedKts
		}
	}
	if peak <= 0 {
		return search.DefaultVRefKts
	}
	return peak * polar.MaxWindScale
}

func classifyContextErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return timeout(err)
	}
	return internalErr(err)
}

func fallbackRoute(request Request, field wind.Field, curve polar.Curve) Route {
	leg := buildLeg(request.Origin, request.Destination, field, curve)
	return Route{
		Waypoints:       []geo.Point{request.Origin, request.Destination},
		Legs:            []Leg{leg},
		TotalDistanceNM: leg.DistanceNM,
		TotalTimeHours:  leg.TimeHours,
		Fallback:        true,
	}
}

func assembleRoute(g *routegraph.Graph, result search.Result, field wind.Field, curve polar.Curve) (Route, error) {
	waypoints := make([]geo.Point, len(result.VertexPath))
	for i, v := range result.VertexPath {
		waypoints[i] = g.Vertices[v]
	}

	legs := make([]Leg, 0, len(waypoints)-1)
	var totalDist, totalTime float64
	for i := 0; i+1 < len(waypoints); i++ {
		leg := buildLeg(waypoints[i], waypoints[i+1], field, curve)
		legs = append(legs, leg)
		totalDist += leg.DistanceNM
		totalTime += leg.TimeHours
	}

	return Route{
		Waypoints:       waypoints,
		Legs:            legs,
		TotalDistanceNM: totalDist,
		TotalTimeHours:  totalTime,
	}, nil
}

// buildLeg recomputes wind/bearing/speed for the actual direction of
// travel, rather than trusting the graph edge's (origin-sampled,
// direction-agnostic) metadata.
func buildLeg(from, to geo.Point, field wind.Field, curve polar.Curve) Leg {
	d := geo.DistanceNM(from, to)
	b := geo.BearingDeg(from, to)
	w := field.At(from)
	twa := geo.FoldAngle(b - w.DirectionDeg)
	boatSpeed := curve.BoatSpeed(twa, w.SpeedMS)

	// A stalled leg (boat speed 0, e.g. dead head-to-wind) has no
	// finite sailing time. Graph edges with zero boat speed are
	// discarded during construction, but that check uses the wind at
	// the edge's original origin vertex; here the wind is sampled at the
	// traversal origin, so besides the fallback direct-leg route a stall
	// can also appear on an edge traversed in reverse in a non-uniform
	// field.
	timeHours := math.Inf(1)
	if boatSpeed > 0 {
		timeHours = d / boatSpeed
	}

	return Leg{
		From: from, To: to,
		BearingDeg:   b,
		DistanceNM:   d,
		WindSpeedMS:  w.SpeedMS,
		WindDirDeg:   w.DirectionDeg,
		BoatSpeedKts: boatSpeed,
		TimeHours:    timeHours,
	}
}
