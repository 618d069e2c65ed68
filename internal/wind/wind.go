// Package wind models a sparse sampled wind field and the
// nearest-neighbour lookup the graph builder uses to price an edge.
package wind

import (
	"time"

	"github.com/kelvin-ux/sailing-regates-route/internal/geo"
)

// DefaultSpeedMS and DefaultDirectionDeg are the fallback sample used
// when a field is empty: 5 m/s from the west (270 degrees).
const (
	DefaultSpeedMS     = 5.0
	DefaultDirectionDeg = 270.0
)

// Sample is a single wind observation. DirectionDeg is the
// meteorological "from" direction, clockwise from true north.
type Sample struct {
	Point        geo.Point
	SpeedMS      float64
	DirectionDeg float64
	GustMS       *float64
	Timestamp    time.Time
}

// DefaultSample returns the field's fallback observation at the given
// point.
func DefaultSample(p geo.Point) Sample {
	return Sample{Point: p, SpeedMS: DefaultSpeedMS, DirectionDeg: DefaultDirectionDeg}
}

// Bounds is a rectangular lat/lon window, north/south/east/west in
// degrees.
type Bounds struct {
	North, South, East, West float64
}

// Field is an ordered set of wind samples over a rectangular area,
// a snapshot at a single point in time — no temporal interpolation.
type Field struct {
	Bounds  Bounds
	Samples []Sample
}

// At returns the sample closest to point by great-circle distance,
// ties broken by insertion (slice) order. On an empty field it
// returns the package default rather than panicking, though the core
// planner guarantees it is only ever called with a non-empty field.
func (f Field) At(point geo.Point) Sample {
	if len(f.Samples) == 0 {
		return DefaultSample(point)
	}

	best := f.Samples[0]
	bestDist := geo.DistanceNM(point, best.Point)
	for _, s := range f.Samples[1:] {
		d := geo.DistanceNM(point, s.Point)
		if d < bestDist {
			bestDist = d
			best = s
		}
	}
	return best
}

// DefaultGrid synthesises a 3x3 field spanning bounds, entirely made
// of the package default sample — the fallback a provider MUST
// produce when the live upstream is unavailable.
func DefaultGrid(bounds Bounds) Field {
	samples := make([]Sample, 0, 9)
	lats := []float64{bounds.South, (bounds.South + bounds.North) / 2, bounds.North}
	lons := []float64{bounds.West, (bounds.West + bounds.East) / 2, bounds.East}
	for _, lat := range lats {
		for _, lon := range lons {
			samples = append(samples, DefaultSample(geo.Point{Lat: lat, Lon: lon}))
		}
	}
	return Field{Bounds: bounds, Samples: samples}
}
