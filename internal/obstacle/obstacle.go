// Package obstacle models static hazards (shoals, islands, platforms,
// restricted areas) as closed polygons and answers the segment/polygon
// intersection queries the graph builder needs.
package obstacle

import (
	"errors"
	"math"

	"github.com/kelvin-ux/sailing-regates-route/internal/geo"
)

var (
	errInvalidRing      = errors.New("obstacle: ring must have at least 3 points")
	errSelfIntersecting = errors.New("obstacle: ring edges self-intersect")
)

// Kind classifies an obstacle for reporting and future filtering.
type Kind string

const (
	KindShoal      Kind = "shoal"
	KindIsland     Kind = "island"
	KindPlatform   Kind = "platform"
	KindRestricted Kind = "restricted"
)

// Obstacle is a simple closed polygon treated as impassable: any route
// segment crossing its interior (or boundary) is forbidden.
type Obstacle struct {
	ID        string
	Kind      Kind
	Ring      []geo.Point // ring of >= 3 points, non-self-intersecting
	MinDepthM *float64    // optional, meaningful for shoals
}

// BoundingBox returns the obstacle's axis-aligned lat/lon bounding box.
func (o Obstacle) BoundingBox() (minLat, minLon, maxLat, maxLon float64) {
	minLat, minLon = math.Inf(1), math.Inf(1)
	maxLat, maxLon = math.Inf(-1), math.Inf(-1)
	for _, p := range o.Ring {
		minLat = math.Min(minLat, p.Lat)
		maxLat = math.Max(maxLat, p.Lat)
		minLon = math.Min(minLon, p.Lon)
		maxLon = math.Max(maxLon, p.Lon)
	}
	return
}

// Crosses reports whether the straight line between the segment's
// endpoints intersects the obstacle's closed interior. Touching the
// boundary counts as crossing (conservative, per spec).
func Crosses(seg geo.Segment, o Obstacle) bool {
	ring := o.Ring
	n := len(ring)
	if n < 3 {
		return false
	}

	// Either endpoint resting inside (or on) the polygon is a crossing.
	if pointInOrOnPolygon(seg.A, ring) || pointInOrOnPolygon(seg.B, ring) {
		return true
	}

	for i := 0; i < n; i++ {
		edgeA := ring[i]
		edgeB := ring[(i+1)%n]
		if segmentsIntersect(seg.A, seg.B, edgeA, edgeB) {
			return true
		}
	}

	return false
}

// AnyCrosses reports whether seg crosses any of the given obstacles,
// short-circuiting on the first hit. obstacles SHOULD already be
// pruned by bounding box before calling this (see Index).
func AnyCrosses(seg geo.Segment, obstacles []Obstacle) bool {
	for _, o := range obstacles {
		if Crosses(seg, o) {
			return true
		}
	}
	return false
}

// pointInOrOnPolygon is a ray-casting point-in-polygon test that also
// treats boundary membership as "inside", a conservative
// touching-counts-as-crossing rule. Winding-direction agnostic.
func pointInOrOnPolygon(p geo.Point, ring []geo.Point) bool {
	n := len(ring)
	if n < 3 {
		return false
	}

	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		a, b := ring[i], ring[j]

		if isPointOnSegment(p, a, b) {
			return true
		}

		if (a.Lon > p.Lon) != (b.Lon > p.Lon) {
			xIntersect := (p.Lon-a.Lon)*(b.Lat-a.Lat)/(b.Lon-a.Lon) + a.Lat
			if p.Lat < xIntersect {
				inside = !inside
			}
		}
		j = i
	}

	return inside
}

// segmentsIntersect reports whether segment p1-p2 crosses segment p3-p4,
// in lon/lat space. Handles the collinear-overlap case explicitly.
func segmentsIntersect(p1, p2, p3, p4 geo.Point) bool {
	d := (p1.Lat-p2.Lat)*(p3.Lon-p4.Lon) - (p1.Lon-p2.Lon)*(p3.Lat-p4.Lat)

	if math.Abs(d) < 1e-12 {
		return isPointOnSegment(p1, p3, p4) || isPointOnSegment(p2, p3, p4) ||
			isPointOnSegment(p3, p1, p2) || isPointOnSegment(p4, p1, p2)
	}

	t := ((p1.Lat-p3.Lat)*(p3.Lon-p4.Lon) - (p1.Lon-p3.Lon)*(p3.Lat-p4.Lat)) / d
	u := -((p1.Lat-p2.Lat)*(p1.Lon-p3.Lon) - (p1.Lon-p2.Lon)*(p1.Lat-p3.Lat)) / d

	return t >= 0 && t <= 1 && u >= 0 && u <= 1
}

func isPointOnSegment(p, a, b geo.Point) bool {
	minLat, maxLat := math.Min(a.Lat, b.Lat), math.Max(a.Lat, b.Lat)
	minLon, maxLon := math.Min(a.Lon, b.Lon), math.Max(a.Lon, b.Lon)

	const eps = 1e-9
	if p.Lat < minLat-eps || p.Lat > maxLat+eps || p.Lon < minLon-eps || p.Lon > maxLon+eps {
		return false
	}

	area := (b.Lon-a.Lon)*(p.Lat-a.Lat) - (p.Lon-a.Lon)*(b.Lat-a.Lat)
	return math.Abs(area) < 1e-9
}

// Validate checks the structural invariants of an obstacle polygon: at
// least 3 vertices and no self-intersection between non-adjacent edges.
func (o Obstacle) Validate() error {
	if len(o.Ring) < 3 {
		return errInvalidRing
	}
	n := len(o.Ring)
	for i := 0; i < n; i++ {
		a1, a2 := o.Ring[i], o.Ring[(i+1)%n]
		for j := i + 1; j < n; j++ {
			if j == i+1 || (j+1)%n == i {
				continue
			}
			b1, b2 := o.Ring[j], o.Ring[(j+1)%n]
			if segmentsIntersect(a1, a2, b1, b2) {
				return errSelfIntersecting
			}
		}
	}
	return nil
}
