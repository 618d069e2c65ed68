package obstacle

import (
	"github.com/kelvin-ux/sailing-regates-route/internal/geo"
	"github.com/tidwall/rtree"
)

// Index is a bounding-box spatial index over a fixed obstacle set,
// pruning the O(n) Crosses scan down to the obstacles whose bounding
// box actually overlaps a candidate segment.
type Index struct {
	tree      rtree.RTreeG[Obstacle]
	obstacles []Obstacle
}

// NewIndex builds an Index over the given obstacles.
func NewIndex(obstacles []Obstacle) *Index {
	idx := &Index{obstacles: obstacles}
	for _, o := range obstacles {
		minLat, minLon, maxLat, maxLon := o.BoundingBox()
		idx.tree.Insert([2]float64{minLon, minLat}, [2]float64{maxLon, maxLat}, o)
	}
	return idx
}

// Len reports the number of indexed obstacles.
func (idx *Index) Len() int { return len(idx.obstacles) }

// AnyCrosses reports whether seg crosses any indexed obstacle whose
// bounding box overlaps the segment's own bounding box, short-circuiting
// on the first true hit found during the tree walk.
func (idx *Index) AnyCrosses(seg geo.Segment) bool {
	minLat, maxLat := seg.A.Lat, seg.B.Lat
	if minLat > maxLat {
		minLat, maxLat = maxLat, minLat
	}
	minLon, maxLon := seg.A.Lon, seg.B.Lon
	if minLon > maxLon {
		minLon, maxLon = maxLon, minLon
	}

	hit := false
	idx.tree.Search(
		[2]float64{minLon, minLat}, [2]float64{maxLon, maxLat},
		func(_, _ [2]float64, o Obstacle) bool {
			if Crosses(seg, o) {
				hit = true
				return false // stop iterating
			}
			return true
		},
	)
	return hit
}

// Candidates returns the obstacles whose bounding box overlaps the
// given segment's bounding box, without running the precise crossing
// test. Useful for diagnostics and bulk pre-filtering.
func (idx *Index) Candidates(seg geo.Segment) []Obstacle {
	minLat, maxLat := seg.A.Lat, seg.B.Lat
	if minLat > maxLat {
		minLat, maxLat = maxLat, minLat
	}
	minLon, maxLon := seg.A.Lon, seg.B.Lon
	if minLon > maxLon {
		minLon, maxLon = maxLon, minLon
	}

	var out []Obstacle
	idx.tree.Search(
		[2]float64{minLon, minLat}, [2]float64{maxLon, maxLat},
		func(_, _ [2]float64, o Obstacle) bool {
			out = append(out, o)
			return true
		},
	)
	return out
}
