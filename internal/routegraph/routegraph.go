// Package routegraph builds the weighted visibility graph the search
// component runs over: vertices are the sampled points, edges connect
// pairs with an obstacle-free line-of-sight and a wind-priced sailing
// time.
package routegraph

import (
	"context"
	"runtime"
	"sync"

	"github.com/kelvin-ux/sailing-regates-route/internal/geo"
	"github.com/kelvin-ux/sailing-regates-route/internal/obstacle"
	"github.com/kelvin-ux/sailing-regates-route/internal/polar"
	"github.com/kelvin-ux/sailing-regates-route/internal/wind"
)

// MaxEdgeFactor is the multiple of grid resolution used as the default
// maximum edge length.
const MaxEdgeFactor = 5.0

// Edge is a weighted connection between two vertex indices, carrying
// the leg metadata needed to report it later. Build stores every edge
// under both endpoints; the reverse entry swaps U and V but keeps the
// time, bearing, wind and boat speed priced for the original direction.
type Edge struct {
	U, V         int
	DistanceNM   float64
	TimeHours    float64
	BearingDeg   float64 // original direction of pricing
	WindSpeedMS  float64 // sampled at the original origin vertex
	WindDirDeg   float64 // sampled at the original origin vertex
	BoatSpeedKts float64
}

// Graph is an undirected visibility graph over a fixed vertex set.
type Graph struct {
	Vertices []geo.Point
	Adjacency map[int][]Edge
}

// pair is a candidate vertex index pair evaluated by a worker.
type pair struct{ i, j int }

// Build constructs the graph: for every vertex pair within
// maxEdgeNM whose connecting segment does not cross an obstacle, it
// prices the leg using wind sampled at the edge's origin vertex and
// the supplied polar, discarding edges the boat cannot sail. The
// evaluation loop fans out across a bounded worker pool — it is
// embarrassingly parallel because each pair is priced independently.
func Build(ctx context.Context, vertices []geo.Point, obstacles []obstacle.Obstacle, field wind.Field, curve polar.Curve, maxEdgeNM float64) (*Graph, error) {
	idx := obstacle.NewIndex(obstacles)
	n := len(vertices)

	pairs := make(chan pair)
	results := make(chan []Edge)

	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			var local []Edge
			for p := range pairs {
				if e, ok := evaluatePair(vertices, idx, field, curve, maxEdgeNM, p.i, p.j); ok {
					local = append(local, e)
				}
			}
			results <- local
		}()
	}

	go func() {
		defer close(pairs)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				select {
				case pairs <- pair{i, j}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	g := &Graph{Vertices: vertices, Adjacency: make(map[int][]Edge, n)}
	for local := range results {
		for _, e := range local {
			g.Adjacency[e.U] = append(g.Adjacency[e.U], e)
			reverse := e
			reverse.U, reverse.V = e.V, e.U
			g.Adjacency[e.V] = append(g.Adjacency[e.V], reverse)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return g, nil
}

func evaluatePair(vertices []geo.Point, idx *obstacle.Index, field wind.Field, curve polar.Curve, maxEdgeNM float64, i, j int) (Edge, bool) {
	u, v := vertices[i], vertices[j]
	d := geo.DistanceNM(u, v)
	if d > maxEdgeNM {
		return Edge{}, false
	}

	seg := geo.Segment{A: u, B: v}
	if idx.AnyCrosses(seg) {
		return Edge{}, false
	}

	w := field.At(u)
	b := geo.BearingDeg(u, v)
	twa := geo.FoldAngle(b - w.DirectionDeg)
	boatSpeed := curve.BoatSpeed(twa, w.SpeedMS)
	if boatSpeed <= 0 {
		return Edge{}, false
	}

	return Edge{
		U: i, V: j,
		DistanceNM:   d,
		TimeHours:    d / boatSpeed,
		BearingDeg:   b,
		WindSpeedMS:  w.SpeedMS,
		WindDirDeg:   w.DirectionDeg,
		BoatSpeedKts: boatSpeed,
	}, true
}

// NearestVertex returns the index of the vertex closest to p.
func (g *Graph) NearestVertex(p geo.Point) int {
	best := 0
	bestDist := geo.DistanceNM(p, g.Vertices[0])
	for i := 1; i < len(g.Vertices); i++ {
		d := geo.DistanceNM(p, g.Vertices[i])
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}
