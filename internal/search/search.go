// Package search implements A* shortest-path search over a
// routegraph.Graph, weighted by leg sailing time.
package search

import (
	"container/heap"
	"context"
	"errors"

	"github.com/kelvin-ux/sailing-regates-route/internal/geo"
	"github.com/kelvin-ux/sailing-regates-route/internal/routegraph"
)

// DefaultVRefKts is the reference speed used to keep the heuristic
// admissible when the caller does not supply a tighter bound.
const DefaultVRefKts = 6.0

// ErrNoPath signals the open set was exhausted before reaching goal.
var ErrNoPath = errors.New("search: no path to goal")

// Result is a found path: the ordered vertex indices and the edges
// connecting consecutive vertices (in traversal direction).
type Result struct {
	VertexPath []int
	Edges      []routegraph.Edge
	TotalHours float64
}

type node struct {
	vertex int
	f      float64
	index  int
}

type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	// Deterministic tie-break on vertex index, per the ordering
	// guarantee: identical inputs must yield identical output.
	return h[i].vertex < h[j].vertex
}
func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *nodeHeap) Push(x any) {
	n := x.(*node)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	it.index = -1
	*h = old[:n-1]
	return it
}

// AStar finds the minimum-time path from startIdx to goalIdx in g.
// vRefKts bounds the heuristic from above in speed terms (i.e. bounds
// remaining time from below), keeping h admissible. ctx is checked
// every iteration so a deadline aborts the search promptly.
func AStar(ctx context.Context, g *routegraph.Graph, startIdx, goalIdx int, vRefKts float64) (Result, error) {
	if vRefKts <= 0 {
		vRefKts = DefaultVRefKts
	}

	goal := g.Vertices[goalIdx]
	heuristic := func(v int) float64 {
		return geo.DistanceNM(g.Vertices[v], goal) / vRefKts
	}

	openHeap := &nodeHeap{}
	heap.Init(openHeap)
	heap.Push(openHeap, &node{vertex: startIdx, f: heuristic(startIdx)})

	gScore := map[int]float64{startIdx: 0}
	cameFrom := map[int]routegraph.Edge{}
	inOpen := map[int]bool{startIdx: true}
	closed := map[int]bool{}

	for openHeap.Len() > 0 {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		default:
		}

		current := heap.Pop(openHeap).(*node)
		inOpen[current.vertex] = false

		if current.vertex == goalIdx {
			return reconstruct(g, cameFrom, startIdx, goalIdx, gScore[goalIdx]), nil
		}
		if closed[current.vertex] {
			continue
		}
		closed[current.vertex] = true

		for _, edge := range g.Adjacency[current.vertex] {
			if closed[edge.V] {
				continue
			}
			tentative := gScore[current.vertex] + edge.TimeHours
			if existing, ok := gScore[edge.V]; !ok || tentative < existing {
				gScore[edge.V] = tentative
				cameFrom[edge.V] = edge
				f := tentative + heuristic(edge.V)
				if inOpen[edge.V] {
					updatePriority(openHeap, edge.V, f)
				} else {
					heap.Push(openHeap, &node{vertex: edge.V, f: f})
					inOpen[edge.V] = true
				}
			}
		}
	}

	return Result{}, ErrNoPath
}

func updatePriority(h *nodeHeap, vertex int, f float64) {
	for _, n := range *h {
		if n.vertex == vertex {
			n.f = f
			heap.Fix(h, n.index)
			return
		}
	}
}

func reconstruct(g *routegraph.Graph, cameFrom map[int]routegraph.Edge, start, goal int, totalHours float64) Result {
	var vertexPath []int
	var edges []routegraph.Edge

	v := goal
	vertexPath = append(vertexPath, v)
	for v != start {
		e, ok := cameFrom[v]
		if !ok {
			break
		}
		edges = append(edges, e)
		v = e.U
		vertexPath = append(vertexPath, v)
	}

	// Reverse into start->goal order.
	for i, j := 0, len(vertexPath)-1; i < j; i, j = i+1, j-1 {
		vertexPath[i], vertexPath[j] = vertexPath[j], vertexPath[i]
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}

	return Result{VertexPath: vertexPath, Edges: edges, TotalHours: totalHours}
}
