package routegraph

import (
	"context"
	"testing"

	"github.com/kelvin-ux/sailing-regates-route/internal/geo"
	"github.com/kelvin-ux/sailing-regates-route/internal/obstacle"
	"github.com/kelvin-ux/sailing-regates-route/internal/polar"
	"github.com/kelvin-ux/sailing-regates-route/internal/wind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleVertices() []geo.Point {
	return []geo.Point{
		{Lat: 54.50, Lon: 18.60},
		{Lat: 54.55, Lon: 18.65},
		{Lat: 54.60, Lon: 18.70},
	}
}

func TestBuild_ConnectsNearbyVertices(t *testing.T) {
	vertices := sampleVertices()
	field := wind.DefaultGrid(wind.Bounds{North: 55, South: 54, East: 19, West: 18})
	curve := polar.Default()

	g, err := Build(context.Background(), vertices, nil, field, curve, 10.0)
	require.NoError(t, err)

	assert.NotEmpty(t, g.Adjacency[0])
}

func TestBuild_DiscardsEdgesCrossingObstacles(t *testing.T) {
	vertices := []geo.Point{
		{Lat: 54.50, Lon: 18.60},
		{Lat: 54.60, Lon: 18.70},
	}
	obstacles := []obstacle.Obstacle{{
		ID:   "wall",
		Kind: obstacle.KindShoal,
		Ring: []geo.Point{
			{Lat: 54.54, Lon: 18.63},
			{Lat: 54.54, Lon: 18.67},
			{Lat: 54.56, Lon: 18.67},
			{Lat: 54.56, Lon: 18.63},
		},
	}}
	field := wind.DefaultGrid(wind.Bounds{North: 55, South: 54, East: 19, West: 18})
	curve := polar.Default()

	g, err := Build(context.Background(), vertices, obstacles, field, curve, 10.0)
	require.NoError(t, err)

	for _, e := range g.Adjacency[0] {
		assert.NotEqual(t, 1, e.V)
	}
}

func TestBuild_DiscardsEdgesBeyondMaxLength(t *testing.T) {
	vertices := []geo.Point{
		{Lat: 54.50, Lon: 18.60},
		{Lat: 60.00, Lon: 25.00},
	}
	field := wind.DefaultGrid(wind.Bounds{North: 61, South: 54, East: 26, West: 18})
	curve := polar.Default()

	g, err := Build(context.Background(), vertices, nil, field, curve, 1.0)
	require.NoError(t, err)

	assert.Empty(t, g.Adjacency[0])
}

func TestBuild_EdgesAreUndirected(t *testing.T) {
	vertices := sampleVertices()
	field := wind.DefaultGrid(wind.Bounds{North: 55, South: 54, East: 19, West: 18})
	curve := polar.Default()

	g, err := Build(context.Background(), vertices, nil, field, curve, 10.0)
	require.NoError(t, err)

	for u, edges := range g.Adjacency {
		for _, e := range edges {
			found := false
			for _, back := range g.Adjacency[e.V] {
				if back.V == u {
					found = true
				}
			}
			assert.True(t, found, "edge %d->%d has no reverse entry", u, e.V)
		}
	}
}

func TestNearestVertex(t *testing.T) {
	vertices := sampleVertices()
	g := &Graph{Vertices: vertices}
	idx := g.NearestVertex(geo.Point{Lat: 54.51, Lon: 18.61})
	assert.Equal(t, 0, idx)
}
