package obstaclesource

import (
	"context"
	"testing"

	"github.com/kelvin-ux/sailing-regates-route/internal/geo"
	"github.com/kelvin-ux/sailing-regates-route/internal/obstacle"
	"github.com/kelvin-ux/sailing-regates-route/internal/wind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	obstacles []obstacle.Obstacle
	err       error
}

func (f *fakeRepo) All(ctx context.Context) ([]obstacle.Obstacle, error) {
	return f.obstacles, f.err
}

func TestFetch_EmptyCatalogueIsNotAnError(t *testing.T) {
	src := New(&fakeRepo{})
	obstacles, idx, err := src.Fetch(context.Background(), wind.Bounds{})
	require.NoError(t, err)
	assert.Empty(t, obstacles)
	assert.Equal(t, 0, idx.Len())
}

func TestFetch_PropagatesRepositoryError(t *testing.T) {
	src := New(&fakeRepo{err: assert.AnError})
	_, _, err := src.Fetch(context.Background(), wind.Bounds{})
	assert.Error(t, err)
}

func TestFetch_FiltersByBounds(t *testing.T) {
	inBounds := obstacle.Obstacle{
		ID:   "in",
		Kind: obstacle.KindShoal,
		Ring: []geo.Point{{Lat: 54.5, Lon: 18.6}, {Lat: 54.5, Lon: 18.65}, {Lat: 54.55, Lon: 18.65}},
	}
	outOfBounds := obstacle.Obstacle{
		ID:   "out",
		Kind: obstacle.KindShoal,
		Ring: []geo.Point{{Lat: 10, Lon: 10}, {Lat: 10, Lon: 11}, {Lat: 11, Lon: 11}},
	}

	src := New(&fakeRepo{obstacles: []obstacle.Obstacle{inBounds, outOfBounds}})
	bounds := wind.Bounds{North: 54.8, South: 54.3, East: 19.0, West: 18.3}

	obstacles, idx, err := src.Fetch(context.Background(), bounds)
	require.NoError(t, err)
	require.Len(t, obstacles, 1)
	assert.Equal(t, "in", obstacles[0].ID)
	assert.Equal(t, 1, idx.Len())
}

func TestFetch_ZeroBoundsReturnsEverything(t *testing.T) {
	a := obstacle.Obstacle{ID: "a", Kind: obstacle.KindIsland, Ring: []geo.Point{{Lat: 1, Lon: 1}, {Lat: 1, Lon: 2}, {Lat: 2, Lon: 2}}}
	b := obstacle.Obstacle{ID: "b", Kind: obstacle.KindIsland, Ring: []geo.Point{{Lat: -10, Lon: -10}, {Lat: -10, Lon: -9}, {Lat: -9, Lon: -9}}}

	src := New(&fakeRepo{obstacles: []obstacle.Obstacle{a, b}})
	obstacles, idx, err := src.Fetch(context.Background(), wind.Bounds{})
	require.NoError(t, err)
	assert.Len(t, obstacles, 2)
	assert.Equal(t, 2, idx.Len())
}
