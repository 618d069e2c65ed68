package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/kelvin-ux/sailing-regates-route/internal/geo"
	"github.com/kelvin-ux/sailing-regates-route/internal/obstacle"
	"github.com/kelvin-ux/sailing-regates-route/internal/planner"
	"github.com/kelvin-ux/sailing-regates-route/internal/polar"
	"github.com/kelvin-ux/sailing-regates-route/internal/wind"
	"github.com/kelvin-ux/sailing-regates-route/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "error", Format: "console"})
	require.NoError(t, err)

	store, err := Open(Config{Path: ":memory:"}, log)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestObstacleRepo_UpsertAndAll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	depth := 1.5
	o := obstacle.Obstacle{
		ID:   "reef-1",
		Kind: obstacle.KindShoal,
		Ring: []geo.Point{
			{Lat: 54.5, Lon: 18.6}, {Lat: 54.5, Lon: 18.65}, {Lat: 54.55, Lon: 18.65},
		},
		MinDepthM: &depth,
	}

	require.NoError(t, store.Obstacles().Upsert(ctx, o))

	all, err := store.Obstacles().All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "reef-1", all[0].ID)
	assert.Equal(t, obstacle.KindShoal, all[0].Kind)
	require.NotNil(t, all[0].MinDepthM)
	assert.Equal(t, 1.5, *all[0].MinDepthM)
	assert.Len(t, all[0].Ring, 3)
}

func TestObstacleRepo_UpsertReplacesExisting(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ring := []geo.Point{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 1, Lon: 1}}
	require.NoError(t, store.Obstacles().Upsert(ctx, obstacle.Obstacle{ID: "x", Kind: obstacle.KindIsland, Ring: ring}))
	require.NoError(t, store.Obstacles().Upsert(ctx, obstacle.Obstacle{ID: "x", Kind: obstacle.KindPlatform, Ring: ring}))

	all, err := store.Obstacles().All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, obstacle.KindPlatform, all[0].Kind)
}

func TestObstacleRepo_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ring := []geo.Point{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 1, Lon: 1}}
	require.NoError(t, store.Obstacles().Upsert(ctx, obstacle.Obstacle{ID: "x", Kind: obstacle.KindIsland, Ring: ring}))
	require.NoError(t, store.Obstacles().Delete(ctx, "x"))

	all, err := store.Obstacles().All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestBoatProfileRepo_GetEmptyIDReturnsDefault(t *testing.T) {
	store := newTestStore(t)
	profile, err := store.BoatProfiles().Get(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, polar.Default(), profile.Curve)
}

func TestBoatProfileRepo_InsertAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p := BoatProfile{ID: "racer-1", Name: "Racer", Curve: polar.Default(), CreatedAt: time.Unix(0, 0).UTC()}
	require.NoError(t, store.BoatProfiles().Insert(ctx, p))

	got, err := store.BoatProfiles().Get(ctx, "racer-1")
	require.NoError(t, err)
	assert.Equal(t, "Racer", got.Name)
	assert.Equal(t, p.Curve, got.Curve)
}

func TestBoatProfileRepo_GetMissingReturnsNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.BoatProfiles().Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRouteRepo_InsertGetDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sr := StoredRoute{
		ID: "route-1",
		Request: planner.Request{
			Origin:           geo.Point{Lat: 54.5, Lon: 18.6},
			Destination:      geo.Point{Lat: 54.6, Lon: 18.7},
			GridResolutionNM: 0.5,
			CorridorMarginNM: 2.0,
		},
		Route: planner.Route{
			Waypoints:       []geo.Point{{Lat: 54.5, Lon: 18.6}, {Lat: 54.6, Lon: 18.7}},
			TotalDistanceNM: 7.3,
			TotalTimeHours:  1.2,
		},
		CreatedAt: time.Unix(100, 0).UTC(),
	}
	require.NoError(t, store.Routes().Insert(ctx, sr))

	got, err := store.Routes().Get(ctx, "route-1")
	require.NoError(t, err)
	assert.Equal(t, sr.Request.Origin, got.Request.Origin)
	assert.InDelta(t, 7.3, got.Route.TotalDistanceNM, 1e-9)
	assert.Len(t, got.Route.Waypoints, 2)

	require.NoError(t, store.Routes().Delete(ctx, "route-1"))
	_, err = store.Routes().Get(ctx, "route-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRouteRepo_ListOrdersNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older := StoredRoute{ID: "a", CreatedAt: time.Unix(1, 0).UTC(), Route: planner.Route{Waypoints: []geo.Point{{}, {}}}}
	newer := StoredRoute{ID: "b", CreatedAt: time.Unix(2, 0).UTC(), Route: planner.Route{Waypoints: []geo.Point{{}, {}}}}
	require.NoError(t, store.Routes().Insert(ctx, older))
	require.NoError(t, store.Routes().Insert(ctx, newer))

	list, err := store.Routes().List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "a", list[1].ID)
}

func TestWeatherSnapshotRepo_LatestEmptyReturnsFalse(t *testing.T) {
	store := newTestStore(t)
	_, ok, err := store.WeatherSnapshots().Latest(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWeatherSnapshotRepo_InsertAndLatest(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	field := wind.DefaultGrid(wind.Bounds{North: 54.8, South: 54.3, East: 19.0, West: 18.3})
	require.NoError(t, store.WeatherSnapshots().Insert(ctx, WeatherSnapshot{
		ID: "snap-1", Field: field, Source: "static", FetchedAt: time.Unix(5, 0).UTC(),
	}))

	got, ok, err := store.WeatherSnapshots().Latest(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "static", got.Source)
	assert.Len(t, got.Field.Samples, 9)
}

func TestCalculationLogRepo_InsertAndSummarize(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entries := []CalculationLog{
		{ID: "1", Outcome: OutcomeSolved, DurationMs: 100, CreatedAt: time.Unix(1, 0).UTC()},
		{ID: "2", Outcome: OutcomeFallback, DurationMs: 200, CreatedAt: time.Unix(2, 0).UTC()},
		{ID: "3", Outcome: OutcomeError, DurationMs: 50, ErrorMessage: "no path", CreatedAt: time.Unix(3, 0).UTC()},
	}
	for _, e := range entries {
		require.NoError(t, store.CalculationLogs().Insert(ctx, e))
	}

	stats, err := store.CalculationLogs().Summarize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalRequests)
	assert.Equal(t, 1, stats.SolvedCount)
	assert.Equal(t, 1, stats.FallbackCount)
	assert.Equal(t, 1, stats.ErrorCount)
	assert.InDelta(t, 350.0/3.0, stats.MeanDurationMs, 1e-6)
}
