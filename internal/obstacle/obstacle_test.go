package obstacle

import (
	"testing"

	"github.com/kelvin-ux/sailing-regates-route/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(centerLat, centerLon, halfSide float64) []geo.Point {
	return []geo.Point{
		{Lat: centerLat - halfSide, Lon: centerLon - halfSide},
		{Lat: centerLat - halfSide, Lon: centerLon + halfSide},
		{Lat: centerLat + halfSide, Lon: centerLon + halfSide},
		{Lat: centerLat + halfSide, Lon: centerLon - halfSide},
	}
}

func TestCrosses_SegmentThroughInterior(t *testing.T) {
	o := Obstacle{ID: "shoal-1", Kind: KindShoal, Ring: square(54.5, 18.6, 0.05)}
	seg := geo.Segment{A: geo.Point{Lat: 54.4, Lon: 18.5}, B: geo.Point{Lat: 54.6, Lon: 18.7}}
	assert.True(t, Crosses(seg, o))
}

func TestCrosses_SegmentMissesEntirely(t *testing.T) {
	o := Obstacle{ID: "island-1", Kind: KindIsland, Ring: square(54.5, 18.6, 0.02)}
	seg := geo.Segment{A: geo.Point{Lat: 54.0, Lon: 18.0}, B: geo.Point{Lat: 54.05, Lon: 18.05}}
	assert.False(t, Crosses(seg, o))
}

func TestCrosses_EndpointInsidePolygon(t *testing.T) {
	o := Obstacle{ID: "platform-1", Kind: KindPlatform, Ring: square(54.5, 18.6, 0.05)}
	seg := geo.Segment{A: geo.Point{Lat: 54.5, Lon: 18.6}, B: geo.Point{Lat: 55.0, Lon: 19.0}}
	assert.True(t, Crosses(seg, o))
}

func TestCrosses_DegenerateRingNeverCrosses(t *testing.T) {
	o := Obstacle{ID: "bad", Ring: []geo.Point{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}}}
	seg := geo.Segment{A: geo.Point{Lat: 0, Lon: 0}, B: geo.Point{Lat: 3, Lon: 3}}
	assert.False(t, Crosses(seg, o))
}

func TestAnyCrosses_ShortCircuitsOnFirstHit(t *testing.T) {
	obstacles := []Obstacle{
		{ID: "far", Ring: square(0, 0, 0.01)},
		{ID: "near", Ring: square(54.5, 18.6, 0.05)},
	}
	seg := geo.Segment{A: geo.Point{Lat: 54.4, Lon: 18.5}, B: geo.Point{Lat: 54.6, Lon: 18.7}}
	assert.True(t, AnyCrosses(seg, obstacles))
}

func TestAnyCrosses_NoneMatch(t *testing.T) {
	obstacles := []Obstacle{
		{ID: "far-1", Ring: square(0, 0, 0.01)},
		{ID: "far-2", Ring: square(1, 1, 0.01)},
	}
	seg := geo.Segment{A: geo.Point{Lat: 54.4, Lon: 18.5}, B: geo.Point{Lat: 54.6, Lon: 18.7}}
	assert.False(t, AnyCrosses(seg, obstacles))
}

func TestValidate_RejectsTooFewPoints(t *testing.T) {
	o := Obstacle{Ring: []geo.Point{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}}}
	require.Error(t, o.Validate())
}

func TestValidate_AcceptsSimpleSquare(t *testing.T) {
	o := Obstacle{Ring: square(54.5, 18.6, 0.05)}
	assert.NoError(t, o.Validate())
}

func TestValidate_RejectsSelfIntersectingBowtie(t *testing.T) {
	o := Obstacle{Ring: []geo.Point{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 1},
		{Lat: 1, Lon: 0},
		{Lat: 1, Lon: 1},
	}}
	assert.Error(t, o.Validate())
}

func TestIndex_AnyCrosses(t *testing.T) {
	obstacles := []Obstacle{
		{ID: "near", Kind: KindShoal, Ring: square(54.5, 18.6, 0.05)},
		{ID: "far", Kind: KindIsland, Ring: square(10, 10, 0.01)},
	}
	idx := NewIndex(obstacles)
	require.Equal(t, 2, idx.Len())

	hit := geo.Segment{A: geo.Point{Lat: 54.4, Lon: 18.5}, B: geo.Point{Lat: 54.6, Lon: 18.7}}
	assert.True(t, idx.AnyCrosses(hit))

	miss := geo.Segment{A: geo.Point{Lat: 0, Lon: 0}, B: geo.Point{Lat: 1, Lon: 1}}
	assert.False(t, idx.AnyCrosses(miss))
}

func TestIndex_CandidatesPrunesDistantObstacles(t *testing.T) {
	obstacles := []Obstacle{
		{ID: "near", Ring: square(54.5, 18.6, 0.05)},
		{ID: "far", Ring: square(10, 10, 0.01)},
	}
	idx := NewIndex(obstacles)
	seg := geo.Segment{A: geo.Point{Lat: 54.4, Lon: 18.5}, B: geo.Point{Lat: 54.6, Lon: 18.7}}
	cands := idx.Candidates(seg)
	for _, c := range cands {
		assert.NotEqual(t, "far", c.ID)
	}
}
