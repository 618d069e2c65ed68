package wind

import (
	"testing"

	"github.com/kelvin-ux/sailing-regates-route/internal/geo"
	"github.com/stretchr/testify/assert"
)

func TestField_At_EmptyReturnsDefault(t *testing.T) {
	f := Field{}
	s := f.At(geo.Point{Lat: 54.5, Lon: 18.6})
	assert.Equal(t, DefaultSpeedMS, s.SpeedMS)
	assert.Equal(t, DefaultDirectionDeg, s.DirectionDeg)
}

func TestField_At_PicksNearestSample(t *testing.T) {
	near := Sample{Point: geo.Point{Lat: 54.50, Lon: 18.60}, SpeedMS: 7, DirectionDeg: 90}
	far := Sample{Point: geo.Point{Lat: 10, Lon: 10}, SpeedMS: 20, DirectionDeg: 0}
	f := Field{Samples: []Sample{far, near}}

	got := f.At(geo.Point{Lat: 54.51, Lon: 18.61})
	assert.Equal(t, near, got)
}

func TestField_At_TiesBreakByInsertionOrder(t *testing.T) {
	p := geo.Point{Lat: 54.5, Lon: 18.6}
	first := Sample{Point: p, SpeedMS: 1, DirectionDeg: 1}
	second := Sample{Point: p, SpeedMS: 2, DirectionDeg: 2}
	f := Field{Samples: []Sample{first, second}}

	got := f.At(p)
	assert.Equal(t, first, got)
}

func TestDefaultGrid_Spans3x3(t *testing.T) {
	b := Bounds{North: 54.8, South: 54.3, East: 19.0, West: 18.3}
	f := DefaultGrid(b)
	assert.Len(t, f.Samples, 9)
	for _, s := range f.Samples {
		assert.Equal(t, DefaultSpeedMS, s.SpeedMS)
		assert.GreaterOrEqual(t, s.Point.Lat, b.South)
		assert.LessOrEqual(t, s.Point.Lat, b.North)
	}
}
