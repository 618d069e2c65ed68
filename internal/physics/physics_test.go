package physics

import (
	"testing"
	"time"

	"github.com/kelvin-ux/sailing-regates-route/internal/geo"
	"github.com/stretchr/testify/assert"
)

func TestCalculateMagneticVariation_ReturnsOkForValidPosition(t *testing.T) {
	declination, ok := CalculateMagneticVariation(54.5, 18.6, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, ok)
	// Baltic Sea declination is a small positive value at present epoch;
	// this just guards against a wildly wrong computation, not an exact value.
	assert.InDelta(t, 5.0, declination, 15.0)
}

func TestMagneticBearing_AppliesDeclinationAtMidpoint(t *testing.T) {
	from := geo.Point{Lat: 54.5, Lon: 18.6}
	to := geo.Point{Lat: 54.6, Lon: 18.7}
	date := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	trueBearing := geo.BearingDeg(from, to)
	magBearing, ok := MagneticBearing(trueBearing, from, to, date)
	assert.True(t, ok)
	assert.GreaterOrEqual(t, magBearing, 0.0)
	assert.Less(t, magBearing, 360.0)
}
