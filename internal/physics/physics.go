// Package physics enriches a planned leg with its magnetic bearing,
// computed from the World Magnetic Model at the leg's midpoint and
// the current date.
package physics

import (
	"time"

	"github.com/westphae/geomag/pkg/egm96"
	"github.com/westphae/geomag/pkg/wmm"

	"github.com/kelvin-ux/sailing-regates-route/internal/geo"
)

// CalculateMagneticVariation returns the magnetic declination in
// degrees (+East, -West) at the given position and date. A WMM
// lookup failure is not fatal to the caller: it returns ok=false so
// the caller can omit the field rather than fail the request.
func CalculateMagneticVariation(lat, lon float64, date time.Time) (declinationDeg float64, ok bool) {
	loc := egm96.NewLocationGeodetic(lat, lon, 0)

	mag, err := wmm.CalculateWMMMagneticField(loc, date)
	if err != nil {
		return 0, false
	}
	return mag.D(), true
}

// MagneticBearing converts a true bearing to magnetic at the
// midpoint of the leg from→to, for the given date. Returns ok=false
// on a WMM lookup failure, matching CalculateMagneticVariation.
func MagneticBearing(trueBearingDeg float64, from, to geo.Point, date time.Time) (magneticBearingDeg float64, ok bool) {
	mid := geo.Point{Lat: (from.Lat + to.Lat) / 2, Lon: (from.Lon + to.Lon) / 2}

	declination, ok := CalculateMagneticVariation(mid.Lat, mid.Lon, date)
	if !ok {
		return 0, false
	}

	magnetic := trueBearingDeg - declination
	if magnetic < 0 {
		magnetic += 360
	}
	if magnetic >= 360 {
		magnetic -= 360
	}
	return magnetic, true
}
