// Package polar implements the boat's speed-vs-wind-angle
// characteristic: a TWA-to-speed curve interpolated and scaled by
// wind strength.
package polar

import (
	"errors"
	"sort"

	"github.com/kelvin-ux/sailing-regates-route/internal/geo"
	"gonum.org/v1/gonum/interp"
)

// Knot is one (twa, speed) point on a polar curve.
type Knot struct {
	TWADeg   float64 // [0, 180]
	SpeedKts float64 // >= 0
}

// Curve is a boat's polar: a sorted, ascending sequence of knots with
// endpoints at TWA 0 and 180, defining speed at a reference wind
// (~10 m/s).
type Curve struct {
	Knots []Knot
}

// ReferenceWindMS is the wind strength the curve's speeds are defined
// at; stronger or weaker wind scales the result (see BoatSpeed).
const ReferenceWindMS = 10.0

// MaxWindScale is the cap on the wind-speed scaling factor.
const MaxWindScale = 1.5

// Default is the built-in racing-yacht polar used when no profile is
// supplied.
func Default() Curve {
	return Curve{Knots: []Knot{
		{TWADeg: 0, SpeedKts: 0},
		{TWADeg: 30, SpeedKts: 2.0},
		{TWADeg: 45, SpeedKts: 4.0},
		{TWADeg: 60, SpeedKts: 5.5},
		{TWADeg: 90, SpeedKts: 6.0},
		{TWADeg: 120, SpeedKts: 5.8},
		{TWADeg: 150, SpeedKts: 5.0},
		{TWADeg: 180, SpeedKts: 4.5},
	}}
}

var (
	errTooFewKnots    = errors.New("polar: curve must have at least 2 knots")
	errNotSorted      = errors.New("polar: knots must be sorted ascending by twa")
	errBadEndpoints   = errors.New("polar: curve must start at twa=0 and end at twa=180")
	errNegativeSpeed  = errors.New("polar: speed_kts must be >= 0")
)

// Validate checks the curve's structural invariants.
func (c Curve) Validate() error {
	if len(c.Knots) < 2 {
		return errTooFewKnots
	}
	if c.Knots[0].TWADeg != 0 || c.Knots[len(c.Knots)-1].TWADeg != 180 {
		return errBadEndpoints
	}
	for i, k := range c.Knots {
		if k.SpeedKts < 0 {
			return errNegativeSpeed
		}
		if i > 0 && k.TWADeg < c.Knots[i-1].TWADeg {
			return errNotSorted
		}
	}
	return nil
}

// BoatSpeed returns the boat's speed in knots at the given true wind
// angle (any degree value, folded into [0,180]) and wind strength in
// m/s, per the curve's shape scaled by wind strength.
func (c Curve) BoatSpeed(twaDeg, windMS float64) float64 {
	twa := geo.FoldAngle(twaDeg)
	f := windMS / ReferenceWindMS
	if f > MaxWindScale {
		f = MaxWindScale
	}
	if f < 0 {
		f = 0
	}

	base := c.interpolate(twa)
	speed := base * f
	if speed < 0 {
		speed = 0
	}
	return speed
}

func (c Curve) interpolate(twa float64) float64 {
	knots := c.Knots
	n := len(knots)
	if n == 0 {
		return 0
	}

	if twa <= knots[0].TWADeg {
		return knots[0].SpeedKts
	}
	if twa >= knots[n-1].TWADeg {
		return knots[n-1].SpeedKts
	}

	idx := sort.Search(n, func(i int) bool { return knots[i].TWADeg >= twa })
	if knots[idx].TWADeg == twa {
		return knots[idx].SpeedKts
	}

	lo, hi := knots[idx-1], knots[idx]
	var pl interp.PiecewiseLinear
	xs := []float64{lo.TWADeg, hi.TWADeg}
	ys := []float64{lo.SpeedKts, hi.SpeedKts}
	if err := pl.Fit(xs, ys); err != nil {
		// Degenerate bracket (identical twa values); fall back to the
		// lower knot rather than propagate an interpolation error.
		return lo.SpeedKts
	}
	return pl.Predict(twa)
}
