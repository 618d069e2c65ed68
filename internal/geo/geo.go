// Package geo implements the great-circle primitives the route planner
// builds on: distance, bearing, and the coarse degree/nm conversions used
// for corridor buffering.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used for the spherical model.
const EarthRadiusKm = 6371.0

// KmToNM converts kilometres to nautical miles.
const KmToNM = 0.539957

// Point is an immutable geographic coordinate.
type Point struct {
	Lat float64 // degrees, [-90, 90]
	Lon float64 // degrees, [-180, 180]
}

// Valid reports whether the point's coordinates are in range.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// Equal reports whether two points are identical.
func (p Point) Equal(o Point) bool {
	return p.Lat == o.Lat && p.Lon == o.Lon
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180.0 }
func toDegrees(rad float64) float64 { return rad * 180.0 / math.Pi }

// DistanceNM returns the great-circle distance between a and b in nautical
// miles, using the haversine formula on a spherical Earth.
func DistanceNM(a, b Point) float64 {
	lat1, lon1 := toRadians(a.Lat), toRadians(a.Lon)
	lat2, lon2 := toRadians(b.Lat), toRadians(b.Lon)
	dLat := lat2 - lat1
	dLon := lon2 - lon1

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c * KmToNM
}

// BearingDeg returns the initial compass bearing from a to b, clockwise
// from true north, in [0, 360). Returns 0 when a == b.
func BearingDeg(a, b Point) float64 {
	if a.Equal(b) {
		return 0
	}

	lat1, lon1 := toRadians(a.Lat), toRadians(a.Lon)
	lat2, lon2 := toRadians(b.Lat), toRadians(b.Lon)
	dLon := lon2 - lon1

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	bearing := toDegrees(math.Atan2(y, x))
	return math.Mod(bearing+360, 360)
}

// NMToDegrees approximates a nautical-mile distance as latitude-equivalent
// degrees. Only suitable for corridor buffering where axis-aligned error is
// acceptable, not for metric distance calculations.
func NMToDegrees(nm float64) float64 {
	return nm / 60.0
}

// FoldAngle folds an arbitrary angle difference into [0, 180], the
// convention used for True Wind Angle throughout the planner.
func FoldAngle(deg float64) float64 {
	a := math.Mod(math.Abs(deg), 360)
	if a > 180 {
		a = 360 - a
	}
	return a
}

// Destination returns the point reached from start travelling distanceNM
// nautical miles along the given initial bearing, using the same spherical
// model as DistanceNM/BearingDeg.
func Destination(start Point, bearingDeg, distanceNM float64) Point {
	angularDist := (distanceNM / KmToNM) / EarthRadiusKm

	lat1 := toRadians(start.Lat)
	lon1 := toRadians(start.Lon)
	brng := toRadians(bearingDeg)

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(angularDist) +
		math.Cos(lat1)*math.Sin(angularDist)*math.Cos(brng))
	lon2 := lon1 + math.Atan2(
		math.Sin(brng)*math.Sin(angularDist)*math.Cos(lat1),
		math.Cos(angularDist)-math.Sin(lat1)*math.Sin(lat2),
	)

	return Point{Lat: toDegrees(lat2), Lon: toDegrees(lon2)}
}

// Segment is a straight line between two points, used for obstacle
// intersection tests and edge validity checks.
type Segment struct {
	A, B Point
}
