// Package gpx renders a planned route as a GPX 1.1 document: one
// track, one track segment, one trkpt per waypoint.
package gpx

import (
	"fmt"
	"time"

	tgpx "github.com/tkrajina/gpxgo/gpx"

	"github.com/kelvin-ux/sailing-regates-route/internal/geo"
)

// LegETA pairs a waypoint with the cumulative time-of-arrival used for
// each trkpt's <time> element.
type LegETA struct {
	Point geo.Point
	ETA   time.Time
}

// Export builds a GPX document for a sequence of waypoints with
// cumulative arrival times, named trackName (the stored route's
// identifier, or a caller-supplied name).
func Export(trackName string, legs []LegETA) (*tgpx.GPX, error) {
	if len(legs) == 0 {
		return nil, fmt.Errorf("gpx: cannot export a route with no waypoints")
	}

	points := make([]tgpx.GPXPoint, 0, len(legs))
	for _, l := range legs {
		points = append(points, tgpx.GPXPoint{
			Point: tgpx.Point{
				Latitude:  l.Point.Lat,
				Longitude: l.Point.Lon,
			},
			Timestamp: l.ETA,
		})
	}

	g := &tgpx.GPX{
		Version: "1.1",
		Creator: "sailing-regates-route",
		Tracks: []tgpx.GPXTrack{
			{
				Name: trackName,
				Segments: []tgpx.GPXTrackSegment{
					{Points: points},
				},
			},
		},
	}
	return g, nil
}

// ToXML renders g as an indented GPX 1.1 XML document.
func ToXML(g *tgpx.GPX) ([]byte, error) {
	return g.ToXml(tgpx.ToXmlParams{Version: "1.1", Indent: true})
}

// CumulativeETAs derives a LegETA sequence from a waypoint list and the
// per-leg sailing times (hours), starting at startTime.
func CumulativeETAs(waypoints []geo.Point, legHours []float64, startTime time.Time) []LegETA {
	if len(waypoints) == 0 {
		return nil
	}

	legs := make([]LegETA, 0, len(waypoints))
	cursor := startTime
	legs = append(legs, LegETA{Point: waypoints[0], ETA: cursor})

	for i, hours := range legHours {
		cursor = cursor.Add(time.Duration(hours * float64(time.Hour)))
		if i+1 < len(waypoints) {
			legs = append(legs, LegETA{Point: waypoints[i+1], ETA: cursor})
		}
	}
	return legs
}
