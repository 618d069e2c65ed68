package gpx

import (
	"strings"
	"testing"
	"time"

	"github.com/kelvin-ux/sailing-regates-route/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCumulativeETAs_OnePointPerWaypoint(t *testing.T) {
	waypoints := []geo.Point{{Lat: 54.5, Lon: 18.6}, {Lat: 54.55, Lon: 18.65}, {Lat: 54.6, Lon: 18.7}}
	legHours := []float64{1.0, 0.5}
	start := time.Date(2026, 7, 30, 10, 0, 0, 0, time.UTC)

	legs := CumulativeETAs(waypoints, legHours, start)
	require.Len(t, legs, 3)
	assert.Equal(t, start, legs[0].ETA)
	assert.Equal(t, start.Add(1*time.Hour), legs[1].ETA)
	assert.Equal(t, start.Add(90*time.Minute), legs[2].ETA)
}

func TestExport_RejectsEmptyRoute(t *testing.T) {
	_, err := Export("route-1", nil)
	assert.Error(t, err)
}

func TestExport_BuildsOneTrackOneSegment(t *testing.T) {
	legs := []LegETA{
		{Point: geo.Point{Lat: 54.5, Lon: 18.6}, ETA: time.Date(2026, 7, 30, 10, 0, 0, 0, time.UTC)},
		{Point: geo.Point{Lat: 54.6, Lon: 18.7}, ETA: time.Date(2026, 7, 30, 11, 0, 0, 0, time.UTC)},
	}

	g, err := Export("route-1", legs)
	require.NoError(t, err)
	require.Len(t, g.Tracks, 1)
	assert.Equal(t, "route-1", g.Tracks[0].Name)
	require.Len(t, g.Tracks[0].Segments, 1)
	require.Len(t, g.Tracks[0].Segments[0].Points, 2)
	assert.Equal(t, 54.5, g.Tracks[0].Segments[0].Points[0].Latitude)
	assert.Equal(t, 18.7, g.Tracks[0].Segments[0].Points[1].Longitude)
}

func TestToXML_ProducesGPXDocument(t *testing.T) {
	legs := []LegETA{
		{Point: geo.Point{Lat: 54.5, Lon: 18.6}, ETA: time.Date(2026, 7, 30, 10, 0, 0, 0, time.UTC)},
		{Point: geo.Point{Lat: 54.6, Lon: 18.7}, ETA: time.Date(2026, 7, 30, 11, 0, 0, 0, time.UTC)},
	}
	g, err := Export("route-1", legs)
	require.NoError(t, err)

	xmlBytes, err := ToXML(g)
	require.NoError(t, err)
	xmlStr := string(xmlBytes)
	assert.True(t, strings.Contains(xmlStr, "<gpx"))
	assert.True(t, strings.Contains(xmlStr, "trkpt"))
}
