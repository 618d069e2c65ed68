package weather

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kelvin-ux/sailing-regates-route/internal/wind"
	"github.com/kelvin-ux/sailing-regates-route/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "error", Format: "console"})
	require.NoError(t, err)
	return log
}

func TestStaticProvider_ReturnsConfiguredField(t *testing.T) {
	field := wind.DefaultGrid(wind.Bounds{North: 1, South: 0, East: 1, West: 0})
	p := NewStaticProvider(field)

	got, err := p.Fetch(context.Background(), wind.Bounds{North: 90, South: -90, East: 180, West: -180})
	require.NoError(t, err)
	assert.Equal(t, field, got)
}

func TestOpenWeatherProvider_SamplesNineCells(t *testing.T) {
	var requestCount int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		resp := currentWeatherResponse{}
		resp.Wind.SpeedMS = 8.0
		resp.Wind.DegDeg = 200.0
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(OpenWeatherConfig{BaseURL: srv.URL, RequestTimeoutSecs: 2}, testLogger(t))
	bounds := wind.Bounds{North: 54.8, South: 54.3, East: 19.0, West: 18.3}

	field, err := p.Fetch(context.Background(), bounds)
	require.NoError(t, err)
	assert.Equal(t, 9, requestCount)
	require.Len(t, field.Samples, 9)
	for _, s := range field.Samples {
		assert.Equal(t, 8.0, s.SpeedMS)
		assert.Equal(t, 200.0, s.DirectionDeg)
	}
}

func TestOpenWeatherProvider_FallsBackOnUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(OpenWeatherConfig{BaseURL: srv.URL, RequestTimeoutSecs: 2, MaxRetries: 0}, testLogger(t))
	bounds := wind.Bounds{North: 54.8, South: 54.3, East: 19.0, West: 18.3}

	field, err := p.Fetch(context.Background(), bounds)
	require.NoError(t, err)
	assert.Equal(t, wind.DefaultGrid(bounds), field)
}

func TestOpenWeatherProvider_FallsBackOnMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(OpenWeatherConfig{BaseURL: srv.URL, RequestTimeoutSecs: 2, MaxRetries: 0}, testLogger(t))
	bounds := wind.Bounds{North: 1, South: 0, East: 1, West: 0}

	field, err := p.Fetch(context.Background(), bounds)
	require.NoError(t, err)
	assert.Equal(t, wind.DefaultGrid(bounds), field)
}
