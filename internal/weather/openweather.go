package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kelvin-ux/sailing-regates-route/internal/geo"
	"github.com/kelvin-ux/sailing-regates-route/internal/wind"
	"github.com/kelvin-ux/sailing-regates-route/pkg/logger"
)

// OpenWeatherConfig controls the live provider's HTTP client and
// credentials.
type OpenWeatherConfig struct {
	APIKey             string
	BaseURL            string // defaults to https://api.openweathermap.org/data/2.5 if empty
	RequestTimeoutSecs int
	MaxRetries         int
}

const defaultOpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

// currentWeatherResponse is the subset of OpenWeather's "current
// weather" payload this provider needs.
type currentWeatherResponse struct {
	Wind struct {
		SpeedMS float64 `json:"speed"`
		DegDeg  float64 `json:"deg"`
		GustMS  float64 `json:"gust"`
	} `json:"wind"`
}

// OpenWeatherProvider samples a 3x3 grid spanning the requested bounds,
// one HTTP request per cell, and falls back to wind.DefaultGrid whenever
// any cell's fetch fails rather than returning a partially-populated or
// error result.
type OpenWeatherProvider struct {
	config     OpenWeatherConfig
	httpClient *http.Client
	logger     *logger.Logger
}

// NewOpenWeatherProvider builds a live Provider against the OpenWeather
// current-conditions API.
func NewOpenWeatherProvider(cfg OpenWeatherConfig, log *logger.Logger) *OpenWeatherProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOpenWeatherBaseURL
	}
	timeout := time.Duration(cfg.RequestTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &OpenWeatherProvider{
		config:     cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.Named("weather-openweather"),
	}
}

// Fetch samples the 3x3 grid spanning bounds. Any cell failure
// (non-2xx, transport error, malformed body) after retries causes the
// whole fetch to fall back to wind.DefaultGrid(bounds); it never
// returns an error.
func (p *OpenWeatherProvider) Fetch(ctx context.Context, bounds wind.Bounds) (wind.Field, error) {
	lats := []float64{bounds.South, (bounds.South + bounds.North) / 2, bounds.North}
	lons := []float64{bounds.West, (bounds.West + bounds.East) / 2, bounds.East}

	samples := make([]wind.Sample, 0, 9)
	for _, lat := range lats {
		for _, lon := range lons {
			point := geo.Point{Lat: lat, Lon: lon}
			sample, err := p.fetchCellWithRetry(ctx, point)
			if err != nil {
				p.logger.Warn("wind grid cell fetch failed, falling back to default field",
					logger.Float64("lat", lat), logger.Float64("lon", lon), logger.Error(err))
				return wind.DefaultGrid(bounds), nil
			}
			samples = append(samples, sample)
		}
	}

	return wind.Field{Bounds: bounds, Samples: samples}, nil
}

func (p *OpenWeatherProvider) fetchCellWithRetry(ctx context.Context, point geo.Point) (wind.Sample, error) {
	var lastErr error
	for attempt := 0; attempt <= p.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(500*(1<<uint(attempt-1))) * time.Millisecond
			select {
			case <-ctx.Done():
				return wind.Sample{}, ctx.Err()
			case <-time.After(backoff):
			}
		}

		sample, err := p.fetchCell(ctx, point)
		if err == nil {
			return sample, nil
		}
		lastErr = err
		p.logger.Warn("wind cell request failed, may retry",
			logger.Float64("lat", point.Lat), logger.Float64("lon", point.Lon),
			logger.Error(err), logger.Int("attempt", attempt+1))
	}
	return wind.Sample{}, lastErr
}

func (p *OpenWeatherProvider) fetchCell(ctx context.Context, point geo.Point) (wind.Sample, error) {
	url := fmt.Sprintf("%s/weather?lat=%f&lon=%f&appid=%s&units=metric",
		p.config.BaseURL, point.Lat, point.Lon, p.config.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return wind.Sample{}, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return wind.Sample{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return wind.Sample{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var payload currentWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return wind.Sample{}, fmt.Errorf("failed to decode response: %w", err)
	}

	sample := wind.Sample{
		Point:        point,
		SpeedMS:      payload.Wind.SpeedMS,
		DirectionDeg: payload.Wind.DegDeg,
		Timestamp:    time.Now(),
	}
	if payload.Wind.GustMS > 0 {
		gust := payload.Wind.GustMS
		sample.GustMS = &gust
	}
	return sample, nil
}
