package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_PassesValidation(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_RejectsOutOfRangeGridResolution(t *testing.T) {
	cfg := Default()
	cfg.Routing.DefaultGridResolutionNM = 5.0
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsInvertedOperatingArea(t *testing.T) {
	cfg := Default()
	cfg.Routing.AreaNorth = cfg.Routing.AreaSouth
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsUnknownWeatherProvider(t *testing.T) {
	cfg := Default()
	cfg.Weather.ProviderKind = "carrier-pigeon"
	assert.Error(t, cfg.Validate())
}

func TestLoad_OverridesDefaultsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
port = 9090

[routing]
default_grid_resolution_nm = 0.25
default_corridor_margin_nm = 3.0
max_calculation_time_seconds = 30
v_ref_kts = 6.0
area_north = 54.8
area_south = 54.3
area_east = 19.0
area_west = 18.3

[weather]
provider_kind = "static"
api_key_env_var = "OPENWEATHER_API_KEY"
refresh_seconds = 600
request_timeout_seconds = 10

[storage]
sqlite_path = "data/routes.db"

[logging]
level = "info"
format = "console"
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 0.25, cfg.Routing.DefaultGridResolutionNM)
}

func TestLoad_MissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadWithFallback_UsesDefaultsWhenNothingFound(t *testing.T) {
	cfg, err := LoadWithFallback(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Server.Port, cfg.Server.Port)
}
