// Package config loads and validates the service's TOML configuration.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure, decoded from a single
// TOML file.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Routing RoutingConfig `toml:"routing"`
	Weather WeatherConfig `toml:"weather"`
	Storage StorageConfig `toml:"storage"`
	Logging LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port              int `toml:"port"`                   // HTTP listen port
	ReadTimeoutSecs   int `toml:"read_timeout_seconds"`   // Maximum duration for reading a request
	WriteTimeoutSecs  int `toml:"write_timeout_seconds"`  // Maximum duration for writing a response
	IdleTimeoutSecs   int `toml:"idle_timeout_seconds"`   // Keep-alive idle timeout
	ShutdownGraceSecs int `toml:"shutdown_grace_seconds"` // Grace period for in-flight requests on shutdown

	Host string `toml:"host"` // Bind address, e.g. "0.0.0.0"
}

// RoutingConfig contains planner defaults and the operating-area
// policy boundary enforced at the HTTP layer.
type RoutingConfig struct {
	DefaultGridResolutionNM float64 `toml:"default_grid_resolution_nm"`
	DefaultCorridorMarginNM float64 `toml:"default_corridor_margin_nm"`
	MaxCalculationTimeSecs  int     `toml:"max_calculation_time_seconds"`
	VRefKts                 float64 `toml:"v_ref_kts"`

	// Operating-area bounds. Requests whose origin or destination
	// falls outside this rectangle are rejected at the HTTP layer
	// before reaching the planner. Defaults to Gdańsk Bay.
	AreaNorth float64 `toml:"area_north"`
	AreaSouth float64 `toml:"area_south"`
	AreaEast  float64 `toml:"area_east"`
	AreaWest  float64 `toml:"area_west"`
}

// WeatherConfig selects and configures the wind provider.
type WeatherConfig struct {
	ProviderKind       string `toml:"provider_kind"`    // "openweather" or "static"
	APIKeyEnvVar       string `toml:"api_key_env_var"`  // name of the env var holding the API key
	RefreshSecs        int    `toml:"refresh_seconds"`  // background refresh interval
	RequestTimeoutSecs int    `toml:"request_timeout_seconds"`
}

// StorageConfig contains SQLite persistence settings.
type StorageConfig struct {
	SQLitePath      string `toml:"sqlite_path"`
	JournalMode     string `toml:"journal_mode"`     // e.g. "WAL"
	SynchronousMode string `toml:"synchronous_mode"` // e.g. "NORMAL"
	BusyTimeoutMs   int    `toml:"busy_timeout_ms"`
	CacheSizePages  int    `toml:"cache_size_pages"`
}

// LoggingConfig contains structured-logging settings.
type LoggingConfig struct {
	Level  string `toml:"level"`  // "debug", "info", "warn", "error"
	Format string `toml:"format"` // "json" or "console"
}

// Default returns the built-in configuration used when no file is
// present, centered on Gdańsk Bay.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:              8080,
			Host:              "0.0.0.0",
			ReadTimeoutSecs:   15,
			WriteTimeoutSecs:  30,
			IdleTimeoutSecs:   60,
			ShutdownGraceSecs: 10,
		},
		Routing: RoutingConfig{
			DefaultGridResolutionNM: 0.5,
			DefaultCorridorMarginNM: 2.0,
			MaxCalculationTimeSecs:  30,
			VRefKts:                 6.0,
			AreaNorth:               54.8,
			AreaSouth:               54.3,
			AreaEast:                19.0,
			AreaWest:                18.3,
		},
		Weather: WeatherConfig{
			ProviderKind:       "static",
			APIKeyEnvVar:       "OPENWEATHER_API_KEY",
			RefreshSecs:        600,
			RequestTimeoutSecs: 10,
		},
		Storage: StorageConfig{
			SQLitePath:      "data/routes.db",
			JournalMode:     "WAL",
			SynchronousMode: "NORMAL",
			BusyTimeoutMs:   5000,
			CacheSizePages:  10000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads and decodes the TOML file at path on top of the
// built-in defaults, then validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadWithFallback tries preferredPath, then a couple of conventional
// locations, and finally falls back to the built-in defaults if none
// of them exist.
func LoadWithFallback(preferredPath string) (*Config, error) {
	searchPaths := []string{preferredPath, "configs/config.toml", "config.toml"}

	seen := make(map[string]bool)
	for _, path := range searchPaths {
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true

		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	cfg := Default()
	return &cfg, nil
}

// Validate checks the configuration's range invariants.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Routing.DefaultGridResolutionNM < 0.1 || c.Routing.DefaultGridResolutionNM > 2.0 {
		return fmt.Errorf("routing.default_grid_resolution_nm must be in [0.1, 2.0]")
	}
	if c.Routing.DefaultCorridorMarginNM < 0.5 || c.Routing.DefaultCorridorMarginNM > 10.0 {
		return fmt.Errorf("routing.default_corridor_margin_nm must be in [0.5, 10.0]")
	}
	if c.Routing.MaxCalculationTimeSecs <= 0 {
		return fmt.Errorf("routing.max_calculation_time_seconds must be positive")
	}
	if c.Routing.AreaNorth <= c.Routing.AreaSouth {
		return fmt.Errorf("routing.area_north must be greater than area_south")
	}
	if c.Routing.AreaEast <= c.Routing.AreaWest {
		return fmt.Errorf("routing.area_east must be greater than area_west")
	}
	if c.Weather.ProviderKind != "openweather" && c.Weather.ProviderKind != "static" {
		return fmt.Errorf("weather.provider_kind must be \"openweather\" or \"static\"")
	}
	if c.Storage.SQLitePath == "" {
		return fmt.Errorf("storage.sqlite_path is required")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug/info/warn/error")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be \"json\" or \"console\"")
	}
	return nil
}
