package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelvin-ux/sailing-regates-route/internal/api"
	"github.com/kelvin-ux/sailing-regates-route/internal/config"
	"github.com/kelvin-ux/sailing-regates-route/internal/obstaclesource"
	"github.com/kelvin-ux/sailing-regates-route/internal/storage/sqlite"
	"github.com/kelvin-ux/sailing-regates-route/internal/weather"
	"github.com/kelvin-ux/sailing-regates-route/internal/websocket"
	"github.com/kelvin-ux/sailing-regates-route/internal/wind"
	"github.com/kelvin-ux/sailing-regates-route/pkg/logger"
)

var (
	// Version is injected at build time.
	Version = "dev"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (optional - will search in configs/ and root directory)")
	flag.Parse()

	cfg, err := config.LoadWithFallback(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting route planning server",
		logger.String("version", Version),
		logger.String("config_path", *configPath),
	)

	store, err := sqlite.Open(sqlite.Config{
		Path:            cfg.Storage.SQLitePath,
		JournalMode:     cfg.Storage.JournalMode,
		SynchronousMode: cfg.Storage.SynchronousMode,
		BusyTimeoutMs:   cfg.Storage.BusyTimeoutMs,
		CacheSizePages:  cfg.Storage.CacheSizePages,
	}, log)
	if err != nil {
		log.Error("Failed to open SQLite storage", logger.Error(err))
		os.Exit(1)
	}
	defer store.Close()
	log.Info("Opened SQLite storage", logger.String("path", cfg.Storage.SQLitePath))

	var weatherProvider weather.Provider
	switch cfg.Weather.ProviderKind {
	case "openweather":
		apiKey := os.Getenv(cfg.Weather.APIKeyEnvVar)
		if apiKey == "" {
			log.Warn("weather.provider_kind is openweather but the configured API key env var is empty, requests will fail closed to the default grid",
				logger.String("env_var", cfg.Weather.APIKeyEnvVar))
		}
		weatherProvider = weather.NewOpenWeatherProvider(weather.OpenWeatherConfig{
			APIKey:             apiKey,
			RequestTimeoutSecs: cfg.Weather.RequestTimeoutSecs,
			MaxRetries:         3,
		}, log)
	default:
		bounds := wind.Bounds{
			North: cfg.Routing.AreaNorth, South: cfg.Routing.AreaSouth,
			East: cfg.Routing.AreaEast, West: cfg.Routing.AreaWest,
		}
		weatherProvider = weather.NewStaticProvider(wind.DefaultGrid(bounds))
	}
	log.Info("Configured wind provider", logger.String("kind", cfg.Weather.ProviderKind))

	obstacleSource := obstaclesource.New(store.Obstacles())

	wsServer := websocket.NewServer(log)
	go wsServer.Run()

	handler := api.NewHandler(cfg, log, store, obstacleSource, weatherProvider, wsServer)
	router := api.NewRouter(handler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Routes(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSecs) * time.Second,
	}

	go func() {
		log.Info("Starting HTTP server", logger.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error on startup", logger.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownGraceSecs)*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", logger.Error(err))
	}

	log.Info("Server fully stopped")
}
