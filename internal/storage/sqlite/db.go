// Package sqlite implements the durable projections around a planning
// request: stored routes, the obstacle catalogue, boat profiles, and
// calculation logs, all in one pure-Go SQLite database.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/kelvin-ux/sailing-regates-route/pkg/logger"
	_ "modernc.org/sqlite"
)

// Config controls the SQLite connection's PRAGMA tuning.
type Config struct {
	Path            string
	JournalMode     string
	SynchronousMode string
	BusyTimeoutMs   int
	CacheSizePages  int
}

// Store wraps a single SQLite connection shared by every repository
// in this package. SQLite only supports one writer at a time, so the
// pool is deliberately capped at a single connection.
type Store struct {
	db     *sql.DB
	logger *logger.Logger
}

// Open connects to the database at cfg.Path, applies the configured
// PRAGMAs, and creates the schema if it does not already exist.
func Open(cfg Config, log *logger.Logger) (*Store, error) {
	storeLogger := log.Named("sqlite")
	storeLogger.Info("opening storage", logger.String("path", cfg.Path))

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		fmt.Sprintf("PRAGMA journal_mode=%s", orDefault(cfg.JournalMode, "WAL")),
		fmt.Sprintf("PRAGMA synchronous=%s", orDefault(cfg.SynchronousMode, "NORMAL")),
		fmt.Sprintf("PRAGMA busy_timeout=%d", orDefaultInt(cfg.BusyTimeoutMs, 5000)),
		fmt.Sprintf("PRAGMA cache_size=%d", orDefaultInt(cfg.CacheSizePages, 10000)),
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply pragma %q: %w", p, err)
		}
	}

	store := &Store{db: db, logger: storeLogger}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orDefaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) initSchema() error {
	s.logger.Info("initializing database schema")

	statements := []string{
		`CREATE TABLE IF NOT EXISTS obstacles (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			ring_json TEXT NOT NULL,
			min_depth_m REAL
		)`,
		`CREATE TABLE IF NOT EXISTS boat_profiles (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			curve_json TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS routes (
			id TEXT PRIMARY KEY,
			boat_profile_id TEXT,
			request_json TEXT NOT NULL,
			waypoints_json TEXT NOT NULL,
			total_distance_nm REAL NOT NULL,
			total_time_hours REAL NOT NULL,
			fallback INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS weather_snapshots (
			id TEXT PRIMARY KEY,
			bounds_json TEXT NOT NULL,
			samples_json TEXT NOT NULL,
			source TEXT NOT NULL,
			fetched_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS route_calculation_logs (
			id TEXT PRIMARY KEY,
			route_id TEXT,
			request_json TEXT NOT NULL,
			outcome TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			vertex_count INTEGER NOT NULL,
			edge_count INTEGER NOT NULL,
			error_message TEXT,
			created_at TIMESTAMP NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
