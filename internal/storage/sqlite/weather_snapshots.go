package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kelvin-ux/sailing-regates-route/internal/wind"
)

// WeatherSnapshot is a fetched wind field persisted for audit and
// replay, keyed by a caller-supplied ID.
type WeatherSnapshot struct {
	ID        string
	Field     wind.Field
	Source    string
	FetchedAt time.Time
}

// WeatherSnapshotRepo persists fetched wind fields.
type WeatherSnapshotRepo struct {
	store *Store
}

// WeatherSnapshots returns a repository bound to this store.
func (s *Store) WeatherSnapshots() *WeatherSnapshotRepo { return &WeatherSnapshotRepo{store: s} }

// Insert stores a wind field snapshot.
func (r *WeatherSnapshotRepo) Insert(ctx context.Context, snap WeatherSnapshot) error {
	boundsJSON, err := json.Marshal(snap.Field.Bounds)
	if err != nil {
		return fmt.Errorf("failed to marshal weather bounds: %w", err)
	}
	samplesJSON, err := json.Marshal(snap.Field.Samples)
	if err != nil {
		return fmt.Errorf("failed to marshal weather samples: %w", err)
	}

	_, err = r.store.db.ExecContext(ctx, `
		INSERT INTO weather_snapshots (id, bounds_json, samples_json, source, fetched_at)
		VALUES (?, ?, ?, ?, ?)
	`, snap.ID, string(boundsJSON), string(samplesJSON), snap.Source, snap.FetchedAt)
	if err != nil {
		return fmt.Errorf("failed to insert weather snapshot %s: %w", snap.ID, err)
	}
	return nil
}

// Latest returns the most recently fetched wind field, or a zero-value
// result (with ok=false) if no snapshot has ever been stored.
func (r *WeatherSnapshotRepo) Latest(ctx context.Context) (WeatherSnapshot, bool, error) {
	row := r.store.db.QueryRowContext(ctx, `
		SELECT id, bounds_json, samples_json, source, fetched_at
		FROM weather_snapshots ORDER BY fetched_at DESC LIMIT 1
	`)

	var (
		id, boundsJSON, samplesJSON, source string
		fetchedAt                           time.Time
	)
	if err := row.Scan(&id, &boundsJSON, &samplesJSON, &source, &fetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return WeatherSnapshot{}, false, nil
		}
		return WeatherSnapshot{}, false, fmt.Errorf("failed to query latest weather snapshot: %w", err)
	}

	var bounds wind.Bounds
	if err := json.Unmarshal([]byte(boundsJSON), &bounds); err != nil {
		return WeatherSnapshot{}, false, fmt.Errorf("failed to unmarshal weather bounds for %s: %w", id, err)
	}
	var samples []wind.Sample
	if err := json.Unmarshal([]byte(samplesJSON), &samples); err != nil {
		return WeatherSnapshot{}, false, fmt.Errorf("failed to unmarshal weather samples for %s: %w", id, err)
	}

	return WeatherSnapshot{
		ID:        id,
		Field:     wind.Field{Bounds: bounds, Samples: samples},
		Source:    source,
		FetchedAt: fetchedAt,
	}, true, nil
}
