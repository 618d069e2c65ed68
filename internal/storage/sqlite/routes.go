package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kelvin-ux/sailing-regates-route/internal/geo"
	"github.com/kelvin-ux/sailing-regates-route/internal/planner"
)

// StoredRoute is a computed route persisted alongside the request that
// produced it, keyed by a caller-supplied ID.
type StoredRoute struct {
	ID            string
	BoatProfileID string
	Request       planner.Request
	Route         planner.Route
	CreatedAt     time.Time
}

// storedRequest is the JSON-friendly projection of planner.Request:
// time.Duration and *int64 marshal fine as-is, but we keep this
// separate so the wire shape is stable independent of Request's field
// order or future additions.
type storedRequest struct {
	Origin           geo.Point `json:"origin"`
	Destination      geo.Point `json:"destination"`
	GridResolutionNM float64   `json:"grid_resolution_nm"`
	CorridorMarginNM float64   `json:"corridor_margin_nm"`
	Seed             *int64    `json:"seed,omitempty"`
}

// RouteRepo persists computed routes.
type RouteRepo struct {
	store *Store
}

// Routes returns a repository bound to this store.
func (s *Store) Routes() *RouteRepo { return &RouteRepo{store: s} }

// Insert stores a computed route under id.
func (r *RouteRepo) Insert(ctx context.Context, sr StoredRoute) error {
	reqJSON, err := json.Marshal(storedRequest{
		Origin:           sr.Request.Origin,
		Destination:      sr.Request.Destination,
		GridResolutionNM: sr.Request.GridResolutionNM,
		CorridorMarginNM: sr.Request.CorridorMarginNM,
		Seed:             sr.Request.Seed,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal route request: %w", err)
	}
	waypointsJSON, err := json.Marshal(sr.Route.Waypoints)
	if err != nil {
		return fmt.Errorf("failed to marshal route waypoints: %w", err)
	}

	_, err = r.store.db.ExecContext(ctx, `
		INSERT INTO routes (id, boat_profile_id, request_json, waypoints_json, total_distance_nm, total_time_hours, fallback, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, sr.ID, sr.BoatProfileID, string(reqJSON), string(waypointsJSON),
		sr.Route.TotalDistanceNM, sr.Route.TotalTimeHours, sr.Route.Fallback, sr.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert route %s: %w", sr.ID, err)
	}
	return nil
}

// Get loads a single stored route by ID. Legs are not persisted and
// are not rebuilt here, so Route.Legs is empty; only waypoints and
// totals are returned.
func (r *RouteRepo) Get(ctx context.Context, id string) (StoredRoute, error) {
	row := r.store.db.QueryRowContext(ctx, `
		SELECT id, boat_profile_id, request_json, waypoints_json, total_distance_nm, total_time_hours, fallback, created_at
		FROM routes WHERE id = ?
	`, id)
	return scanRoute(row)
}

// List returns stored routes newest-first, bounded by limit.
func (r *RouteRepo) List(ctx context.Context, limit int) ([]StoredRoute, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT id, boat_profile_id, request_json, waypoints_json, total_distance_nm, total_time_hours, fallback, created_at
		FROM routes ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query routes: %w", err)
	}
	defer rows.Close()

	var result []StoredRoute
	for rows.Next() {
		sr, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, sr)
	}
	return result, rows.Err()
}

// Delete removes a stored route by ID.
func (r *RouteRepo) Delete(ctx context.Context, id string) error {
	_, err := r.store.db.ExecContext(ctx, `DELETE FROM routes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete route %s: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoute(row rowScanner) (StoredRoute, error) {
	var (
		id, boatProfileID, reqJSON, waypointsJSON string
		totalDist, totalTime                      float64
		fallback                                  bool
		createdAt                                 time.Time
	)
	if err := row.Scan(&id, &boatProfileID, &reqJSON, &waypointsJSON, &totalDist, &totalTime, &fallback, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return StoredRoute{}, ErrNotFound
		}
		return StoredRoute{}, fmt.Errorf("failed to scan route row: %w", err)
	}

	var sreq storedRequest
	if err := json.Unmarshal([]byte(reqJSON), &sreq); err != nil {
		return StoredRoute{}, fmt.Errorf("failed to unmarshal route request for %s: %w", id, err)
	}
	var waypoints []geo.Point
	if err := json.Unmarshal([]byte(waypointsJSON), &waypoints); err != nil {
		return StoredRoute{}, fmt.Errorf("failed to unmarshal route waypoints for %s: %w", id, err)
	}

	return StoredRoute{
		ID:            id,
		BoatProfileID: boatProfileID,
		Request: planner.Request{
			Origin:           sreq.Origin,
			Destination:      sreq.Destination,
			GridResolutionNM: sreq.GridResolutionNM,
			CorridorMarginNM: sreq.CorridorMarginNM,
			Seed:             sreq.Seed,
		},
		Route: planner.Route{
			Waypoints:       waypoints,
			TotalDistanceNM: totalDist,
			TotalTimeHours:  totalTime,
			Fallback:        fallback,
		},
		CreatedAt: createdAt,
	}, nil
}
