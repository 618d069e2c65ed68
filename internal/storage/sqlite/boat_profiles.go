package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kelvin-ux/sailing-regates-route/internal/polar"
)

// BoatProfile is a named, persisted polar curve.
type BoatProfile struct {
	ID        string
	Name      string
	Curve     polar.Curve
	CreatedAt time.Time
}

// ErrNotFound is returned by repository Get methods when no row matches.
var ErrNotFound = errors.New("sqlite: record not found")

// BoatProfileRepo persists named polar curves.
type BoatProfileRepo struct {
	store *Store
}

// BoatProfiles returns a repository bound to this store.
func (s *Store) BoatProfiles() *BoatProfileRepo { return &BoatProfileRepo{store: s} }

// Insert stores a new boat profile.
func (r *BoatProfileRepo) Insert(ctx context.Context, p BoatProfile) error {
	curveJSON, err := json.Marshal(p.Curve)
	if err != nil {
		return fmt.Errorf("failed to marshal polar curve: %w", err)
	}
	_, err = r.store.db.ExecContext(ctx, `
		INSERT INTO boat_profiles (id, name, curve_json, created_at) VALUES (?, ?, ?, ?)
	`, p.ID, p.Name, string(curveJSON), p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert boat profile %s: %w", p.ID, err)
	}
	return nil
}

// Get loads a single boat profile by ID, falling back to the default
// racing-yacht polar when profileID is empty.
func (r *BoatProfileRepo) Get(ctx context.Context, profileID string) (BoatProfile, error) {
	if profileID == "" {
		return BoatProfile{ID: "", Name: "default", Curve: polar.Default()}, nil
	}

	row := r.store.db.QueryRowContext(ctx, `
		SELECT id, name, curve_json, created_at FROM boat_profiles WHERE id = ?
	`, profileID)

	var (
		id, name, curveJSON string
		createdAt           time.Time
	)
	if err := row.Scan(&id, &name, &curveJSON, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BoatProfile{}, ErrNotFound
		}
		return BoatProfile{}, fmt.Errorf("failed to load boat profile %s: %w", profileID, err)
	}

	var curve polar.Curve
	if err := json.Unmarshal([]byte(curveJSON), &curve); err != nil {
		return BoatProfile{}, fmt.Errorf("failed to unmarshal polar curve for %s: %w", id, err)
	}

	return BoatProfile{ID: id, Name: name, Curve: curve, CreatedAt: createdAt}, nil
}

// All lists every stored boat profile.
func (r *BoatProfileRepo) All(ctx context.Context) ([]BoatProfile, error) {
	rows, err := r.store.db.QueryContext(ctx, `SELECT id, name, curve_json, created_at FROM boat_profiles`)
	if err != nil {
		return nil, fmt.Errorf("failed to query boat profiles: %w", err)
	}
	defer rows.Close()

	var result []BoatProfile
	for rows.Next() {
		var (
			id, name, curveJSON string
			createdAt           time.Time
		)
		if err := rows.Scan(&id, &name, &curveJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan boat profile row: %w", err)
		}
		var curve polar.Curve
		if err := json.Unmarshal([]byte(curveJSON), &curve); err != nil {
			return nil, fmt.Errorf("failed to unmarshal polar curve for %s: %w", id, err)
		}
		result = append(result, BoatProfile{ID: id, Name: name, Curve: curve, CreatedAt: createdAt})
	}
	return result, rows.Err()
}
