package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/kelvin-ux/sailing-regates-route/internal/geo"
	"github.com/kelvin-ux/sailing-regates-route/internal/obstacle"
)

func nullableFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

// ObstacleRepo persists the obstacle catalogue.
type ObstacleRepo struct {
	store *Store
}

// Obstacles returns a repository bound to this store.
func (s *Store) Obstacles() *ObstacleRepo { return &ObstacleRepo{store: s} }

// Upsert inserts or replaces a single obstacle row.
func (r *ObstacleRepo) Upsert(ctx context.Context, o obstacle.Obstacle) error {
	ringJSON, err := json.Marshal(o.Ring)
	if err != nil {
		return fmt.Errorf("failed to marshal obstacle ring: %w", err)
	}

	_, err = r.store.db.ExecContext(ctx, `
		INSERT INTO obstacles (id, kind, ring_json, min_depth_m)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET kind=excluded.kind, ring_json=excluded.ring_json, min_depth_m=excluded.min_depth_m
	`, o.ID, string(o.Kind), string(ringJSON), nullableFloat(o.MinDepthM))
	if err != nil {
		return fmt.Errorf("failed to upsert obstacle %s: %w", o.ID, err)
	}
	return nil
}

// All loads the entire obstacle catalogue, the set used to rebuild an
// obstacle.Index ahead of each planning request.
func (r *ObstacleRepo) All(ctx context.Context) ([]obstacle.Obstacle, error) {
	rows, err := r.store.db.QueryContext(ctx, `SELECT id, kind, ring_json, min_depth_m FROM obstacles`)
	if err != nil {
		return nil, fmt.Errorf("failed to query obstacles: %w", err)
	}
	defer rows.Close()

	var result []obstacle.Obstacle
	for rows.Next() {
		var (
			id, kind, ringJSON string
			minDepth           sql.NullFloat64
		)
		if err := rows.Scan(&id, &kind, &ringJSON, &minDepth); err != nil {
			return nil, fmt.Errorf("failed to scan obstacle row: %w", err)
		}

		var ring []geo.Point
		if err := json.Unmarshal([]byte(ringJSON), &ring); err != nil {
			return nil, fmt.Errorf("failed to unmarshal obstacle ring for %s: %w", id, err)
		}

		var minDepthPtr *float64
		if minDepth.Valid {
			minDepthPtr = &minDepth.Float64
		}

		result = append(result, obstacle.Obstacle{
			ID:        id,
			Kind:      obstacle.Kind(kind),
			Ring:      ring,
			MinDepthM: minDepthPtr,
		})
	}
	return result, rows.Err()
}

// Delete removes an obstacle by ID.
func (r *ObstacleRepo) Delete(ctx context.Context, id string) error {
	_, err := r.store.db.ExecContext(ctx, `DELETE FROM obstacles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete obstacle %s: %w", id, err)
	}
	return nil
}
