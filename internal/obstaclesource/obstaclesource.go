// Package obstaclesource adapts the persisted obstacle catalogue into
// the bounding-box-filtered, index-backed form the route graph builder
// consumes, matching the static/seeded obstacle catalogue contract.
package obstaclesource

import (
	"context"
	"fmt"

	"github.com/kelvin-ux/sailing-regates-route/internal/obstacle"
	"github.com/kelvin-ux/sailing-regates-route/internal/storage/sqlite"
	"github.com/kelvin-ux/sailing-regates-route/internal/wind"
)

// Repository is the subset of the obstacle repository this source needs,
// narrowed for testability.
type Repository interface {
	All(ctx context.Context) ([]obstacle.Obstacle, error)
}

var _ Repository = (*sqlite.ObstacleRepo)(nil)

// Source fetches the current obstacle catalogue and rebuilds a
// bounding-box index over it on every call. Fetch never errors on an
// empty catalogue; only a genuine storage-connectivity failure
// propagates.
type Source struct {
	repo Repository
}

// New builds a Source over repo.
func New(repo Repository) *Source {
	return &Source{repo: repo}
}

// Fetch returns every obstacle whose bounding box intersects bounds,
// plus a freshly built Index over that subset. Passing a zero Bounds
// value returns the entire catalogue unfiltered.
func (s *Source) Fetch(ctx context.Context, bounds wind.Bounds) ([]obstacle.Obstacle, *obstacle.Index, error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch obstacle catalogue: %w", err)
	}

	if bounds == (wind.Bounds{}) {
		return all, obstacle.NewIndex(all), nil
	}

	filtered := make([]obstacle.Obstacle, 0, len(all))
	for _, o := range all {
		minLat, minLon, maxLat, maxLon := o.BoundingBox()
		if maxLat < bounds.South || minLat > bounds.North || maxLon < bounds.West || minLon > bounds.East {
			continue
		}
		filtered = append(filtered, o)
	}

	return filtered, obstacle.NewIndex(filtered), nil
}
