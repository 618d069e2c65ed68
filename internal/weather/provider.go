// Package weather adapts an upstream wind data source into the sparse
// wind.Field the planner consumes, with a mandatory default-field
// fallback whenever the upstream cannot be trusted.
package weather

import (
	"context"

	"github.com/kelvin-ux/sailing-regates-route/internal/wind"
)

// Provider fetches the current wind field over a rectangular area.
// Implementations MUST NOT propagate upstream failures as errors: a
// provider that cannot reach its data source returns wind.DefaultGrid
// instead, matching the contract every caller relies on.
type Provider interface {
	Fetch(ctx context.Context, bounds wind.Bounds) (wind.Field, error)
}
