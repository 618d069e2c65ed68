package weather

import (
	"context"

	"github.com/kelvin-ux/sailing-regates-route/internal/wind"
)

// StaticProvider serves a fixed, configured field. Useful for tests
// and the offline/dev profile, where no live upstream is reachable.
type StaticProvider struct {
	Field wind.Field
}

// NewStaticProvider wraps field as a Provider.
func NewStaticProvider(field wind.Field) *StaticProvider {
	return &StaticProvider{Field: field}
}

// Fetch always returns the configured field, ignoring bounds.
func (p *StaticProvider) Fetch(ctx context.Context, bounds wind.Bounds) (wind.Field, error) {
	return p.Field, nil
}
