// Package corridor buffers the straight origin-destination line into a
// sampling corridor and fills it with a Poisson-disk point set —
// the candidate vertex set the graph builder turns into a route graph.
package corridor

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/kelvin-ux/sailing-regates-route/internal/geo"
)

// Config controls a single sampling run.
type Config struct {
	MinDistanceNM float64 // grid_resolution_nm
	MarginNM      float64 // corridor_margin_nm
	MaxAttempts   int     // K, default 30
	Seed          *int64  // optional, for reproducible runs
}

const defaultMaxAttempts = 30

// Polygon is a convex "stadium" shape: the straight segment S-E
// buffered by margin degrees, with rounded caps — built once per
// sampling run and reused for every containment test.
type Polygon struct {
	Start, End geo.Point
	MarginDeg  float64
}

// Contains reports whether p lies within marginDeg of the S-E segment,
// i.e. inside the buffered corridor. Implemented as perpendicular
// distance-to-segment in plain lon/lat degrees (axis-aligned error
// accepted for this purpose only).
func (c Polygon) Contains(p geo.Point) bool {
	return perpDistanceDeg(p, c.Start, c.End) <= c.MarginDeg
}

func perpDistanceDeg(p, a, b geo.Point) float64 {
	dx := b.Lon - a.Lon
	dy := b.Lat - a.Lat
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(p.Lon-a.Lon, p.Lat-a.Lat)
	}

	t := ((p.Lon-a.Lon)*dx + (p.Lat-a.Lat)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	projLon := a.Lon + t*dx
	projLat := a.Lat + t*dy
	return math.Hypot(p.Lon-projLon, p.Lat-projLat)
}

// NewPolygon builds the buffered corridor around the start-end segment.
func NewPolygon(start, end geo.Point, marginNM float64) Polygon {
	return Polygon{Start: start, End: end, MarginDeg: geo.NMToDegrees(marginNM)}
}

type cellKey struct{ x, y int }

// Sampler runs Bridson's Poisson-disk algorithm over a Polygon.
type Sampler struct {
	cfg     Config
	poly    Polygon
	rng     *rand.Rand
	cellLen float64 // degrees
	grid    map[cellKey]geo.Point
	samples []geo.Point
	active  []geo.Point
}

// NewSampler constructs a Sampler for one generation run.
func NewSampler(cfg Config, poly Polygon) *Sampler {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}

	var seed int64
	if cfg.Seed != nil {
		seed = *cfg.Seed
	} else {
		seed = deterministicSeed(poly)
	}

	return &Sampler{
		cfg:     cfg,
		poly:    poly,
		rng:     rand.New(rand.NewSource(seed)),
		cellLen: geo.NMToDegrees(cfg.MinDistanceNM) / math.Sqrt2,
		grid:    make(map[cellKey]geo.Point),
	}
}

// deterministicSeed derives a reproducible seed from the request's
// geometry when the caller supplies none, so repeated test runs with
// identical inputs produce identical output.
func deterministicSeed(poly Polygon) int64 {
	h := fnv.New64a()
	write := func(f float64) {
		bits := math.Float64bits(f)
		b := [8]byte{
			byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24),
			byte(bits >> 32), byte(bits >> 40), byte(bits >> 48), byte(bits >> 56),
		}
		h.Write(b[:])
	}
	write(poly.Start.Lat)
	write(poly.Start.Lon)
	write(poly.End.Lat)
	write(poly.End.Lon)
	write(poly.MarginDeg)
	return int64(h.Sum64())
}

// Generate runs the sampler to completion, returning every accepted
// point, always including start and end. ctx is checked between
// active-list iterations so a deadline aborts generation promptly.
func (s *Sampler) Generate(ctx context.Context, start, end geo.Point) ([]geo.Point, error) {
	s.addSample(start)

	for len(s.active) > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		idx := s.rng.Intn(len(s.active))
		current := s.active[idx]

		found := false
		for i := 0; i < s.cfg.MaxAttempts; i++ {
			candidate := s.generateCandidate(current)
			if s.poly.Contains(candidate) && s.isValidCandidate(candidate) {
				s.addSample(candidate)
				found = true
				break
			}
		}

		if !found {
			s.active = append(s.active[:idx], s.active[idx+1:]...)
		}
	}

	// End is always kept. Interior samples closer than MinDistanceNM to
	// it are dropped so the pairwise separation still holds; the seed
	// sample (start) is never dropped, even when start and end lie
	// closer together than MinDistanceNM.
	kept := s.samples[:1]
	for _, p := range s.samples[1:] {
		if geo.DistanceNM(p, end) >= s.cfg.MinDistanceNM {
			kept = append(kept, p)
		}
	}
	s.samples = append(kept, end)

	return s.samples, nil
}

func (s *Sampler) addSample(p geo.Point) {
	s.samples = append(s.samples, p)
	s.active = append(s.active, p)
	s.grid[s.cellOf(p)] = p
}

func (s *Sampler) cellOf(p geo.Point) cellKey {
	return cellKey{
		x: int(math.Floor(p.Lon / s.cellLen)),
		y: int(math.Floor(p.Lat / s.cellLen)),
	}
}

func (s *Sampler) generateCandidate(center geo.Point) geo.Point {
	angle := s.rng.Float64() * 2 * math.Pi

	minDistDeg := geo.NMToDegrees(s.cfg.MinDistanceNM)
	maxDistDeg := 2 * minDistDeg
	dist := minDistDeg + s.rng.Float64()*(maxDistDeg-minDistDeg)

	return geo.Point{
		Lat: center.Lat + dist*math.Sin(angle),
		Lon: center.Lon + dist*math.Cos(angle),
	}
}

func (s *Sampler) isValidCandidate(candidate geo.Point) bool {
	key := s.cellOf(candidate)
	// Cells are MinDistanceNM/√2 wide in degrees, so a sample closer than
	// MinDistanceNM can lie two cells away in latitude, and further in
	// longitude, where a degree spans cos(lat) fewer nautical miles.
	spanLon := int(math.Ceil(math.Sqrt2 / math.Cos(candidate.Lat*math.Pi/180)))
	for dx := -spanLon; dx <= spanLon; dx++ {
		for dy := -2; dy <= 2; dy++ {
			neighbourKey := cellKey{x: key.x + dx, y: key.y + dy}
			if existing, ok := s.grid[neighbourKey]; ok {
				if geo.DistanceNM(candidate, existing) < s.cfg.MinDistanceNM {
					return false
				}
			}
		}
	}
	return true
}

func (s *Sampler) hasNeighbourWithin(p geo.Point, minDistanceNM float64, skip int) bool {
	for _, existing := range s.samples[skip:] {
		if geo.DistanceNM(p, existing) < minDistanceNM {
			return true
		}
	}
	return false
}

// Generate is the package-level entry point the planner facade uses:
// build the corridor polygon and run the sampler over it in one call.
func Generate(ctx context.Context, cfg Config, start, end geo.Point) ([]geo.Point, error) {
	poly := NewPolygon(start, end, cfg.MarginNM)
	sampler := NewSampler(cfg, poly)
	return sampler.Generate(ctx, start, end)
}
