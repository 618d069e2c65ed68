package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// CalculationOutcome classifies how a planning request ended, for the
// /statistics aggregate.
type CalculationOutcome string

const (
	OutcomeSolved   CalculationOutcome = "solved"
	OutcomeFallback CalculationOutcome = "fallback"
	OutcomeError    CalculationOutcome = "error"
)

// CalculationLog records one planning attempt for observability and
// the /statistics endpoint, independent of whether it produced a
// stored route.
type CalculationLog struct {
	ID           string
	RouteID      string // empty when the attempt did not produce a stored route
	RequestJSON  string // opaque, caller-serialized request payload
	Outcome      CalculationOutcome
	DurationMs   int64
	VertexCount  int
	EdgeCount    int
	ErrorMessage string
	CreatedAt    time.Time
}

// CalculationLogRepo persists planning-attempt audit records.
type CalculationLogRepo struct {
	store *Store
}

// CalculationLogs returns a repository bound to this store.
func (s *Store) CalculationLogs() *CalculationLogRepo { return &CalculationLogRepo{store: s} }

// Insert records one planning attempt.
func (r *CalculationLogRepo) Insert(ctx context.Context, l CalculationLog) error {
	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO route_calculation_logs
			(id, route_id, request_json, outcome, duration_ms, vertex_count, edge_count, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, l.ID, nullableString(l.RouteID), l.RequestJSON, string(l.Outcome), l.DurationMs,
		l.VertexCount, l.EdgeCount, nullableString(l.ErrorMessage), l.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert calculation log %s: %w", l.ID, err)
	}
	return nil
}

// Statistics summarizes every logged planning attempt: totals per
// outcome and the mean calculation duration, the aggregate backing
// the /statistics endpoint.
type Statistics struct {
	TotalRequests    int
	SolvedCount      int
	FallbackCount    int
	ErrorCount       int
	MeanDurationMs   float64
}

// Summarize computes Statistics over every stored calculation log.
func (r *CalculationLogRepo) Summarize(ctx context.Context) (Statistics, error) {
	rows, err := r.store.db.QueryContext(ctx, `SELECT outcome, duration_ms FROM route_calculation_logs`)
	if err != nil {
		return Statistics{}, fmt.Errorf("failed to query calculation logs: %w", err)
	}
	defer rows.Close()

	var stats Statistics
	var durationSum int64
	for rows.Next() {
		var outcome string
		var durationMs int64
		if err := rows.Scan(&outcome, &durationMs); err != nil {
			return Statistics{}, fmt.Errorf("failed to scan calculation log row: %w", err)
		}
		stats.TotalRequests++
		durationSum += durationMs
		switch CalculationOutcome(outcome) {
		case OutcomeSolved:
			stats.SolvedCount++
		case OutcomeFallback:
			stats.FallbackCount++
		case OutcomeError:
			stats.ErrorCount++
		}
	}
	if err := rows.Err(); err != nil {
		return Statistics{}, err
	}
	if stats.TotalRequests > 0 {
		stats.MeanDurationMs = float64(durationSum) / float64(stats.TotalRequests)
	}
	return stats, nil
}

func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
