package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zjrosen/starforge/internal/supervisor"
)

// loadColumns is the list of columns to select for load queries.
const loadColumns = `id, run_id, cause, outcome, fatal_count, advisory_count, duration_ms, error, finished_at`

// LoadRepository persists and queries load history rows.
type LoadRepository struct {
	db *sql.DB
}

// NewLoadRepository creates a repository over an open connection.
func NewLoadRepository(db *sql.DB) *LoadRepository {
	return &LoadRepository{db: db}
}

// Ensure LoadRepository implements supervisor.Recorder.
var _ supervisor.Recorder = (*LoadRepository)(nil)

// scanLoad scans a row into a LoadModel.
func scanLoad(scanner interface{ Scan(...any) error }) (*LoadModel, error) {
	var model LoadModel
	err := scanner.Scan(
		&model.ID, &model.RunID, &model.Cause, &model.Outcome,
		&model.FatalCount, &model.AdvisoryCount, &model.DurationMS,
		&model.Error, &model.FinishedAt,
	)
	return &model, err
}

// RecordLoad inserts one finished load attempt.
func (r *LoadRepository) RecordLoad(ctx context.Context, report supervisor.LoadReport) error {
	model := toLoadModel(report)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO loads (run_id, cause, outcome, fatal_count, advisory_count, duration_ms, error, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		model.RunID, model.Cause, model.Outcome,
		model.FatalCount, model.AdvisoryCount, model.DurationMS,
		model.Error, model.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert load row: %w", err)
	}
	return nil
}

// ListRecent returns the newest load attempts, most recent first.
func (r *LoadRepository) ListRecent(ctx context.Context, limit int) ([]supervisor.LoadReport, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+loadColumns+` FROM loads ORDER BY finished_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list loads: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var reports []supervisor.LoadReport
	for rows.Next() {
		model, err := scanLoad(rows)
		if err != nil {
			return nil, fmt.Errorf("scan load row: %w", err)
		}
		reports = append(reports, model.toReport())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate load rows: %w", err)
	}
	return reports, nil
}
