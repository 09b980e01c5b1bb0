package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RecordRun stores a finished search run, assigning an ID when it has none.
func (db *DB) RecordRun(ctx context.Context, run *SearchRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	filtersJSON, err := json.Marshal(run.Filters)
	if err != nil {
		return fmt.Errorf("failed to marshal filters: %w", err)
	}
	var errMsg *string
	if run.Error != "" {
		errMsg = &run.Error
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO search_runs (id, site, search_term, location, filters, tier, method, status, job_count, error, started_at, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		run.ID, run.Site, run.SearchTerm, run.Location, filtersJSON, run.Tier, run.Method,
		run.Status, run.JobCount, errMsg, run.StartedAt, run.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID. A missing run returns nil, nil.
func (db *DB) GetRun(ctx context.Context, id uuid.UUID) (*SearchRun, error) {
	rows, err := db.pool.Query(ctx, selectRuns+` WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	runs, err := scanRuns(rows)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// ListRecentRuns returns up to limit runs, newest first.
func (db *DB) ListRecentRuns(ctx context.Context, limit int) ([]SearchRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.pool.Query(ctx, selectRuns+` ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return scanRuns(rows)
}

const selectRuns = `SELECT id, site, search_term, location, filters, tier, method, status, job_count, error, started_at, completed_at
	FROM search_runs`

func scanRuns(rows pgx.Rows) ([]SearchRun, error) {
	defer rows.Close()

	var runs []SearchRun
	for rows.Next() {
		var r SearchRun
		var filtersJSON []byte
		var errMsg *string
		if err := rows.Scan(&r.ID, &r.Site, &r.SearchTerm, &r.Location, &filtersJSON, &r.Tier, &r.Method,
			&r.Status, &r.JobCount, &errMsg, &r.StartedAt, &r.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if len(filtersJSON) > 0 {
			_ = json.Unmarshal(filtersJSON, &r.Filters)
		}
		if errMsg != nil {
			r.Error = *errMsg
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}
