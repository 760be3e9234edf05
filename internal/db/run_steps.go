package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// StartStep records that a step began. Restarting a step resets its row.
func (db *DB) StartStep(ctx context.Context, runID uuid.UUID, step string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO run_steps (run_id, step, status, started_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (run_id, step) DO UPDATE
		 SET status = EXCLUDED.status, started_at = NOW(), completed_at = NULL,
		     duration_ms = NULL, error_message = NULL`,
		runID, step, StepStatusInProgress,
	)
	if err != nil {
		return fmt.Errorf("failed to start step %s: %w", step, err)
	}
	return nil
}

// FinishStep records the end of a step. errMsg is stored only when non-empty.
func (db *DB) FinishStep(ctx context.Context, runID uuid.UUID, step, status string, duration time.Duration, errMsg string) error {
	var msg *string
	if errMsg != "" {
		msg = &errMsg
	}
	ms := int(duration.Milliseconds())
	result, err := db.pool.Exec(ctx,
		`UPDATE run_steps
		 SET status = $1, completed_at = NOW(), duration_ms = $2, error_message = $3
		 WHERE run_id = $4 AND step = $5`,
		status, ms, msg, runID, step,
	)
	if err != nil {
		return fmt.Errorf("failed to finish step %s: %w", step, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("step not found: %s", step)
	}
	return nil
}

// GetRunStep retrieves a run step by run_id and step name
func (db *DB) GetRunStep(ctx context.Context, runID uuid.UUID, step string) (*RunStep, error) {
	var s RunStep
	err := db.pool.QueryRow(ctx,
		`SELECT id, run_id, step, status, started_at, completed_at, duration_ms, error_message
		 FROM run_steps WHERE run_id = $1 AND step = $2`,
		runID, step,
	).Scan(&s.ID, &s.RunID, &s.Step, &s.Status, &s.StartedAt, &s.CompletedAt, &s.DurationMs, &s.ErrorMessage)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run step: %w", err)
	}
	return &s, nil
}

// ListRunSteps retrieves all steps for a run in start order
func (db *DB) ListRunSteps(ctx context.Context, runID uuid.UUID) ([]RunStep, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, run_id, step, status, started_at, completed_at, duration_ms, error_message
		 FROM run_steps WHERE run_id = $1 ORDER BY started_at`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list run steps: %w", err)
	}
	defer rows.Close()

	var steps []RunStep
	for rows.Next() {
		var s RunStep
		if err := rows.Scan(&s.ID, &s.RunID, &s.Step, &s.Status, &s.StartedAt, &s.CompletedAt, &s.DurationMs, &s.ErrorMessage); err != nil {
			return nil, fmt.Errorf("failed to scan run step: %w", err)
		}
		steps = append(steps, s)
	}
	return steps, rows.Err()
}
