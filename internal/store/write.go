package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrEmptyRunID is returned when a run has no ID.
var ErrEmptyRunID = errors.New("run ID is required")

// Run is one recorded scenario run.
type Run struct {
	ID         string
	Scenario   string
	Pass       bool
	Steps      int
	Failures   int
	RecordedAt time.Time
}

// Outcome is one recorded step.
type Outcome struct {
	RunID   string
	Index   int
	Call    string
	Negated bool
	Args    []any
	Want    string
	Got     string
	Message string
}

// WriteRun records a run and its outcomes in one transaction.
// Outcome RunIDs are taken from run.ID. Writing the same run ID twice fails
// with a UNIQUE constraint error and leaves the first run intact.
func (s *Store) WriteRun(ctx context.Context, run Run, outcomes []Outcome) (err error) {
	if run.ID == "" {
		return fmt.Errorf("write run: %w", ErrEmptyRunID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, scenario, pass, steps, failures, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Scenario,
		boolInt(run.Pass),
		run.Steps,
		run.Failures,
		formatTime(run.RecordedAt),
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	for _, o := range outcomes {
		argsJSON, merr := marshalArgs(o.Args)
		if merr != nil {
			err = fmt.Errorf("write outcome %d: %w", o.Index, merr)
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO outcomes (run_id, step_index, call, negated, args, want, got, message)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			run.ID,
			o.Index,
			o.Call,
			boolInt(o.Negated),
			argsJSON,
			o.Want,
			o.Got,
			o.Message,
		)
		if err != nil {
			return fmt.Errorf("write outcome %d: %w", o.Index, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}
	return nil
}
