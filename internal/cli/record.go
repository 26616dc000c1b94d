package cli

import (
	"context"
	"time"

	"github.com/roach88/contrary/internal/harness"
	"github.com/roach88/contrary/internal/store"
)

// recordRun stores a harness result and its step outcomes.
func recordRun(ctx context.Context, st *store.Store, result *harness.Result, at time.Time) error {
	run := store.Run{
		ID:         result.RunID,
		Scenario:   result.Scenario,
		Pass:       result.Pass,
		Steps:      len(result.Steps),
		Failures:   result.Failures(),
		RecordedAt: at,
	}

	outcomes := make([]store.Outcome, len(result.Steps))
	for i, step := range result.Steps {
		outcomes[i] = store.Outcome{
			Index:   step.Index,
			Call:    step.Call,
			Negated: step.Not,
			Args:    step.Args,
			Want:    step.Want,
			Got:     step.Got,
			Message: step.Message,
		}
	}
	return st.WriteRun(ctx, run, outcomes)
}
