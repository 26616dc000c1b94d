package harness

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/contrary/internal/failure"
	"github.com/roach88/contrary/internal/testutil"
)

func lessOrEqual() *Scenario {
	return &Scenario{
		Name:        "less_or_equal",
		Description: "negating <= on integers",
		Subject:     5,
		Steps: []Step{
			{Call: "ToBeLessThanOrEqual", Not: true, Args: []any{4}, Expect: OutcomeHeld},
			{Call: "ToBeLessThanOrEqual", Not: true, Args: []any{5}, Expect: OutcomeFailed, Message: "not to be less than or equal 5"},
		},
	}
}

func TestRun_AllStepsMatch(t *testing.T) {
	h := New(WithIDGenerator(testutil.NewFixedID("run-1")))

	result, err := h.Run(context.Background(), lessOrEqual())
	require.NoError(t, err)

	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "run-1", result.RunID)
	assert.Equal(t, "less_or_equal", result.Scenario)
	require.Len(t, result.Steps, 2)
	assert.Equal(t, OutcomeHeld, result.Steps[0].Got)
	assert.Empty(t, result.Steps[0].Message)
	assert.Equal(t, OutcomeFailed, result.Steps[1].Got)
	assert.Equal(t, "Expecting 5 not to be less than or equal 5.", result.Steps[1].Message)
	assert.Zero(t, result.Failures())
}

func TestRun_OutcomeMismatch(t *testing.T) {
	scenario := lessOrEqual()
	scenario.Steps[0].Expect = OutcomeFailed

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Equal(t, 1, result.Failures())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "steps[0] Not.ToBeLessThanOrEqual: expected failed, got held", result.Errors[0])
}

func TestRun_MessageMismatch(t *testing.T) {
	scenario := lessOrEqual()
	scenario.Steps[1].Message = "to be greater"

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Zero(t, result.Failures())
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `does not contain "to be greater"`)
}

func TestRun_InvalidOutcomes(t *testing.T) {
	scenario := &Scenario{
		Name:        "invalid",
		Description: "usage errors",
		Subject:     "app/http",
		Steps: []Step{
			{Call: "ToDependOnNothing", Not: true, Expect: OutcomeInvalid, Message: "[Not.ToDependOnNothing]"},
			{Call: "ToFly", Expect: OutcomeInvalid, Message: "unknown operation"},
			{Call: "ToDependOn", Args: []any{"app/models"}, Expect: OutcomeInvalid, Message: "no dependency graph"},
		},
	}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_StepSubjectOverride(t *testing.T) {
	scenario := &Scenario{
		Name:        "override",
		Description: "per-step subjects",
		Subject:     []any{1, 2},
		Steps: []Step{
			{Call: "ToHaveKey", Not: true, Args: []any{5}, Expect: OutcomeHeld},
			{Call: "ToHaveKey", Not: true, Args: []any{0}, Subject: map[string]any{"b": 1}, Expect: OutcomeHeld},
			{Call: "ToHaveKey", Not: true, Args: []any{0}, Expect: OutcomeFailed, Message: "not to have key 0"},
		},
	}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_ModuleGraph(t *testing.T) {
	dir := t.TempDir()
	module := filepath.Join(dir, "shop")
	require.NoError(t, os.MkdirAll(filepath.Join(module, "models"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(module, "go.mod"), []byte("module example.com/shop\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(module, "main.go"),
		[]byte("package main\n\nimport _ \"example.com/shop/models\"\n\nfunc main() {}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(module, "models", "user.go"),
		[]byte("package models\n"), 0644))

	scenario := &Scenario{
		Name:        "module",
		Description: "graph loaded from disk",
		Subject:     "example.com/shop/models",
		Graph:       &GraphSpec{Module: "shop"},
		Dir:         dir,
		Steps: []Step{
			{Call: "ToBeUsed", Not: true, Expect: OutcomeFailed, Message: `It is used on "example.com/shop"`},
			{Call: "ToDependOnNothing", Expect: OutcomeHeld},
		},
	}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_GraphLoadError(t *testing.T) {
	scenario := lessOrEqual()
	scenario.Graph = &GraphSpec{Module: t.TempDir()}

	_, err := Run(context.Background(), scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load graph")
}

func TestRun_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, lessOrEqual())
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRun_DefaultIDsAreUUIDs(t *testing.T) {
	first, err := Run(context.Background(), lessOrEqual())
	require.NoError(t, err)
	second, err := Run(context.Background(), lessOrEqual())
	require.NoError(t, err)

	_, err = uuid.Parse(first.RunID)
	assert.NoError(t, err)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRun_SequentialIDs(t *testing.T) {
	h := New(WithIDGenerator(testutil.NewSequentialIDs("run")))

	first, err := h.Run(context.Background(), lessOrEqual())
	require.NoError(t, err)
	second, err := h.Run(context.Background(), lessOrEqual())
	require.NoError(t, err)

	assert.Equal(t, "run-0001", first.RunID)
	assert.Equal(t, "run-0002", second.RunID)
}

func TestRun_Logs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := New(WithLogger(logger), WithIDGenerator(testutil.NewFixedID("run-log"))).
		Run(context.Background(), lessOrEqual())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "step evaluated")
	assert.Contains(t, out, "call=Not.ToBeLessThanOrEqual")
	assert.Contains(t, out, "scenario completed")
	assert.Contains(t, out, "run_id=run-log")
}

func TestClassify(t *testing.T) {
	assert.Equal(t, OutcomeHeld, Classify(nil))
	assert.Equal(t, OutcomeFailed, Classify(failure.Assertionf("no")))
	assert.Equal(t, OutcomeInvalid, Classify(failure.InvalidMethods("Not", "ToBeUsedOnNothing")))
	assert.Equal(t, OutcomeError, Classify(errors.New("disk on fire")))
}
