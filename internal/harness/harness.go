package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/roach88/contrary/internal/arch"
	"github.com/roach88/contrary/internal/depgraph"
	"github.com/roach88/contrary/internal/expect"
	"github.com/roach88/contrary/internal/failure"
)

// IDGenerator produces run IDs.
type IDGenerator interface {
	Generate() string
}

// UUIDGenerator generates random UUIDv4 run IDs.
type UUIDGenerator struct{}

// Generate implements IDGenerator.
func (UUIDGenerator) Generate() string {
	return uuid.NewString()
}

// Harness executes scenarios.
type Harness struct {
	ids    IDGenerator
	logger *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithIDGenerator sets the run ID generator.
func WithIDGenerator(ids IDGenerator) Option {
	return func(h *Harness) {
		if ids != nil {
			h.ids = ids
		}
	}
}

// WithLogger sets the logger. Logs are discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New creates a harness.
func New(opts ...Option) *Harness {
	h := &Harness{
		ids:    UUIDGenerator{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario with a default harness.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	return New().Run(ctx, scenario)
}

// Run executes every step of the scenario and returns the result.
//
// Step mismatches are recorded in the result. An error is returned only when
// the scenario cannot run at all (the graph fails to load, or ctx is done).
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	graph, err := h.buildGraph(ctx, scenario)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	var opts []expect.Option
	if graph != nil {
		opts = append(opts, expect.WithGraph(graph))
	}
	subject := expect.New(scenario.Subject, opts...)

	result := NewResult(h.ids.Generate(), scenario.Name)
	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		e := subject
		if step.Subject != nil {
			e = subject.And(step.Subject)
		}
		got, stepErr := evaluate(e, step)

		sr := StepResult{
			Index: i,
			Call:  step.Call,
			Not:   step.Not,
			Args:  step.Args,
			Want:  step.Expect,
			Got:   got,
		}
		if stepErr != nil {
			sr.Message = stepErr.Error()
		}
		result.AddStep(sr)

		if !sr.Matched() {
			result.AddError(fmt.Sprintf("steps[%d] %s: expected %s, got %s%s", i, describeCall(step), sr.Want, sr.Got, detail(sr.Message)))
		} else if step.Message != "" && !strings.Contains(sr.Message, step.Message) {
			result.AddError(fmt.Sprintf("steps[%d] %s: message %q does not contain %q", i, describeCall(step), sr.Message, step.Message))
		}

		h.logger.Debug("step evaluated",
			"run_id", result.RunID,
			"step", i,
			"call", describeCall(step),
			"want", sr.Want,
			"got", sr.Got,
		)
	}

	h.logger.Info("scenario completed",
		"run_id", result.RunID,
		"scenario", scenario.Name,
		"steps", len(result.Steps),
		"pass", result.Pass,
	)
	return result, nil
}

// evaluate runs one step and classifies its error.
func evaluate(e *expect.Expectation, step Step) (string, error) {
	var err error
	if step.Not {
		_, err = e.Not().Invoke(step.Call, step.Args...)
	} else {
		err = e.Invoke(step.Call, step.Args...)
	}
	return Classify(err), err
}

// Classify maps an operation error to a step outcome.
func Classify(err error) string {
	switch {
	case err == nil:
		return OutcomeHeld
	case failure.IsAssertion(err):
		return OutcomeFailed
	case failure.IsUsage(err):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}

func (h *Harness) buildGraph(ctx context.Context, scenario *Scenario) (arch.Graph, error) {
	spec := scenario.Graph
	switch {
	case spec == nil:
		return nil, nil
	case spec.Module != "":
		root := spec.Module
		if !filepath.IsAbs(root) {
			root = filepath.Join(scenario.Dir, root)
		}
		g, err := depgraph.Load(ctx, root, depgraph.WithLogger(h.logger))
		if err != nil {
			return nil, fmt.Errorf("failed to load graph: %w", err)
		}
		return g, nil
	default:
		return depgraph.FromMap(spec.Imports), nil
	}
}

func describeCall(step Step) string {
	if step.Not {
		return "Not." + step.Call
	}
	return step.Call
}

func detail(message string) string {
	if message == "" {
		return ""
	}
	return " (" + message + ")"
}
