package expect

import (
	"github.com/roach88/contrary/internal/arch"
	"github.com/roach88/contrary/internal/failure"
)

// Expectation binds assertions to a subject value. It is immutable; every
// option and chaining method returns the receiver or a new value.
type Expectation struct {
	value   any
	message string
	graph   arch.Graph
}

// Option configures an Expectation.
type Option func(*Expectation)

// WithMessage replaces the failure message of positive assertions.
func WithMessage(message string) Option {
	return func(e *Expectation) {
		e.message = message
	}
}

// WithGraph sets the dependency graph that by-name invocation of graph
// operations is checked against.
func WithGraph(g arch.Graph) Option {
	return func(e *Expectation) {
		e.graph = g
	}
}

// New creates an expectation about value.
func New(value any, opts ...Option) *Expectation {
	e := &Expectation{value: value}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Value returns the subject.
func (e *Expectation) Value() any {
	return e.value
}

// Graph returns the configured dependency graph, or nil.
func (e *Expectation) Graph() arch.Graph {
	return e.graph
}

// And starts a new expectation about value that shares the receiver's graph.
func (e *Expectation) And(value any) *Expectation {
	return &Expectation{value: value, graph: e.graph}
}

// Not returns the negation of this expectation.
func (e *Expectation) Not() *Opposite {
	return &Opposite{original: e}
}

// Invoke runs the positive operation called name. Graph operations are
// built and then checked against the configured graph.
func (e *Expectation) Invoke(name string, args ...any) error {
	op, err := lookup(name, args)
	if err != nil {
		return err
	}
	if op.rule == nil {
		return op.assert(e, args)
	}
	rule, err := op.rule(e, args)
	if err != nil {
		return err
	}
	return e.Check(rule)
}

// Property runs a zero-argument operation by name.
func (e *Expectation) Property(name string) error {
	return e.Invoke(name)
}

// Check evaluates rule against the configured graph.
func (e *Expectation) Check(rule arch.Rule) error {
	if e.graph == nil {
		return failure.Usagef("no dependency graph configured for %s", describeSubject(e.value))
	}
	return rule.Check(e.graph)
}

// fail builds the positive failure for operation name.
func (e *Expectation) fail(name string, args ...any) error {
	if e.message != "" {
		return &failure.AssertionError{Message: e.message}
	}
	return &failure.AssertionError{Message: positiveMessage(e.value, name, args...)}
}

// subject converts the value into a dependency subject.
func (e *Expectation) subject() (arch.Subject, error) {
	return arch.SubjectOf(e.value)
}

func requireTargets(name string, targets []string) error {
	if len(targets) == 0 {
		return failure.Usagef("%s needs at least one target", name)
	}
	return nil
}
