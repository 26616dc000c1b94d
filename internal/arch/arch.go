// Package arch builds dependency-graph ("architecture") rules.
//
// A Rule is constructed eagerly and evaluated lazily: Check runs it against a
// Graph supplied later by the analyzer. Rules are immutable values. Invert
// wraps a rule into a new one with flipped pass/fail semantics, so the same
// rule can be reused for both positive and negated expectations.
//
// Units are Go package import paths. A namespace covers a unit when the unit
// equals it or lives below it:
//
//	Within("app/models/user", "app/models") == true
//	Within("app/modelsx", "app/models")     == false
package arch

import (
	"fmt"
	"strings"

	"github.com/roach88/contrary/internal/export"
	"github.com/roach88/contrary/internal/failure"
)

// Graph is the analyzer contract rules are evaluated against.
type Graph interface {
	// Units returns every unit known to the graph.
	Units() []string
	// Imports returns the units directly imported by unit.
	Imports(unit string) []string
}

// Rule is a lazily evaluated structural rule.
type Rule interface {
	// Check returns nil when the rule holds, an assertion failure when it
	// does not, and any other error when evaluation itself failed.
	Check(g Graph) error
	// Invert returns a new rule that calls onViolation exactly when the
	// receiver would have held, and holds when the receiver fails.
	Invert(onViolation func() error) Rule
}

// Subject is the ordered list of namespaces an expectation is about.
type Subject []string

// SubjectOf converts an expectation value into a Subject. Only unit names
// (string, []string or []any of strings) are accepted.
func SubjectOf(value any) (Subject, error) {
	switch v := value.(type) {
	case string:
		return Subject{v}, nil
	case []string:
		return append(Subject(nil), v...), nil
	case []any:
		s := make(Subject, 0, len(v))
		for i, item := range v {
			name, ok := item.(string)
			if !ok {
				return nil, failure.Usagef("dependency subject[%d] must be a unit name, got %T", i, item)
			}
			s = append(s, name)
		}
		return s, nil
	default:
		return nil, failure.Usagef("dependency expectations need a unit name or list of unit names, got %T", value)
	}
}

// Value returns the subject in the shape used for failure messages: a single
// name for one namespace, the full list otherwise.
func (s Subject) Value() any {
	if len(s) == 1 {
		return s[0]
	}
	return []string(s)
}

// Within reports whether unit lies inside namespace.
func Within(unit, namespace string) bool {
	return unit == namespace || strings.HasPrefix(unit, namespace+"/")
}

// members returns the graph units covered by any namespace of s.
func (s Subject) members(g Graph) []string {
	var out []string
	for _, u := range g.Units() {
		if s.covers(u) {
			out = append(out, u)
		}
	}
	return out
}

func (s Subject) covers(unit string) bool {
	for _, ns := range s {
		if Within(unit, ns) {
			return true
		}
	}
	return false
}

// Single is one structural rule bound to one subject.
type Single struct {
	subject Subject
	name    string
	eval    func(g Graph) error
}

// Subject returns the rule's subject.
func (r *Single) Subject() Subject {
	return r.subject
}

// Name returns the expectation name the rule was built for.
func (r *Single) Name() string {
	return r.name
}

// Check implements Rule.
func (r *Single) Check(g Graph) error {
	if g == nil {
		return failure.Usagef("%s: no dependency graph to evaluate against", r.name)
	}
	return r.eval(g)
}

// Invert implements Rule.
func (r *Single) Invert(onViolation func() error) Rule {
	return &inverted{rule: r, onViolation: onViolation}
}

// Group requires every member rule to hold.
type Group struct {
	subject Subject
	rules   []Rule
}

// FromRules combines rules into a group bound to subject.
func FromRules(subject Subject, rules ...Rule) *Group {
	return &Group{subject: subject, rules: append([]Rule(nil), rules...)}
}

// Subject returns the group's subject.
func (g *Group) Subject() Subject {
	return g.subject
}

// Rules returns a copy of the member rules.
func (g *Group) Rules() []Rule {
	return append([]Rule(nil), g.rules...)
}

// Check evaluates members in order and returns the first error.
func (g *Group) Check(graph Graph) error {
	for _, r := range g.rules {
		if err := r.Check(graph); err != nil {
			return err
		}
	}
	return nil
}

// Invert inverts every member: the inverted group holds only when no member
// of the original holds.
func (g *Group) Invert(onViolation func() error) Rule {
	rules := make([]Rule, len(g.rules))
	for i, r := range g.rules {
		rules[i] = r.Invert(onViolation)
	}
	return &Group{subject: g.subject, rules: rules}
}

// inverted wraps a rule with flipped semantics.
type inverted struct {
	rule        Rule
	onViolation func() error
}

func (i *inverted) Check(g Graph) error {
	err := i.rule.Check(g)
	switch {
	case err == nil:
		if i.onViolation == nil {
			return failure.Assertionf("Expecting the inverse of %s.", describe(i.rule))
		}
		return i.onViolation()
	case failure.IsAssertion(err):
		return nil
	default:
		return err
	}
}

func (i *inverted) Invert(onViolation func() error) Rule {
	return &inverted{rule: i, onViolation: onViolation}
}

func describe(r Rule) string {
	switch v := r.(type) {
	case *Single:
		return fmt.Sprintf("%s %s", export.Shortened(v.subject.Value()), v.name)
	case *Group:
		return fmt.Sprintf("%s group of %d", export.Shortened(v.subject.Value()), len(v.rules))
	default:
		return fmt.Sprintf("%T", r)
	}
}
