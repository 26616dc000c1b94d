package expect

import (
	"github.com/roach88/contrary/internal/arch"
)

// Dependency-graph operations build rules; nothing is evaluated until the
// rule is checked against a graph (see Check). The subject must be a unit
// name or a list of unit names.

// ToDependOn holds when the subject imports something inside every target.
func (e *Expectation) ToDependOn(targets ...string) (arch.Rule, error) {
	subject, err := e.subject()
	if err != nil {
		return nil, err
	}
	if err := requireTargets(arch.NameDependOn, targets); err != nil {
		return nil, err
	}
	rules := make([]arch.Rule, len(targets))
	for i, target := range targets {
		rules[i] = arch.DependsOn(subject, target)
	}
	return arch.FromRules(subject, rules...), nil
}

// ToOnlyDependOn holds when the subject imports nothing outside itself and
// targets.
func (e *Expectation) ToOnlyDependOn(targets ...string) (arch.Rule, error) {
	subject, err := e.subject()
	if err != nil {
		return nil, err
	}
	if err := requireTargets(arch.NameOnlyDependOn, targets); err != nil {
		return nil, err
	}
	return arch.OnlyDependsOn(subject, targets...), nil
}

func (e *Expectation) ToDependOnNothing() (arch.Rule, error) {
	subject, err := e.subject()
	if err != nil {
		return nil, err
	}
	return arch.DependsOnNothing(subject), nil
}

// ToBeUsed holds when some unit outside the subject imports it.
func (e *Expectation) ToBeUsed() (arch.Rule, error) {
	subject, err := e.subject()
	if err != nil {
		return nil, err
	}
	return arch.UsedOnNothing(subject).Invert(func() error {
		return e.fail("ToBeUsed")
	}), nil
}

// ToBeUsedOn holds when every target imports every subject namespace.
func (e *Expectation) ToBeUsedOn(targets ...string) (arch.Rule, error) {
	subject, err := e.subject()
	if err != nil {
		return nil, err
	}
	if err := requireTargets(arch.NameBeUsedOn, targets); err != nil {
		return nil, err
	}
	rules := make([]arch.Rule, len(targets))
	for i, target := range targets {
		rules[i] = arch.UsedOn(subject, target)
	}
	return arch.FromRules(subject, rules...), nil
}

func (e *Expectation) ToOnlyBeUsedOn(targets ...string) (arch.Rule, error) {
	subject, err := e.subject()
	if err != nil {
		return nil, err
	}
	if err := requireTargets(arch.NameOnlyBeUsedOn, targets); err != nil {
		return nil, err
	}
	return arch.OnlyUsedOn(subject, targets...), nil
}

func (e *Expectation) ToBeUsedOnNothing() (arch.Rule, error) {
	subject, err := e.subject()
	if err != nil {
		return nil, err
	}
	return arch.UsedOnNothing(subject), nil
}
