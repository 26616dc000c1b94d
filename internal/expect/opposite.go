package expect

import (
	"github.com/roach88/contrary/internal/arch"
	"github.com/roach88/contrary/internal/failure"
	"github.com/roach88/contrary/internal/keypath"
)

// Opposite is the negation of an Expectation. Negated value assertions
// return the original expectation when they hold.
type Opposite struct {
	original *Expectation
}

// Original returns the expectation being negated.
func (o *Opposite) Original() *Expectation {
	return o.original
}

// Invoke runs the negation of the operation called name.
//
// Graph operations build their negated rule and check it against the
// graph configured on the original expectation.
func (o *Opposite) Invoke(name string, args ...any) (*Expectation, error) {
	if op, ok := operations[name]; ok && op.Strategy == StrategyForbidden {
		return nil, o.forbidden(name)
	}
	op, err := lookup(name, args)
	if err != nil {
		return nil, err
	}

	var rule arch.Rule
	switch op.Strategy {
	case StrategyKeys:
		return o.ToHaveKeys(args...)
	case StrategyDependsOn:
		targets, terr := stringArgs(name, args)
		if terr != nil {
			return nil, terr
		}
		rule, err = o.ToDependOn(targets...)
	case StrategyUsedOn:
		targets, terr := stringArgs(name, args)
		if terr != nil {
			return nil, terr
		}
		rule, err = o.ToBeUsedOn(targets...)
	case StrategyUsed:
		rule, err = o.ToBeUsed()
	default:
		return o.negate(name, args, func() error { return op.assert(o.original, args) })
	}
	if err != nil {
		return nil, err
	}
	if err := o.original.Check(rule); err != nil {
		return nil, err
	}
	return o.original, nil
}

// Property runs the negation of a zero-argument operation by name.
func (o *Opposite) Property(name string) (*Expectation, error) {
	return o.Invoke(name)
}

// negate runs check, the positive form of name. Its assertion failure means
// the negation holds; its success is reported as a failure. Other errors
// pass through.
func (o *Opposite) negate(name string, args []any, check func() error) (*Expectation, error) {
	err := check()
	switch {
	case err == nil:
		return nil, o.violation(name, args...)
	case failure.IsAssertion(err):
		return o.original, nil
	default:
		return nil, err
	}
}

func (o *Opposite) violation(name string, args ...any) error {
	return &failure.AssertionError{Message: FailureMessage(o.original.value, name, args...)}
}

func (o *Opposite) forbidden(name string) error {
	return failure.InvalidMethods("Not", name)
}

// ToHaveKeys asserts no leaf of the key specification resolves. It fails on
// the first leaf that is present, naming it.
func (o *Opposite) ToHaveKeys(keys ...any) (*Expectation, error) {
	for _, key := range keys {
		if list, ok := key.([]any); ok {
			if _, err := o.ToHaveKeys(list...); err != nil {
				return nil, err
			}
			continue
		}
		if keypath.Nested(key) {
			if _, err := o.ToHaveKeys(keypath.Leaves(key)...); err != nil {
				return nil, err
			}
			continue
		}
		err := o.original.ToHaveKey(key)
		switch {
		case failure.IsAssertion(err):
			continue
		case err != nil:
			return nil, err
		}
		return nil, o.violation("ToHaveKey", key)
	}
	return o.original, nil
}

func (o *Opposite) ToBe(expected any) (*Expectation, error) {
	return o.negate("ToBe", []any{expected}, func() error { return o.original.ToBe(expected) })
}

func (o *Opposite) ToEqual(expected any) (*Expectation, error) {
	return o.negate("ToEqual", []any{expected}, func() error { return o.original.ToEqual(expected) })
}

func (o *Opposite) ToBeTrue() (*Expectation, error) {
	return o.negate("ToBeTrue", nil, o.original.ToBeTrue)
}

func (o *Opposite) ToBeFalse() (*Expectation, error) {
	return o.negate("ToBeFalse", nil, o.original.ToBeFalse)
}

func (o *Opposite) ToBeTruthy() (*Expectation, error) {
	return o.negate("ToBeTruthy", nil, o.original.ToBeTruthy)
}

func (o *Opposite) ToBeFalsy() (*Expectation, error) {
	return o.negate("ToBeFalsy", nil, o.original.ToBeFalsy)
}

func (o *Opposite) ToBeNil() (*Expectation, error) {
	return o.negate("ToBeNil", nil, o.original.ToBeNil)
}

func (o *Opposite) ToBeEmpty() (*Expectation, error) {
	return o.negate("ToBeEmpty", nil, o.original.ToBeEmpty)
}

func (o *Opposite) ToBeGreaterThan(expected any) (*Expectation, error) {
	return o.negate("ToBeGreaterThan", []any{expected}, func() error { return o.original.ToBeGreaterThan(expected) })
}

func (o *Opposite) ToBeGreaterThanOrEqual(expected any) (*Expectation, error) {
	return o.negate("ToBeGreaterThanOrEqual", []any{expected}, func() error { return o.original.ToBeGreaterThanOrEqual(expected) })
}

func (o *Opposite) ToBeLessThan(expected any) (*Expectation, error) {
	return o.negate("ToBeLessThan", []any{expected}, func() error { return o.original.ToBeLessThan(expected) })
}

func (o *Opposite) ToBeLessThanOrEqual(expected any) (*Expectation, error) {
	return o.negate("ToBeLessThanOrEqual", []any{expected}, func() error { return o.original.ToBeLessThanOrEqual(expected) })
}

func (o *Opposite) ToBeBetween(lowest, highest any) (*Expectation, error) {
	return o.negate("ToBeBetween", []any{lowest, highest}, func() error { return o.original.ToBeBetween(lowest, highest) })
}

// ToContain holds when at least one needle is missing.
func (o *Opposite) ToContain(needles ...any) (*Expectation, error) {
	return o.negate("ToContain", needles, func() error { return o.original.ToContain(needles...) })
}

func (o *Opposite) ToHaveCount(count int) (*Expectation, error) {
	return o.negate("ToHaveCount", []any{count}, func() error { return o.original.ToHaveCount(count) })
}

func (o *Opposite) ToHaveKey(key any) (*Expectation, error) {
	return o.negate("ToHaveKey", []any{key}, func() error { return o.original.ToHaveKey(key) })
}

func (o *Opposite) ToStartWith(prefix string) (*Expectation, error) {
	return o.negate("ToStartWith", []any{prefix}, func() error { return o.original.ToStartWith(prefix) })
}

func (o *Opposite) ToEndWith(suffix string) (*Expectation, error) {
	return o.negate("ToEndWith", []any{suffix}, func() error { return o.original.ToEndWith(suffix) })
}

func (o *Opposite) ToMatch(pattern string) (*Expectation, error) {
	return o.negate("ToMatch", []any{pattern}, func() error { return o.original.ToMatch(pattern) })
}

func (o *Opposite) ToBeString() (*Expectation, error) {
	return o.negate("ToBeString", nil, o.original.ToBeString)
}

func (o *Opposite) ToBeInt() (*Expectation, error) {
	return o.negate("ToBeInt", nil, o.original.ToBeInt)
}

func (o *Opposite) ToBeFloat() (*Expectation, error) {
	return o.negate("ToBeFloat", nil, o.original.ToBeFloat)
}

func (o *Opposite) ToBeBool() (*Expectation, error) {
	return o.negate("ToBeBool", nil, o.original.ToBeBool)
}

func (o *Opposite) ToBeSlice() (*Expectation, error) {
	return o.negate("ToBeSlice", nil, o.original.ToBeSlice)
}

func (o *Opposite) ToBeMap() (*Expectation, error) {
	return o.negate("ToBeMap", nil, o.original.ToBeMap)
}

func (o *Opposite) ToBeInstanceOf(sample any) (*Expectation, error) {
	return o.negate("ToBeInstanceOf", []any{sample}, func() error { return o.original.ToBeInstanceOf(sample) })
}

// ToDependOn holds when the subject depends on none of targets. Each target
// gets its own inverted rule, so the first dependency found is reported.
func (o *Opposite) ToDependOn(targets ...string) (arch.Rule, error) {
	subject, err := o.original.subject()
	if err != nil {
		return nil, err
	}
	if err := requireTargets(arch.NameDependOn, targets); err != nil {
		return nil, err
	}
	rules := make([]arch.Rule, len(targets))
	for i, target := range targets {
		rules[i] = arch.DependsOn(subject, target).Invert(func() error {
			return o.violation(arch.NameDependOn, target)
		})
	}
	return arch.FromRules(subject, rules...), nil
}

// ToBeUsedOn holds when no target uses any subject namespace.
func (o *Opposite) ToBeUsedOn(targets ...string) (arch.Rule, error) {
	subject, err := o.original.subject()
	if err != nil {
		return nil, err
	}
	if err := requireTargets(arch.NameBeUsedOn, targets); err != nil {
		return nil, err
	}
	rules := make([]arch.Rule, len(targets))
	for i, target := range targets {
		rules[i] = arch.UsedOn(subject, target).Invert(func() error {
			return o.violation(arch.NameBeUsedOn, target)
		})
	}
	return arch.FromRules(subject, rules...), nil
}

// ToBeUsed holds when nothing outside the subject uses it.
func (o *Opposite) ToBeUsed() (arch.Rule, error) {
	subject, err := o.original.subject()
	if err != nil {
		return nil, err
	}
	return arch.UsedOnNothing(subject), nil
}

// ToOnlyDependOn has no negation.
func (o *Opposite) ToOnlyDependOn(...string) (arch.Rule, error) {
	return nil, o.forbidden(arch.NameOnlyDependOn)
}

// ToDependOnNothing has no negation.
func (o *Opposite) ToDependOnNothing() (arch.Rule, error) {
	return nil, o.forbidden(arch.NameDependOnNothing)
}

// ToOnlyBeUsedOn has no negation.
func (o *Opposite) ToOnlyBeUsedOn(...string) (arch.Rule, error) {
	return nil, o.forbidden(arch.NameOnlyBeUsedOn)
}

// ToBeUsedOnNothing has no negation.
func (o *Opposite) ToBeUsedOnNothing() (arch.Rule, error) {
	return nil, o.forbidden(arch.NameBeUsedOnNothing)
}
