package expect

import (
	"math"
	"reflect"
	"sort"

	"github.com/roach88/contrary/internal/arch"
	"github.com/roach88/contrary/internal/failure"
)

// Strategy is how an operation is negated.
type Strategy int

const (
	// StrategyValue inverts the positive outcome.
	StrategyValue Strategy = iota
	// StrategyKeys negates each leaf of a key specification.
	StrategyKeys
	// StrategyDependsOn inverts one DependsOn rule per target.
	StrategyDependsOn
	// StrategyUsedOn inverts one UsedOn group per target.
	StrategyUsedOn
	// StrategyUsed becomes UsedOnNothing.
	StrategyUsed
	// StrategyForbidden has no negation.
	StrategyForbidden
)

var strategyNames = map[Strategy]string{
	StrategyValue:     "value",
	StrategyKeys:      "keys",
	StrategyDependsOn: "dependsOn",
	StrategyUsedOn:    "usedOn",
	StrategyUsed:      "used",
	StrategyForbidden: "forbidden",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return "unknown"
}

// Operation describes an operation callable by name.
type Operation struct {
	Name     string
	Strategy Strategy
	// MinArgs and MaxArgs bound the argument count; MaxArgs < 0 is variadic.
	MinArgs int
	MaxArgs int

	assert func(e *Expectation, args []any) error
	rule   func(e *Expectation, args []any) (arch.Rule, error)
}

// Graph reports whether the operation builds a dependency rule.
func (op Operation) Graph() bool {
	return op.rule != nil
}

func (op Operation) checkArity(args []any) error {
	n := len(args)
	if n < op.MinArgs || (op.MaxArgs >= 0 && n > op.MaxArgs) {
		switch {
		case op.MaxArgs < 0:
			return failure.Usagef("%s takes at least %d argument(s), got %d", op.Name, op.MinArgs, n)
		case op.MinArgs == op.MaxArgs:
			return failure.Usagef("%s takes %d argument(s), got %d", op.Name, op.MinArgs, n)
		default:
			return failure.Usagef("%s takes %d to %d arguments, got %d", op.Name, op.MinArgs, op.MaxArgs, n)
		}
	}
	return nil
}

var operations map[string]Operation

func init() {
	ops := []Operation{
		unary("ToBe", (*Expectation).ToBe),
		unary("ToEqual", (*Expectation).ToEqual),
		nullary("ToBeTrue", (*Expectation).ToBeTrue),
		nullary("ToBeFalse", (*Expectation).ToBeFalse),
		nullary("ToBeTruthy", (*Expectation).ToBeTruthy),
		nullary("ToBeFalsy", (*Expectation).ToBeFalsy),
		nullary("ToBeNil", (*Expectation).ToBeNil),
		nullary("ToBeEmpty", (*Expectation).ToBeEmpty),
		unary("ToBeGreaterThan", (*Expectation).ToBeGreaterThan),
		unary("ToBeGreaterThanOrEqual", (*Expectation).ToBeGreaterThanOrEqual),
		unary("ToBeLessThan", (*Expectation).ToBeLessThan),
		unary("ToBeLessThanOrEqual", (*Expectation).ToBeLessThanOrEqual),
		{
			Name: "ToBeBetween", MinArgs: 2, MaxArgs: 2,
			assert: func(e *Expectation, args []any) error { return e.ToBeBetween(args[0], args[1]) },
		},
		{
			Name: "ToContain", MinArgs: 1, MaxArgs: -1,
			assert: func(e *Expectation, args []any) error { return e.ToContain(args...) },
		},
		{
			Name: "ToHaveCount", MinArgs: 1, MaxArgs: 1,
			assert: func(e *Expectation, args []any) error {
				n, err := intArg("ToHaveCount", args[0])
				if err != nil {
					return err
				}
				return e.ToHaveCount(n)
			},
		},
		unary("ToHaveKey", (*Expectation).ToHaveKey),
		{
			Name: "ToHaveKeys", Strategy: StrategyKeys, MinArgs: 0, MaxArgs: -1,
			assert: func(e *Expectation, args []any) error { return e.ToHaveKeys(args...) },
		},
		text("ToStartWith", (*Expectation).ToStartWith),
		text("ToEndWith", (*Expectation).ToEndWith),
		text("ToMatch", (*Expectation).ToMatch),
		nullary("ToBeString", (*Expectation).ToBeString),
		nullary("ToBeInt", (*Expectation).ToBeInt),
		nullary("ToBeFloat", (*Expectation).ToBeFloat),
		nullary("ToBeBool", (*Expectation).ToBeBool),
		nullary("ToBeSlice", (*Expectation).ToBeSlice),
		nullary("ToBeMap", (*Expectation).ToBeMap),
		unary("ToBeInstanceOf", (*Expectation).ToBeInstanceOf),

		targeted(arch.NameDependOn, StrategyDependsOn, (*Expectation).ToDependOn),
		targeted(arch.NameOnlyDependOn, StrategyForbidden, (*Expectation).ToOnlyDependOn),
		untargeted(arch.NameDependOnNothing, StrategyForbidden, (*Expectation).ToDependOnNothing),
		untargeted("ToBeUsed", StrategyUsed, (*Expectation).ToBeUsed),
		targeted(arch.NameBeUsedOn, StrategyUsedOn, (*Expectation).ToBeUsedOn),
		targeted(arch.NameOnlyBeUsedOn, StrategyForbidden, (*Expectation).ToOnlyBeUsedOn),
		untargeted(arch.NameBeUsedOnNothing, StrategyForbidden, (*Expectation).ToBeUsedOnNothing),
	}

	operations = make(map[string]Operation, len(ops))
	for _, op := range ops {
		operations[op.Name] = op
	}
}

func nullary(name string, fn func(*Expectation) error) Operation {
	return Operation{
		Name:   name,
		assert: func(e *Expectation, _ []any) error { return fn(e) },
	}
}

func unary(name string, fn func(*Expectation, any) error) Operation {
	return Operation{
		Name: name, MinArgs: 1, MaxArgs: 1,
		assert: func(e *Expectation, args []any) error { return fn(e, args[0]) },
	}
}

func text(name string, fn func(*Expectation, string) error) Operation {
	return Operation{
		Name: name, MinArgs: 1, MaxArgs: 1,
		assert: func(e *Expectation, args []any) error {
			s, ok := args[0].(string)
			if !ok {
				return failure.Usagef("%s needs a string argument, got %T", name, args[0])
			}
			return fn(e, s)
		},
	}
}

func targeted(name string, strategy Strategy, fn func(*Expectation, ...string) (arch.Rule, error)) Operation {
	return Operation{
		Name: name, Strategy: strategy, MinArgs: 1, MaxArgs: -1,
		rule: func(e *Expectation, args []any) (arch.Rule, error) {
			targets, err := stringArgs(name, args)
			if err != nil {
				return nil, err
			}
			return fn(e, targets...)
		},
	}
}

func untargeted(name string, strategy Strategy, fn func(*Expectation) (arch.Rule, error)) Operation {
	return Operation{
		Name: name, Strategy: strategy,
		rule: func(e *Expectation, _ []any) (arch.Rule, error) { return fn(e) },
	}
}

// Operations returns every operation, sorted by name.
func Operations() []Operation {
	out := make([]Operation, 0, len(operations))
	for _, op := range operations {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LookupOperation returns the operation called name.
func LookupOperation(name string) (Operation, bool) {
	op, ok := operations[name]
	return op, ok
}

// lookup resolves name and validates the argument count.
func lookup(name string, args []any) (Operation, error) {
	op, ok := operations[name]
	if !ok {
		return Operation{}, failure.Usagef("unknown operation %q", name)
	}
	if err := op.checkArity(args); err != nil {
		return Operation{}, err
	}
	return op, nil
}

// stringArgs flattens targets given as strings or lists of strings, the
// shapes scenario decoders produce.
func stringArgs(name string, args []any) ([]string, error) {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		switch v := arg.(type) {
		case string:
			out = append(out, v)
		case []string:
			out = append(out, v...)
		case []any:
			nested, err := stringArgs(name, v)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
		default:
			return nil, failure.Usagef("%s targets must be unit names, got %T", name, arg)
		}
	}
	return out, nil
}

// intArg accepts any integer, or a float with no fractional part.
func intArg(name string, arg any) (int, error) {
	if isNumber(arg) {
		rv := reflect.ValueOf(arg)
		switch kindOf(rv) {
		case signedNumber:
			n := rv.Int()
			if n < math.MinInt || n > math.MaxInt {
				return 0, failure.Usagef("%s argument %v is out of range", name, arg)
			}
			return int(n), nil
		case unsignedNumber:
			if rv.Uint() > math.MaxInt {
				return 0, failure.Usagef("%s argument %v is out of range", name, arg)
			}
			return int(rv.Uint()), nil
		default:
			if f := rv.Float(); f == math.Trunc(f) {
				// float64(math.MaxInt) rounds up to 2^63, which is already out of range
				if f < math.MinInt || f >= math.MaxInt {
					return 0, failure.Usagef("%s argument %v is out of range", name, arg)
				}
				return int(f), nil
			}
		}
	}
	return 0, failure.Usagef("%s needs an integer argument, got %T", name, arg)
}
