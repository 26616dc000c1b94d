package expect

import (
	"math"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/contrary/internal/failure"
)

func TestOperations_Strategies(t *testing.T) {
	got := map[Strategy][]string{}
	for _, op := range Operations() {
		if op.Strategy != StrategyValue {
			got[op.Strategy] = append(got[op.Strategy], op.Name)
		}
	}
	for _, names := range got {
		sort.Strings(names)
	}

	want := map[Strategy][]string{
		StrategyKeys:      {"ToHaveKeys"},
		StrategyDependsOn: {"ToDependOn"},
		StrategyUsedOn:    {"ToBeUsedOn"},
		StrategyUsed:      {"ToBeUsed"},
		StrategyForbidden: {"ToBeUsedOnNothing", "ToDependOnNothing", "ToOnlyBeUsedOn", "ToOnlyDependOn"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("strategies mismatch (-want +got):\n%s", diff)
	}
}

func TestOperations_Sorted(t *testing.T) {
	ops := Operations()
	require.NotEmpty(t, ops)
	assert.True(t, sort.SliceIsSorted(ops, func(i, j int) bool { return ops[i].Name < ops[j].Name }))
	assert.Len(t, ops, 34)
}

func TestOperations_GraphOperationsBuildRules(t *testing.T) {
	for _, op := range Operations() {
		graphStrategy := op.Strategy == StrategyDependsOn || op.Strategy == StrategyUsedOn ||
			op.Strategy == StrategyUsed || op.Strategy == StrategyForbidden
		assert.Equal(t, graphStrategy, op.Graph(), op.Name)
	}
}

func TestLookupOperation(t *testing.T) {
	op, ok := LookupOperation("ToBeBetween")
	require.True(t, ok)
	assert.Equal(t, 2, op.MinArgs)
	assert.Equal(t, 2, op.MaxArgs)
	assert.Equal(t, StrategyValue, op.Strategy)

	op, ok = LookupOperation("ToContain")
	require.True(t, ok)
	assert.Equal(t, -1, op.MaxArgs)

	_, ok = LookupOperation("toContain")
	assert.False(t, ok)
}

func TestStrategy_String(t *testing.T) {
	assert.Equal(t, "value", StrategyValue.String())
	assert.Equal(t, "keys", StrategyKeys.String())
	assert.Equal(t, "dependsOn", StrategyDependsOn.String())
	assert.Equal(t, "usedOn", StrategyUsedOn.String())
	assert.Equal(t, "used", StrategyUsed.String())
	assert.Equal(t, "forbidden", StrategyForbidden.String())
	assert.Equal(t, "unknown", Strategy(99).String())
}

func TestCheckArity(t *testing.T) {
	tests := []struct {
		name string
		op   Operation
		args []any
		want string
	}{
		{"exact ok", Operation{Name: "A", MinArgs: 1, MaxArgs: 1}, []any{1}, ""},
		{"exact short", Operation{Name: "A", MinArgs: 1, MaxArgs: 1}, nil, "invalid expectation: A takes 1 argument(s), got 0"},
		{"variadic ok", Operation{Name: "B", MinArgs: 1, MaxArgs: -1}, []any{1, 2, 3}, ""},
		{"variadic short", Operation{Name: "B", MinArgs: 1, MaxArgs: -1}, nil, "invalid expectation: B takes at least 1 argument(s), got 0"},
		{"range long", Operation{Name: "C", MinArgs: 0, MaxArgs: 2}, []any{1, 2, 3}, "invalid expectation: C takes 0 to 2 arguments, got 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op.checkArity(tt.args)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestStringArgs(t *testing.T) {
	got, err := stringArgs("X", []any{"a", []string{"b"}, []any{"c", []any{"d"}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, got)

	_, err = stringArgs("X", []any{"a", 1})
	assert.EqualError(t, err, "invalid expectation: X targets must be unit names, got int")
}

func TestIntArg(t *testing.T) {
	tests := []struct {
		name string
		arg  any
		want int
		err  string
	}{
		{"int", 3, 3, ""},
		{"uint8", uint8(7), 7, ""},
		{"integral float", 2.0, 2, ""},
		{"fractional float", 2.5, 0, "ToHaveCount needs an integer argument, got float64"},
		{"float too large", 1e30, 0, "ToHaveCount argument 1e+30 is out of range"},
		{"float too small", -1e30, 0, "ToHaveCount argument -1e+30 is out of range"},
		{"uint64 too large", uint64(math.MaxUint64), 0, "ToHaveCount argument 18446744073709551615 is out of range"},
		{"string", "3", 0, "ToHaveCount needs an integer argument, got string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := intArg("ToHaveCount", tt.arg)
			if tt.err != "" {
				assert.EqualError(t, err, "invalid expectation: "+tt.err)
				assert.True(t, failure.IsUsage(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
