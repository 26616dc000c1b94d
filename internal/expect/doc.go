// Package expect provides fluent expectations over Go values and their
// negation.
//
// Every positive assertion returns an error: nil when it held, an error
// matching failure.ErrAssertion when it did not.
//
//	e := expect.New(5)
//	err := e.ToBeLessThanOrEqual(4) // assertion failure
//
// Not returns an Opposite, which exposes the same operations with inverted
// outcomes. A negated assertion returns the original expectation when the
// positive form failed, so checks can continue on the same subject:
//
//	e, err := expect.New([]int{1, 2}).Not().ToHaveKey(5)  // holds, e is the subject
//	_, err = expect.New([]int{1, 2}).Not().ToHaveKey(0)   // "Expecting []int{...} not to have key 0."
//
// # Negation strategies
//
// Each operation declares how it is negated (see Operations):
//
//   - value: run the positive form; its failure is success and its success
//     is a failure naming the operation and arguments.
//   - keys: ToHaveKeys expands nested key specifications into dotted leaf
//     paths and fails on the first leaf that is present.
//   - dependsOn, usedOn, used: dependency-graph expectations build inverted
//     arch rules, evaluated later against a graph.
//   - forbidden: ToDependOnNothing, ToOnlyDependOn, ToBeUsedOnNothing and
//     ToOnlyBeUsedOn have no single well-defined negation; negating them
//     returns a usage error immediately.
//
// Operations can also be invoked by name (Expectation.Invoke,
// Opposite.Invoke), which is how scenario files drive them.
package expect
