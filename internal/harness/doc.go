// Package harness runs expectation scenarios.
//
// A scenario binds a subject value (and optionally a dependency graph) and
// lists steps. Each step invokes one operation by name, positively or
// negated, and states the outcome it expects.
//
// # Scenario Format
//
// Scenarios are YAML (.yaml, .yml) or CUE (.cue) files:
//
//	name: less_or_equal
//	description: "negating <= on integers"
//	subject: 5
//	steps:
//	  - call: ToBeLessThanOrEqual
//	    not: true
//	    args: [4]
//	    expect: held
//	  - call: ToBeLessThanOrEqual
//	    not: true
//	    args: [5]
//	    expect: failed
//	    message: "not to be less than or equal 5"
//
// Graph steps need a graph, given inline or loaded from a module on disk
// (relative to the scenario file):
//
//	graph:
//	  imports:
//	    app/http: [app/models, fmt]
//	# or
//	graph:
//	  module: ../shop
//
// # Outcomes
//
//   - held: the step's assertion held
//   - failed: it raised an assertion failure
//   - invalid: it raised a usage error (for example a forbidden negation)
//
// A step may override the scenario subject with its own subject field.
//
// # Deterministic Testing
//
// Every run gets an ID from the harness's generator (random UUIDs by
// default). Tests inject testutil.FixedID so stored runs and golden snapshots
// stay reproducible. Golden snapshots never include the run ID.
package harness
