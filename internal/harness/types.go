package harness

// Step outcomes.
const (
	OutcomeHeld    = "held"
	OutcomeFailed  = "failed"
	OutcomeInvalid = "invalid"
	// OutcomeError is reported for errors that are neither assertion
	// failures nor usage errors. Scenarios cannot expect it.
	OutcomeError = "error"
)

// StepResult records one evaluated step.
type StepResult struct {
	Index   int    `json:"index"`
	Call    string `json:"call"`
	Not     bool   `json:"not,omitempty"`
	Args    []any  `json:"args,omitempty"`
	Want    string `json:"want"`
	Got     string `json:"got"`
	Message string `json:"message,omitempty"`
}

// Matched reports whether the step produced the expected outcome.
func (s StepResult) Matched() bool {
	return s.Want == s.Got
}

// Result is the outcome of a scenario execution.
type Result struct {
	// RunID identifies this execution.
	RunID string `json:"run_id"`

	// Scenario is the scenario name.
	Scenario string `json:"scenario"`

	// Pass is true when every step matched its expectation.
	Pass bool `json:"pass"`

	// Steps holds one entry per evaluated step, in order.
	Steps []StepResult `json:"steps"`

	// Errors describes every mismatch. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(runID, scenario string) *Result {
	return &Result{
		RunID:    runID,
		Scenario: scenario,
		Pass:     true,
		Steps:    []StepResult{},
		Errors:   []string{},
	}
}

// AddError adds a mismatch and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddStep appends an evaluated step.
func (r *Result) AddStep(step StepResult) {
	r.Steps = append(r.Steps, step)
}

// Failures counts steps whose outcome did not match.
func (r *Result) Failures() int {
	n := 0
	for _, s := range r.Steps {
		if !s.Matched() {
			n++
		}
	}
	return n
}
