package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// Scenario defines an expectation scenario.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name" json:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description" json:"description"`

	// Subject is the value every step is evaluated against.
	Subject any `yaml:"subject" json:"subject"`

	// Graph is the dependency graph for graph operations.
	Graph *GraphSpec `yaml:"graph,omitempty" json:"graph,omitempty"`

	// Steps run in order.
	Steps []Step `yaml:"steps" json:"steps"`

	// Dir is the directory the scenario was loaded from. Relative module
	// paths resolve against it.
	Dir string `yaml:"-" json:"-"`
}

// GraphSpec gives a dependency graph inline or as a module directory.
type GraphSpec struct {
	// Imports maps each unit to the units it imports.
	Imports map[string][]string `yaml:"imports,omitempty" json:"imports,omitempty"`

	// Module is a Go module directory to analyze.
	Module string `yaml:"module,omitempty" json:"module,omitempty"`
}

// Step invokes one operation.
type Step struct {
	// Call is the operation name, e.g. "ToHaveKey".
	Call string `yaml:"call" json:"call"`

	// Not negates the operation.
	Not bool `yaml:"not,omitempty" json:"not,omitempty"`

	// Args are passed to the operation.
	Args []any `yaml:"args,omitempty" json:"args,omitempty"`

	// Subject overrides the scenario subject for this step when set.
	Subject any `yaml:"subject,omitempty" json:"subject,omitempty"`

	// Expect is the expected outcome: held, failed or invalid.
	Expect string `yaml:"expect" json:"expect"`

	// Message, if set, must appear in the error text.
	Message string `yaml:"message,omitempty" json:"message,omitempty"`
}

var (
	scenarioFields = []string{"name", "description", "subject", "graph", "steps"}
	stepFields     = []string{"call", "not", "args", "subject", "expect", "message"}
	graphFields    = []string{"imports", "module"}
)

// LoadScenario reads and parses a scenario file. The format follows the
// extension: .yaml and .yml are YAML, .cue is CUE.
//
// Returns an error if the file doesn't exist, is malformed, contains unknown
// fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario *Scenario
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		scenario, err = ParseYAML(data)
	case ".cue":
		scenario, err = ParseCUE(data, path)
	default:
		return nil, fmt.Errorf("unsupported scenario format %q", ext)
	}
	if err != nil {
		return nil, err
	}

	scenario.Dir = filepath.Dir(path)
	return scenario, nil
}

// ParseYAML parses and validates a YAML scenario.
func ParseYAML(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // catches typos like "step:" vs "steps:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// ParseCUE parses and validates a CUE scenario. filename is used in error
// positions only.
func ParseCUE(data []byte, filename string) (*Scenario, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse CUE: %w", err)
	}
	if err := checkCUEFields(v); err != nil {
		return nil, fmt.Errorf("failed to parse CUE: %w", err)
	}

	var scenario Scenario
	if err := v.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to decode CUE: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// checkCUEFields rejects unknown fields, matching the YAML decoder's
// KnownFields behavior.
func checkCUEFields(v cue.Value) error {
	if err := knownFields(v, "", scenarioFields); err != nil {
		return err
	}
	if g := v.LookupPath(cue.ParsePath("graph")); g.Exists() {
		if err := knownFields(g, "graph", graphFields); err != nil {
			return err
		}
	}

	steps := v.LookupPath(cue.ParsePath("steps"))
	if !steps.Exists() {
		return nil
	}
	list, err := steps.List()
	if err != nil {
		return fmt.Errorf("steps: %w", err)
	}
	for i := 0; list.Next(); i++ {
		if err := knownFields(list.Value(), fmt.Sprintf("steps[%d]", i), stepFields); err != nil {
			return err
		}
	}
	return nil
}

func knownFields(v cue.Value, path string, allowed []string) error {
	iter, err := v.Fields()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	for iter.Next() {
		label := iter.Selector().String()
		if !contains(allowed, label) {
			if path == "" {
				return fmt.Errorf("field %s not found in scenario", label)
			}
			return fmt.Errorf("%s: field %s not found", path, label)
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if s.Graph != nil {
		if s.Graph.Module != "" && len(s.Graph.Imports) > 0 {
			return fmt.Errorf("graph: imports and module are mutually exclusive")
		}
		if s.Graph.Module == "" && len(s.Graph.Imports) == 0 {
			return fmt.Errorf("graph: one of imports or module is required")
		}
	}

	for i, step := range s.Steps {
		if step.Call == "" {
			return fmt.Errorf("steps[%d]: call is required", i)
		}
		switch step.Expect {
		case OutcomeHeld, OutcomeFailed, OutcomeInvalid:
		case "":
			return fmt.Errorf("steps[%d]: expect is required", i)
		default:
			return fmt.Errorf("steps[%d]: unknown expect %q (want held, failed or invalid)", i, step.Expect)
		}
	}

	return nil
}
