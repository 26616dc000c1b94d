package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/contrary/internal/store"
	"github.com/roach88/contrary/internal/testutil"
)

const passingScenario = `name: less_or_equal
description: "negating <= on integers"
subject: 5
steps:
  - call: ToBeLessThanOrEqual
    not: true
    args: [4]
    expect: held
  - call: ToBeLessThanOrEqual
    not: true
    args: [5]
    expect: failed
    message: "not to be less than or equal 5"
`

const failingScenario = `name: wrong
description: "expects the wrong outcome"
subject: [1, 2]
steps:
  - call: ToHaveKey
    not: true
    args: [0]
    expect: held
`

const cueScenario = `name:        "forbidden"
description: "negating a forbidden rule is invalid"
subject:     "app/http"
graph: imports: "app/http": ["app/models"]
steps: [{call: "ToDependOnNothing", not: true, expect: "invalid"}]
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTestOpts(format string) *TestOptions {
	return &TestOptions{
		RootOptions: &RootOptions{Format: format},
		now:         func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
		ids:         testutil.NewSequentialIDs("run"),
	}
}

func execTests(t *testing.T, opts *TestOptions, dir string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetContext(context.Background())
	err := runTests(opts, dir, cmd)
	return buf.String(), err
}

func TestTestCommandMissingArgs(t *testing.T) {
	cmd := NewTestCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, err := execTests(t, newTestOpts("text"), "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenarios directory not found")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	out, err := execTests(t, newTestOpts("text"), t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTestCommandEmptyScenariosDirJSON(t *testing.T) {
	out, err := execTests(t, newTestOpts("json"), t.TempDir())
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestTestCommandPassing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "less_or_equal.yaml"), passingScenario)
	writeFile(t, filepath.Join(dir, "forbidden.cue"), cueScenario)

	out, err := execTests(t, newTestOpts("text"), dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ less_or_equal")
	assert.Contains(t, out, "✓ forbidden")
	assert.Contains(t, out, "Test Summary: 2 passed, 0 failed, 2 total")
}

func TestTestCommandFailing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "less_or_equal.yaml"), passingScenario)
	writeFile(t, filepath.Join(dir, "wrong.yaml"), failingScenario)

	out, err := execTests(t, newTestOpts("text"), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong")
	assert.Contains(t, out, "steps[0] Not.ToHaveKey: expected held, got failed")
	assert.Contains(t, out, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTestCommandFailingJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "wrong.yaml"), failingScenario)

	out, err := execTests(t, newTestOpts("json"), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_TEST_FAILED", resp.Error.Code)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.Equal(t, "run-0001", resp.Data.Scenarios[0].RunID)
	assert.False(t, resp.Data.Scenarios[0].Pass)
}

func TestTestCommandLoadError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "broken.yaml"), "name: broken\nsteps: nope\n")

	out, err := execTests(t, newTestOpts("text"), dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestTestCommandGoldenUpdateThenCompare(t *testing.T) {
	dir := t.TempDir()
	scenarioPath := filepath.Join(dir, "less_or_equal.yaml")
	writeFile(t, scenarioPath, passingScenario)

	opts := newTestOpts("text")
	opts.Update = true
	out, err := execTests(t, opts, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ less_or_equal (golden updated)")

	golden, err := os.ReadFile(goldenFilePath(scenarioPath))
	require.NoError(t, err)
	assert.Contains(t, string(golden), `"Expecting 5 not to be less than or equal 5."`)
	assert.NotContains(t, string(golden), "run-0001")

	out, err = execTests(t, newTestOpts("text"), dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ less_or_equal")
}

func TestTestCommandGoldenMismatch(t *testing.T) {
	dir := t.TempDir()
	scenarioPath := filepath.Join(dir, "less_or_equal.yaml")
	writeFile(t, scenarioPath, passingScenario)
	writeFile(t, goldenFilePath(scenarioPath), "{}\n")

	out, err := execTests(t, newTestOpts("text"), dir)
	require.Error(t, err)
	assert.Contains(t, out, "snapshot does not match golden file")
}

func TestTestCommandRecordsRuns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "scenarios", "less_or_equal.yaml"), passingScenario)
	writeFile(t, filepath.Join(dir, "scenarios", "wrong.yaml"), failingScenario)
	dbPath := filepath.Join(dir, "history.db")

	opts := newTestOpts("text")
	opts.Database = dbPath
	_, err := execTests(t, opts, filepath.Join(dir, "scenarios"))
	require.Error(t, err)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	runs, err := st.ReadRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-0002", runs[0].ID)
	assert.Equal(t, "wrong", runs[0].Scenario)
	assert.False(t, runs[0].Pass)
	assert.Equal(t, 1, runs[0].Failures)
	assert.True(t, runs[1].Pass)
	assert.True(t, runs[1].RecordedAt.Equal(opts.now()))

	outcomes, err := st.ReadOutcomes(context.Background(), "run-0001")
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.True(t, outcomes[1].Negated)
	assert.Equal(t, "failed", outcomes[1].Got)
	assert.Equal(t, "Expecting 5 not to be less than or equal 5.", outcomes[1].Message)
}

func TestTestCommandBadDatabase(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "less_or_equal.yaml"), passingScenario)

	opts := newTestOpts("text")
	opts.Database = "/nonexistent/dir/history.db"
	_, err := execTests(t, opts, dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to open database")
}

func TestTestHelpText(t *testing.T) {
	cmd := NewTestCommand(&RootOptions{Format: "text"})
	assert.Contains(t, cmd.Long, "Exit codes:")
	assert.Contains(t, cmd.Long, "golden/<name>.golden")
}

func TestFindScenarioFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yaml"), "")
	writeFile(t, filepath.Join(dir, "b.yml"), "")
	writeFile(t, filepath.Join(dir, "c.cue"), "")
	writeFile(t, filepath.Join(dir, "nested", "d.yaml"), "")
	writeFile(t, filepath.Join(dir, "golden", "a.golden"), "")
	writeFile(t, filepath.Join(dir, "notes.txt"), "")

	files, err := findScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "b.yml"),
		filepath.Join(dir, "c.cue"),
		filepath.Join(dir, "nested", "d.yaml"),
	}, files)
}

func TestFindScenarioFilesWithFilter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "keys-nested.cue"), "")
	writeFile(t, filepath.Join(dir, "keys-flat.yaml"), "")
	writeFile(t, filepath.Join(dir, "graph.yaml"), "")

	files, err := findScenarioFiles(dir, "keys-*")
	require.NoError(t, err)
	assert.Len(t, files, 2)

	_, err = findScenarioFiles(dir, "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter pattern")
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("scenarios", "golden", "keys.golden"),
		goldenFilePath(filepath.Join("scenarios", "keys.cue")))
}
