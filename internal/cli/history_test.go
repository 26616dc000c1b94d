package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/contrary/internal/store"
)

func seedHistory(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ctx := context.Background()
	require.NoError(t, st.WriteRun(ctx, store.Run{
		ID: "run-0001", Scenario: "keys", Pass: true, Steps: 1, RecordedAt: at,
	}, []store.Outcome{
		{Index: 0, Call: "ToHaveKeys", Negated: true, Args: []any{"age", "email"}, Want: "held", Got: "held"},
	}))
	require.NoError(t, st.WriteRun(ctx, store.Run{
		ID: "run-0002", Scenario: "architecture", Pass: false, Steps: 2, Failures: 1, RecordedAt: at.Add(time.Minute),
	}, []store.Outcome{
		{Index: 0, Call: "ToDependOn", Negated: true, Args: []any{"app/auth"}, Want: "held", Got: "held"},
		{
			Index: 1, Call: "ToDependOn", Negated: true, Args: []any{"app/models"},
			Want: "held", Got: "failed", Message: `Expecting "app/http" not to depend on "app/models".`,
		},
	}))
	return path
}

func execHistory(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"history"}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestHistoryRequiresDB(t *testing.T) {
	_, err := execHistory(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "db" not set`)
}

func TestHistoryText(t *testing.T) {
	db := seedHistory(t)

	out, err := execHistory(t, "--db", db)
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace([]byte(out)), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), "✗  architecture")
	assert.Contains(t, string(lines[0]), "1/2 steps matched")
	assert.Contains(t, string(lines[1]), "2026-01-02T03:04:05Z  ✓  keys")
}

func TestHistoryVerboseShowsRunIDs(t *testing.T) {
	db := seedHistory(t)

	out, err := execHistory(t, "--db", db, "--verbose", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "run run-0002")
	assert.NotContains(t, out, "keys")
}

func TestHistoryJSONByScenario(t *testing.T) {
	db := seedHistory(t)

	out, err := execHistory(t, "--db", db, "--scenario", "keys", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   []HistoryRun `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "run-0001", resp.Data[0].ID)
	assert.True(t, resp.Data[0].Pass)
}

func TestHistoryEmpty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "empty.db")

	out, err := execHistory(t, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")
}

func TestHistoryRunDetail(t *testing.T) {
	db := seedHistory(t)

	out, err := execHistory(t, "--db", db, "--run", "run-0002")
	require.NoError(t, err)
	assert.Contains(t, out, "Run run-0002: architecture ✗")
	assert.Contains(t, out, "[1] Not.ToDependOn(app/models): want held, got failed")
	assert.Contains(t, out, `Expecting "app/http" not to depend on "app/models".`)
}

func TestHistoryRunDetailJSON(t *testing.T) {
	db := seedHistory(t)

	out, err := execHistory(t, "--db", db, "--run", "run-0001", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data RunDetail `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "keys", resp.Data.Scenario)
	require.Len(t, resp.Data.Outcomes, 1)
	assert.True(t, resp.Data.Outcomes[0].Not)
	assert.Equal(t, []any{"age", "email"}, resp.Data.Outcomes[0].Args)
}

func TestHistoryUnknownRun(t *testing.T) {
	db := seedHistory(t)

	_, err := execHistory(t, "--db", db, "--run", "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrRunNotFound)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestFormatArgs(t *testing.T) {
	assert.Equal(t, "()", formatArgs(nil))
	assert.Equal(t, "(app/auth app/models)", formatArgs([]any{"app/auth", "app/models"}))
}
