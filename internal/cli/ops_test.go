package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execOps(t *testing.T, args ...string) string {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"ops"}, args...))
	require.NoError(t, cmd.Execute())
	return buf.String()
}

func TestOpsText(t *testing.T) {
	out := execOps(t)
	assert.Regexp(t, `ToDependOnNothing\s+forbidden\s+0 args`, out)
	assert.Regexp(t, `ToHaveKeys\s+keys\s+0\+ args`, out)
	assert.Regexp(t, `ToBeBetween\s+value\s+2 args`, out)
}

func TestOpsJSON(t *testing.T) {
	out := execOps(t, "--format", "json")

	var resp struct {
		Data []OperationInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 34)

	byName := map[string]OperationInfo{}
	for _, op := range resp.Data {
		byName[op.Name] = op
	}
	assert.Equal(t, OperationInfo{Name: "ToBeUsed", Negation: "used", MinArgs: 0, MaxArgs: 0, Graph: true}, byName["ToBeUsed"])
	assert.Equal(t, "usedOn", byName["ToBeUsedOn"].Negation)
	assert.False(t, byName["ToBeNil"].Graph)
}

func TestArity(t *testing.T) {
	assert.Equal(t, "1+ args", arity(1, -1))
	assert.Equal(t, "1 args", arity(1, 1))
	assert.Equal(t, "0-1 args", arity(0, 1))
}
