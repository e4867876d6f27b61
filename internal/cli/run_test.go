package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lockstep/internal/journal"
)

func TestRun_Passing(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "passing", passingScenario)

	out, _, err := execute(NewRunCommand(&RootOptions{Format: "text"}), path)
	require.NoError(t, err)

	assert.Contains(t, out, "Scenario: passing (collection passing)")
	assert.Contains(t, out, "step   append")
	assert.Contains(t, out, `rows: insert @1 ["BANANA x2"]`)
	assert.Contains(t, out, `rows: replace @0 ["BANANA x2"] was ["APPLE x1"]`)
	assert.Contains(t, out, "Digest: ")
	assert.Contains(t, out, "✓ passing")
}

func TestRun_PassingJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "passing", passingScenario)

	out, _, err := execute(NewRunCommand(&RootOptions{Format: "json"}), path)
	require.NoError(t, err)

	var resp struct {
		Status string    `json:"status"`
		Data   RunOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Pass)
	assert.Equal(t, []string{"BANANA x2", "APPLE x1"}, resp.Data.Derived["rows"])
	assert.Len(t, resp.Data.Digest, 64)
	// append, change, swap, change, change
	assert.Len(t, resp.Data.Trace, 5)
}

func TestRun_Failing(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "failing", failingScenario)

	out, _, err := execute(NewRunCommand(&RootOptions{Format: "text"}), path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ failing")
	assert.Contains(t, out, "derived.rows")
}

func TestRun_InvalidScenario(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "invalid", invalidScenario)

	_, _, err := execute(NewRunCommand(&RootOptions{Format: "text"}), path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load scenario")
}

func TestRun_RecordsJournal(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "passing", passingScenario)
	db := filepath.Join(dir, "journal.db")

	_, _, err := execute(NewRunCommand(&RootOptions{Format: "text"}), path, "--db", db)
	require.NoError(t, err)

	st, err := journal.OpenExisting(db)
	require.NoError(t, err)
	defer st.Close()

	entries, err := st.ReadOperations(context.Background(), "passing")
	require.NoError(t, err)
	// snapshot, append, swap
	assert.Len(t, entries, 3)
}

func TestRun_DatabaseDefaultFromRoot(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "env.db")

	cmd := NewRunCommand(&RootOptions{Format: "text", Database: db})
	assert.Equal(t, db, cmd.Flags().Lookup("db").DefValue)
}
