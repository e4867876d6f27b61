package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Valid(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "passing", passingScenario)

	out, _, err := execute(NewValidateCommand(&RootOptions{Format: "text"}), path)
	require.NoError(t, err)
	assert.Contains(t, out, "(passing)")
	assert.Contains(t, out, "✓ All scenarios valid")
}

func TestValidate_HarnessFixtures(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "harness", "testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	_, _, err = execute(NewValidateCommand(&RootOptions{Format: "text"}), files...)
	assert.NoError(t, err)
}

func TestValidate_Invalid(t *testing.T) {
	dir := t.TempDir()
	good := writeScenario(t, dir, "passing", passingScenario)
	bad := writeScenario(t, dir, "invalid", invalidScenario)

	out, _, err := execute(NewValidateCommand(&RootOptions{Format: "text"}), good, bad)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "1 file(s)")
	assert.Contains(t, out, "✗ "+bad)
	assert.Contains(t, out, "invalid scenario")
}

func TestValidate_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	bad := writeScenario(t, dir, "invalid", invalidScenario)

	out, _, err := execute(NewValidateCommand(&RootOptions{Format: "json"}), bad)
	require.Error(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  *CLIError        `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeInvalid, resp.Error.Code)
	assert.False(t, resp.Data.Valid)
	require.Len(t, resp.Data.Files, 1)
	assert.NotEmpty(t, resp.Data.Files[0].Error)
}

func TestValidate_MissingFile(t *testing.T) {
	out, _, err := execute(NewValidateCommand(&RootOptions{Format: "text"}), "/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestValidate_NoArgs(t *testing.T) {
	_, _, err := execute(NewValidateCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}
