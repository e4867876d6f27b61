package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(Config{Format: "text"})
	require.NotNil(t, cmd)
	assert.Equal(t, "lockstep", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(Config{Format: "text"})

	for _, name := range []string{"validate", "run", "test", "replay"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand(Config{Format: "text"})

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.Equal(t, "false", verbose.DefValue)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)
}

func TestConfigDefaultsFlags(t *testing.T) {
	cmd := NewRootCommand(Config{Database: "/tmp/env.db", Format: "json", Verbose: true})

	assert.Equal(t, "json", cmd.PersistentFlags().Lookup("format").DefValue)
	assert.Equal(t, "true", cmd.PersistentFlags().Lookup("verbose").DefValue)

	for _, name := range []string{"run", "replay"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, "/tmp/env.db", sub.Flags().Lookup("db").DefValue, name)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("LOCKSTEP_DB", "/var/lib/lockstep.db")
	t.Setenv("LOCKSTEP_FORMAT", "json")
	t.Setenv("LOCKSTEP_VERBOSE", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, Config{Database: "/var/lib/lockstep.db", Format: "json", Verbose: true}, cfg)
}

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"LOCKSTEP_DB", "LOCKSTEP_FORMAT", "LOCKSTEP_VERBOSE"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Format)
	assert.Empty(t, cfg.Database)
	assert.False(t, cfg.Verbose)
}

func TestLoadConfig_InvalidBool(t *testing.T) {
	t.Setenv("LOCKSTEP_VERBOSE", "maybe")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "parse env")
}

func TestInvalidFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "passing", passingScenario)

	_, _, err := execute(NewRootCommand(Config{Format: "text"}), "--format", "xml", "validate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestVerboseLogsToStderr(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "passing", passingScenario)

	stdout, stderr, err := execute(NewRootCommand(Config{Format: "text"}), "-v", "run", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ passing")
	assert.Contains(t, stderr, "collection mutated")
	assert.NotContains(t, stdout, "collection mutated")
}
