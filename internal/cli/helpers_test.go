package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: passing
description: "append and swap stay aligned"
initial:
  - { name: apple, qty: 1 }
derived: [rows]
steps:
  - op: append
    item: { name: banana, qty: 2 }
  - op: swap
    a: 0
    b: 1
expect:
  derived:
    rows: ["BANANA x2", "APPLE x1"]
  changes:
    rows: 3
`

const failingScenario = `name: failing
description: "expects a row that never appears"
derived: [rows]
steps:
  - op: append
    item: { name: apple, qty: 1 }
expect:
  derived:
    rows: ["PEAR x9"]
`

const invalidScenario = `name: invalid
description: "set without an index"
steps:
  - op: set
    item: { name: apple, qty: 1 }
`

// writeScenario writes content to dir/name.yaml and returns the path.
func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs cmd with args and returns stdout, stderr and the error.
func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
