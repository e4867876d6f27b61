package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/lockstep/internal/harness"
	"github.com/roach88/lockstep/internal/journal"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
}

// RunOutput is the JSON payload of the run command.
type RunOutput struct {
	Name         string               `json:"name"`
	Pass         bool                 `json:"pass"`
	CollectionID string               `json:"collection_id"`
	Digest       string               `json:"digest"`
	Trace        []harness.TraceEvent `json:"trace"`
	Derived      map[string][]string  `json:"derived"`
	Errors       []string             `json:"errors,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario>",
		Short: "Execute one scenario and print its trace",
		Long: `Execute a scenario against a base collection and its derived collections.

Every step and every change a derived collection emits is printed in order.
With --db, the base's operations are also recorded to a SQLite journal that
"lockstep replay" can read back.

Exit codes:
  0 - Scenario passed
  1 - Scenario failed (step error, out-of-sync collection, unmet expectation)
  2 - Command error (file not found, invalid scenario, database error)

Examples:
  lockstep run ./scenarios/basic.yaml
  lockstep run ./scenarios/basic.yaml --db ./lockstep.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarioFile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", rootOpts.Database, "record operations to this SQLite journal")

	return cmd
}

func runScenarioFile(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger()

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		_ = formatter.Error(ErrCodeInvalid, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	runOpts := []harness.RunOption{harness.WithLogger(logger)}
	if opts.Database != "" {
		logger.Debug("opening journal", "path", opts.Database)
		st, err := journal.Open(opts.Database)
		if err != nil {
			_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing journal", "error", closeErr)
			}
		}()
		runOpts = append(runOpts, harness.WithJournal(st))
	}

	result, err := harness.Run(scenario, runOpts...)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "scenario execution failed", err)
	}

	out := RunOutput{
		Name:         scenario.Name,
		Pass:         result.Pass,
		CollectionID: result.CollectionID,
		Digest:       result.Digest,
		Trace:        result.Trace,
		Derived:      result.Derived,
		Errors:       result.Errors,
	}

	if formatter.Format == "json" {
		if out.Pass {
			return formatter.Success(out)
		}
		_ = formatter.Failure(ErrCodeFailed, "scenario failed", out)
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s failed", scenario.Name))
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Scenario: %s (collection %s)\n", scenario.Name, result.CollectionID)
	for _, ev := range result.Trace {
		writeEvent(w, ev)
	}
	fmt.Fprintf(w, "Digest: %s\n", result.Digest)

	if !result.Pass {
		fmt.Fprintf(w, "✗ %s\n", scenario.Name)
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s failed", scenario.Name))
	}

	fmt.Fprintf(w, "✓ %s\n", scenario.Name)
	return nil
}

// writeEvent prints one trace event on a single line.
func writeEvent(w io.Writer, ev harness.TraceEvent) {
	var b strings.Builder
	fmt.Fprintf(&b, "%4d ", ev.Seq)

	switch ev.Type {
	case harness.EventStep:
		fmt.Fprintf(&b, "step   %-12s rev=%d", ev.Op, ev.Revision)
	case harness.EventChange:
		fmt.Fprintf(&b, "  %s: %s @%d", ev.Target, ev.Kind, ev.Index)
	case harness.EventFind:
		fmt.Fprintf(&b, "  %s: find found=%t", ev.Target, ev.Found)
	case harness.EventGet:
		target := ev.Target
		if target == "" {
			target = "base"
		}
		fmt.Fprintf(&b, "  %s: get @%d", target, ev.Index)
	}

	if len(ev.Items) > 0 {
		fmt.Fprintf(&b, " %q", ev.Items)
	}
	if len(ev.Old) > 0 {
		fmt.Fprintf(&b, " was %q", ev.Old)
	}
	if ev.Error != "" {
		fmt.Fprintf(&b, " error=%s", ev.Error)
	}

	fmt.Fprintln(w, b.String())
}
