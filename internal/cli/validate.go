package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/lockstep/internal/harness"
)

// FileValidation is the outcome for one scenario file.
type FileValidation struct {
	Path  string `json:"path"`
	Name  string `json:"name,omitempty"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario>...",
		Short: "Check scenario files without running them",
		Long: `Parse scenario files strictly and check them against the scenario schema.

Exit codes:
  0 - All files valid
  1 - One or more files invalid
  2 - Command error (file not found, etc.)`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			msg := fmt.Sprintf("scenario file not found: %s", path)
			_ = formatter.Error(ErrCodeNotFound, msg, nil)
			return NewExitError(ExitCommandError, msg)
		}
	}

	result := ValidationResult{
		Valid: true,
		Files: make([]FileValidation, 0, len(paths)),
	}

	for _, path := range paths {
		formatter.VerboseLog("Validating %s", path)

		fv := FileValidation{Path: path, Valid: true}
		scenario, err := harness.LoadScenario(path)
		if err != nil {
			fv.Valid = false
			fv.Error = err.Error()
			result.Valid = false
		} else {
			fv.Name = scenario.Name
		}
		result.Files = append(result.Files, fv)
	}

	if formatter.Format == "json" {
		if result.Valid {
			return formatter.Success(result)
		}
		_ = formatter.Failure(ErrCodeInvalid, "validation failed", result)
		return validationFailed(result)
	}

	w := formatter.Writer
	for _, fv := range result.Files {
		if fv.Valid {
			fmt.Fprintf(w, "✓ %s (%s)\n", fv.Path, fv.Name)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", fv.Path)
		fmt.Fprintf(w, "  %s\n", fv.Error)
	}

	if !result.Valid {
		return validationFailed(result)
	}
	fmt.Fprintln(w, "✓ All scenarios valid")
	return nil
}

func validationFailed(result ValidationResult) error {
	n := 0
	for _, fv := range result.Files {
		if !fv.Valid {
			n++
		}
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed for %d file(s)", n))
}
