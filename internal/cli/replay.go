package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/lockstep/internal/harness"
	"github.com/roach88/lockstep/internal/journal"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database   string
	Collection string // optional - replay one collection
}

// CollectionSummary describes one recorded collection.
type CollectionSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Operations   int    `json:"operations"`
	Resets       int    `json:"resets"`
	LastRevision int64  `json:"last_revision"`
}

// ReplayListResult is the payload when no collection is selected.
type ReplayListResult struct {
	Collections []CollectionSummary `json:"collections"`
	Total       int                 `json:"total"`
}

// ReplayResult is the payload for a replayed collection.
type ReplayResult struct {
	CollectionSummary
	Rows []harness.Row `json:"rows"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "List or replay recorded collections",
		Long: `Read the operation journal written by "lockstep run --db".

Without --collection, every recorded collection is listed with its
operation count. With --collection, its operations are replayed in
revision order and the rebuilt rows are printed.

Exit codes:
  0 - Success
  2 - Command error (database not found, unknown collection, corrupt log)

Examples:
  lockstep replay --db ./lockstep.db
  lockstep replay --db ./lockstep.db --collection basic_sync
  lockstep replay --db ./lockstep.db --collection basic_sync --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", rootOpts.Database, "path to SQLite journal (required)")
	cmd.Flags().StringVar(&opts.Collection, "collection", "", "replay this collection ID only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Database == "" {
		_ = formatter.Error(ErrCodeDatabase, "no journal given: set --db or LOCKSTEP_DB", nil)
		return NewExitError(ExitCommandError, "no journal given: set --db or LOCKSTEP_DB")
	}

	st, err := journal.OpenExisting(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer st.Close()

	collections, err := st.ListCollections(ctx)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to list collections", err)
	}

	if opts.Collection == "" {
		return outputCollectionList(formatter, collections)
	}

	var summary *CollectionSummary
	for _, c := range collections {
		if c.ID == opts.Collection {
			s := toSummary(c)
			summary = &s
			break
		}
	}
	if summary == nil {
		msg := fmt.Sprintf("collection not found: %s", opts.Collection)
		_ = formatter.Error(ErrCodeNoCollection, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	entries, err := st.ReadOperations(ctx, summary.ID)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read operations", err)
	}
	formatter.VerboseLog("Replaying %d operation(s) of %s", len(entries), summary.ID)

	rows, err := journal.Replay(entries, harness.DecodeRow)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "replay failed", err)
	}

	result := ReplayResult{CollectionSummary: *summary, Rows: rows}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Collection: %s (%s)\n", result.Name, result.ID)
	fmt.Fprintf(w, "  Operations: %d, resets: %d, last revision: %d\n", result.Operations, result.Resets, result.LastRevision)
	fmt.Fprintf(w, "  Rows: %d\n", len(rows))
	for i, r := range rows {
		fmt.Fprintf(w, "  %4d  %s\n", i, r.Label)
	}
	return nil
}

func outputCollectionList(formatter *OutputFormatter, collections []journal.Collection) error {
	result := ReplayListResult{
		Collections: make([]CollectionSummary, 0, len(collections)),
		Total:       len(collections),
	}
	for _, c := range collections {
		result.Collections = append(result.Collections, toSummary(c))
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	if result.Total == 0 {
		fmt.Fprintln(w, "No collections found in journal.")
		return nil
	}

	fmt.Fprintf(w, "Collections: %d\n", result.Total)
	for _, c := range result.Collections {
		fmt.Fprintf(w, "  %s (%s): %d operation(s), revision %d\n", c.Name, c.ID, c.Operations, c.LastRevision)
	}
	return nil
}

func toSummary(c journal.Collection) CollectionSummary {
	return CollectionSummary{
		ID:           c.ID,
		Name:         c.Name,
		Operations:   c.Operations,
		Resets:       c.Resets,
		LastRevision: c.LastRevision,
	}
}
