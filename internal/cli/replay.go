package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/emshower/internal/shower"
	"github.com/roach88/emshower/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database       string
	MaxGenerations int
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <run-id>",
		Short: "Re-simulate a stored run and verify it reproduces",
		Long: `Re-simulate a recorded run from its stored parameters and seed and check
that the output hashes identically to what was recorded.

Exits with 1 if the replay diverges or the stored steps no longer match
their recorded hash.

Examples:
  emshower replay 0192f0c1-7b7e-7cc4-a2b1-3c1f1e0f9d2a --db ./showers.db
  emshower replay 0192f0c1-7b7e-7cc4-a2b1-3c1f1e0f9d2a --db ./showers.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite database holding the run (default: $EMSHOWER_DB)")
	cmd.Flags().IntVar(&opts.MaxGenerations, "max-generations", shower.DefaultMaxGenerations, "generation cap for the replay, 0 disables")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command, runID string) error {
	dbPath := opts.Database
	if !cmd.Flags().Changed("db") {
		dbPath = opts.Env.DB
	}
	if dbPath == "" {
		return NewExitError(ExitCommandError, "--db is required")
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return WrapExitError(ExitCommandError, "database not found", err)
	}

	s := &settings{maxGenerations: opts.MaxGenerations, database: dbPath}
	st, err := s.openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx, cancel := commandContext(cmd)
	defer cancel()

	res, err := st.Replay(ctx, runID, s.engine())
	if errors.Is(err, store.ErrRunNotFound) {
		return WrapExitError(ExitCommandError, fmt.Sprintf("no run %q", runID), err)
	}
	if err != nil {
		return simulationError("replay failed", err)
	}

	if err := newFormatter(opts.RootOptions, cmd).Emit(res, func(w io.Writer) error {
		return printReplay(w, res)
	}); err != nil {
		return err
	}

	switch {
	case !res.Intact:
		return NewExitError(ExitFailure, fmt.Sprintf("run %s: stored steps do not match the recorded hash", runID))
	case !res.Match:
		return NewExitError(ExitFailure, fmt.Sprintf("run %s: replay diverged at step %d", runID, res.Divergence))
	}
	return nil
}

func printReplay(w io.Writer, res *store.ReplayResult) error {
	fmt.Fprintf(w, "Run:            %s\n", res.RunID)
	fmt.Fprintf(w, "Stored hash:    %s\n", res.StoredHash)
	fmt.Fprintf(w, "Replayed hash:  %s\n", res.ReplayedHash)
	switch {
	case !res.Intact:
		fmt.Fprintln(w, "Result:         CORRUPT (stored steps altered)")
	case res.Match:
		fmt.Fprintln(w, "Result:         MATCH")
	default:
		fmt.Fprintf(w, "Result:         DIVERGED at step %d\n", res.Divergence)
	}
	return nil
}
