package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/emshower/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	BatchID  string
	Material string
	Params   string
	Limit    int
}

// HistoryOutput is the result of the history command.
type HistoryOutput struct {
	Total int                `json:"total"`
	Runs  []store.RunSummary `json:"runs"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List runs recorded with --db, ordered by batch and position in the
batch.

Examples:
  emshower history --db ./showers.db
  emshower history --db ./showers.db --material NaI --limit 20
  emshower history --db ./showers.db --batch 0192f0c1-7b7e-7cc4-a2b1-3c1f1e0f9d2a --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite database (default: $EMSHOWER_DB)")
	cmd.Flags().StringVar(&opts.BatchID, "batch", "", "only runs of this batch")
	cmd.Flags().StringVarP(&opts.Material, "material", "m", "", "only runs in this material")
	cmd.Flags().StringVar(&opts.Params, "params-hash", "", "only runs with these parameters")
	cmd.Flags().IntVar(&opts.Limit, "limit", 50, "maximum runs to list, 0 = all")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
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
	if opts.Limit < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--limit must be non-negative, got %d", opts.Limit))
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer closeStore(st)

	ctx := cmd.Context()
	filter := store.RunFilter{
		BatchID:    opts.BatchID,
		ParamsHash: opts.Params,
		Material:   opts.Material,
	}
	total, err := st.CountRuns(ctx, filter)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to count runs", err)
	}
	filter.Limit = opts.Limit
	runs, err := st.ListRuns(ctx, filter)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list runs", err)
	}

	out := HistoryOutput{Total: total, Runs: runs}
	return newFormatter(opts.RootOptions, cmd).Emit(out, func(w io.Writer) error {
		return printHistory(w, out)
	})
}

func printHistory(w io.Writer, out HistoryOutput) error {
	if len(out.Runs) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return nil
	}
	fmt.Fprintf(w, "%-36s  %4s  %-14s  %-8s  %10s  %20s  %6s  %6s  %12s\n",
		"RUN", "SEQ", "MATERIAL", "KIND", "E0[MeV]", "SEED", "GENS", "PEAK", "TOTAL[MeV]")
	for _, r := range out.Runs {
		fmt.Fprintf(w, "%-36s  %4d  %-14s  %-8s  %10.3f  %20d  %6d  %6d  %12.4f\n",
			r.ID, r.Seq, r.Material, r.InitialKind, r.E0, r.Seed, r.Generations, r.PeakPopulation, r.TotalEnergy)
	}
	if len(out.Runs) < out.Total {
		fmt.Fprintf(w, "\n%d of %d runs shown\n", len(out.Runs), out.Total)
	}
	return nil
}
