package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/emshower/internal/analysis"
	"github.com/roach88/emshower/internal/material"
	"github.com/roach88/emshower/internal/shower"
	"github.com/roach88/emshower/internal/store"
)

// RunFlags are the flags shared by every command that simulates.
type RunFlags struct {
	Seed           int64
	Workers        int
	MaxGenerations int
	Catalog        string
	Database       string
}

func (f *RunFlags) register(cmd *cobra.Command, workers bool) {
	cmd.Flags().Int64Var(&f.Seed, "seed", 0, "base random seed (default: $EMSHOWER_SEED or random)")
	cmd.Flags().IntVar(&f.MaxGenerations, "max-generations", shower.DefaultMaxGenerations, "generation cap per shower, 0 disables")
	cmd.Flags().StringVar(&f.Catalog, "catalog", "", "directory of CUE material files (default: $EMSHOWER_CATALOG)")
	cmd.Flags().StringVar(&f.Database, "db", "", "record runs in this SQLite database (default: $EMSHOWER_DB)")
	if workers {
		cmd.Flags().IntVar(&f.Workers, "workers", 0, "concurrent runs, 0 = number of CPUs (default: $EMSHOWER_WORKERS)")
	}
}

// settings are RunFlags resolved against the environment.
type settings struct {
	seed           int64
	workers        int
	maxGenerations int
	catalog        *material.Catalog
	database       string
	ids            store.IDGenerator
}

// resolve applies flag > environment > default precedence.
func (f *RunFlags) resolve(cmd *cobra.Command, opts *RootOptions) (*settings, error) {
	s := &settings{
		seed:           f.Seed,
		workers:        f.Workers,
		maxGenerations: f.MaxGenerations,
		database:       f.Database,
		ids:            opts.IDs,
	}
	flags := cmd.Flags()
	env := opts.Env

	if !flags.Changed("seed") {
		if env.SeedSet {
			s.seed = env.Seed
		} else {
			seed, err := shower.RandomSeed()
			if err != nil {
				return nil, WrapExitError(ExitFailure, "failed to draw a seed", err)
			}
			s.seed = seed
		}
	}
	if !flags.Changed("workers") {
		s.workers = env.Workers
	}
	if !flags.Changed("max-generations") {
		s.maxGenerations = env.MaxGenerations
	}
	if !flags.Changed("db") {
		s.database = env.DB
	}
	if s.ids == nil {
		s.ids = store.UUIDv7Generator{}
	}

	catalogDir := f.Catalog
	if !flags.Changed("catalog") {
		catalogDir = env.Catalog
	}
	cat, err := loadCatalog(catalogDir)
	if err != nil {
		return nil, err
	}
	s.catalog = cat

	return s, nil
}

// loadCatalog returns the built-in materials merged with the catalog in
// dir, if any.
func loadCatalog(dir string) (*material.Catalog, error) {
	cat := material.Builtin()
	if dir == "" {
		return cat, nil
	}
	loaded, errs := material.Load(dir)
	if len(errs) > 0 {
		return nil, WrapExitError(ExitCommandError, "failed to load material catalog", errs[0])
	}
	slog.Debug("catalog loaded", "dir", dir, "materials", loaded.Len())
	return cat.Merge(loaded), nil
}

func (s *settings) engine() *shower.Engine {
	return shower.New(
		shower.WithMaxGenerations(s.maxGenerations),
		shower.WithLogger(slog.Default()),
	)
}

// runner builds an analysis runner, recording batches into st when it is
// not nil.
func (s *settings) runner(st *store.Store) *analysis.Runner {
	opts := []analysis.Option{
		analysis.WithEngine(s.engine()),
		analysis.WithWorkers(s.workers),
		analysis.WithLogger(slog.Default()),
	}
	if st != nil {
		opts = append(opts, analysis.WithRecorder(&storeRecorder{st: st, ids: s.ids}))
	}
	return analysis.NewRunner(opts...)
}

// openStore opens the configured database, or returns nil when recording is
// disabled. The caller closes a non-nil store.
func (s *settings) openStore() (*store.Store, error) {
	if s.database == "" {
		return nil, nil
	}
	slog.Debug("opening database", "path", s.database)
	st, err := store.Open(s.database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if st == nil {
		return
	}
	if err := st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// storeRecorder persists every analysis batch under a fresh batch id.
type storeRecorder struct {
	st  *store.Store
	ids store.IDGenerator
}

func (r *storeRecorder) RecordBatch(ctx context.Context, b analysis.BatchRecord) error {
	batchID := r.ids.Generate()
	_, err := r.st.SaveBatch(ctx, r.ids, batchID, b.Material, b.Params, b.Seed, b.Results)
	if err != nil {
		return err
	}
	slog.Debug("batch recorded", "batch_id", batchID, "material", b.Material, "runs", len(b.Results))
	return nil
}

// commandContext returns a context cancelled on SIGINT/SIGTERM or when the
// command's own context ends.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan) // Prevent signal handler leak
		cancel()
	}
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}
