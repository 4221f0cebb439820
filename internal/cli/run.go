package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/emshower/internal/scenario"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	RunFlags
}

// RunOutput is the result of executing a scenario. Exactly one of Profiles
// and Scan is set, depending on the scenario mode.
type RunOutput struct {
	Scenario string          `json:"scenario"`
	Mode     scenario.Mode   `json:"mode"`
	Seed     int64           `json:"seed"`
	Profiles []ProfileOutput `json:"profiles,omitempty"`
	Scan     *ScanOutput     `json:"scan,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Execute a scenario file",
		Long: `Execute the profile or scan batch described by a scenario file.

The scenario's seed is used unless --seed is given. Materials resolve
against the built-ins, --catalog and the scenario's own catalog, in that
order of increasing precedence.

Examples:
  emshower run scenarios/nai_vs_rock.yaml
  emshower run scenarios/nai_vs_rock.yaml --seed 1 --workers 4
  emshower run scenarios/nai_vs_rock.yaml --db ./showers.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(opts, cmd, args[0])
		},
	}

	opts.RunFlags.register(cmd, true)

	return cmd
}

func runScenario(opts *RunOptions, cmd *cobra.Command, path string) error {
	sc, err := scenario.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	s, err := opts.RunFlags.resolve(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	if sc.Seed != nil && !cmd.Flags().Changed("seed") {
		s.seed = *sc.Seed
	}

	materials, err := sc.ResolveMaterials(s.catalog)
	if err != nil {
		return simulationError("failed to resolve materials", err)
	}

	st, err := s.openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx, cancel := commandContext(cmd)
	defer cancel()

	slog.Info("running scenario", "name", sc.Name, "mode", string(sc.Mode), "seed", s.seed)

	runner := s.runner(st)
	out := RunOutput{Scenario: sc.Name, Mode: sc.Mode, Seed: s.seed}

	switch sc.Mode {
	case scenario.ModeProfile:
		for _, cfg := range sc.ProfileConfigs(materials, s.seed) {
			profiles, err := runner.ProfileAt(ctx, cfg)
			if err != nil {
				return simulationError(fmt.Sprintf("scenario %s failed", sc.Name), err)
			}
			out.Profiles = append(out.Profiles, ProfileOutput{
				Material: cfg.Material.Name,
				Kind:     cfg.Initial.String(),
				Seed:     cfg.Seed,
				Profiles: profiles,
			})
		}
	case scenario.ModeScan:
		res, err := runner.Scan(ctx, sc.ScanConfig(materials, s.seed))
		if err != nil {
			return simulationError(fmt.Sprintf("scenario %s failed", sc.Name), err)
		}
		out.Scan = &ScanOutput{Kind: sc.Kind.String(), Seed: s.seed, ScanResult: res}
	}

	return newFormatter(opts.RootOptions, cmd).Emit(out, func(w io.Writer) error {
		return printRun(w, out)
	})
}

func printRun(w io.Writer, out RunOutput) error {
	fmt.Fprintf(w, "Scenario:  %s (%s)\n", out.Scenario, out.Mode)
	fmt.Fprintln(w)
	for i, prof := range out.Profiles {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := printProfiles(w, prof); err != nil {
			return err
		}
	}
	if out.Scan != nil {
		return printScan(w, *out.Scan)
	}
	return nil
}
