package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/emshower/internal/analysis"
	"github.com/roach88/emshower/internal/shower"
)

// ProfileOptions holds flags for the profile command.
type ProfileOptions struct {
	*RootOptions
	RunFlags

	Material     string
	EnergyMin    float64
	EnergyMax    float64
	Points       int
	Runs         int
	Kind         string
	StepFraction float64
}

// ProfileOutput is the result of the profile command.
type ProfileOutput struct {
	Material string              `json:"material"`
	Kind     string              `json:"kind"`
	Seed     int64               `json:"seed"`
	Profiles []*analysis.Profile `json:"profiles"`
}

// NewProfileCommand creates the profile command.
func NewProfileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProfileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Mean longitudinal profiles at evenly spaced energies",
		Long: `Run a batch of showers at each of --points evenly spaced primary energies
and print the mean deposited energy, particle count and cumulative energy
per step, with standard errors.

Examples:
  emshower profile --emin 100 --emax 1000 --runs 500
  emshower profile --material "Standard rock" --kind photon --points 5
  emshower profile --seed 7 --db ./showers.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfile(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Material, "material", "m", "NaI", "absorber material")
	cmd.Flags().Float64Var(&opts.EnergyMin, "emin", 100, "lowest primary energy [MeV]")
	cmd.Flags().Float64Var(&opts.EnergyMax, "emax", 1000, "highest primary energy [MeV]")
	cmd.Flags().IntVar(&opts.Points, "points", analysis.DefaultProfilePoints, "number of energies")
	cmd.Flags().IntVarP(&opts.Runs, "runs", "n", 100, "showers per energy")
	cmd.Flags().StringVarP(&opts.Kind, "kind", "k", "electron", "primary particle (electron|positron|photon)")
	cmd.Flags().Float64VarP(&opts.StepFraction, "step", "s", 0.1, "step in radiation lengths, in (0, 1]")
	opts.RunFlags.register(cmd, true)

	return cmd
}

func runProfile(opts *ProfileOptions, cmd *cobra.Command) error {
	s, err := opts.RunFlags.resolve(cmd, opts.RootOptions)
	if err != nil {
		return err
	}

	mat, err := s.catalog.Lookup(opts.Material)
	if err != nil {
		return simulationError("invalid material", err)
	}
	kind, err := shower.ParseKind(opts.Kind)
	if err != nil {
		return simulationError("invalid kind", err)
	}
	if opts.Points < 1 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--points must be at least 1, got %d", opts.Points))
	}

	st, err := s.openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx, cancel := commandContext(cmd)
	defer cancel()

	profiles, err := s.runner(st).ProfileAt(ctx, analysis.ProfileConfig{
		Material:     mat,
		EnergyMin:    opts.EnergyMin,
		EnergyMax:    opts.EnergyMax,
		Points:       opts.Points,
		Runs:         opts.Runs,
		StepFraction: opts.StepFraction,
		Initial:      kind,
		Seed:         s.seed,
	})
	if err != nil {
		return simulationError("profile failed", err)
	}

	out := ProfileOutput{
		Material: mat.Name,
		Kind:     kind.String(),
		Seed:     s.seed,
		Profiles: profiles,
	}
	return newFormatter(opts.RootOptions, cmd).Emit(out, func(w io.Writer) error {
		return printProfiles(w, out)
	})
}

func printProfiles(w io.Writer, out ProfileOutput) error {
	fmt.Fprintf(w, "Material:  %s\n", out.Material)
	fmt.Fprintf(w, "Primary:   %s\n", out.Kind)
	fmt.Fprintf(w, "Seed:      %d\n", out.Seed)

	for _, prof := range out.Profiles {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "E0 = %g MeV (%d runs, %d steps)\n", prof.E0, prof.Runs, prof.Steps())
		fmt.Fprintf(w, "  %9s  %21s  %21s  %21s\n", "DEPTH[X0]", "ENERGY[MeV]", "PARTICLES", "CUMULATIVE[MeV]")
		for i := 0; i < prof.Steps(); i++ {
			fmt.Fprintf(w, "  %9.3f  %10.4f ± %8.4f  %10.3f ± %8.3f  %10.3f ± %8.3f\n",
				prof.Depth[i],
				prof.Energy[i], prof.EnergyErr[i],
				prof.Population[i], prof.PopulationErr[i],
				prof.CumulativeEnergy[i], prof.CumulativeErr[i],
			)
		}
	}
	return nil
}
