package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/emshower/internal/analysis"
	"github.com/roach88/emshower/internal/shower"
)

// ScanOptions holds flags for the scan command.
type ScanOptions struct {
	*RootOptions
	RunFlags

	Materials    []string
	EnergyMin    float64
	EnergyMax    float64
	Energies     int
	Runs         int
	Kind         string
	StepFraction float64
}

// ScanOutput is the result of the scan command.
type ScanOutput struct {
	Kind string `json:"kind"`
	Seed int64  `json:"seed"`
	*analysis.ScanResult
}

// NewScanCommand creates the scan command.
func NewScanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Compare materials over log-spaced energies",
		Long: `Run a batch of showers for every material at --energies log-spaced
primary energies and report, per energy, the mean total deposited energy,
peak particle count, shower depth and depth of the maximum.

Depths are in cm. Errors are standard errors of the mean.

Examples:
  emshower scan --emin 10 --emax 10000 --energies 10 --runs 100
  emshower scan --materials NaI --materials "Lead glass" --catalog ./materials
  emshower scan --kind photon --workers 8 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(opts, cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Materials, "materials", []string{"NaI", "Standard rock"}, "materials to compare")
	cmd.Flags().Float64Var(&opts.EnergyMin, "emin", 10, "lowest primary energy [MeV]")
	cmd.Flags().Float64Var(&opts.EnergyMax, "emax", 10000, "highest primary energy [MeV]")
	cmd.Flags().IntVar(&opts.Energies, "energies", 10, "number of log-spaced energies")
	cmd.Flags().IntVarP(&opts.Runs, "runs", "n", 100, "showers per energy and material")
	cmd.Flags().StringVarP(&opts.Kind, "kind", "k", "electron", "primary particle (electron|positron|photon)")
	cmd.Flags().Float64VarP(&opts.StepFraction, "step", "s", 0.1, "step in radiation lengths, in (0, 1]")
	opts.RunFlags.register(cmd, true)

	return cmd
}

func runScan(opts *ScanOptions, cmd *cobra.Command) error {
	s, err := opts.RunFlags.resolve(cmd, opts.RootOptions)
	if err != nil {
		return err
	}

	materials, err := s.catalog.LookupAll(opts.Materials)
	if err != nil {
		return simulationError("invalid material", err)
	}
	kind, err := shower.ParseKind(opts.Kind)
	if err != nil {
		return simulationError("invalid kind", err)
	}

	st, err := s.openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx, cancel := commandContext(cmd)
	defer cancel()

	res, err := s.runner(st).Scan(ctx, analysis.ScanConfig{
		EnergyMin:    opts.EnergyMin,
		EnergyMax:    opts.EnergyMax,
		Energies:     opts.Energies,
		Runs:         opts.Runs,
		StepFraction: opts.StepFraction,
		Initial:      kind,
		Materials:    materials,
		Seed:         s.seed,
	})
	if err != nil {
		return simulationError("scan failed", err)
	}

	out := ScanOutput{Kind: kind.String(), Seed: s.seed, ScanResult: res}
	return newFormatter(opts.RootOptions, cmd).Emit(out, func(w io.Writer) error {
		return printScan(w, out)
	})
}

func printScan(w io.Writer, out ScanOutput) error {
	fmt.Fprintf(w, "Primary:   %s\n", out.Kind)
	fmt.Fprintf(w, "Seed:      %d\n", out.Seed)

	for _, ms := range out.Materials {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s (X0 = %g cm)\n", ms.Material.Name, ms.Material.RadiationLength)
		fmt.Fprintf(w, "  %10s  %21s  %19s  %19s  %19s\n", "E0[MeV]", "TOTAL[MeV]", "PEAK PARTICLES", "DEPTH[cm]", "MAX AT[cm]")
		for _, pt := range ms.Points {
			fmt.Fprintf(w, "  %10.3f  %10.3f ± %8.3f  %8.2f ± %8.2f  %8.2f ± %8.2f  %8.2f ± %8.2f\n",
				pt.E0,
				pt.TotalEnergy, pt.TotalEnergyErr,
				pt.PeakPopulation, pt.PeakPopulationErr,
				pt.Depth, pt.DepthErr,
				pt.PeakDepth, pt.PeakDepthErr,
			)
		}
	}
	return nil
}
