package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/emshower/internal/canon"
	"github.com/roach88/emshower/internal/shower"
	"github.com/roach88/emshower/internal/store"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
	RunFlags

	Material     string
	Energy       float64
	Kind         string
	StepFraction float64

	// Explicit overrides of the material constants.
	CriticalElectron float64
	CriticalPositron float64
	LossPerX0        float64
	RadiationLength  float64
}

// SimulateOutput is the result of a single run.
type SimulateOutput struct {
	RunID      string         `json:"run_id,omitempty"`
	Material   string         `json:"material"`
	Seed       int64          `json:"seed"`
	Params     shower.Params  `json:"params"`
	ParamsHash string         `json:"params_hash"`
	Result     *shower.Result `json:"result"`
	ResultHash string         `json:"result_hash"`
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate one shower",
		Long: `Simulate a single seeded shower and print its longitudinal development.

Material constants come from --material and can be overridden one by one.
The same seed and parameters always reproduce the same shower.

Examples:
  emshower simulate --energy 1000 --kind electron --seed 42
  emshower simulate --material "Standard rock" --kind photon --step 0.5
  emshower simulate --x0 1.76 --loss 7.6 --critical-electron 9.5 --critical-positron 9.2
  emshower simulate --db ./showers.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Material, "material", "m", "NaI", "absorber material")
	cmd.Flags().Float64VarP(&opts.Energy, "energy", "e", 1000, "primary energy [MeV]")
	cmd.Flags().StringVarP(&opts.Kind, "kind", "k", "electron", "primary particle (electron|positron|photon)")
	cmd.Flags().Float64VarP(&opts.StepFraction, "step", "s", 0.1, "step in radiation lengths, in (0, 1]")
	cmd.Flags().Float64Var(&opts.CriticalElectron, "critical-electron", 0, "override electron critical energy [MeV]")
	cmd.Flags().Float64Var(&opts.CriticalPositron, "critical-positron", 0, "override positron critical energy [MeV]")
	cmd.Flags().Float64Var(&opts.LossPerX0, "loss", 0, "override ionization loss [MeV/cm]")
	cmd.Flags().Float64Var(&opts.RadiationLength, "x0", 0, "override radiation length [cm]")
	opts.RunFlags.register(cmd, false)

	return cmd
}

func runSimulate(opts *SimulateOptions, cmd *cobra.Command) error {
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

	p := mat.Params(opts.Energy, opts.StepFraction, kind)
	flags := cmd.Flags()
	if flags.Changed("critical-electron") {
		p.CriticalElectron = opts.CriticalElectron
	}
	if flags.Changed("critical-positron") {
		p.CriticalPositron = opts.CriticalPositron
	}
	if flags.Changed("loss") {
		p.LossPerX0 = opts.LossPerX0
	}
	if flags.Changed("x0") {
		p.RadiationLength = opts.RadiationLength
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	slog.Info("simulating", "material", mat.Name, "e0", p.E0, "kind", kind.String(), "seed", s.seed)
	res, err := s.engine().Simulate(ctx, p, shower.NewSource(s.seed))
	if err != nil {
		return simulationError("simulation failed", err)
	}

	out := SimulateOutput{
		Material: mat.Name,
		Seed:     s.seed,
		Params:   p,
		Result:   res,
	}
	if out.ParamsHash, err = canon.ParamsHash(p); err != nil {
		return WrapExitError(ExitFailure, "failed to hash params", err)
	}
	if out.ResultHash, err = canon.ResultHash(res); err != nil {
		return WrapExitError(ExitFailure, "failed to hash result", err)
	}

	st, err := s.openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)
	if st != nil {
		run := &store.Run{
			ID:       s.ids.Generate(),
			BatchID:  s.ids.Generate(),
			Material: mat.Name,
			Params:   p,
			Seed:     s.seed,
			Result:   res,
		}
		if err := st.SaveRun(ctx, run); err != nil {
			return WrapExitError(ExitFailure, "failed to record run", err)
		}
		out.RunID = run.ID
		slog.Info("run recorded", "run_id", run.ID, "db", s.database)
	}

	return newFormatter(opts.RootOptions, cmd).Emit(out, func(w io.Writer) error {
		return printSimulate(w, out)
	})
}

func printSimulate(w io.Writer, out SimulateOutput) error {
	p := out.Params
	fmt.Fprintf(w, "Material:  %s\n", out.Material)
	fmt.Fprintf(w, "Primary:   %s, %g MeV\n", p.Initial, p.E0)
	fmt.Fprintf(w, "Step:      %g X0 (%g cm)\n", p.StepFraction, p.StepFraction*p.RadiationLength)
	fmt.Fprintf(w, "Seed:      %d\n", out.Seed)
	if out.RunID != "" {
		fmt.Fprintf(w, "Run ID:    %s\n", out.RunID)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%6s  %10s  %12s  %10s\n", "STEP", "DEPTH[X0]", "ENERGY[MeV]", "PARTICLES")
	res := out.Result
	for i := range res.EnergyPerStep {
		fmt.Fprintf(w, "%6d  %10.3f  %12.4f  %10d\n",
			i, float64(i)*p.StepFraction, res.EnergyPerStep[i], res.PopulationPerStep[i])
	}
	fmt.Fprintln(w)

	peak, at := res.PeakPopulation()
	fmt.Fprintf(w, "Generations:     %d\n", res.Generations())
	fmt.Fprintf(w, "Peak particles:  %d at step %d\n", peak, at)
	fmt.Fprintf(w, "Total energy:    %.4f MeV\n", res.TotalEnergy)
	fmt.Fprintf(w, "Result hash:     %s\n", out.ResultHash)
	return nil
}
