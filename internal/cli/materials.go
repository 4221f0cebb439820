package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/emshower/internal/material"
)

// NewMaterialsCommand creates the materials command.
func NewMaterialsCommand(rootOpts *RootOptions) *cobra.Command {
	var catalog string

	cmd := &cobra.Command{
		Use:   "materials",
		Short: "List available absorber materials",
		Long: `List the built-in materials and any declared in --catalog (or
$EMSHOWER_CATALOG). Catalog entries replace built-ins of the same name.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := catalog
			if !cmd.Flags().Changed("catalog") {
				dir = rootOpts.Env.Catalog
			}
			cat, err := loadCatalog(dir)
			if err != nil {
				return err
			}
			materials := cat.Materials()
			return newFormatter(rootOpts, cmd).Emit(materials, func(w io.Writer) error {
				return printMaterials(w, materials)
			})
		},
	}

	cmd.Flags().StringVar(&catalog, "catalog", "", "directory of CUE material files")

	return cmd
}

func printMaterials(w io.Writer, materials []material.Material) error {
	fmt.Fprintf(w, "%-16s  %10s  %10s  %12s  %8s\n", "NAME", "EC-[MeV]", "EC+[MeV]", "dE/dx[MeV/cm]", "X0[cm]")
	for _, m := range materials {
		fmt.Fprintf(w, "%-16s  %10.3f  %10.3f  %12.3f  %8.3f\n",
			m.Name, m.CriticalElectron, m.CriticalPositron, m.LossPerX0, m.RadiationLength)
	}
	return nil
}
