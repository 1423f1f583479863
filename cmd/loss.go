package main

import (
	"github.com/spf13/cobra"
)

var plotPath string

var lossCmd = &cobra.Command{
	Use:   "loss <deck>",
	Short: "Aggregate loss densities onto the frequency bins",
	Long: `Evaluate the enabled loss phenomena (stator and rotor core, joule,
proximity, magnet) from the deck's field spectra and merge them onto the
.freqs axis and the mesh elements.

Per-bin power and fitted frequency coefficients are printed. Use --plot to
save the power spectrum as an image.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, sim, err := loadSimulation(args[0])
		if err != nil {
			return err
		}
		return runLoss(cmd.Context(), cfg, sim, plotPath)
	},
}

func init() {
	lossCmd.Flags().StringVar(&plotPath, "plot", "", "save the power spectrum to this image file (png, svg, pdf)")
	rootCmd.AddCommand(lossCmd)
}
