package main

import (
	"github.com/spf13/cobra"
)

var eecCmd = &cobra.Command{
	Use:   "eec <deck>",
	Short: "Identify equivalent circuit parameters at every operating point",
	Long: `Identify R1, Ld, Lq, Phid and Phiq from the deck's flux look-up table
at every .op card, in deck order.

Resistance is rescaled from the table's reference temperature to the stator
temperature. With .skin on the AC resistance factor of the slot conductors
is applied at the electrical frequency of each operating point.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, sim, err := loadSimulation(args[0])
		if err != nil {
			return err
		}
		return runEEC(cmd.Context(), cfg, sim)
	},
}

func init() {
	rootCmd.AddCommand(eecCmd)
}
