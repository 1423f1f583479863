package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/edp1096/toy-machine/pkg/deck"
	"github.com/edp1096/toy-machine/pkg/store"
	"github.com/edp1096/toy-machine/pkg/util"
)

var lutName string

var lutCmd = &cobra.Command{
	Use:   "lut",
	Short: "Manage stored flux look-up tables",
	Long: `Import flux look-up tables from decks into the configured store and
export them back as deck cards.

Subcommands:
  import  - store the .lut, .phimag and .ref cards of a deck
  export  - print a stored table as deck cards
  list    - list stored table names`,
}

var lutImportCmd = &cobra.Command{
	Use:   "import <deck>",
	Short: "Store the look-up table of a deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading deck file: %v", err)
		}
		d, err := deck.Parse(string(content))
		if err != nil {
			return fmt.Errorf("parsing deck: %v", err)
		}
		l, err := d.CreateLUT(cfg.LUT)
		if err != nil {
			return err
		}

		name := lutName
		if name == "" {
			name = d.Title
		}

		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.SaveLUT(cmd.Context(), name, store.RecordFromLUT(l)); err != nil {
			return fmt.Errorf("saving lut %s: %v", name, err)
		}
		fmt.Printf("stored lut %q (%d samples)\n", name, len(l.Samples()))
		return nil
	},
}

var lutExportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Print a stored look-up table as deck cards",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		rec, ok, err := st.GetLUT(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("lut %s not found", args[0])
		}
		return deck.WriteLUT(os.Stdout, rec.Name, rec.Ref, rec.Samples, rec.PhiMag)
	},
}

var lutListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored look-up tables with their current ranges",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		names, err := st.ListLUTs(cmd.Context())
		if err != nil {
			return err
		}
		for _, name := range names {
			rec, ok, err := st.GetLUT(cmd.Context(), name)
			if err != nil || !ok {
				return fmt.Errorf("reading lut %s: %v", name, err)
			}
			l, err := rec.Build(cfg.LUT)
			if err != nil {
				return fmt.Errorf("building lut %s: %v", name, err)
			}
			idLo, idHi, iqLo, iqHi := l.Bounds()
			fmt.Printf("%-20s %4d samples  Id [%s, %s]  Iq [%s, %s]\n", name, len(rec.Samples),
				util.FormatValueFactor(idLo, "A"), util.FormatValueFactor(idHi, "A"),
				util.FormatValueFactor(iqLo, "A"), util.FormatValueFactor(iqHi, "A"))
		}
		return nil
	},
}

func init() {
	lutImportCmd.Flags().StringVar(&lutName, "name", "", "table name, defaults to the deck title")
	lutCmd.AddCommand(lutImportCmd, lutExportCmd, lutListCmd)
	rootCmd.AddCommand(lutCmd)
}
