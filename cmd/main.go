package main

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/edp1096/toy-machine/internal/config"
	"github.com/edp1096/toy-machine/pkg/analysis"
	"github.com/edp1096/toy-machine/pkg/deck"
	"github.com/edp1096/toy-machine/pkg/report"
	"github.com/edp1096/toy-machine/pkg/simulation"
	"github.com/edp1096/toy-machine/pkg/store"
)

var (
	configPath string
	saveRun    bool
)

var rootCmd = &cobra.Command{
	Use:   "toymachine <deck>",
	Short: "Equivalent circuit identification and loss aggregation for electrical machines",
	Long: `toymachine reads a machine input deck and runs the analyses it requests.

The deck describes the machine topology, the flux linkage look-up table,
operating points, mesh groups and field spectra. The .eec card runs an
equivalent circuit sweep over every .op card, the .loss card aggregates
loss densities onto the frequency bins of the .freqs card.

Subcommands run a single analysis, manage stored tables or serve queries
over a websocket.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, sim, err := loadSimulation(args[0])
		if err != nil {
			return err
		}

		if len(sim.Deck.Analyses) == 0 {
			return fmt.Errorf("deck requests no analysis, add .eec or .loss")
		}
		for _, a := range sim.Deck.Analyses {
			switch a {
			case deck.AnalysisEEC:
				err = runEEC(cmd.Context(), cfg, sim)
			case deck.AnalysisLoss:
				err = runLoss(cmd.Context(), cfg, sim, "")
			}
			if err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "toymachine.ini", "ini configuration file")
	rootCmd.PersistentFlags().BoolVar(&saveRun, "save", false, "store analysis results in the configured store")
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.SetupLogging(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func loadSimulation(path string) (config.Config, *simulation.Simulation, error) {
	cfg, err := loadConfig()
	if err != nil {
		return config.Config{}, nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("reading deck file: %v", err)
	}
	d, err := deck.Parse(string(content))
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("parsing deck: %v", err)
	}

	sim, err := simulation.New(d, cfg)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, sim, nil
}

func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	st, err := store.NewStore(cfg.Store.Backend, cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Init(ctx); err != nil {
		return nil, fmt.Errorf("opening %s store: %v", cfg.Store.Backend, err)
	}
	return st, nil
}

func storeRun(ctx context.Context, cfg config.Config, run store.RunRecord) error {
	if !saveRun {
		return nil
	}
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("saving run: %v", err)
	}
	log.WithFields(log.Fields{"id": run.ID, "kind": run.Kind}).Info("run stored")
	return nil
}

func runEEC(ctx context.Context, cfg config.Config, sim *simulation.Simulation) error {
	es := analysis.NewEECSweep()
	if err := es.Setup(sim); err != nil {
		return fmt.Errorf("eec setup error: %v", err)
	}
	if err := es.Execute(); err != nil {
		return fmt.Errorf("eec analysis error: %w", err)
	}

	report.PrintEEC(os.Stdout, es.GetResults())
	return storeRun(ctx, cfg, store.NewRunRecord("eec", sim.Name(), es.GetResults()))
}

func runLoss(ctx context.Context, cfg config.Config, sim *simulation.Simulation, plotPath string) error {
	la := analysis.NewLossAnalysis(ctx)
	if err := la.Setup(sim); err != nil {
		return fmt.Errorf("loss setup error: %v", err)
	}
	if err := la.Execute(); err != nil {
		return fmt.Errorf("loss analysis error: %w", err)
	}

	out := la.Output()
	report.PrintLoss(os.Stdout, out)

	if plotPath != "" {
		if err := report.PlotSpectrum(out, sim.Name(), plotPath); err != nil {
			return err
		}
		fmt.Printf("\nspectrum saved to %s\n", plotPath)
	}

	run := store.NewRunRecord("loss", sim.Name(), la.GetResults())
	run.ID = out.ID.String()
	return storeRun(ctx, cfg, run)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
