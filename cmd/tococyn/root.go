package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lawnchairsociety/tococyn/internal/config"
	"github.com/lawnchairsociety/tococyn/internal/database"
	"github.com/lawnchairsociety/tococyn/internal/dice"
	"github.com/lawnchairsociety/tococyn/internal/logger"
)

const Version = "0.1.0"

// app holds what every subcommand needs once the persistent flags are parsed.
type app struct {
	configPath  string
	loggingPath string
	seed        int64

	cfg *config.Config
	out io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "tococyn",
		Short:         "Dice, percentile checks and investigators",
		Long:          "tococyn rolls dice notation, resolves regular/hard/extreme checks, generates investigators and serves a shared dice table.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "data/tococyn.yaml", "Path to config YAML file")
	flags.StringVar(&a.loggingPath, "logging", "data/logging.yaml", "Path to logging config YAML file")
	flags.Int64Var(&a.seed, "seed", 0, "Fix the dice seed for reproducible output (0 = random)")

	cmd.AddCommand(
		newRollCmd(a),
		newCheckCmd(a),
		newGenerateCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newDeleteCmd(a),
		newServeCmd(a),
		newMigrateCmd(a),
	)
	return cmd
}

// setup loads logging first so config problems are logged too.
func (a *app) setup(cmd *cobra.Command) error {
	logCfg, err := logger.LoadConfig(a.loggingPath)
	if err != nil {
		return fmt.Errorf("load logging config: %w", err)
	}
	if err := logger.Initialize(logCfg); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}

	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", a.configPath, err)
	}
	if a.seed != 0 {
		cfg.Dice.Seed = a.seed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.out = cmd.OutOrStdout()
	logger.Debug("Configuration loaded", "path", a.configPath, "seeded", cfg.Dice.Seed != 0)
	return nil
}

func (a *app) source() (dice.Source, error) {
	return a.cfg.Source()
}

func (a *app) openDatabase() (*database.Database, error) {
	db, err := database.OpenWithConfig(a.cfg.DatabaseConfig())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

func (a *app) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
