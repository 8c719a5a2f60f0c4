package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lawnchairsociety/tococyn/internal/database"
	"github.com/lawnchairsociety/tococyn/internal/logger"
)

func newMigrateCmd(a *app) *cobra.Command {
	var sqlitePath string

	cmd := &cobra.Command{
		Use:     "migrate",
		Short:   "Copy investigators from a SQLite file into the configured database",
		Example: "  TOCOCYN_DB_DRIVER=postgres tococyn migrate --sqlite data/tococyn.db",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dstCfg := a.cfg.DatabaseConfig()
			if dstCfg.SameSQLiteFile(sqlitePath) {
				return fmt.Errorf("source and destination are the same database: %s", sqlitePath)
			}

			src, err := database.Open(sqlitePath)
			if err != nil {
				return fmt.Errorf("open source database: %w", err)
			}
			defer src.Close()

			dst, err := a.openDatabase()
			if err != nil {
				return err
			}
			defer dst.Close()

			copied, skipped, err := database.CopyInvestigators(src, dst)
			logger.Info("Migration finished", "source", sqlitePath, "driver", dstCfg.Driver, "copied", copied, "skipped", skipped)
			if err != nil {
				return err
			}
			a.println(fmt.Sprintf("Copied %d investigators, skipped %d already present.", copied, skipped))
			return nil
		},
	}

	cmd.Flags().StringVar(&sqlitePath, "sqlite", "data/tococyn.db", "Source SQLite database")
	return cmd
}
