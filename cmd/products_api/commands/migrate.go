package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/products_api/internal/db"
	"github.com/Skotchmaster/products_api/internal/logging"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		l := logging.New(logging.Options{Level: cfg.LogLevel, Service: cfg.ServiceName})

		gdb, err := db.Open(cmd.Context(), cfg.DBDriver, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Close(gdb); err != nil {
				l.Error("db_close_failed", "error", err)
			}
		}()

		if err := db.Migrate(gdb); err != nil {
			return fmt.Errorf("migrate %s: %w", cfg.DBDriver, err)
		}
		l.Info("migration_complete", "driver", cfg.DBDriver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
