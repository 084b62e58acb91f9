package cli

import (
	"fmt"

	"github.com/SscSPs/ledger_integrity/internal/platform/config"
	"github.com/SscSPs/ledger_integrity/pkg/database"
	"github.com/spf13/cobra"
)

var migrationsPath string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		source := cfg.MigrationsPath
		if migrationsPath != "" {
			source = migrationsPath
		}
		if err := database.RunMigrations(cfg.DatabaseURL, source); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrationsPath, "source", "", "migration source URL (defaults to MIGRATIONS_PATH)")
	rootCmd.AddCommand(migrateCmd)
}
