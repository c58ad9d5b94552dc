package main

import (
	"fmt"

	"smartspend/internal/config"
	"smartspend/internal/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending SQL migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := database.RunMigrations(&cfg.Database); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "  Migrations applied.")
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current schema version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		status, err := database.MigrationStatusFor(&cfg.Database)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), formatMigrationStatus(status))
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFile(configPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func formatMigrationStatus(status *database.MigrationStatus) string {
	if !status.Applied {
		return fmt.Sprintf("  %s: no migrations applied\n", status.Driver)
	}
	state := "clean"
	if status.Dirty {
		state = "dirty"
	}
	return fmt.Sprintf("  %s: version %d (%s)\n", status.Driver, status.Version, state)
}
