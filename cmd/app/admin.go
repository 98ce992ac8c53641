package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"shawedgym/internal/db"
	"shawedgym/internal/plan"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, err := connect(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		return db.RunMigrations(database, cfg.MigrationsPath)
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the applied schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, err := connect(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		version, dirty, err := db.SchemaVersion(database, cfg.MigrationsPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
		return nil
	},
}

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "Manage the subscription plan catalog",
}

var plansEnsureCmd = &cobra.Command{
	Use:   "ensure",
	Short: "Insert the default plans that are missing",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, err := connect(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		return plan.NewService(plan.NewRepository(database)).EnsureDefaults(context.Background())
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateVersionCmd)
	plansCmd.AddCommand(plansEnsureCmd)
}
