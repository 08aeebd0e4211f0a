package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/localfeat/backend/internal/config"
	"github.com/localfeat/backend/internal/container"
	"github.com/localfeat/backend/internal/database"
	"github.com/localfeat/backend/internal/logger"
	"github.com/spf13/cobra"
)

var (
	logLevel string
	app      *container.Container
)

var rootCmd = &cobra.Command{
	Use:   "localfeat",
	Short: "LocalFeat admin CLI - migrations, cleanup and bot seeding",
	Long: `localfeat runs maintenance tasks against the LocalFeat database.
It reads the same environment (and .env file) as the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		// CLI output goes to the terminal; the rotating file is for the server
		if err := logger.Initialize(cfg.LogLevel, "-"); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		db, err := database.Initialize(cfg.Database, cfg.Environment)
		if err != nil {
			return err
		}
		if cmd.Name() == migrateCmd.Name() {
			return nil
		}

		app, err = container.Build(cfg, db)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if app != nil {
			_ = app.Cleanup(context.Background())
		}
		return database.Close()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update every table and index",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Migrate(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Migrations complete")
		return nil
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete expired posts (with their comments), sessions and reset tokens once",
	RunE: func(cmd *cobra.Command, args []string) error {
		deleted := app.Sweeper().RunOnce(cmd.Context())
		names := make([]string, 0, len(deleted))
		for name := range deleted {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(cmd.OutOrStdout(), "%-16s %d deleted\n", name, deleted[name])
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override LOG_LEVEL")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(botsCmd)
	rootCmd.AddCommand(seedActivityCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
