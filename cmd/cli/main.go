package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/carecal/cmd/cli/commands"
	"github.com/jakechorley/carecal/internal/config"
	"github.com/jakechorley/carecal/pkg/db"
	"github.com/jakechorley/carecal/pkg/postgres"
	"github.com/jakechorley/carecal/pkg/utils/logging"
)

var (
	env     string
	verbose bool
	app     = &commands.AppContext{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "carecal",
		Short: "Carecal CLI - Care network calendars and recurring care tasks",
		Long: `A CLI for viewing care network calendars with approved leave applied,
merging calendars across networks, and completing recurring tasks, doses and leave.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Postgres != nil {
				app.Postgres.Close()
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs on the console")
	rootCmd.PersistentFlags().BoolVar(&app.NoColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(commands.ShiftsCmd(app))
	rootCmd.AddCommand(commands.AggregateCmd(app))
	rootCmd.AddCommand(commands.WeekCmd(app))
	rootCmd.AddCommand(commands.NextDueCmd(app))
	rootCmd.AddCommand(commands.CompleteCmd(app))
	rootCmd.AddCommand(commands.VisibleCmd(app))
	rootCmd.AddCommand(commands.ExportICSCmd(app))
	rootCmd.AddCommand(commands.PublishCalendarCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config and the store
func initApp() error {
	var err error
	app.Env = env
	app.Ctx = context.Background()

	app.Logger, err = logging.InitLogger(logging.Options{Env: env, Verbose: verbose})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Debug("Starting application", zap.String("environment", env))

	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	if app.Cfg.DatabaseURL != "" {
		app.Logger.Debug("Connecting to database")
		pg, err := postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		app.Postgres = pg
		app.Database = pg
		app.Logger.Debug("Database connected")
		return nil
	}

	app.Logger.Debug("Loading snapshot", zap.String("path", app.Cfg.SnapshotPath))
	store, err := db.LoadSnapshot(app.Cfg.SnapshotPath)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	app.Database = store
	app.Logger.Debug("Snapshot loaded")

	return nil
}
