package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"blogosphere/internal/config"
	"blogosphere/internal/database"
	"blogosphere/internal/logger"
)

var (
	// Global flags
	logLevel string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "blogctl",
	Short: "Administration commands for the blog backend",
	Long: `blogctl runs the API server and the maintenance tasks around it.

Configuration is read from the environment and an optional .env file,
the same way the server reads it.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override LOG_LEVEL")

	rootCmd.AddCommand(serveCmd, migrateCmd, fabricateCmd, clearFabricatedCmd, flushTokensCmd)
}

// openDB loads config, sets up logging and connects to Postgres.
func openDB(ctx context.Context) (*config.Config, *sqlx.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	logger.Setup(level, cfg.LogFormat)

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("database unreachable: %w", err)
	}
	return cfg, db, nil
}
