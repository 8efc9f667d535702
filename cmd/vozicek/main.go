package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/erazemk/vozicek/internal/config"
	"github.com/erazemk/vozicek/internal/db"
	"github.com/erazemk/vozicek/internal/logger"
)

var envFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           "vozicek",
		Short:         "Emergency cart expiry tracker and OR equipment readiness",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional .env file with settings")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(backupCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles what every command needs. close releases the log file and
// the database.
type app struct {
	cfg *config.Config
	log zerolog.Logger
	db  *sql.DB

	closeLog func() error
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.closeLog != nil {
		a.closeLog()
	}
}

// setup loads the configuration, sets up logging and opens the migrated
// database.
func setup() (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}

	out, closeLog, err := logger.Output(cfg.LogFile)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: logger.New(cfg.Env, out), closeLog: closeLog}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		a.close()
		return nil, err
	}
	a.db = database

	if err := db.Migrate(database); err != nil {
		a.close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	a.log.Debug().Str("path", cfg.DBPath).Msg("database ready")
	return a, nil
}
