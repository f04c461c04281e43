// Package cmd provides the ratesctl commands.
package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"rates-api-go/internal/store"
	"rates-api-go/pkg/config"
	"rates-api-go/pkg/logger"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "ratesctl",
	Short: "Operate the shipping rates service",
	Long: `ratesctl runs maintenance and diagnostic tasks against the rates database
using the same configuration as the API server.

Examples:
  ratesctl migrate
  ratesctl rates --from 2016-01-01 --to 2016-01-10 --origin CNSGH --destination north_europe_main
  ratesctl resolve scandinavia
  ratesctl token --subject ops@example.com --ttl 1h`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(ratesCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(tokenCmd)
}

// env is what most commands need: config, a logger and an open database
type env struct {
	cfg *config.Config
	log *logger.Logger
	db  *sqlx.DB
}

func (e *env) Close() {
	if e.db != nil {
		_ = e.db.Close()
	}
	e.log.Sync()
}

func loadEnv(withDB bool) (*env, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log, err := logger.New(cfg.Environment, level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise logger: %w", err)
	}

	e := &env{cfg: cfg, log: log}
	if !withDB {
		return e, nil
	}

	e.db, err = store.Connect(context.Background(), cfg.DatabaseURL, store.PoolConfig{
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return e, nil
}

func printf(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, format, args...)
}
