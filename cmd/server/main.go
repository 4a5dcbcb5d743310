package main

import (
	"fmt"
	"os"

	"github.com/JayJamieson/sql-admin/pkg/api"
	"github.com/JayJamieson/sql-admin/pkg/config"
	"github.com/JayJamieson/sql-admin/pkg/logging"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:           "sqladmin",
		Short:         "HTTP admin API for a SQL database",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)
			if err != nil {
				return fmt.Errorf("failed to configure logging: %w", err)
			}

			server, err := api.New(cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			return server.Start(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&cfgFile, "config", "c", "", "path to a YAML config file")
	flags.Int("port", config.DefaultPort, "server port")
	flags.String("driver", config.DefaultDriver, "database driver: libsql, sqlite, duckdb, pgx or mysql")
	flags.String("db-url", config.DefaultDatabaseURL, "database URL or DSN")
	flags.String("log-level", "info", "log level")
	flags.String("log-format", "console", "log format: console or json")
	flags.Bool("allow-cte-reads", false, "accept WITH statements on the query endpoint")
	flags.Int("describe-concurrency", config.DefaultDescribeConcurrency, "concurrent table describes when listing all schemas")

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
