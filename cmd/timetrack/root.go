package main

import (
	"github.com/spf13/cobra"

	"github.com/dukerupert/timetrack/internal/config"
)

type rootOptions struct {
	configPath  string
	databaseURL string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "timetrack",
		Short: "Personal time tracker backend",
		Long: `Time Tracker records planned and actual time blocks per user and category
and serves them over a small JSON API with a live dashboard.

Running without a subcommand starts the HTTP server.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.databaseURL, "database-url", "", "database URL (overrides DATABASE_URL)")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newInitDBCmd(opts))
	cmd.AddCommand(newMigrateCmd(opts))
	return cmd
}

// load reads the configuration and applies command-line overrides.
func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.databaseURL != "" {
		cfg.Database.URL = config.NormalizeDatabaseURL(o.databaseURL)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
