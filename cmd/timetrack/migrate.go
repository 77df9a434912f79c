package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukerupert/timetrack/internal/config"
	"github.com/dukerupert/timetrack/internal/database"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			// Open applies pending migrations.
			db, err := database.Open(cfg.Database.URL)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			v, err := database.Version(db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is at schema version %d\n", config.MaskDatabaseURL(cfg.Database.URL), v)
			return nil
		},
	}
}
