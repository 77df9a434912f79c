package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/timetrack/internal/database"
	"github.com/dukerupert/timetrack/internal/seed"
	"github.com/dukerupert/timetrack/internal/store"
)

func newInitDBCmd(opts *rootOptions) *cobra.Command {
	var noSeed bool

	cmd := &cobra.Command{
		Use:   "init-db",
		Short: "Drop all tables, recreate the schema and load the demo dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			db, err := database.Open(cfg.Database.URL)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Dropping and recreating tables...")
			if err := database.Reset(db); err != nil {
				return err
			}
			if noSeed {
				fmt.Fprintln(out, "Schema created, no data loaded.")
				return nil
			}

			fmt.Fprintln(out, "Loading demo data...")
			res, err := store.New(db).CreateDataset(cmd.Context(), seed.Demo(time.Now()))
			if err != nil {
				return fmt.Errorf("seed demo data: %w", err)
			}

			st := res.Stats()
			fmt.Fprintf(out, "Database initialized: %d user, %d categories, %d events, %d template\n",
				st.Users, st.Categories, st.Events, st.Templates)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noSeed, "no-seed", false, "create the schema without demo data")
	return cmd
}
