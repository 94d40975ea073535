package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/familyhub/internal/seed"
)

func newSeedCommand(opts *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a household into an empty database",
		Long: `Load users, meals and meal plans into a database that has no users yet.
Without --file the built-in demo household is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := seed.Default()
			if file != "" {
				var b []byte
				if b, err = os.ReadFile(file); err != nil {
					return fmt.Errorf("read seed file: %w", err)
				}
				data, err = seed.Parse(b)
			}
			if err != nil {
				return err
			}

			db, err := opts.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			res, err := seed.Apply(cmd.Context(), db, data, time.Now(), opts.logger.With("component", "seed"))
			if err != nil {
				return err
			}
			if res == (seed.Result{}) {
				fmt.Fprintln(cmd.OutOrStdout(), "database already has users; nothing seeded")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d meals, %d meal plans\n", res.Users, res.Meals, res.Plans)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "YAML seed file (defaults to the demo household)")
	return cmd
}
