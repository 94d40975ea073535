package main

import (
	"database/sql"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dukerupert/familyhub/internal/config"
	"github.com/dukerupert/familyhub/internal/database"
	"github.com/dukerupert/familyhub/internal/logging"
)

// rootOptions is shared by every subcommand. cfg is filled in before any
// subcommand runs.
type rootOptions struct {
	dbPath string
	cfg    config.Config
	logger *slog.Logger
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "familyhub",
		Short:         "Household meal planning and shopping lists",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if opts.dbPath != "" {
				cfg.DBPath = opts.dbPath
			}
			opts.cfg = cfg
			opts.logger = logging.Setup(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "path to SQLite database (overrides FAMILYHUB_DB_PATH)")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newGenerateCommand(opts))
	cmd.AddCommand(newSeedCommand(opts))

	return cmd
}

func (o *rootOptions) openDB() (*sql.DB, error) {
	o.logger.Debug("opening database", "path", o.cfg.DBPath)
	return database.Open(o.cfg.DBPath)
}
