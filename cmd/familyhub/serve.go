package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/familyhub/internal/seed"
	"github.com/dukerupert/familyhub/internal/server"
	"github.com/dukerupert/familyhub/internal/suggest"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var noSeed bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and websocket server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			db, err := opts.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			if !noSeed {
				data, err := seed.Default()
				if err != nil {
					return err
				}
				if _, err := seed.Apply(ctx, db, data, time.Now(), opts.logger.With("component", "seed")); err != nil {
					return fmt.Errorf("seed: %w", err)
				}
			}

			var gen suggest.TextGenerator
			if opts.cfg.GeminiAPIKey != "" {
				client, err := suggest.NewGeminiClient(ctx, opts.cfg.GeminiAPIKey, opts.cfg.GeminiModel)
				if err != nil {
					return err
				}
				defer client.Close()
				gen = client
			} else {
				opts.logger.Info("meal suggestions disabled", "reason", "GEMINI_API_KEY not set")
			}

			return server.New(db, opts.cfg, gen, opts.logger).Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&noSeed, "no-seed", false, "do not load the demo household into an empty database")
	return cmd
}
