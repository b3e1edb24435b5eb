package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/tlgate/internal/config"
	"github.com/ZaguanLabs/tlgate/internal/logging"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP translation gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger, err := logging.New(cfg.Environment, cfg.LogLevel)
			if err != nil {
				return err
			}

			a, err := newApp(cfg, logger)
			if err != nil {
				return err
			}

			logger.Info().
				Str("model", cfg.ArkModel).
				Int("cache_max_size", cfg.CacheMaxSize).
				Dur("cache_ttl", cfg.CacheTTL()).
				Int("rate_limit_rpm", cfg.RateLimitRPM).
				Int("max_text_length", cfg.MaxTextLength).
				Msg("gateway configured")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return a.server(cfg, logger).Start(ctx)
		},
	}
}
