package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/strand-dev/strand/internal/config"
	"github.com/strand-dev/strand/pkg/host"
)

func serveCmd() *cobra.Command {
	var (
		dir  string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo application",
		Long: `Start the Strand host with the built-in demo application.

Configuration is read from strand.json in the project directory;
flags override the file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(dir)
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.Port = port
			}

			logger := buildLogger(cfg)
			slog.SetDefault(logger)

			opts := []host.Option{
				host.WithLogger(logger),
				host.WithTitle("Strand Todos"),
			}
			if cfg.Metrics.Enabled {
				opts = append(opts,
					host.WithMetrics(host.NewMetrics()),
					host.WithMetricsEndpoint(cfg.Metrics.Path),
				)
			}
			if cfg.Tracing.Enabled {
				opts = append(opts, host.WithTracing(cfg.Tracing.ServiceName))
			}
			if rw, err := cfg.ResumeWindow(); err == nil {
				opts = append(opts, host.WithResumeWindow(rw))
			}
			if cfg.Static.Dir != "" {
				opts = append(opts, host.WithStaticDir(cfg.Static.Prefix, cfg.Static.Dir))
			}

			h := host.New(todoApp, nil, opts...)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			printBanner()
			info("serving at %s", cfg.URL())
			if cfg.Metrics.Enabled {
				info("metrics at %s%s", cfg.URL(), cfg.Metrics.Path)
			}

			return h.Run(ctx, cfg.Address())
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Project directory containing strand.json")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Override the configured port")

	return cmd
}

// buildLogger constructs the slog logger described by the config.
func buildLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	return slog.New(handler)
}
