package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/featureroutes/internal/dev"
	"github.com/vango-dev/featureroutes/internal/metrics"
	"github.com/vango-dev/featureroutes/pkg/routes"
)

func devCmd(flags *globalFlags) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Start the development server",
		Long: `Start the development server.

The dev server watches the app directory, rebuilds the manifest when
route files, domain configs or the root route change, and pushes the
result to connected clients.

Endpoints:
  /manifest.json        current manifest
  /routes               route table
  /_featureroutes/ws    WebSocket push
  /metrics              Prometheus metrics

Examples:
  featureroutes dev
  featureroutes dev --port=8080
  featureroutes dev --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDev(flags, port, host)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from featureroutes.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from featureroutes.json)")

	return cmd
}

func runDev(flags *globalFlags, port int, host string) error {
	cfg, logger, err := loadProject(flags)
	if err != nil {
		return err
	}

	// Apply command-line overrides
	if port > 0 {
		cfg.Dev.Port = port
	}
	if host != "" {
		cfg.Dev.Host = host
	}

	registry := prometheus.NewRegistry()
	opts := builderOptions(cfg, logger)
	opts.Recorder = metrics.New(metrics.WithRegistry(registry))

	server := dev.NewServer(dev.ServerOptions{
		Builder:   routes.NewBuilder(opts),
		Addr:      cfg.DevAddress(),
		Debounce:  cfg.Dev.Debounce,
		Ignore:    cfg.IgnoredRouteFiles,
		RoutesDir: cfg.RoutesDir,
		Gatherer:  registry,
		Logger:    logger,
		OnBuild: func(result dev.BuildResult) {
			if result.Err == nil {
				success("Built %d routes in %s", result.Manifest.Len(), result.Duration.Round(1000000))
			}
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("watching", "app", cfg.AppPath(), "url", cfg.DevURL())
	return server.Start(ctx)
}
