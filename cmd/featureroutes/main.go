package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vango-dev/featureroutes/internal/config"
	"github.com/vango-dev/featureroutes/internal/errors"
	"github.com/vango-dev/featureroutes/pkg/routeconfig"
	"github.com/vango-dev/featureroutes/pkg/routes"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by all commands.
type globalFlags struct {
	dir        string
	verbose    bool
	jsonErrors bool
}

func main() {
	if os.Getenv("NO_COLOR") != "" {
		errors.DisableColors()
	}

	flags := &globalFlags{}
	if err := newRootCmd(flags).Execute(); err != nil {
		reportError(os.Stderr, err, flags)
		os.Exit(1)
	}
}

// reportError prints err for a terminal, or as one JSON line with
// --json-errors.
func reportError(w io.Writer, err error, flags *globalFlags) {
	if flags.jsonErrors {
		errors.PrintJSON(w, err)
		return
	}
	errors.PrintError(w, err)
}

func newRootCmd(flags *globalFlags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "featureroutes",
		Short: "Feature-folder route manifests",
		Long: `featureroutes builds a route manifest from a feature-folder app layout.

Each directory under the app directory is a domain with its own routes/
folder and an optional config file that sets its URL base path:

  app/
    root.tsx
    shop/
      config.cue
      routes/
        _layout.tsx
        products.$id.tsx

Route files become nested route IDs, URL patterns and parent links.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.dir, "dir", "C", ".", "Project directory")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flags.jsonErrors, "json-errors", false, "Report errors as JSON on stderr")

	rootCmd.AddCommand(
		manifestCmd(flags),
		printCmd(flags),
		devCmd(flags),
		publishCmd(flags),
		explainCmd(),
		versionCmd(),
	)

	return rootCmd
}

// newLogger returns a slog logger writing through charmbracelet/log.
func newLogger(verbose bool) *slog.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "featureroutes",
	})
	return slog.New(handler)
}

// loadProject loads the configuration of the project containing flags.dir.
func loadProject(flags *globalFlags) (*config.Config, *slog.Logger, error) {
	logger := newLogger(flags.verbose)
	cfg, err := config.LoadFromDir(flags.dir)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Path() != "" {
		logger.Debug("loaded config", "path", cfg.Path())
	}
	return cfg, logger, nil
}

// builderOptions maps project configuration to builder options.
func builderOptions(cfg *config.Config, logger *slog.Logger) routes.Options {
	return routes.Options{
		AppDir:            cfg.AppPath(),
		RoutesDir:         cfg.RoutesDir,
		ReservedDomains:   cfg.SharedDomains,
		Extensions:        cfg.Extensions,
		IndexNames:        cfg.IndexNames,
		IgnoredRouteFiles: cfg.IgnoredRouteFiles,
		Concurrency:       cfg.Concurrency,
		Debug:             cfg.Debug,
		DebugOutput:       os.Stderr,
		Resolver:          routeconfig.NewResolver(routeconfig.WithLogger(logger)),
		Logger:            logger,
	}
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
