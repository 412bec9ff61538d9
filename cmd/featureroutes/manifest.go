package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/featureroutes/internal/config"
	"github.com/vango-dev/featureroutes/pkg/routes"
)

func manifestCmd(flags *globalFlags) *cobra.Command {
	var (
		out    string
		indent bool
	)

	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Build the route manifest",
		Long: `Build the route manifest and write it as JSON.

The manifest is an object keyed by route ID. Each route has its file,
its parent route ID and its URL path segment.

Examples:
  featureroutes manifest
  featureroutes manifest --out build/routes.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadProject(flags)
			if err != nil {
				return err
			}
			manifest, err := buildManifest(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			return writeManifest(cmd.OutOrStdout(), manifest, out, indent)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().BoolVar(&indent, "indent", true, "Indent the JSON output")

	return cmd
}

func printCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "print",
		Short: "Print the route table",
		Long: `Build the route manifest and print it as a table of route files,
URL patterns, example URLs and their parameters.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadProject(flags)
			if err != nil {
				return err
			}
			manifest, err := buildManifest(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			return routes.PrintManifest(cmd.OutOrStdout(), manifest)
		},
	}
}

func buildManifest(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*routes.Manifest, error) {
	return routes.NewBuilder(builderOptions(cfg, logger)).Build(ctx)
}

// writeManifest writes the manifest to the file out, or to w when out is
// empty.
func writeManifest(w io.Writer, manifest *routes.Manifest, out string, indent bool) error {
	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(manifest, "", "  ")
	} else {
		data, err = json.Marshal(manifest)
	}
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if out == "" {
		_, err = w.Write(data)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return err
	}
	success("Wrote %d routes to %s", manifest.Len(), out)
	return nil
}
