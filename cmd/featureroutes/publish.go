package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/featureroutes/internal/publish"
)

func publishCmd(flags *globalFlags) *cobra.Command {
	var (
		bucket   string
		key      string
		region   string
		endpoint string
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Build the manifest and upload it to S3",
		Long: `Build the route manifest and upload it to an S3-compatible bucket.

Credentials are read from AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and
AWS_SESSION_TOKEN. Use --endpoint for MinIO, R2 and similar stores.

Examples:
  featureroutes publish --bucket assets
  featureroutes publish --bucket assets --key v2/routes.json --endpoint http://localhost:9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadProject(flags)
			if err != nil {
				return err
			}

			// Apply command-line overrides
			if bucket != "" {
				cfg.Publish.Bucket = bucket
			}
			if key != "" {
				cfg.Publish.Key = key
			}
			if region != "" {
				cfg.Publish.Region = region
			}
			if endpoint != "" {
				cfg.Publish.Endpoint = endpoint
			}

			publisher, err := publish.New(cmd.Context(), publish.Options{
				Bucket:   cfg.Publish.Bucket,
				Key:      cfg.Publish.Key,
				Region:   cfg.Publish.Region,
				Endpoint: cfg.Publish.Endpoint,
				Logger:   logger,
			})
			if err != nil {
				return err
			}

			manifest, err := buildManifest(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			result, err := publisher.Publish(cmd.Context(), manifest)
			if err != nil {
				return err
			}
			success("Published %d routes to s3://%s/%s (%d bytes)", manifest.Len(), result.Bucket, result.Key, result.Size)
			return nil
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "Target bucket (default from featureroutes.json)")
	cmd.Flags().StringVar(&key, "key", "", "Object key (default routes/manifest.json)")
	cmd.Flags().StringVar(&region, "region", "", "AWS region")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "S3 endpoint override")

	return cmd
}
