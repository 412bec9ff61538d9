// Package publish uploads built manifests to S3-compatible object storage.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/featureroutes/internal/errors"
	"github.com/vango-dev/featureroutes/pkg/routes"
)

// ObjectPutter is the part of *s3.Client the publisher uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Options configures a Publisher.
type Options struct {
	// Bucket is the target bucket. Required.
	Bucket string

	// Key is the object key of the manifest. Required.
	Key string

	// Region is the AWS region (default from the AWS environment and
	// shared config, then "us-east-1").
	Region string

	// Endpoint overrides the S3 endpoint. Path-style addressing is used
	// when set, which MinIO and most S3-compatible stores expect.
	Endpoint string

	// Client replaces the S3 client built from the options above.
	Client ObjectPutter

	// Logger (default slog.Default()).
	Logger *slog.Logger
}

const defaultRegion = "us-east-1"

// Result describes an uploaded manifest.
type Result struct {
	Bucket string
	Key    string
	ETag   string
	Size   int
}

// Publisher uploads manifests.
type Publisher struct {
	client ObjectPutter
	bucket string
	key    string
	logger *slog.Logger
}

// New creates a Publisher. Without opts.Client, AWS configuration is
// loaded with ctx.
func New(ctx context.Context, opts Options) (*Publisher, error) {
	if opts.Bucket == "" {
		return nil, errors.New("E140").
			WithDetail("No bucket configured.").
			WithSuggestion("Pass --bucket or set publish.bucket in featureroutes.json")
	}
	if opts.Key == "" {
		return nil, errors.New("E140").
			WithDetail("No object key configured.").
			WithSuggestion("Pass --key or set publish.key in featureroutes.json")
	}

	client := opts.Client
	if client == nil {
		s3Client, err := newS3Client(ctx, opts.Region, opts.Endpoint)
		if err != nil {
			return nil, err
		}
		client = s3Client
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Publisher{
		client: client,
		bucket: opts.Bucket,
		key:    opts.Key,
		logger: logger,
	}, nil
}

// newS3Client builds a client from the default AWS credential chain:
// environment, shared config files, then instance roles.
func newS3Client(ctx context.Context, region, endpoint string) (*s3.Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.New("E140").
			WithDetail("Loading AWS configuration failed.").
			Wrap(err)
	}
	if cfg.Region == "" {
		cfg.Region = defaultRegion
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Publish uploads the manifest as indented JSON.
func (p *Publisher) Publish(ctx context.Context, manifest *routes.Manifest) (Result, error) {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return Result{}, errors.New("E140").Wrap(err)
	}
	data = append(data, '\n')

	out, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(p.bucket),
		Key:          aws.String(p.key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String("application/json"),
		CacheControl: aws.String("no-cache"),
		Metadata: map[string]string{
			"route-count": strconv.Itoa(manifest.Len()),
		},
	})
	if err != nil {
		return Result{}, errors.New("E140").
			WithDetail(fmt.Sprintf("Uploading s3://%s/%s failed.", p.bucket, p.key)).
			Wrap(err)
	}

	result := Result{Bucket: p.bucket, Key: p.key, Size: len(data)}
	if out != nil {
		result.ETag = aws.ToString(out.ETag)
	}
	p.logger.Info("published route manifest",
		"bucket", p.bucket,
		"key", p.key,
		"routes", manifest.Len(),
		"bytes", len(data),
	)
	return result, nil
}
