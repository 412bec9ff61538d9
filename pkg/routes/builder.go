package routes

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/featureroutes/internal/errors"
	"github.com/vango-dev/featureroutes/pkg/routeconfig"
)

// Default tracer name for manifest builds.
const defaultTracerName = "featureroutes"

// RootRouteExtensions are the extensions accepted for the app's root route.
var RootRouteExtensions = []string{"tsx", "jsx", "ts", "js"}

// ConfigResolver resolves a domain's config. *routeconfig.Resolver
// implements it.
type ConfigResolver interface {
	Resolve(ctx context.Context, domain, domainDir string) (routeconfig.DomainConfig, error)
}

// BuildStats summarizes a build.
type BuildStats struct {
	Domains int
	Routes  int
}

// Recorder observes builds.
type Recorder interface {
	// RecordBuild is called once per Build with its outcome.
	RecordBuild(duration time.Duration, stats BuildStats, err error)

	// RecordConfigError is called when a domain config fails to load.
	RecordConfigError(domain string)
}

type nopRecorder struct{}

func (nopRecorder) RecordBuild(time.Duration, BuildStats, error) {}
func (nopRecorder) RecordConfigError(string)                     {}

// Options configures a Builder.
type Options struct {
	// AppDir is the directory holding the root route and the domains.
	AppDir string

	// RoutesDir is each domain's routes subdirectory (default "routes").
	RoutesDir string

	// ReservedDomains are skipped (default "shared").
	ReservedDomains []string

	// Extensions of route modules (default js, jsx, ts, tsx, md, mdx).
	Extensions []string

	// IndexNames are file names that denote an index route (default "index").
	IndexNames []string

	// IgnoredRouteFiles are doublestar globs, relative to the domain
	// directory, of files that are not routes.
	IgnoredRouteFiles []string

	// Concurrency bounds how many domains are processed at once.
	// Values below 1 mean 1.
	Concurrency int

	// Debug prints the manifest table to DebugOutput after each build.
	Debug bool

	// DebugOutput receives the debug table (default os.Stdout).
	DebugOutput io.Writer

	// Resolver resolves domain configs (default routeconfig.NewResolver).
	Resolver ConfigResolver

	// Recorder observes builds (default: none).
	Recorder Recorder

	// Logger (default slog.Default()).
	Logger *slog.Logger

	// TracerName names the OpenTelemetry tracer (default "featureroutes").
	TracerName string
}

// Builder builds manifests. A Builder is safe for concurrent use.
type Builder struct {
	opts     Options
	resolver ConfigResolver
	recorder Recorder
	logger   *slog.Logger
	tracer   trace.Tracer
}

// NewBuilder creates a Builder, filling unset options with defaults.
func NewBuilder(opts Options) *Builder {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.DebugOutput == nil {
		opts.DebugOutput = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.TracerName == "" {
		opts.TracerName = defaultTracerName
	}

	b := &Builder{
		opts:     opts,
		resolver: opts.Resolver,
		recorder: opts.Recorder,
		logger:   opts.Logger,
		tracer:   otel.Tracer(opts.TracerName),
	}
	if b.resolver == nil {
		b.resolver = routeconfig.NewResolver(routeconfig.WithLogger(opts.Logger))
	}
	if b.recorder == nil {
		b.recorder = nopRecorder{}
	}
	return b
}

// AppDir returns the app directory the builder reads.
func (b *Builder) AppDir() string {
	return b.opts.AppDir
}

// Build runs the pipeline: root route check, domain enumeration, per-domain
// discovery and rewriting, global ordering, validation and assembly.
//
// Any failure fails the whole build. Pipeline failures are *errors.Error;
// cancellation returns the context's error.
func (b *Builder) Build(ctx context.Context) (*Manifest, error) {
	start := time.Now()
	ctx, span := b.tracer.Start(ctx, "featureroutes.build",
		trace.WithAttributes(attribute.String("featureroutes.app_dir", b.opts.AppDir)))
	defer span.End()

	manifest, stats, err := b.build(ctx)

	span.SetAttributes(
		attribute.Int("featureroutes.domains", stats.Domains),
		attribute.Int("featureroutes.routes", stats.Routes),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	b.recorder.RecordBuild(time.Since(start), stats, err)

	if err != nil {
		return nil, err
	}
	b.logger.Debug("built route manifest",
		"domains", stats.Domains,
		"routes", stats.Routes,
		"duration", time.Since(start),
	)

	if b.opts.Debug {
		if err := PrintManifest(b.opts.DebugOutput, manifest); err != nil {
			b.logger.Warn("printing route manifest", "error", err)
		}
	}
	return manifest, nil
}

func (b *Builder) build(ctx context.Context) (*Manifest, BuildStats, error) {
	var stats BuildStats

	info, err := os.Stat(b.opts.AppDir)
	if err != nil || !info.IsDir() {
		return nil, stats, errors.New("E110").
			WithFile(b.opts.AppDir).
			WithSuggestion("Create the app directory or set appDir in featureroutes.json").
			Wrap(err)
	}

	if err := EnsureRootRoute(b.opts.AppDir); err != nil {
		return nil, stats, err
	}

	domains, err := ListDomains(b.opts.AppDir, DomainOptions{
		Reserved:  b.opts.ReservedDomains,
		RoutesDir: b.opts.RoutesDir,
	})
	if err != nil {
		return nil, stats, errors.New("E121").WithFile(b.opts.AppDir).Wrap(err)
	}
	stats.Domains = len(domains)

	// Indexed by domain so the result never depends on scheduling.
	results := make([][]Entry, len(domains))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Concurrency)
	for i, domain := range domains {
		g.Go(func() error {
			entries, err := b.buildDomain(gctx, domain)
			if err != nil {
				return err
			}
			results[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, stats, err
	}

	var entries []Entry
	for _, domainEntries := range results {
		entries = append(entries, domainEntries...)
	}
	SortEntries(entries)

	manifest, err := AssembleManifest(entries)
	if err != nil {
		return nil, stats, duplicateError(err)
	}
	stats.Routes = manifest.Len()
	return manifest, stats, nil
}

// buildDomain returns the rewritten entries of one domain.
func (b *Builder) buildDomain(ctx context.Context, domain Domain) ([]Entry, error) {
	ctx, span := b.tracer.Start(ctx, "featureroutes.domain",
		trace.WithAttributes(attribute.String("featureroutes.domain", domain.Name)))
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, err := Discover(domain.Dir, DiscoverOptions{
		RoutesDir:  b.opts.RoutesDir,
		Extensions: b.opts.Extensions,
		Ignore:     b.opts.IgnoredRouteFiles,
	})
	if err != nil {
		span.RecordError(err)
		return nil, errors.New("E121").WithFile(domain.Dir).Wrap(err)
	}
	if len(files) == 0 {
		b.logger.Debug("domain has no route files", "domain", domain.Name)
		return nil, nil
	}

	raw := ParseRouteIDs(files, ParseOptions{
		RoutesDir:  b.opts.RoutesDir,
		IndexNames: b.opts.IndexNames,
	})

	cfg, err := b.resolver.Resolve(ctx, domain.Name, domain.Dir)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "domain config")
		b.recorder.RecordConfigError(domain.Name)
		return nil, configError(domain, err)
	}

	entries := RewriteEntries(domain.Name, cfg.BasePath, raw)
	span.SetAttributes(
		attribute.String("featureroutes.base_path", cfg.BasePath),
		attribute.Int("featureroutes.routes", len(entries)),
	)
	b.logger.Debug("processed domain",
		"domain", domain.Name,
		"basePath", cfg.BasePath,
		"routes", len(entries),
	)
	return entries, nil
}

// EnsureRootRoute checks that appDir contains root.<ext> for one of
// RootRouteExtensions.
func EnsureRootRoute(appDir string) error {
	for _, ext := range RootRouteExtensions {
		info, err := os.Stat(filepath.Join(appDir, "root."+ext))
		if err == nil && !info.IsDir() {
			return nil
		}
	}
	return errors.New("E131").
		WithFile(appDir).
		WithDetail(fmt.Sprintf("Expected one of root.{%s} in %s.", strings.Join(RootRouteExtensions, ","), appDir)).
		WithSuggestion("Add a root route module (e.g. app/root.tsx)")
}

// configError maps a domain config failure to a coded error.
func configError(domain Domain, err error) error {
	var le *routeconfig.ConfigLoadError
	if !stderrors.As(err, &le) {
		return errors.FromError(err, "E100").WithFile(domain.Dir)
	}

	code := "E100"
	switch le.Kind {
	case routeconfig.KindSyntax:
		code = "E101"
	case routeconfig.KindInvalid:
		code = "E102"
	}
	fe := errors.New(code).Wrap(err)
	if le.Line > 0 {
		return fe.WithLocation(le.Path, le.Line, le.Column)
	}
	return fe.WithFile(le.Path)
}

// duplicateError maps a validation failure to a coded error.
func duplicateError(err error) error {
	var de *DuplicateRouteError
	if !stderrors.As(err, &de) {
		return errors.FromError(err, "E120")
	}

	var detail strings.Builder
	for _, ve := range de.Errors {
		detail.WriteString(ve.Error())
		detail.WriteByte('\n')
	}
	return errors.New("E120").
		WithDetail(strings.TrimRight(detail.String(), "\n")).
		WithSuggestion("Rename one of the files or give its domain a different basePath").
		Wrap(err)
}
