package routeconfig

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Resolver determines the DomainConfig of each domain.
type Resolver struct {
	loaders   map[string]Loader
	fileNames []string
	logger    *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLoader registers (or replaces) the loader for an extension such as ".cue".
func WithLoader(ext string, loader Loader) Option {
	return func(r *Resolver) {
		r.loaders[ext] = loader
	}
}

// WithFileNames overrides the conventional config file names.
func WithFileNames(names ...string) Option {
	return func(r *Resolver) {
		r.fileNames = names
	}
}

// WithLogger sets the logger. If unset, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a Resolver with the default loaders.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		loaders:   DefaultLoaders(),
		fileNames: ConfigFileNames,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Find returns the config file of the domain at domainDir, if any.
func (r *Resolver) Find(domainDir string) (string, bool) {
	for _, name := range r.fileNames {
		path := filepath.Join(domainDir, name)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Resolve returns the normalized config of domain, whose directory is
// domainDir. A domain without a config file gets its name as base path.
func (r *Resolver) Resolve(ctx context.Context, domain, domainDir string) (DomainConfig, error) {
	path, ok := r.Find(domainDir)
	if !ok {
		return Default(domain), nil
	}

	loader, ok := r.loaders[extOf(path)]
	if !ok {
		return DomainConfig{}, loadError(path, "", KindEval, fmt.Errorf("no loader for %s files", extOf(path)))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return DomainConfig{}, loadError(path, "", KindEval, err)
	}

	values, err := loader.Load(ctx, path, content)
	if err != nil {
		return DomainConfig{}, err
	}

	raw, err := Decode(values)
	if err != nil {
		return DomainConfig{}, loadError(path, "", KindInvalid, err)
	}

	cfg := DomainConfig{BasePath: Normalize(domain, raw.BasePath)}
	r.logger.Debug("resolved domain config",
		"domain", domain,
		"file", path,
		"basePath", cfg.BasePath,
	)
	return cfg, nil
}
