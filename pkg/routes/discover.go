package routes

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExtensions are the route module extensions.
var DefaultExtensions = []string{"js", "jsx", "ts", "tsx", "md", "mdx"}

// DiscoverOptions configures Discover.
type DiscoverOptions struct {
	// RoutesDir is the routes subdirectory. Empty means DefaultRoutesDir.
	RoutesDir string

	// Extensions without the dot. Nil means DefaultExtensions.
	Extensions []string

	// Ignore holds doublestar globs matched against the domain-relative
	// path (e.g. "routes/**/*.test.tsx").
	Ignore []string
}

// Pattern returns the glob used to find route files.
func (o DiscoverOptions) Pattern() string {
	routesDir := o.RoutesDir
	if routesDir == "" {
		routesDir = DefaultRoutesDir
	}
	exts := o.Extensions
	if exts == nil {
		exts = DefaultExtensions
	}
	if len(exts) == 1 {
		return routesDir + "/**/*." + exts[0]
	}
	return routesDir + "/**/*.{" + strings.Join(exts, ",") + "}"
}

// Discover returns the route files of the domain at domainDir as sorted,
// slash-separated paths relative to domainDir.
func Discover(domainDir string, opts DiscoverOptions) ([]string, error) {
	for _, pattern := range opts.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid ignore pattern %q", pattern)
		}
	}

	matches, err := doublestar.Glob(os.DirFS(domainDir), opts.Pattern(), doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("globbing %s: %w", domainDir, err)
	}

	files := matches[:0]
	for _, file := range matches {
		if !ignored(file, opts.Ignore) {
			files = append(files, file)
		}
	}
	slices.Sort(files)
	return files, nil
}

func ignored(file string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, file); ok {
			return true
		}
	}
	return false
}
