package routes

import (
	"path"
	"slices"
	"strings"
)

// DefaultIndexNames are the file names that denote an index route.
var DefaultIndexNames = []string{"index"}

// ParseOptions configures ParseRouteIDs.
type ParseOptions struct {
	// RoutesDir is stripped from each file. Empty means DefaultRoutesDir.
	RoutesDir string

	// IndexNames are file names that produce an "index" segment.
	// Nil means DefaultIndexNames.
	IndexNames []string
}

// ParseRouteIDs maps route files (as returned by Discover) to entries.
// The routes directory and the extension are stripped and directory
// separators become dots:
//
//	routes/products.$id.tsx      → products.$id
//	routes/products/_layout.tsx  → products._layout
//	routes/index.tsx             → index
//
// The result is domain-unaware and keeps the input order.
func ParseRouteIDs(files []string, opts ParseOptions) []Entry {
	routesDir := opts.RoutesDir
	if routesDir == "" {
		routesDir = DefaultRoutesDir
	}
	indexNames := opts.IndexNames
	if indexNames == nil {
		indexNames = DefaultIndexNames
	}

	entries := make([]Entry, 0, len(files))
	for _, file := range files {
		rel := strings.TrimPrefix(file, routesDir+"/")
		rel = strings.TrimSuffix(rel, path.Ext(rel))

		dir, base := path.Split(rel)
		if slices.Contains(indexNames, base) {
			base = "index"
		}
		id := strings.ReplaceAll(dir+base, "/", ".")

		entries = append(entries, Entry{ID: id, File: file})
	}
	return entries
}
