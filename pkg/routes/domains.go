package routes

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// DefaultReservedDomains are app subdirectories that are never domains.
var DefaultReservedDomains = []string{"shared"}

// DefaultRoutesDir is the routes subdirectory of a domain.
const DefaultRoutesDir = "routes"

// DomainOptions configures ListDomains.
type DomainOptions struct {
	// Reserved names are skipped. Nil means DefaultReservedDomains.
	Reserved []string

	// RoutesDir is the subdirectory a domain must contain.
	// Empty means DefaultRoutesDir.
	RoutesDir string
}

// ListDomains returns the domains of appDir in lexical order: immediate
// subdirectories that are not reserved and contain a routes directory.
// Zero domains is not an error.
func ListDomains(appDir string, opts DomainOptions) ([]Domain, error) {
	reserved := opts.Reserved
	if reserved == nil {
		reserved = DefaultReservedDomains
	}
	routesDir := opts.RoutesDir
	if routesDir == "" {
		routesDir = DefaultRoutesDir
	}

	entries, err := os.ReadDir(appDir)
	if err != nil {
		return nil, fmt.Errorf("reading app directory: %w", err)
	}

	var domains []Domain
	for _, entry := range entries {
		if !entry.IsDir() || slices.Contains(reserved, entry.Name()) {
			continue
		}
		dir := filepath.Join(appDir, entry.Name())

		// Lstat: a symlinked routes directory does not make a domain.
		info, err := os.Lstat(filepath.Join(dir, routesDir))
		if err != nil || !info.IsDir() {
			continue
		}
		domains = append(domains, Domain{Name: entry.Name(), Dir: dir})
	}
	return domains, nil
}
