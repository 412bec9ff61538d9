package routes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// writeTree creates files (slash-separated paths) under root. A path ending
// in "/" creates an empty directory.
func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, name := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if name[len(name)-1] == '/' {
			if err := os.MkdirAll(path, 0755); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("export default function Route() {}\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestListDomains(t *testing.T) {
	appDir := t.TempDir()
	writeTree(t, appDir,
		"root.tsx",
		"shop/routes/index.tsx",
		"admin/routes/",
		"shared/routes/index.tsx",
		"components/button.tsx",
		"blog/config.cue",
	)

	domains, err := ListDomains(appDir, DomainOptions{})
	if err != nil {
		t.Fatalf("ListDomains() error = %v", err)
	}

	want := []Domain{
		{Name: "admin", Dir: filepath.Join(appDir, "admin")},
		{Name: "shop", Dir: filepath.Join(appDir, "shop")},
	}
	if diff := cmp.Diff(want, domains); diff != "" {
		t.Errorf("ListDomains() mismatch (-want +got):\n%s", diff)
	}
}

func TestListDomains_Options(t *testing.T) {
	appDir := t.TempDir()
	writeTree(t, appDir,
		"shop/pages/index.tsx",
		"shop/routes/index.tsx",
		"shared/pages/index.tsx",
		"common/pages/index.tsx",
	)

	domains, err := ListDomains(appDir, DomainOptions{Reserved: []string{"common"}, RoutesDir: "pages"})
	if err != nil {
		t.Fatalf("ListDomains() error = %v", err)
	}

	var names []string
	for _, d := range domains {
		names = append(names, d.Name)
	}
	if diff := cmp.Diff([]string{"shared", "shop"}, names); diff != "" {
		t.Errorf("domain names mismatch (-want +got):\n%s", diff)
	}
}

func TestListDomains_Empty(t *testing.T) {
	domains, err := ListDomains(t.TempDir(), DomainOptions{})
	if err != nil {
		t.Fatalf("ListDomains() error = %v", err)
	}
	if len(domains) != 0 {
		t.Errorf("ListDomains() = %v, want none", domains)
	}
}

func TestListDomains_MissingAppDir(t *testing.T) {
	_, err := ListDomains(filepath.Join(t.TempDir(), "missing"), DomainOptions{})
	if err == nil {
		t.Error("ListDomains() error = nil, want error for missing app dir")
	}
}

func TestDiscover(t *testing.T) {
	domainDir := t.TempDir()
	writeTree(t, domainDir,
		"routes/index.tsx",
		"routes/products.$id.tsx",
		"routes/blog/post.mdx",
		"routes/api.ts",
		"routes/styles.css",
		"routes/products.test.tsx",
		"routes/dir.tsx/",
		"config.ts",
	)

	files, err := Discover(domainDir, DiscoverOptions{Ignore: []string{"**/*.test.tsx"}})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	want := []string{
		"routes/api.ts",
		"routes/blog/post.mdx",
		"routes/index.tsx",
		"routes/products.$id.tsx",
	}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("Discover() mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscover_NoRoutes(t *testing.T) {
	files, err := Discover(t.TempDir(), DiscoverOptions{})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(files) != 0 {
		t.Errorf("Discover() = %v, want none", files)
	}
}

func TestDiscover_InvalidIgnore(t *testing.T) {
	_, err := Discover(t.TempDir(), DiscoverOptions{Ignore: []string{"routes/[.tsx"}})
	if err == nil {
		t.Error("Discover() error = nil, want invalid pattern error")
	}
}

func TestDiscoverOptionsPattern(t *testing.T) {
	tests := []struct {
		opts DiscoverOptions
		want string
	}{
		{DiscoverOptions{}, "routes/**/*.{js,jsx,ts,tsx,md,mdx}"},
		{DiscoverOptions{RoutesDir: "pages", Extensions: []string{"tsx"}}, "pages/**/*.tsx"},
		{DiscoverOptions{Extensions: []string{"go", "templ"}}, "routes/**/*.{go,templ}"},
	}

	for _, tt := range tests {
		if got := tt.opts.Pattern(); got != tt.want {
			t.Errorf("Pattern() = %q, want %q", got, tt.want)
		}
	}
}
