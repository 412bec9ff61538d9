package routes

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseRouteIDs(t *testing.T) {
	files := []string{
		"routes/_layout.tsx",
		"routes/index.tsx",
		"routes/products.$id.tsx",
		"routes/products/index.tsx",
		"routes/blog/[rss.xml].ts",
		"routes/docs.md",
	}

	got := ParseRouteIDs(files, ParseOptions{})
	want := []Entry{
		{ID: "_layout", File: "routes/_layout.tsx"},
		{ID: "index", File: "routes/index.tsx"},
		{ID: "products.$id", File: "routes/products.$id.tsx"},
		{ID: "products.index", File: "routes/products/index.tsx"},
		{ID: "blog.[rss.xml]", File: "routes/blog/[rss.xml].ts"},
		{ID: "docs", File: "routes/docs.md"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseRouteIDs() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRouteIDs_Options(t *testing.T) {
	files := []string{
		"pages/home.tsx",
		"pages/about.tsx",
		"pages/team/home.tsx",
	}

	got := ParseRouteIDs(files, ParseOptions{RoutesDir: "pages", IndexNames: []string{"home"}})
	want := []Entry{
		{ID: "index", File: "pages/home.tsx"},
		{ID: "about", File: "pages/about.tsx"},
		{ID: "team.index", File: "pages/team/home.tsx"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseRouteIDs() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRouteIDs_Empty(t *testing.T) {
	if got := ParseRouteIDs(nil, ParseOptions{}); len(got) != 0 {
		t.Errorf("ParseRouteIDs(nil) = %v, want empty", got)
	}
}
