package routes

import (
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func assemble(t *testing.T, entries []Entry) *Manifest {
	t.Helper()
	SortEntries(entries)
	m, err := AssembleManifest(entries)
	if err != nil {
		t.Fatalf("AssembleManifest() error = %v", err)
	}
	return m
}

func TestAssembleManifest(t *testing.T) {
	m := assemble(t, []Entry{
		{ID: "shop", File: "shop/routes/_layout.tsx"},
		{ID: "shop._index", File: "shop/routes/index.tsx"},
		{ID: "shop.products.$id", File: "shop/routes/products.$id.tsx"},
		{ID: "shop.products_.$id.edit", File: "shop/routes/products_.$id.edit.tsx"},
		{ID: "_admin", File: "admin/routes/_layout.tsx"},
		{ID: "_admin.users", File: "admin/routes/users.tsx"},
		{ID: "_admin._index", File: "admin/routes/index.tsx"},
	})

	want := map[string]Route{
		"shop":                    {ID: "shop", Path: "shop", File: "shop/routes/_layout.tsx"},
		"shop._index":             {ID: "shop._index", ParentID: "shop", Index: true, File: "shop/routes/index.tsx"},
		"shop.products.$id":       {ID: "shop.products.$id", ParentID: "shop", Path: "products/:id", File: "shop/routes/products.$id.tsx"},
		"shop.products_.$id.edit": {ID: "shop.products_.$id.edit", ParentID: "shop", Path: "products/:id/edit", File: "shop/routes/products_.$id.edit.tsx"},
		"_admin":                  {ID: "_admin", File: "admin/routes/_layout.tsx"},
		"_admin.users":            {ID: "_admin.users", ParentID: "_admin", Path: "users", File: "admin/routes/users.tsx"},
		"_admin._index":           {ID: "_admin._index", ParentID: "_admin", Index: true, File: "admin/routes/index.tsx"},
	}

	got := make(map[string]Route, m.Len())
	for _, r := range m.Routes() {
		got[r.ID] = *r
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AssembleManifest() mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembleManifest_Siblings(t *testing.T) {
	m := assemble(t, []Entry{
		{ID: "shop._index", File: "shop/routes/index.tsx"},
		{ID: "shop.products.$id", File: "shop/routes/products.$id.tsx"},
	})

	index, _ := m.Get("shop._index")
	product, _ := m.Get("shop.products.$id")

	if index.ParentID != "" || product.ParentID != "" {
		t.Errorf("ParentIDs = %q, %q, want both empty", index.ParentID, product.ParentID)
	}
	if !index.Index || index.Path != "shop" {
		t.Errorf("shop._index = %+v, want index route at path shop", index)
	}
	if product.Path != "shop/products/:id" {
		t.Errorf("shop.products.$id path = %q, want shop/products/:id", product.Path)
	}
}

func TestRoutePath(t *testing.T) {
	tests := []struct {
		id        string
		wantPath  string
		wantIndex bool
	}{
		{"about", "about", false},
		{"_index", "", true},
		{"products._index", "products", true},
		{"_auth.login", "login", false},
		{"products.$id", "products/:id", false},
		{"files.$", "files/*", false},
		{"($lang).about", ":lang?/about", false},
		{"(en).about", "en?/about", false},
		{"[sitemap.xml]", "sitemap.xml", false},
		{"[_private]", "_private", false},
		{"products_.$id.edit", "products/:id/edit", false},
	}

	for _, tt := range tests {
		gotPath, gotIndex := routePath(splitSegments(tt.id))
		if gotPath != tt.wantPath || gotIndex != tt.wantIndex {
			t.Errorf("routePath(%q) = %q, %v, want %q, %v", tt.id, gotPath, gotIndex, tt.wantPath, tt.wantIndex)
		}
	}
}

func TestAssembleManifest_LongestParent(t *testing.T) {
	m := assemble(t, []Entry{
		{ID: "a", File: "a"},
		{ID: "a.b", File: "ab"},
		{ID: "a.b.c.d", File: "abcd"},
		{ID: "ab", File: "ab2"},
	})

	tests := map[string]string{
		"a":       "",
		"a.b":     "a",
		"a.b.c.d": "a.b",
		"ab":      "",
	}
	for id, wantParent := range tests {
		r, ok := m.Get(id)
		if !ok {
			t.Fatalf("route %q missing", id)
		}
		if r.ParentID != wantParent {
			t.Errorf("%q ParentID = %q, want %q", id, r.ParentID, wantParent)
		}
	}

	if r, _ := m.Get("a.b.c.d"); r.Path != "c/d" {
		t.Errorf("a.b.c.d Path = %q, want c/d", r.Path)
	}
}

func TestAssembleManifest_Duplicates(t *testing.T) {
	_, err := AssembleManifest([]Entry{
		{ID: "shop.about", File: "shop/routes/about.tsx"},
		{ID: "shop.about", File: "about/routes/index.tsx"},
		{ID: "shop", File: "shop/routes/_layout.tsx"},
	})
	if err == nil {
		t.Fatal("AssembleManifest() error = nil, want duplicate error")
	}

	var de *DuplicateRouteError
	if !stderrors.As(err, &de) {
		t.Fatalf("error type = %T, want *DuplicateRouteError", err)
	}
	if len(de.Errors) != 1 {
		t.Fatalf("got %d validation errors, want 1", len(de.Errors))
	}

	ve := de.Errors[0]
	if ve.Type != ErrorDuplicateRoute || ve.ID != "shop.about" {
		t.Errorf("validation error = %+v", ve)
	}
	if diff := cmp.Diff([]string{"shop/routes/about.tsx", "about/routes/index.tsx"}, ve.Files); diff != "" {
		t.Errorf("Files mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateEntries_EmptyID(t *testing.T) {
	err := ValidateEntries([]Entry{{ID: "", File: "x/routes/_layout.tsx"}})

	var de *DuplicateRouteError
	if !stderrors.As(err, &de) {
		t.Fatalf("error type = %T, want *DuplicateRouteError", err)
	}
	if de.Errors[0].Type != ErrorEmptyRouteID {
		t.Errorf("Type = %s, want %s", de.Errors[0].Type, ErrorEmptyRouteID)
	}
}

func TestManifestJSON(t *testing.T) {
	build := func() []byte {
		m := assemble(t, []Entry{
			{ID: "shop._index", File: "shop/routes/index.tsx"},
			{ID: "shop.products.$id", File: "shop/routes/products.$id.tsx"},
			{ID: "_admin", File: "admin/routes/_layout.tsx"},
		})
		data, err := json.Marshal(m)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		return data
	}

	first, second := build(), build()
	if string(first) != string(second) {
		t.Errorf("manifest JSON not deterministic:\n%s\n%s", first, second)
	}

	want := `{"_admin":{"id":"_admin","file":"admin/routes/_layout.tsx"},` +
		`"shop._index":{"id":"shop._index","path":"shop","index":true,"file":"shop/routes/index.tsx"},` +
		`"shop.products.$id":{"id":"shop.products.$id","path":"shop/products/:id","file":"shop/routes/products.$id.tsx"}}`
	if string(first) != want {
		t.Errorf("manifest JSON =\n%s\nwant\n%s", first, want)
	}

	var decoded Manifest
	if err := json.Unmarshal(first, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	gotIDs := make([]string, 0, decoded.Len())
	for _, r := range decoded.Routes() {
		gotIDs = append(gotIDs, r.ID)
	}
	if diff := cmp.Diff([]string{"shop.products.$id", "shop._index", "_admin"}, gotIDs); diff != "" {
		t.Errorf("decoded order mismatch (-want +got):\n%s", diff)
	}
}

func TestManifestFullPath(t *testing.T) {
	m := assemble(t, []Entry{
		{ID: "shop", File: "a"},
		{ID: "shop.products", File: "b"},
		{ID: "shop.products.$id", File: "c"},
		{ID: "_admin", File: "d"},
		{ID: "_admin.users", File: "e"},
	})

	tests := map[string]string{
		"shop":              "shop",
		"shop.products":     "shop/products",
		"shop.products.$id": "shop/products/:id",
		"_admin":            "",
		"_admin.users":      "users",
		"missing":           "",
	}
	for id, want := range tests {
		if got := m.FullPath(id); got != want {
			t.Errorf("FullPath(%q) = %q, want %q", id, got, want)
		}
	}
}
