package routes

import (
	"cmp"
	"encoding/json"
	"path"
	"slices"
	"strings"
)

// Domain is a feature folder under the app directory.
type Domain struct {
	// Name is the directory name (e.g. "shop").
	Name string

	// Dir is the absolute directory.
	Dir string
}

// Entry pairs a route ID with the file that defines it.
//
// Before rewriting, ID is domain-unaware ("products.$id") and File is
// relative to the domain directory ("routes/products.$id.tsx"). After
// rewriting, ID carries the domain base path and File is relative to the
// app directory.
type Entry struct {
	ID   string `json:"id"`
	File string `json:"file"`
}

// Route is a manifest entry.
type Route struct {
	// ID is the dot-separated route ID.
	ID string `json:"id"`

	// ParentID is the ID of the nearest ancestor route, empty for roots.
	ParentID string `json:"parentId,omitempty"`

	// Path is the URL pattern relative to the parent (e.g. "products/:id").
	Path string `json:"path,omitempty"`

	// Index marks an index route.
	Index bool `json:"index,omitempty"`

	// File is the route module, relative to the app directory.
	File string `json:"file"`
}

// Manifest maps route IDs to routes.
type Manifest struct {
	routes map[string]*Route
	order  []string
}

func newManifest(capacity int) *Manifest {
	return &Manifest{
		routes: make(map[string]*Route, capacity),
		order:  make([]string, 0, capacity),
	}
}

func (m *Manifest) add(r *Route) {
	m.routes[r.ID] = r
	m.order = append(m.order, r.ID)
}

// Len returns the number of routes.
func (m *Manifest) Len() int {
	return len(m.order)
}

// Get returns the route with the given ID.
func (m *Manifest) Get(id string) (*Route, bool) {
	r, ok := m.routes[id]
	return r, ok
}

// Routes returns the routes in assembly order (descending ID length).
func (m *Manifest) Routes() []*Route {
	out := make([]*Route, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.routes[id])
	}
	return out
}

// FullPath returns the URL pattern of a route joined with its ancestors'
// paths, without a leading slash.
func (m *Manifest) FullPath(id string) string {
	var parts []string
	for r, ok := m.routes[id]; ok; r, ok = m.routes[r.ParentID] {
		if r.Path != "" {
			parts = append(parts, r.Path)
		}
		if r.ParentID == "" {
			break
		}
	}
	// Collected leaf first.
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return path.Join(parts...)
}

// MarshalJSON encodes the manifest as an object keyed by route ID. Keys are
// sorted, so equal manifests encode to identical bytes.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.routes)
}

// UnmarshalJSON decodes a manifest written by MarshalJSON. The order is
// restored as descending ID length, ties broken by ID.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	var routes map[string]*Route
	if err := json.Unmarshal(data, &routes); err != nil {
		return err
	}

	ids := make([]string, 0, len(routes))
	for id, r := range routes {
		r.ID = id
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	*m = *newManifest(len(ids))
	for _, id := range ids {
		m.add(routes[id])
	}
	return nil
}
