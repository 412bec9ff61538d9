package routes

import (
	"path"
	"strings"
)

// =============================================================================
// Route ID rewriting
// =============================================================================

// Segment conventions.
const (
	layoutSegment = "_layout"
	indexSegment  = "index"
	escapeSegment = "_"
)

// RewriteEntries returns the entries of domain rewritten to the app-wide
// convention. basePath is the domain's normalized base path.
//
// File becomes relative to the app directory. ID becomes basePath + "." +
// ID, rewritten segment by segment (see RewriteID).
func RewriteEntries(domain, basePath string, entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = Entry{
			ID:   RewriteID(basePath, e.ID),
			File: path.Join(domain, e.File),
		}
	}
	return out
}

// RewriteID prefixes rawID with basePath and applies the segment rules:
//
//	_layout  dropped, the layout becomes the route of its directory
//	index    becomes _index
//	_        escape, appended to the previous segment as a trailing "_"
//	""       dropped
//
// With basePath "shop":
//
//	_layout           → shop
//	index             → shop._index
//	products._layout  → shop.products
//	products.index    → shop.products._index
//	products._.edit   → shop.products_.edit
func RewriteID(basePath, rawID string) string {
	segs := splitSegments(basePath + "." + rawID)

	kept := make([]string, 0, len(segs))
	for _, seg := range segs {
		switch seg {
		case "", layoutSegment:
			continue
		case indexSegment:
			kept = append(kept, "_"+indexSegment)
		case escapeSegment:
			if len(kept) > 0 {
				kept[len(kept)-1] += escapeSegment
			}
		default:
			kept = append(kept, seg)
		}
	}
	return strings.Join(kept, ".")
}

// splitSegments splits a route ID on dots outside square brackets, so
// "[sitemap.xml]" stays one segment.
func splitSegments(id string) []string {
	var segs []string
	depth, start := 0, 0
	for i := 0; i < len(id); i++ {
		switch id[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case '.':
			if depth == 0 {
				segs = append(segs, id[start:i])
				start = i + 1
			}
		}
	}
	return append(segs, id[start:])
}
