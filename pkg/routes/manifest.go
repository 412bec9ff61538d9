package routes

import (
	"strings"
)

// =============================================================================
// Manifest assembly
// =============================================================================

// AssembleManifest builds the manifest of rewritten, sorted entries.
// It fails with a *DuplicateRouteError if an ID is empty or not unique.
//
// A route's parent is the longest other ID that prefixes its own at a segment
// boundary; a route without one is a root. Its path is derived from the
// segments after the parent:
//
//	_index        final segment, marks an index route
//	_name         pathless, adds no URL segment
//	name_         trailing "_" is dropped
//	$             splat, becomes "*"
//	$name         dynamic, becomes ":name"
//	($name)       optional dynamic, becomes ":name?"
//	(name)        optional static, becomes "name?"
//	[text]        literal, brackets removed
func AssembleManifest(entries []Entry) (*Manifest, error) {
	if err := ValidateEntries(entries); err != nil {
		return nil, err
	}

	ids := make(map[string]bool, len(entries))
	for _, e := range entries {
		ids[e.ID] = true
	}

	m := newManifest(len(entries))
	for _, e := range entries {
		segs := splitSegments(e.ID)

		parentID, depth := "", 0
		for n := len(segs) - 1; n > 0; n-- {
			if candidate := strings.Join(segs[:n], "."); ids[candidate] {
				parentID, depth = candidate, n
				break
			}
		}

		urlPath, index := routePath(segs[depth:])
		m.add(&Route{
			ID:       e.ID,
			ParentID: parentID,
			Path:     urlPath,
			Index:    index,
			File:     e.File,
		})
	}
	return m, nil
}

// routePath converts the segments below a route's parent into a URL pattern.
func routePath(segs []string) (string, bool) {
	index := false
	if n := len(segs); n > 0 && segs[n-1] == "_"+indexSegment {
		index = true
		segs = segs[:n-1]
	}

	parts := make([]string, 0, len(segs))
	for _, seg := range segs {
		if strings.HasPrefix(seg, "_") {
			continue
		}
		if part := convertSegment(strings.TrimSuffix(seg, escapeSegment)); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "/"), index
}

func convertSegment(seg string) string {
	optional := false
	if len(seg) > 2 && seg[0] == '(' && seg[len(seg)-1] == ')' {
		optional = true
		seg = seg[1 : len(seg)-1]
	}

	var out string
	switch {
	case seg == "$":
		out = "*"
	case strings.HasPrefix(seg, "$"):
		out = ":" + unescape(seg[1:])
	default:
		out = unescape(seg)
	}

	if optional && out != "" {
		out += "?"
	}
	return out
}

// unescape removes the square brackets that mark literal text.
func unescape(seg string) string {
	if !strings.ContainsAny(seg, "[]") {
		return seg
	}
	return strings.NewReplacer("[", "", "]", "").Replace(seg)
}
