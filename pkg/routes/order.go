package routes

import (
	"cmp"
	"slices"
)

// SortEntries sorts entries by descending ID length. The sort is stable:
// entries of equal length keep their relative order. Since an ancestor's ID
// is a strict prefix of its descendants', descendants always come first.
func SortEntries(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return cmp.Compare(len(b.ID), len(a.ID))
	})
}
