package routes

import (
	"fmt"
	"strings"
)

// =============================================================================
// Entry validation
// =============================================================================

// ValidationErrorType categorizes validation errors.
type ValidationErrorType string

const (
	// ErrorDuplicateRoute indicates multiple files produced the same route ID.
	// Example: shop/routes/about.tsx and a domain "about" with basePath
	// "/shop" both producing "shop.about".
	ErrorDuplicateRoute ValidationErrorType = "DUPLICATE_ROUTE"

	// ErrorEmptyRouteID indicates a file whose ID rewrote to nothing.
	ErrorEmptyRouteID ValidationErrorType = "EMPTY_ROUTE_ID"
)

// ValidationError represents an entry validation error.
type ValidationError struct {
	// Type is the error category
	Type ValidationErrorType

	// ID is the offending route ID
	ID string

	// Files are the source files involved
	Files []string
}

func (e ValidationError) Error() string {
	switch e.Type {
	case ErrorDuplicateRoute:
		return fmt.Sprintf("%s: route ID %q defined by %s", e.Type, e.ID, strings.Join(e.Files, ", "))
	case ErrorEmptyRouteID:
		return fmt.Sprintf("%s: %s produced an empty route ID", e.Type, strings.Join(e.Files, ", "))
	}
	return string(e.Type)
}

// DuplicateRouteError collects every validation error of a build.
type DuplicateRouteError struct {
	Errors []ValidationError
}

func (e *DuplicateRouteError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d route validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// ValidateEntries checks rewritten entries for empty and colliding IDs.
// Errors are reported in order of first appearance.
func ValidateEntries(entries []Entry) error {
	var errs []ValidationError

	var order []string
	files := make(map[string][]string, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			errs = append(errs, ValidationError{Type: ErrorEmptyRouteID, Files: []string{e.File}})
			continue
		}
		if _, seen := files[e.ID]; !seen {
			order = append(order, e.ID)
		}
		files[e.ID] = append(files[e.ID], e.File)
	}

	for _, id := range order {
		if len(files[id]) > 1 {
			errs = append(errs, ValidationError{Type: ErrorDuplicateRoute, ID: id, Files: files[id]})
		}
	}

	if len(errs) > 0 {
		return &DuplicateRouteError{Errors: errs}
	}
	return nil
}
