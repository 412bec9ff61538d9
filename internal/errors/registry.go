package errors

import "slices"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Domain Config Errors (E100-E109)
	// ============================================

	"E100": {
		Category: CategoryConfig,
		Message:  "Domain config failed to load",
		Detail:   "The domain's config file could not be evaluated. A broken domain config fails the whole manifest build.",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Domain config syntax error",
		Detail:   "The domain's config file does not parse or compile.",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid domain config value",
		Detail:   "The domain's config file evaluated, but a field has the wrong type. basePath must be a string.",
	},

	// ============================================
	// Project Errors (E110-E119)
	// ============================================

	"E110": {
		Category: CategoryDiscovery,
		Message:  "App directory not found",
		Detail:   "Domains are discovered from the app directory under the project root.",
	},
	"E111": {
		Category: CategoryConfig,
		Message:  "Invalid featureroutes.json",
		Detail:   "The project configuration file could not be parsed.",
	},

	// ============================================
	// Manifest Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryManifest,
		Message:  "Duplicate route ID",
		Detail:   "Two or more route files produced the same route ID after the domain base path was applied.",
	},
	"E121": {
		Category: CategoryDiscovery,
		Message:  "Route discovery failed",
		Detail:   "Route files could not be listed for a domain.",
	},
	"E131": {
		Category: CategoryManifest,
		Message:  "Root route missing",
		Detail:   "The app directory must contain a root route file (root.tsx, root.jsx, root.ts or root.js).",
	},

	// ============================================
	// Publish Errors (E140-E149)
	// ============================================

	"E140": {
		Category: CategoryPublish,
		Message:  "Manifest publish failed",
		Detail:   "The manifest could not be uploaded to object storage.",
	},
}

// GetAllCodes returns all registered error codes in ascending order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
