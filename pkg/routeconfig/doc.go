// Package routeconfig resolves the per-domain route configuration of a
// feature-folder app.
//
// A domain may carry a config file next to its routes directory:
//
//	app/
//	├── admin/
//	│   ├── config.cue      → basePath: "/"
//	│   └── routes/
//	└── shop/
//	    ├── config.go       → var RouteConfig = map[string]any{"basePath": "/store"}
//	    └── routes/
//
// The first of config.go, config.cue, config.yaml, config.yml, config.toml and
// config.json found in the domain directory is evaluated by the Loader
// registered for its extension:
//
//	.go          ScriptLoader   evaluated with the yaegi Go interpreter
//	.cue         CUELoader      compiled and checked against #RouteConfig
//	.yaml .yml   YAMLLoader
//	.toml        TOMLLoader
//	.json        JSONLoader
//
// Only the basePath field is read. A missing file or an empty basePath
// yields the domain name. The resolved value is normalized:
//
//	"/"            → "_<domain>"   (pathless grouping route)
//	"/store"       → "store"
//	"/shop/admin"  → "shop.admin"
//
// Evaluation errors are returned as *ConfigLoadError and are never
// swallowed: a broken domain config fails the whole manifest build.
package routeconfig
