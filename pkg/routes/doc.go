// Package routes builds a route manifest from domain-partitioned route files.
//
// An app directory is split into domains ("feature folders"), each with its
// own routes directory:
//
//	app/
//	├── root.tsx
//	├── shared/            # reserved, never a domain
//	├── shop/
//	│   ├── config.cue     # optional, defaults to basePath: "shop"
//	│   └── routes/
//	│       ├── _layout.tsx
//	│       ├── index.tsx
//	│       └── products.$id.tsx
//	└── admin/
//	    ├── config.go      # var RouteConfig = map[string]any{"basePath": "/"}
//	    └── routes/
//	        ├── _layout.tsx
//	        └── users.tsx
//
// Each domain's files are turned into flat, dot-separated route IDs
// (ParseRouteIDs), prefixed with the domain's base path and rewritten to the
// host convention (RewriteEntries):
//
//	shop/routes/_layout.tsx         → shop
//	shop/routes/index.tsx           → shop._index
//	shop/routes/products.$id.tsx    → shop.products.$id
//	admin/routes/_layout.tsx        → _admin
//	admin/routes/users.tsx          → _admin.users
//
// All entries are then sorted by descending ID length (SortEntries), checked
// for collisions and assembled into a Manifest whose routes carry a parent
// ID and a URL path segment (AssembleManifest):
//
//	shop.products.$id   parent shop    path "products/:id"
//	shop._index         parent shop    index
//	_admin.users        parent _admin  path "users"
//	_admin              parent ""      no path (pathless)
//
// Builder runs the whole pipeline.
package routes
