// Package dev provides the watch-and-rebuild development server.
//
// This package implements:
//   - File watching of the app directory (fsnotify, debounced)
//   - Manifest rebuilds on route, domain config and root route changes
//   - HTTP endpoints serving the current manifest
//   - WebSocket push of build results
//
// # Architecture
//
//   - Watcher: Monitors the app directory and coalesces changes
//   - Server: Rebuilds the manifest and serves it over HTTP
//   - Hub: Pushes build results to connected clients via WebSocket
//
// # Usage
//
//	builder := routes.NewBuilder(routes.Options{AppDir: cfg.AppPath()})
//	srv := dev.NewServer(dev.ServerOptions{
//	    Builder: builder,
//	    Addr:    cfg.DevAddress(),
//	})
//
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Endpoints
//
//	GET /manifest.json       current manifest (503 with the error while broken)
//	GET /routes              route table
//	GET /_featureroutes/ws   WebSocket push
//	GET /metrics             Prometheus metrics
//
// # Push Protocol
//
// Messages are JSON-encoded. A client receives the latest message on
// connect:
//
//	{"type": "manifest", "manifest": {...}}
//	{"type": "error", "error": "...", "code": "E101"}
package dev
