package dev

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	ferrors "github.com/vango-dev/featureroutes/internal/errors"
	"github.com/vango-dev/featureroutes/pkg/routeconfig"
	"github.com/vango-dev/featureroutes/pkg/routes"
)

// Builder builds manifests. *routes.Builder implements it.
type Builder interface {
	Build(ctx context.Context) (*routes.Manifest, error)
	AppDir() string
}

// BuildResult is the outcome of one rebuild.
type BuildResult struct {
	Manifest *routes.Manifest
	Err      error
	Duration time.Duration
	Changes  []Change
}

// ServerOptions configures the development server.
type ServerOptions struct {
	// Builder builds the manifest. Required.
	Builder Builder

	// Addr is the listen address (e.g. "localhost:3100").
	Addr string

	// Debounce delays rebuilds after file changes.
	Debounce time.Duration

	// Ignore are extra watcher ignore globs.
	Ignore []string

	// RoutesDir is each domain's routes subdirectory (default "routes").
	RoutesDir string

	// Gatherer serves /metrics (default prometheus.DefaultGatherer).
	Gatherer prometheus.Gatherer

	// Logger (default slog.Default()).
	Logger *slog.Logger

	// OnBuild is called after every build.
	OnBuild func(result BuildResult)
}

// Server rebuilds the manifest on file changes and serves it over HTTP.
type Server struct {
	options    ServerOptions
	watcher    *Watcher
	hub        *Hub
	logger     *slog.Logger
	httpServer *http.Server
	buildMu    sync.Mutex
	mu         sync.RWMutex
	manifest   *routes.Manifest
	lastErr    error
	running    bool
}

// NewServer creates a new development server.
func NewServer(options ServerOptions) *Server {
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.Gatherer == nil {
		options.Gatherer = prometheus.DefaultGatherer
	}
	if options.RoutesDir == "" {
		options.RoutesDir = routes.DefaultRoutesDir
	}

	s := &Server{
		options: options,
		hub:     NewHub(options.Logger),
		logger:  options.Logger,
	}
	s.watcher = NewWatcher(WatcherConfig{
		Paths:    []string{options.Builder.AppDir()},
		Ignore:   append(append([]string{}, DefaultIgnore...), options.Ignore...),
		Debounce: options.Debounce,
		Classify: s.classify,
		Logger:   options.Logger,
	})
	s.watcher.OnChange(func(changes []Change) {
		s.Rebuild(context.Background(), changes...)
	})
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/manifest.json", s.handleManifest)
	r.Get("/routes", s.handleRoutes)
	r.Get("/_featureroutes/ws", s.hub.ServeHTTP)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.options.Gatherer, promhttp.HandlerOpts{}))

	return r
}

// Rebuild builds the manifest, stores the result and pushes it to clients.
// Rebuilds are serialized.
func (s *Server) Rebuild(ctx context.Context, changes ...Change) BuildResult {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	start := time.Now()
	manifest, err := s.options.Builder.Build(ctx)
	result := BuildResult{Manifest: manifest, Err: err, Duration: time.Since(start), Changes: changes}

	s.mu.Lock()
	if err == nil {
		s.manifest = manifest
	}
	s.lastErr = err
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("route manifest build failed", "error", err)
		s.hub.Broadcast(Message{Type: MessageError, Error: err.Error(), Code: ferrors.CodeOf(err)})
	} else {
		s.logger.Info("route manifest rebuilt",
			"routes", manifest.Len(),
			"changes", len(changes),
			"duration", result.Duration,
		)
		data, encErr := json.Marshal(manifest)
		if encErr != nil {
			s.logger.Error("encoding manifest", "error", encErr)
		} else {
			s.hub.Broadcast(Message{Type: MessageManifest, Manifest: data})
		}
	}

	if s.options.OnBuild != nil {
		s.options.OnBuild(result)
	}
	return result
}

// Start builds once, then watches and serves until ctx is done. A failing
// first build does not stop the server; the error is served until fixed.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	s.Rebuild(ctx)

	ln, err := net.Listen("tcp", s.options.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener, without the initial build.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = httpServer
	s.mu.Unlock()

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()

	watchErr := make(chan error, 1)
	go func() {
		watchErr <- s.watcher.Start(watchCtx)
	}()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Serve(ln)
	}()

	s.logger.Info("dev server listening", "addr", ln.Addr().String(), "app", s.options.Builder.AppDir())

	var result error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			result = err
		}
	case err := <-watchErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			result = err
		}
	}

	s.shutdown()
	cancelWatch()
	s.watcher.Stop()
	return result
}

// Stop closes the HTTP server and all client connections.
func (s *Server) Stop() {
	s.watcher.Stop()
	s.shutdown()
}

func (s *Server) shutdown() {
	s.hub.Close()

	s.mu.Lock()
	httpServer := s.httpServer
	s.running = false
	s.mu.Unlock()

	if httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(ctx)
	}
}

// Manifest returns the last successfully built manifest and the error of
// the last build.
func (s *Server) Manifest() (*routes.Manifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.manifest, s.lastErr
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	manifest, err := s.Manifest()
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")

	if err != nil || manifest == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		msg := "no manifest built yet"
		if err != nil {
			msg = err.Error()
		}
		json.NewEncoder(w).Encode(map[string]string{"error": msg, "code": ferrors.CodeOf(err)})
		return
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Write(append(data, '\n'))
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	manifest, err := s.Manifest()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if err != nil || manifest == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		if err != nil {
			w.Write([]byte(err.Error() + "\n"))
		}
		return
	}

	var buf bytes.Buffer
	if err := routes.PrintManifest(&buf, manifest); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Write(buf.Bytes())
}

// classify maps a path under the app directory to a change type.
func (s *Server) classify(path string) ChangeType {
	rel, err := filepath.Rel(s.options.Builder.AppDir(), path)
	if err != nil {
		return ChangeOther
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")

	switch {
	case len(parts) == 1 && strings.HasPrefix(parts[0], "root."):
		return ChangeRoot
	case len(parts) >= 2 && parts[1] == s.options.RoutesDir:
		return ChangeRoute
	case len(parts) == 2 && isConfigFile(parts[1]):
		return ChangeConfig
	}
	return ChangeOther
}

func isConfigFile(name string) bool {
	for _, candidate := range routeconfig.ConfigFileNames {
		if name == candidate {
			return true
		}
	}
	return false
}
