package dev

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// ChangeType represents the type of file change.
type ChangeType int

const (
	// ChangeRoute is a file under a domain's routes directory.
	ChangeRoute ChangeType = iota
	// ChangeConfig is a domain config file (config.go, config.cue, ...).
	ChangeConfig
	// ChangeRoot is the app's root route module.
	ChangeRoot
	// ChangeOther is anything else under the watched paths.
	ChangeOther
)

func (t ChangeType) String() string {
	switch t {
	case ChangeRoute:
		return "route"
	case ChangeConfig:
		return "config"
	case ChangeRoot:
		return "root"
	}
	return "other"
}

// Change represents a detected file change.
type Change struct {
	Path string
	Type ChangeType
}

// WatcherConfig configures the file watcher.
type WatcherConfig struct {
	// Paths are the directories to watch, recursively.
	Paths []string

	// Ignore are doublestar globs matched against paths relative to the
	// watched directory and against base names.
	Ignore []string

	// Debounce is the quiet period after the last event before OnChange
	// fires.
	Debounce time.Duration

	// Classify maps a changed path to its type (default: ChangeOther).
	Classify func(path string) ChangeType

	// Logger (default slog.Default()).
	Logger *slog.Logger
}

// DefaultIgnore contains default patterns to ignore.
var DefaultIgnore = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/*.tmp",
	"**/*.swp",
	"**/*~",
	"**/.DS_Store",
}

// Watcher monitors directories for changes. Events are coalesced over the
// debounce window and delivered in one OnChange call; calls never overlap.
type Watcher struct {
	config   WatcherConfig
	onChange func([]Change)
	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	fsw      *fsnotify.Watcher
	roots    []string
}

// NewWatcher creates a new file watcher.
func NewWatcher(config WatcherConfig) *Watcher {
	if config.Debounce <= 0 {
		config.Debounce = 100 * time.Millisecond
	}
	if len(config.Ignore) == 0 {
		config.Ignore = DefaultIgnore
	}
	if config.Classify == nil {
		config.Classify = func(string) ChangeType { return ChangeOther }
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Watcher{config: config}
}

// OnChange sets the callback for file changes.
func (w *Watcher) OnChange(fn func([]Change)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start watches until ctx is done or Stop is called. It blocks; a second
// concurrent Start returns immediately.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return fmt.Errorf("creating file watcher: %w", err)
	}
	w.fsw = fsw
	w.running = true
	w.stopCh = make(chan struct{})
	stopCh := w.stopCh
	w.mu.Unlock()

	defer func() {
		fsw.Close()
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	w.roots = w.roots[:0]
	for _, p := range w.config.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		w.roots = append(w.roots, abs)
		if err := w.addTree(abs); err != nil {
			return err
		}
	}

	pending := make(map[string]ChangeType)
	timer := time.NewTimer(w.config.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-stopCh:
			return nil

		case evt, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write) {
				continue
			}
			if w.shouldIgnore(evt.Name) {
				continue
			}
			if evt.Has(fsnotify.Create) {
				if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
					// Files created before the watch was added produce no
					// events of their own.
					if err := w.addTree(evt.Name); err != nil {
						w.config.Logger.Warn("watching new directory", "path", evt.Name, "error", err)
					}
				}
			}
			pending[evt.Name] = w.config.Classify(evt.Name)
			timer.Reset(w.config.Debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.config.Logger.Warn("file watcher error", "error", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changes := make([]Change, 0, len(pending))
			for p, typ := range pending {
				changes = append(changes, Change{Path: p, Type: typ})
			}
			clear(pending)

			w.mu.Lock()
			callback := w.onChange
			w.mu.Unlock()
			if callback != nil {
				callback(changes)
			}
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		close(w.stopCh)
		w.running = false
	}
}

// IsRunning returns whether the watcher is running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// addTree adds dir and every non-ignored directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			if p == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && w.shouldIgnore(p) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			return fmt.Errorf("watching %s: %w", p, err)
		}
		return nil
	})
}

// shouldIgnore checks if a path should be ignored.
func (w *Watcher) shouldIgnore(fullPath string) bool {
	rel := fullPath
	for _, root := range w.roots {
		if r, err := filepath.Rel(root, fullPath); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
			break
		}
	}
	rel = filepath.ToSlash(rel)
	name := filepath.Base(fullPath)

	for _, pattern := range w.config.Ignore {
		for _, candidate := range []string{rel, rel + "/", name} {
			if ok, _ := doublestar.Match(pattern, candidate); ok {
				return true
			}
		}
	}
	return false
}
