package routeconfig

import (
	"context"
	"errors"
	"fmt"
	"go/scanner"
	"path/filepath"
	"strings"
)

// Loader evaluates a config file and returns its top-level values.
type Loader interface {
	// Load evaluates content, which was read from path. Implementations
	// return a *ConfigLoadError on failure.
	Load(ctx context.Context, path string, content []byte) (Values, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, path string, content []byte) (Values, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context, path string, content []byte) (Values, error) {
	return f(ctx, path, content)
}

// ErrorKind classifies config load failures.
type ErrorKind string

const (
	// KindSyntax means the file does not parse or compile.
	KindSyntax ErrorKind = "syntax"

	// KindEval means the file parsed but evaluation failed.
	KindEval ErrorKind = "eval"

	// KindInvalid means evaluation succeeded but a value has the wrong shape.
	KindInvalid ErrorKind = "invalid"
)

// ConfigLoadError reports a domain config file that could not be loaded.
type ConfigLoadError struct {
	// Path is the config file.
	Path string

	// Loader names the loader that failed (e.g. "script", "cue").
	Loader string

	// Kind classifies the failure.
	Kind ErrorKind

	// Err is the underlying error.
	Err error

	// Line and Column locate the failure in Path, when the loader knows it.
	Line   int
	Column int
}

func (e *ConfigLoadError) Error() string {
	if e.Kind == KindSyntax {
		return fmt.Sprintf("%s error in %s: %v", loaderTitle(e.Loader), e.Path, e.Err)
	}
	return fmt.Sprintf("loading %s (%s): %v", e.Path, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigLoadError) Unwrap() error {
	return e.Err
}

func loaderTitle(name string) string {
	switch name {
	case "script":
		return "Go"
	case "cue":
		return "CUE"
	case "":
		return "config"
	}
	return strings.ToUpper(name)
}

func loadError(path, loader string, kind ErrorKind, err error) *ConfigLoadError {
	le := &ConfigLoadError{Path: path, Loader: loader, Kind: kind, Err: err}
	le.Line, le.Column = goPosition(path, err)
	return le
}

// goPosition returns the first position in path reported by a go/parser
// error list.
func goPosition(path string, err error) (int, int) {
	var list scanner.ErrorList
	if !errors.As(err, &list) {
		return 0, 0
	}
	for _, e := range list {
		if samePath(e.Pos.Filename, path) && e.Pos.Line > 0 {
			return e.Pos.Line, e.Pos.Column
		}
	}
	return 0, 0
}

// ConfigFileNames lists the conventional config file names in lookup order.
var ConfigFileNames = []string{
	"config.go",
	"config.cue",
	"config.yaml",
	"config.yml",
	"config.toml",
	"config.json",
}

// DefaultLoaders returns the loader for each supported extension.
func DefaultLoaders() map[string]Loader {
	yamlLoader := YAMLLoader()
	return map[string]Loader{
		".go":   NewScriptLoader(),
		".cue":  CUELoader(),
		".yaml": yamlLoader,
		".yml":  yamlLoader,
		".toml": TOMLLoader(),
		".json": JSONLoader(),
	}
}

func samePath(a, b string) bool {
	if a == b {
		return true
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// extOf returns the lower-cased extension of path.
func extOf(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
