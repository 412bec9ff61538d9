package routeconfig

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// ConfigVar is the variable a Go config file exports.
const ConfigVar = "RouteConfig"

// snippetPackage is the package a bare config snippet is wrapped in.
const snippetPackage = "routeconfig"

// ScriptLoader evaluates config.go files with the yaegi interpreter.
//
// A config file is either a complete Go source file:
//
//	package shop
//
//	var RouteConfig = map[string]any{"basePath": "/store"}
//
// or a bare snippet without a package clause:
//
//	var RouteConfig = struct{ BasePath string }{BasePath: "/store"}
//
// The full-file form is tried first. When it fails, the source is wrapped
// in a synthetic package and evaluated again. If the wrapped form fails
// because the source already had a package clause, the first error is the
// meaningful one and is returned instead.
type ScriptLoader struct {
	// allowedPackages are the stdlib imports a config file may use.
	allowedPackages map[string]bool
}

// NewScriptLoader creates a ScriptLoader with the default import allowlist.
func NewScriptLoader() *ScriptLoader {
	return &ScriptLoader{
		allowedPackages: map[string]bool{
			"strings":       true,
			"strconv":       true,
			"fmt":           true,
			"path":          true,
			"path/filepath": true,
			"sort":          true,
			"time":          true,
			"regexp":        true,
			"os":            true, // for os.Getenv
		},
	}
}

// Load implements Loader.
func (l *ScriptLoader) Load(ctx context.Context, path string, content []byte) (Values, error) {
	values, err := l.evalPackage(ctx, path, string(content))
	if err == nil {
		return values, nil
	}

	values, fallbackErr := l.evalSnippet(ctx, path, string(content))
	if fallbackErr == nil {
		return values, nil
	}
	if isPackageClauseMismatch(fallbackErr) {
		return nil, err
	}
	return nil, fallbackErr
}

// evalPackage evaluates src as a complete Go file.
func (l *ScriptLoader) evalPackage(ctx context.Context, path, src string) (Values, error) {
	file, err := parser.ParseFile(token.NewFileSet(), path, src, parser.ImportsOnly)
	if err != nil {
		return nil, loadError(path, "script", KindSyntax, err)
	}
	return l.eval(ctx, path, src, file.Name.Name)
}

// evalSnippet evaluates src wrapped in a synthetic package. The line
// directive keeps reported positions relative to the file.
func (l *ScriptLoader) evalSnippet(ctx context.Context, path, src string) (Values, error) {
	linePath := path
	if abs, err := filepath.Abs(path); err == nil {
		linePath = abs
	}
	wrapped := fmt.Sprintf("package %s\n//line %s:1:1\n%s\n", snippetPackage, linePath, src)
	if _, err := parser.ParseFile(token.NewFileSet(), path, wrapped, parser.ImportsOnly); err != nil {
		return nil, loadError(path, "script", KindSyntax, err)
	}
	return l.eval(ctx, path, wrapped, snippetPackage)
}

func (l *ScriptLoader) eval(ctx context.Context, path, src, pkg string) (Values, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, parser.AllErrors)
	if err != nil {
		return nil, loadError(path, "script", KindSyntax, err)
	}
	if err := l.validateImports(file); err != nil {
		return nil, loadError(path, "script", KindEval, err)
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, loadError(path, "script", KindEval, fmt.Errorf("loading stdlib symbols: %w", err))
	}

	if _, err := i.EvalWithContext(ctx, src); err != nil {
		return nil, loadError(path, "script", KindEval, err)
	}

	if !declaresVar(file, ConfigVar) {
		// Nothing exported: defaults apply.
		return Values{}, nil
	}

	v, err := i.EvalWithContext(ctx, pkg+"."+ConfigVar)
	if err != nil {
		return nil, loadError(path, "script", KindEval, err)
	}

	values, err := valuesOf(v)
	if err != nil {
		return nil, loadError(path, "script", KindInvalid, err)
	}
	return values, nil
}

// validateImports rejects imports outside the allowlist.
func (l *ScriptLoader) validateImports(file *ast.File) error {
	var forbidden []string
	for _, imp := range file.Imports {
		pkg, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			pkg = imp.Path.Value
		}
		if !l.allowedPackages[pkg] {
			forbidden = append(forbidden, pkg)
		}
	}
	if len(forbidden) > 0 {
		return fmt.Errorf("forbidden imports: %s", strings.Join(forbidden, ", "))
	}
	return nil
}

// declaresVar reports whether file declares a package-level var named name.
func declaresVar(file *ast.File, name string) bool {
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.VAR {
			continue
		}
		for _, spec := range gd.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			for _, ident := range vs.Names {
				if ident.Name == name {
					return true
				}
			}
		}
	}
	return false
}

// isPackageClauseMismatch reports whether err came from wrapping a source
// that already had a package clause.
func isPackageClauseMismatch(err error) bool {
	var le *ConfigLoadError
	if !errors.As(err, &le) || le.Kind != KindSyntax {
		return false
	}
	return strings.Contains(le.Err.Error(), "found 'package'")
}

// valuesOf converts the interpreted RouteConfig value into Values. Maps with
// string keys and structs (or pointers to structs) are supported.
func valuesOf(v reflect.Value) (Values, error) {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return Values{}, nil
		}
		v = v.Elem()
	}

	values := Values{}
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%s must have string keys, got %s", ConfigVar, v.Type())
		}
		iter := v.MapRange()
		for iter.Next() {
			values[iter.Key().String()] = iter.Value().Interface()
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			values[field.Name] = v.Field(i).Interface()
		}
	default:
		return nil, fmt.Errorf("%s must be a map or a struct, got %s", ConfigVar, v.Kind())
	}
	return values, nil
}
