package routeconfig

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed routeconfig_schema.cue
var schemaSource string

// The CUE runtime and the compiled #RouteConfig schema are built once per
// process on first use. Values from one cue.Context must not be used
// concurrently, so every compile/unify/decode runs under cueMu.
var (
	cueOnce   sync.Once
	cueMu     sync.Mutex
	cueCtx    *cue.Context
	cueSchema cue.Value
	cueErr    error
)

func cueRuntime() (*cue.Context, cue.Value, error) {
	cueOnce.Do(func() {
		cueCtx = cuecontext.New()
		compiled := cueCtx.CompileString(schemaSource, cue.Filename("routeconfig_schema.cue"))
		if err := compiled.Err(); err != nil {
			cueErr = fmt.Errorf("compiling route config schema: %w", err)
			return
		}
		cueSchema = compiled.LookupPath(cue.ParsePath("#RouteConfig"))
		if err := cueSchema.Err(); err != nil {
			cueErr = fmt.Errorf("looking up #RouteConfig: %w", err)
		}
	})
	return cueCtx, cueSchema, cueErr
}

// CUELoader returns a Loader for config.cue files. The file is compiled,
// unified with the #RouteConfig schema, validated and decoded.
func CUELoader() Loader {
	return LoaderFunc(loadCUE)
}

func loadCUE(ctx context.Context, path string, content []byte) (Values, error) {
	if err := ctx.Err(); err != nil {
		return nil, loadError(path, "cue", KindEval, err)
	}

	cctx, schema, err := cueRuntime()
	if err != nil {
		return nil, loadError(path, "cue", KindEval, err)
	}

	cueMu.Lock()
	defer cueMu.Unlock()

	value := cctx.CompileBytes(content, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, cueLoadError(path, KindSyntax, err)
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError(path, KindInvalid, err)
	}

	var values map[string]any
	if err := unified.Decode(&values); err != nil {
		return nil, cueLoadError(path, KindInvalid, err)
	}
	return Values(values), nil
}

// cueLoadError flattens a CUE error list into a single error that keeps each
// message's position, and records the first position inside path.
func cueLoadError(path string, kind ErrorKind, err error) *ConfigLoadError {
	le := loadError(path, "cue", kind, fmt.Errorf("%s", cueerrors.Details(err, nil)))
	for _, pos := range cueerrors.Positions(err) {
		if pos.Filename() == path && pos.Line() > 0 {
			le.Line, le.Column = pos.Line(), pos.Column()
			break
		}
	}
	return le
}
