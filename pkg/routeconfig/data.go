package routeconfig

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// JSONLoader returns a Loader for config.json files.
func JSONLoader() Loader {
	return dataLoader("json", json.Unmarshal)
}

// YAMLLoader returns a Loader for config.yaml and config.yml files.
func YAMLLoader() Loader {
	return dataLoader("yaml", yaml.Unmarshal)
}

// TOMLLoader returns a Loader for config.toml files.
func TOMLLoader() Loader {
	return dataLoader("toml", toml.Unmarshal)
}

// dataLoader builds a Loader for a plain data format. Data files cannot be
// evaluated, so every decoder failure is a syntax error.
func dataLoader(name string, unmarshal func([]byte, any) error) Loader {
	return LoaderFunc(func(ctx context.Context, path string, content []byte) (Values, error) {
		if err := ctx.Err(); err != nil {
			return nil, loadError(path, name, KindEval, err)
		}
		if len(bytes.TrimSpace(content)) == 0 {
			return Values{}, nil
		}

		var values map[string]any
		if err := unmarshal(content, &values); err != nil {
			return nil, loadError(path, name, KindSyntax, err)
		}
		return Values(values), nil
	})
}
