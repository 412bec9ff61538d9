package routeconfig

import (
	"strings"

	"github.com/mitchellh/mapstructure"
)

// DomainConfig is the resolved route configuration of one domain.
type DomainConfig struct {
	// BasePath is the route ID prefix for every route in the domain,
	// dot-separated and without a leading slash.
	BasePath string `json:"basePath" mapstructure:"basePath"`
}

// Values is the plain key/value result of evaluating a config file.
type Values map[string]any

// Default returns the configuration of a domain without a config file.
func Default(domain string) DomainConfig {
	return DomainConfig{BasePath: domain}
}

// Normalize turns a configured base path into a route ID prefix.
//
// An empty value falls back to the domain name. "/" produces "_<domain>",
// which the routing framework treats as a pathless route: it groups the
// domain's routes without adding a URL segment. Anything else loses one
// leading slash and has its remaining slashes replaced by dots.
func Normalize(domain, basePath string) string {
	switch basePath {
	case "":
		return domain
	case "/":
		return "_" + domain
	}
	basePath = strings.TrimPrefix(basePath, "/")
	return strings.ReplaceAll(basePath, "/", ".")
}

// Decode maps evaluated config values onto a DomainConfig. Unknown keys are
// ignored; a basePath of the wrong type is an error.
func Decode(values Values) (DomainConfig, error) {
	var raw DomainConfig
	if len(values) == 0 {
		return raw, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &raw,
		TagName: "mapstructure",
	})
	if err != nil {
		return raw, err
	}
	if err := decoder.Decode(map[string]any(values)); err != nil {
		return raw, err
	}
	return raw, nil
}
