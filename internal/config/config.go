package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/vango-dev/featureroutes/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "featureroutes.json"

	// DebugEnvVar enables the debug route table when set.
	DebugEnvVar = "DEBUG_FEATURE_ROUTES"

	// EnvPrefix prefixes environment overrides (FEATUREROUTES_APPDIR, ...).
	EnvPrefix = "FEATUREROUTES"

	// DefaultAppDir is the default app directory, relative to the root.
	DefaultAppDir = "app"

	// DefaultPort is the default development server port.
	DefaultPort = 3100

	// DefaultHost is the default development server host.
	DefaultHost = "localhost"

	// DefaultDebounce is the default rebuild debounce of the dev server.
	DefaultDebounce = 100 * time.Millisecond

	// DefaultPublishKey is the default object key of a published manifest.
	DefaultPublishKey = "routes/manifest.json"
)

// RootMarkers are the files that mark a project root, in priority order.
var RootMarkers = []string{ConfigFileName, "go.mod", "package.json"}

// Config represents the featureroutes.json configuration.
type Config struct {
	// AppDir is the app directory, relative to the project root.
	AppDir string `mapstructure:"appDir" json:"appDir,omitempty"`

	// RoutesDir is each domain's routes subdirectory.
	RoutesDir string `mapstructure:"routesDir" json:"routesDir,omitempty"`

	// SharedDomains are app subdirectories that are never domains.
	SharedDomains []string `mapstructure:"sharedDomains" json:"sharedDomains,omitempty"`

	// Extensions of route modules.
	Extensions []string `mapstructure:"extensions" json:"extensions,omitempty"`

	// IndexNames are file names that denote index routes.
	IndexNames []string `mapstructure:"indexNames" json:"indexNames,omitempty"`

	// IgnoredRouteFiles are globs of files under routes/ that are not routes.
	IgnoredRouteFiles []string `mapstructure:"ignoredRouteFiles" json:"ignoredRouteFiles,omitempty"`

	// Concurrency bounds how many domains are processed at once.
	Concurrency int `mapstructure:"concurrency" json:"concurrency,omitempty"`

	// Debug prints the route table after each build.
	Debug bool `mapstructure:"debug" json:"debug,omitempty"`

	// Dev contains development server configuration.
	Dev DevConfig `mapstructure:"dev" json:"dev,omitempty"`

	// Publish contains manifest upload configuration.
	Publish PublishConfig `mapstructure:"publish" json:"publish,omitempty"`

	// root is the project root the config applies to.
	root string

	// configPath is the file the config was loaded from, if any.
	configPath string
}

// DevConfig contains development server settings.
type DevConfig struct {
	// Host is the host to bind to.
	Host string `mapstructure:"host" json:"host,omitempty"`

	// Port is the port to run the dev server on.
	Port int `mapstructure:"port" json:"port,omitempty"`

	// Debounce delays rebuilds after file changes (e.g. "100ms").
	Debounce time.Duration `mapstructure:"debounce" json:"debounce,omitempty"`
}

// PublishConfig contains S3 upload settings.
type PublishConfig struct {
	// Bucket is the target bucket.
	Bucket string `mapstructure:"bucket" json:"bucket,omitempty"`

	// Key is the object key of the manifest.
	Key string `mapstructure:"key" json:"key,omitempty"`

	// Region is the AWS region.
	Region string `mapstructure:"region" json:"region,omitempty"`

	// Endpoint overrides the S3 endpoint (MinIO, R2, ...).
	Endpoint string `mapstructure:"endpoint" json:"endpoint,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		AppDir:        DefaultAppDir,
		RoutesDir:     "routes",
		SharedDomains: []string{"shared"},
		Extensions:    []string{"js", "jsx", "ts", "tsx", "md", "mdx"},
		IndexNames:    []string{"index"},
		Concurrency:   1,
		Dev: DevConfig{
			Host:     DefaultHost,
			Port:     DefaultPort,
			Debounce: DefaultDebounce,
		},
		Publish: PublishConfig{
			Key: DefaultPublishKey,
		},
	}
}

// Load reads configuration for the project rooted at root. A missing
// featureroutes.json is not an error: defaults and environment overrides
// apply.
func Load(root string) (*Config, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	v := newViper()

	configPath := filepath.Join(root, ConfigFileName)
	if _, err := os.Stat(configPath); err == nil {
		v.SetConfigFile(configPath)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.New("E111").
				WithFile(configPath).
				WithDetail("Failed to parse featureroutes.json: " + err.Error()).
				WithSuggestion("Check that featureroutes.json is valid JSON").
				Wrap(err)
		}
	} else {
		configPath = ""
	}

	if raw := v.GetString("debug"); raw != "" {
		v.Set("debug", truthy(raw))
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.New("E111").
			WithFile(configPath).
			WithDetail("Failed to decode configuration: " + err.Error()).
			Wrap(err)
	}
	cfg.root = root
	cfg.configPath = configPath

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newViper returns a viper instance with defaults and environment bindings.
func newViper() *viper.Viper {
	v := viper.New()

	defaults := New()
	v.SetDefault("appDir", defaults.AppDir)
	v.SetDefault("routesDir", defaults.RoutesDir)
	v.SetDefault("sharedDomains", defaults.SharedDomains)
	v.SetDefault("extensions", defaults.Extensions)
	v.SetDefault("indexNames", defaults.IndexNames)
	v.SetDefault("ignoredRouteFiles", []string{})
	v.SetDefault("concurrency", defaults.Concurrency)
	v.SetDefault("debug", false)
	v.SetDefault("dev.host", defaults.Dev.Host)
	v.SetDefault("dev.port", defaults.Dev.Port)
	v.SetDefault("dev.debounce", defaults.Dev.Debounce)
	v.SetDefault("publish.bucket", "")
	v.SetDefault("publish.key", defaults.Publish.Key)
	v.SetDefault("publish.region", "")
	v.SetDefault("publish.endpoint", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Both names work; the short one is what existing setups export.
	_ = v.BindEnv("debug", EnvPrefix+"_DEBUG", DebugEnvVar)

	return v
}

// truthy interprets an env toggle: boolean literals parse as such, any
// other non-empty value enables.
func truthy(raw string) bool {
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw != ""
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.AppDir == "" {
		return errors.New("E111").WithDetail("appDir must not be empty")
	}
	if c.Concurrency < 0 {
		return errors.New("E111").WithDetail("concurrency must not be negative")
	}
	if c.Dev.Port < 0 || c.Dev.Port > 65535 {
		return errors.New("E111").WithDetail("dev.port must be between 0 and 65535")
	}
	if c.Dev.Debounce < 0 {
		return errors.New("E111").WithDetail("dev.debounce must not be negative")
	}
	return nil
}

// Root returns the project root.
func (c *Config) Root() string {
	return c.root
}

// Path returns the path where the config was loaded from, or "" if the
// defaults are in use.
func (c *Config) Path() string {
	return c.configPath
}

// AppPath returns the absolute path to the app directory.
func (c *Config) AppPath() string {
	if filepath.IsAbs(c.AppDir) {
		return c.AppDir
	}
	return filepath.Join(c.root, c.AppDir)
}

// DevAddress returns the address string for the dev server.
func (c *Config) DevAddress() string {
	return net.JoinHostPort(c.Dev.Host, strconv.Itoa(c.Dev.Port))
}

// DevURL returns the full URL for the dev server.
func (c *Config) DevURL() string {
	return "http://" + c.DevAddress()
}

// FindProjectRoot walks up from startDir to the nearest directory containing
// one of RootMarkers. If none is found, the absolute startDir is returned.
func FindProjectRoot(startDir string) (string, error) {
	start, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", startDir, err)
	}

	for dir := start; ; {
		for _, marker := range RootMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return start, nil
		}
		dir = parent
	}
}

// LoadFromDir finds the project root above dir and loads its configuration.
func LoadFromDir(dir string) (*Config, error) {
	root, err := FindProjectRoot(dir)
	if err != nil {
		return nil, err
	}
	return Load(root)
}
