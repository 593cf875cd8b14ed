package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/vtree"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "vtree.yaml"

	// KeyStrategyFixed mounts unkeyed trees under Tree.DefaultKey.
	KeyStrategyFixed = "fixed"

	// KeyStrategyUUID gives each unkeyed tree a random UUID key.
	KeyStrategyUUID = "uuid"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default log handler format.
	DefaultLogFormat = "text"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "vtree"

	// DefaultTracerName is the default OpenTelemetry tracer name.
	DefaultTracerName = "vtree"

	// DefaultInspectorAddr is the default inspector listen address.
	DefaultInspectorAddr = "localhost:7070"

	// DefaultRegion is the default region for s3:// scene sources.
	DefaultRegion = "us-east-1"
)

// Config represents the complete vtree.yaml configuration.
type Config struct {
	// Tree contains reconciler settings.
	Tree TreeConfig `yaml:"tree"`

	// Log contains logging settings.
	Log LogConfig `yaml:"log"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains OpenTelemetry settings.
	Tracing TracingConfig `yaml:"tracing"`

	// Inspector contains inspector server settings.
	Inspector InspectorConfig `yaml:"inspector"`

	// Scene contains scene source settings.
	Scene SceneConfig `yaml:"scene"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// TreeConfig contains reconciler settings.
type TreeConfig struct {
	// DefaultKey is the root key for trees mounted without one.
	DefaultKey string `yaml:"defaultKey,omitempty"`

	// KeyStrategy is "fixed" or "uuid".
	KeyStrategy string `yaml:"keyStrategy,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level,omitempty"`

	// Format is "text" or "json".
	Format string `yaml:"format,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled installs the Prometheus middleware.
	Enabled bool `yaml:"enabled"`

	// Namespace is the metrics namespace.
	Namespace string `yaml:"namespace,omitempty"`

	// Subsystem is the metrics subsystem.
	Subsystem string `yaml:"subsystem,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled installs the OpenTelemetry middleware.
	Enabled bool `yaml:"enabled"`

	// TracerName is the tracer name.
	TracerName string `yaml:"tracerName,omitempty"`
}

// InspectorConfig contains inspector server settings.
type InspectorConfig struct {
	// Addr is the listen address.
	Addr string `yaml:"addr,omitempty"`
}

// SceneConfig contains settings for remote scene sources.
type SceneConfig struct {
	// Region is the S3 region.
	Region string `yaml:"region,omitempty"`

	// Endpoint overrides the S3 endpoint (e.g. a local MinIO).
	Endpoint string `yaml:"endpoint,omitempty"`

	// PathStyle forces path-style S3 addressing.
	PathStyle bool `yaml:"pathStyle,omitempty"`

	// Anonymous reads public buckets without credentials.
	Anonymous bool `yaml:"anonymous,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	cfg := &Config{
		Metrics: MetricsConfig{Enabled: true},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from the specified directory.
// It looks for vtree.yaml in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigNotFound).
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path))
		}
		return nil, errors.New(errors.CodeConfigInvalid).Wrap(err)
	}

	cfg := New()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.CodeConfigInvalid).
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid YAML")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Tree.DefaultKey == "" {
		c.Tree.DefaultKey = string(vtree.DefaultKey)
	}
	if c.Tree.KeyStrategy == "" {
		c.Tree.KeyStrategy = KeyStrategyFixed
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}

	if c.Inspector.Addr == "" {
		c.Inspector.Addr = DefaultInspectorAddr
	}
	if c.Scene.Region == "" {
		c.Scene.Region = DefaultRegion
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Tree.KeyStrategy {
	case KeyStrategyFixed, KeyStrategyUUID:
	default:
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("tree.keyStrategy must be %q or %q, got %q", KeyStrategyFixed, KeyStrategyUUID, c.Tree.KeyStrategy)
	}
	if strings.ContainsRune(c.Tree.DefaultKey, 0) {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("tree.defaultKey must not contain NUL bytes")
	}
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// SlogLevel returns the configured log level, or info when unknown.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

// TreeOptions returns the reconciler options for the tree settings.
func (c *Config) TreeOptions() []vtree.Option {
	opts := []vtree.Option{vtree.WithDefaultKey(vtree.Key(c.Tree.DefaultKey))}
	if c.Tree.KeyStrategy == KeyStrategyUUID {
		opts = append(opts, vtree.WithUUIDKeys())
	}
	return opts
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// Exists checks if a vtree.yaml exists in the directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up from startDir to the first directory holding
// a vtree.yaml.
func FindProjectRoot(startDir string) (string, error) {
	dir := startDir
	for {
		if Exists(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New(errors.CodeConfigNotFound).
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads the nearest vtree.yaml above the working
// directory, falling back to defaults when there is none.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.New(errors.CodeConfigInvalid).Wrap(err)
	}
	root, err := FindProjectRoot(wd)
	if err != nil {
		return New(), nil
	}
	return Load(root)
}
