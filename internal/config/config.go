// Package config loads the esdex configuration: HTTP/API settings, the
// artifact cache backend, and the per-model search definitions.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the esdex configuration.
type Config struct {
	HTTP     HTTPConfig       `yaml:"http"`
	Cache    CacheConfig      `yaml:"cache"`
	Indexing IndexingConfig   `yaml:"indexing"`
	Auth     AuthConfig       `yaml:"auth"`
	Logging  LoggingConfig    `yaml:"logging"`
	Models   map[string]Model `yaml:"models"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CacheConfig holds artifact cache settings.
type CacheConfig struct {
	Driver    string   `yaml:"driver"` // memory, redis (default: memory)
	Addrs     []string `yaml:"addrs"`
	Password  string   `yaml:"password"`
	KeyPrefix string   `yaml:"key_prefix"`
	TTLSec    int      `yaml:"ttl_sec"`
}

// IndexingConfig holds batch indexing settings.
type IndexingConfig struct {
	Workers          int `yaml:"workers"`
	DefaultChunkSize int `yaml:"default_chunk_size"`
}

// Model describes one searchable model.
type Model struct {
	// SearchableFields is the raw field tree: a sequence mixing plain field
	// names and relation mappings.
	SearchableFields any          `yaml:"searchable_fields"`
	Translatable     Translatable `yaml:"translatable"`
	// Boost maps field or relation names to query-time weights.
	Boost     map[string]any `yaml:"searchable_fields_boost"`
	ChunkSize int            `yaml:"chunk_size"`
	Index     Index          `yaml:"index"`
	// Version participates in cache keys; bump it when the model definition
	// changes to invalidate derived artifacts immediately.
	Version string `yaml:"config_version"`
}

// Translatable holds the per-locale translation settings of a model.
type Translatable struct {
	Fields         any      `yaml:"fields"`
	Locales        []string `yaml:"locales"`
	FallbackLocale string   `yaml:"fallback_locale"`
}

// Index holds settings handed to the index-creation collaborator.
type Index struct {
	Name     string `yaml:"name"`
	Shards   int    `yaml:"shards"`
	Replicas int    `yaml:"replicas"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "esdex:"
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 3600
	}
	if c.Indexing.Workers <= 0 {
		c.Indexing.Workers = 4
	}
	if c.Indexing.DefaultChunkSize <= 0 {
		c.Indexing.DefaultChunkSize = 500
	}

	for name, m := range c.Models {
		if m.ChunkSize <= 0 {
			m.ChunkSize = c.Indexing.DefaultChunkSize
		}
		if m.Index.Name == "" {
			m.Index.Name = name
		}
		if m.Index.Shards <= 0 {
			m.Index.Shards = 1
		}
		if m.Version == "" {
			m.Version = "1"
		}
		c.Models[name] = m
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Cache.Driver {
	case "memory":
	case "redis":
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required for the redis driver")
		}
	default:
		return fmt.Errorf("cache.driver must be \"memory\" or \"redis\", got %q", c.Cache.Driver)
	}

	for name, m := range c.Models {
		if m.SearchableFields == nil {
			return fmt.Errorf("models.%s.searchable_fields is required", name)
		}
		if m.Translatable.Fields != nil && len(m.Translatable.Locales) == 0 {
			return fmt.Errorf("models.%s.translatable.locales is required when translatable fields are set", name)
		}
		if fb := m.Translatable.FallbackLocale; fb != "" && !contains(m.Translatable.Locales, fb) {
			return fmt.Errorf(
				"models.%s.translatable.fallback_locale %q is not in translatable.locales",
				name, fb,
			)
		}
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
