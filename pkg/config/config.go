// Package config loads jigsaw settings from TOML or YAML files.
//
// The format is chosen by file extension (.toml, .yaml, .yml). Defaults are
// applied first, so a file only needs the keys it changes:
//
//	[solve]
//	workers = 4
//	policy = "most"
//
//	[cache]
//	backend = "sqlite"
//	sqlite_path = "/var/lib/jigsaw/cache.db"
//
// When no path is given, [Discover] looks for config.toml under
// $XDG_CONFIG_HOME/jigsaw and then ~/.config/jigsaw.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/jigsaw/pkg/errors"
	"github.com/matzehuels/jigsaw/pkg/pattern"
)

// Cache backends.
const (
	BackendNone   = "none"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Config is the complete configuration.
type Config struct {
	Log    LogConfig    `toml:"log" yaml:"log"`
	Cache  CacheConfig  `toml:"cache" yaml:"cache"`
	Solve  SolveConfig  `toml:"solve" yaml:"solve"`
	Server ServerConfig `toml:"server" yaml:"server"`
}

// LogConfig controls logging. File is optional; when set, records are also
// written there with size-based rotation.
type LogConfig struct {
	Level      string `toml:"level" yaml:"level"`
	File       string `toml:"file" yaml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" yaml:"max_age_days"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend    string `toml:"backend" yaml:"backend"`
	Dir        string `toml:"dir" yaml:"dir"`
	RedisURL   string `toml:"redis_url" yaml:"redis_url"`
	SQLitePath string `toml:"sqlite_path" yaml:"sqlite_path"`
	TTL        string `toml:"ttl" yaml:"ttl"`
}

// SolveConfig holds solver defaults.
type SolveConfig struct {
	// Workers above 1 enable parallel adjacency and pattern scans.
	Workers int `toml:"workers" yaml:"workers"`
	// Policy is "first" or "most".
	Policy string `toml:"policy" yaml:"policy"`
	// Pattern replaces the built-in monster when non-empty.
	Pattern []string `toml:"pattern" yaml:"pattern"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string `toml:"addr" yaml:"addr"`
	MaxBodyBytes int64  `toml:"max_body_bytes" yaml:"max_body_bytes"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     "24h",
		},
		Solve: SolveConfig{
			Workers: 1,
			Policy:  pattern.FirstMatch.String(),
		},
		Server: ServerConfig{
			Addr:         ":8080",
			MaxBodyBytes: 1 << 20,
		},
	}
}

// Load reads the file at path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"config %s: unsupported extension %q (use .toml, .yaml or .yml)", path, ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Discover returns the first existing default config path, or "".
func Discover() string {
	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "jigsaw"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "jigsaw"))
	}
	for _, dir := range dirs {
		for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	return ""
}

// LoadOrDefault loads path, or the discovered file when path is empty, or
// returns the defaults when neither exists.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		path = Discover()
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks every section.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "log.level")
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "log rotation settings must not be negative")
	}

	switch c.Cache.Backend {
	case BackendNone, BackendFile, BackendSQLite:
	case BackendRedis:
		if err := errors.ValidateRedisURL(c.Cache.RedisURL); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"cache.backend %q must be one of none, file, redis, sqlite", c.Cache.Backend)
	}
	if _, err := c.Cache.TTLDuration(); err != nil {
		return err
	}

	if c.Solve.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "solve.workers must not be negative")
	}
	if _, err := pattern.ParsePolicy(c.Solve.Policy); err != nil {
		return err
	}
	if _, err := c.Solve.PatternOrDefault(); err != nil {
		return err
	}

	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr is required")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_body_bytes must be positive")
	}
	return nil
}

// TTLDuration parses TTL. An empty TTL means entries never expire.
func (c CacheConfig) TTLDuration() (time.Duration, error) {
	if c.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil || d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "cache.ttl %q is not a valid duration", c.TTL)
	}
	return d, nil
}

// PatternOrDefault returns the configured pattern, or [pattern.Monster].
func (s SolveConfig) PatternOrDefault() (*pattern.Pattern, error) {
	if len(s.Pattern) == 0 {
		return pattern.Monster, nil
	}
	p, err := pattern.New(s.Pattern...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "solve.pattern")
	}
	return p, nil
}

// PolicyValue returns the parsed policy.
func (s SolveConfig) PolicyValue() pattern.Policy {
	p, _ := pattern.ParsePolicy(s.Policy)
	return p
}
