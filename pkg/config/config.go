// Package config loads twintree settings from a TOML file, a .env file and
// TWINTREE_* environment variables.
//
// Precedence, lowest first: built-in defaults, the TOML file, the .env
// file, the process environment. Command-line flags are applied by the
// caller on top of the loaded Config.
//
// Example config.toml:
//
//	[detect]
//	scheme = "hash"
//	traversal = "parallel"
//	workers = 8
//
//	[cache]
//	backend = "redis"
//
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//	read_timeout = "10s"
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/twintree/pkg/errors"
)

const appName = "twintree"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the full application configuration.
type Config struct {
	Detect DetectConfig `toml:"detect"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

// DetectConfig holds the default detection strategy.
type DetectConfig struct {
	Scheme     string `toml:"scheme"`
	Traversal  string `toml:"traversal"`
	Verify     bool   `toml:"verify"`
	Workers    int    `toml:"workers"`
	SplitDepth int    `toml:"split_depth"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `toml:"max_body_bytes"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration that reads "10s" style strings from TOML.
type Duration struct{ time.Duration }

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Detect: DetectConfig{
			Scheme:    "string",
			Traversal: "iterative",
		},
		Cache: CacheConfig{
			Backend: CacheFile,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: appName + ":",
			},
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration{15 * time.Second},
			WriteTimeout: Duration{60 * time.Second},
			MaxBodyBytes: 32 << 20,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Validate checks option names and required fields.
func (c *Config) Validate() error {
	if err := errs.ValidateScheme(c.Detect.Scheme); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "detect.scheme")
	}
	if err := errs.ValidateTraversal(c.Detect.Traversal); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "detect.traversal")
	}
	if c.Detect.Workers < 0 || c.Detect.SplitDepth < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "detect.workers and detect.split_depth must not be negative")
	}
	if !slices.Contains([]string{CacheFile, CacheRedis, CacheNone}, c.Cache.Backend) {
		return errs.New(errs.ErrCodeInvalidConfig, "unknown cache.backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheRedis && c.Cache.Redis.Addr == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "cache.redis.addr is required for the redis backend")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "server.max_body_bytes must be positive")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "log.level")
	}
	return nil
}

// LogLevel returns the parsed log level, or info if it does not parse.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// DefaultPath returns the config file location using the XDG standard
// (~/.config/twintree/config.toml).
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// DefaultCacheDir returns the cache directory using the XDG standard
// (~/.cache/twintree/).
func DefaultCacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

func normalize(c *Config) {
	c.Detect.Scheme = strings.ToLower(c.Detect.Scheme)
	c.Detect.Traversal = strings.ToLower(c.Detect.Traversal)
	c.Cache.Backend = strings.ToLower(c.Cache.Backend)
	c.Log.Level = strings.ToLower(c.Log.Level)
}

// decodeFile overlays the TOML file at path onto c. Keys the Config does
// not know are rejected so typos surface.
func decodeFile(path string, c *Config) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errs.New(errs.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}
