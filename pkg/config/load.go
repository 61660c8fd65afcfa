package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	errs "github.com/matzehuels/twintree/pkg/errors"
)

// Loader describes where configuration comes from. The zero value reads
// the default config path, ./.env and the process environment.
type Loader struct {
	// Path is the TOML file. When empty, DefaultPath is used if it exists.
	// An explicit Path that does not exist is an error.
	Path string

	// EnvFile is the dotenv file. Empty means ".env"; a missing file is
	// ignored.
	EnvFile string

	// Getenv overrides os.LookupEnv, for tests.
	Getenv func(key string) (string, bool)
}

// Load reads configuration with the default [Loader].
func Load(path string) (Config, error) {
	return Loader{Path: path}.Load()
}

// Load builds a Config: defaults, then the TOML file, then environment.
func (l Loader) Load() (Config, error) {
	cfg := Default()

	path, explicit := l.Path, l.Path != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := decodeFile(path, &cfg); err != nil {
				return cfg, err
			}
		} else if explicit {
			return cfg, errs.Wrap(errs.ErrCodeFileNotFound, err, "config file %s", path)
		}
	}

	env, err := l.environment()
	if err != nil {
		return cfg, err
	}
	if err := applyEnv(&cfg, env); err != nil {
		return cfg, err
	}

	normalize(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// environment merges the dotenv file under the process environment.
func (l Loader) environment() (func(string) (string, bool), error) {
	file := l.EnvFile
	if file == "" {
		file = ".env"
	}
	dotenv := map[string]string{}
	if _, err := os.Stat(file); err == nil {
		m, err := godotenv.Read(file)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read %s", file)
		}
		dotenv = m
	}

	getenv := l.Getenv
	if getenv == nil {
		getenv = os.LookupEnv
	}
	return func(key string) (string, bool) {
		if v, ok := getenv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}, nil
}

// Environment variables read by Load.
const (
	EnvScheme        = "TWINTREE_SCHEME"
	EnvTraversal     = "TWINTREE_TRAVERSAL"
	EnvVerify        = "TWINTREE_VERIFY"
	EnvWorkers       = "TWINTREE_WORKERS"
	EnvCache         = "TWINTREE_CACHE"
	EnvCacheDir      = "TWINTREE_CACHE_DIR"
	EnvRedisAddr     = "TWINTREE_REDIS_ADDR"
	EnvRedisPassword = "TWINTREE_REDIS_PASSWORD"
	EnvRedisDB       = "TWINTREE_REDIS_DB"
	EnvAddr          = "TWINTREE_ADDR"
	EnvLogLevel      = "TWINTREE_LOG_LEVEL"
)

func applyEnv(cfg *Config, getenv func(string) (string, bool)) error {
	strs := map[string]*string{
		EnvScheme:        &cfg.Detect.Scheme,
		EnvTraversal:     &cfg.Detect.Traversal,
		EnvCache:         &cfg.Cache.Backend,
		EnvCacheDir:      &cfg.Cache.Dir,
		EnvRedisAddr:     &cfg.Cache.Redis.Addr,
		EnvRedisPassword: &cfg.Cache.Redis.Password,
		EnvAddr:          &cfg.Server.Addr,
		EnvLogLevel:      &cfg.Log.Level,
	}
	for key, dst := range strs {
		if v, ok := getenv(key); ok && v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		EnvWorkers: &cfg.Detect.Workers,
		EnvRedisDB: &cfg.Cache.Redis.DB,
	}
	for key, dst := range ints {
		v, ok := getenv(key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "%s", key)
		}
		*dst = n
	}

	if v, ok := getenv(EnvVerify); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "%s", EnvVerify)
		}
		cfg.Detect.Verify = b
	}
	return nil
}
