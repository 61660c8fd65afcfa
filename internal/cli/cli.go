// Package cli implements the twintree command-line interface.
//
// # Commands
//
//   - find: report the duplicate subtrees of a tree file
//   - key: print the canonical key of a whole tree
//   - render: draw a tree as SVG or DOT, optionally highlighting duplicates
//   - serve: run the HTTP API
//   - cache: inspect or clear the local report cache
//   - completion: generate shell completion scripts
//
// Tree files hold either a level-order list such as [2,15,15] or nested
// JSON objects with value, left and right fields.
//
// # Configuration
//
// Defaults come from the TOML file given by --config (or the default path),
// a .env file and TWINTREE_* environment variables, in increasing order of
// precedence. Command flags override all of them.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/twintree/pkg/buildinfo"
	"github.com/matzehuels/twintree/pkg/cache"
	"github.com/matzehuels/twintree/pkg/config"
	"github.com/matzehuels/twintree/pkg/observability"
	"github.com/matzehuels/twintree/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "twintree"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any subcommand runs.
	Config config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               appName,
		Short:             "Twintree finds duplicate subtrees in binary trees",
		Long:              `Twintree finds every subtree that occurs more than once in a binary tree, comparing subtrees by structure and values.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/twintree/config.toml)")

	root.AddCommand(c.findCommand())
	root.AddCommand(c.keyCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads configuration, fixes the log level and registers logging
// hooks. --verbose wins over the configured level.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	level := cfg.LogLevel()
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)

	hooks := &logHooks{logger: c.Logger}
	observability.SetAnalysisHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)

	cmd.SetContext(withLogger(contextOf(cmd), c.Logger))
	return nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

// newCache builds the configured backend. An unusable file cache directory
// degrades to no caching; redis failures are errors.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		r := c.Config.Cache.Redis
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     r.Addr,
			Username: r.Username,
			Password: r.Password,
			DB:       r.DB,
			Prefix:   r.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("file cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// cacheDir returns the configured file cache directory, falling back to
// the XDG location (~/.cache/twintree/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return config.DefaultCacheDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// detectDefaults returns pipeline options seeded from the configuration.
func (c *CLI) detectDefaults() pipeline.Options {
	d := c.Config.Detect
	return pipeline.Options{
		Scheme:     d.Scheme,
		Traversal:  d.Traversal,
		Verify:     d.Verify,
		Workers:    d.Workers,
		SplitDepth: d.SplitDepth,
	}
}
