package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/twintree/pkg/cache"
	"github.com/matzehuels/twintree/pkg/pipeline"
	"github.com/matzehuels/twintree/pkg/server"
)

// apiKeyPrefix separates API cache entries from CLI ones in a shared cache.
const apiKeyPrefix = "api:"

// serveCommand runs the HTTP API until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags detectFlags
		addr  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the duplicate detection HTTP API",
		Long: `Serve the duplicate detection HTTP API.

Endpoints:
  GET  /healthz
  POST /v1/duplicates   {"tree": ..., "options": {"scheme": "hash"}}
  POST /v1/key          {"tree": ..., "scheme": "string"}
  POST /v1/render       {"tree": ..., "format": "svg", "highlight": true}

Detection flags set the defaults for requests that leave options empty.
The cache backend comes from the configuration; use redis to share reports
between replicas.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}
			defaults := flags.apply(cmd, c.detectDefaults())
			if err := defaults.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runServe(cmd.Context(), addr, defaults)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, defaults pipeline.Options) error {
	store, err := c.newCache(ctx, false)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	runner := pipeline.NewRunner(store, cache.NewScopedKeyer(nil, apiKeyPrefix), c.Logger)
	defer runner.Close()

	srv := server.New(runner, c.Logger, server.Config{
		Defaults:     requestDefaults(defaults),
		MaxBodyBytes: c.Config.Server.MaxBodyBytes,
		ReadTimeout:  c.Config.Server.ReadTimeout.Duration,
		WriteTimeout: c.Config.Server.WriteTimeout.Duration,
	})
	c.Logger.Info("starting API", "addr", addr, "cache", c.Config.Cache.Backend, "scheme", defaults.Scheme)
	return srv.ListenAndServe(ctx, addr)
}

// requestDefaults strips runtime fields so each request validates afresh.
func requestDefaults(o pipeline.Options) pipeline.Options {
	return pipeline.Options{
		Scheme:     o.Scheme,
		Traversal:  o.Traversal,
		Verify:     o.Verify,
		Workers:    o.Workers,
		SplitDepth: o.SplitDepth,
	}
}
