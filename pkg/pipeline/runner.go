package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/twintree/pkg/cache"
	"github.com/matzehuels/twintree/pkg/dupes"
	"github.com/matzehuels/twintree/pkg/observability"
	"github.com/matzehuels/twintree/pkg/render"
	"github.com/matzehuels/twintree/pkg/tree"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different trees.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// A nil keyer means [cache.DefaultKeyer]; a nil cache disables caching.
// The cache is wrapped with [cache.Instrument].
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  cache.Instrument(c),
		Keyer:  keyer,
		Logger: logger,
	}
}

// Analyze finds the duplicate subtrees of root, using the cache when a
// summary for the same tree and options exists.
func (r *Runner) Analyze(ctx context.Context, root *tree.Node[int], opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	treeHash := cache.TreeHash(root, tree.IntRepr)
	key := r.Keyer.ReportKey(treeHash, opts.ReportKeyOpts())

	if !opts.Refresh {
		if s, ok := r.cachedSummary(ctx, key); ok {
			r.Logger.Debug("summary from cache", "tree", treeHash, "groups", len(s.Groups))
			return &Result{
				Summary:  s,
				Stats:    Stats{Nodes: s.Nodes, Height: s.Height, Duration: time.Since(start)},
				CacheHit: true,
			}, nil
		}
	}

	nodes, height := tree.Size(root), tree.Height(root)
	hooks := observability.Analysis()
	hooks.OnAnalyzeStart(ctx, opts.Scheme, opts.Traversal, nodes)

	report, err := dupes.Detect(ctx, root, tree.IntRepr, opts.Strategy(), opts.DetectOptions())
	elapsed := time.Since(start)
	if err != nil {
		hooks.OnAnalyzeComplete(ctx, opts.Scheme, opts.Traversal, 0, elapsed, err)
		return nil, err
	}
	hooks.OnAnalyzeComplete(ctx, opts.Scheme, opts.Traversal, len(report.Duplicates), elapsed, nil)

	summary := Summarize(report, opts.Scheme, treeHash, nodes, height)
	r.Logger.Info("detected duplicates",
		"groups", len(summary.Groups),
		"nodes", nodes,
		"scheme", opts.Scheme,
		"traversal", opts.Traversal,
		"duration", elapsed)

	if data, err := json.Marshal(summary); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLReport); err != nil {
			r.Logger.Warn("cache write failed", "error", err)
		}
	}

	return &Result{
		Summary: summary,
		Report:  report,
		Stats:   Stats{Nodes: nodes, Height: height, Duration: elapsed},
	}, nil
}

// Summarize converts a detection result into its cacheable form.
func Summarize(report *dupes.Result[int], scheme, treeHash string, nodes, height int) *Summary {
	s := &Summary{
		TreeHash: treeHash,
		Scheme:   scheme,
		Nodes:    nodes,
		Height:   height,
		Subtrees: report.Subtrees,
		Distinct: report.Distinct,
		Groups:   make([]GroupSummary, len(report.Duplicates)),
	}
	for i, d := range report.Duplicates {
		g := GroupSummary{
			Key:    d.Key,
			Count:  d.Count,
			Value:  d.Representative.Value,
			Size:   tree.Size(d.Representative),
			Height: tree.Height(d.Representative),
		}
		if g.Size <= PreviewNodes {
			g.Subtree = tree.Serialize(d.Representative, tree.IntRepr)
		}
		s.Groups[i] = g
	}
	return s
}

func (r *Runner) cachedSummary(ctx context.Context, key string) (*Summary, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "error", err)
		return nil, false
	}
	if !hit {
		return nil, false
	}
	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		r.Logger.Debug("discarding unreadable summary", "error", err)
		return nil, false
	}
	return &s, true
}

// Render draws root as a diagram, using the cache when the same tree was
// rendered with the same options before. The bool reports a cache hit.
func (r *Runner) Render(ctx context.Context, root *tree.Node[int], opts RenderOptions) ([]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	treeHash := cache.TreeHash(root, tree.IntRepr)
	key := r.Keyer.ArtifactKey(treeHash, opts.ArtifactKeyOpts())
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		return data, true, nil
	} else if err != nil {
		r.Logger.Warn("cache read failed", "error", err)
	}

	hooks := observability.Analysis()
	nodes := tree.Size(root)
	hooks.OnRenderStart(ctx, opts.Format, nodes)
	start := time.Now()

	dot := render.ToDOT(root, tree.IntRepr, render.Options{
		Highlight: opts.Highlight || opts.Detailed,
		Detailed:  opts.Detailed,
	})
	data, err := render.Render(ctx, dot, opts.Format)
	hooks.OnRenderComplete(ctx, opts.Format, len(data), time.Since(start), err)
	if err != nil {
		return nil, false, fmt.Errorf("render %s: %w", opts.Format, err)
	}

	r.Logger.Debug("rendered diagram", "format", opts.Format, "nodes", nodes, "bytes", len(data))
	if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
	}
	return data, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
