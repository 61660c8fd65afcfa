// Package pipeline runs duplicate detection and rendering with caching, so
// the CLI and the HTTP server share one code path.
//
// # Architecture
//
// The pipeline has two independent stages over an int tree:
//
//  1. Analyze: fingerprint the tree, look up a cached [Summary], otherwise
//     run the configured scheme and traversal and cache the summary
//  2. Render: build the Graphviz diagram and cache the rendered artifact
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Analyze(ctx, root, pipeline.Options{
//	    Scheme:    "hash",
//	    Traversal: "parallel",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, g := range result.Summary.Groups {
//	    fmt.Println(g.Key, g.Count)
//	}
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/twintree/pkg/cache"
	"github.com/matzehuels/twintree/pkg/dupes"
	errs "github.com/matzehuels/twintree/pkg/errors"
	"github.com/matzehuels/twintree/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultScheme is the key scheme used when none is given.
	DefaultScheme = dupes.SchemeString

	// DefaultTraversal is the traversal used when none is given.
	DefaultTraversal = dupes.TraversalIterative

	// DefaultFormat is the render format used when none is given.
	DefaultFormat = render.FormatSVG

	// PreviewNodes caps the size of subtrees whose serialization is stored
	// in a [GroupSummary]. Larger groups keep an empty Subtree.
	PreviewNodes = 256
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures [Runner.Analyze]. It doubles as the JSON request body
// of the HTTP API.
type Options struct {
	Scheme     string `json:"scheme,omitempty"`
	Traversal  string `json:"traversal,omitempty"`
	Verify     bool   `json:"verify,omitempty"`
	Workers    int    `json:"workers,omitempty"`
	SplitDepth int    `json:"split_depth,omitempty"`

	// Refresh skips the cache lookup but still stores the new summary.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults normalizes names, applies defaults and rejects
// unknown schemes or traversals. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	st := o.Strategy().Normalize()
	if err := st.Validate(); err != nil {
		return err
	}
	o.Scheme, o.Traversal = st.Scheme, st.Traversal
	if o.Workers < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "workers must not be negative (got %d)", o.Workers)
	}
	if o.SplitDepth < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "split depth must not be negative (got %d)", o.SplitDepth)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Strategy returns the scheme and traversal as a [dupes.Strategy].
func (o *Options) Strategy() dupes.Strategy {
	return dupes.Strategy{Scheme: o.Scheme, Traversal: o.Traversal}
}

// DetectOptions returns the options passed to the detector.
func (o *Options) DetectOptions() dupes.Options {
	return dupes.Options{
		Verify:     o.Verify,
		Logger:     o.Logger,
		Workers:    o.Workers,
		SplitDepth: o.SplitDepth,
	}
}

// ReportKeyOpts returns cache key options for the summary.
func (o *Options) ReportKeyOpts() cache.ReportKeyOpts {
	return cache.ReportKeyOpts{
		Scheme: o.Scheme,
		Verify: o.Verify,
	}
}

// RenderOptions configures [Runner.Render].
type RenderOptions struct {
	Format    string `json:"format,omitempty"`
	Highlight bool   `json:"highlight,omitempty"`
	Detailed  bool   `json:"detailed,omitempty"`
}

// ValidateAndSetDefaults applies the default format and rejects unknown ones.
func (o *RenderOptions) ValidateAndSetDefaults() error {
	o.Format = strings.ToLower(o.Format)
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	return errs.ValidateFormat(o.Format)
}

// ArtifactKeyOpts returns cache key options for the rendered diagram.
func (o *RenderOptions) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    o.Format,
		Highlight: o.Highlight || o.Detailed,
		Detailed:  o.Detailed,
	}
}

// =============================================================================
// Results
// =============================================================================

// Summary is the cacheable outcome of one analysis.
type Summary struct {
	TreeHash string         `json:"tree_hash"`
	Scheme   string         `json:"scheme"`
	Nodes    int            `json:"nodes"`
	Height   int            `json:"height"`
	Subtrees int            `json:"subtrees"`
	Distinct int            `json:"distinct"`
	Groups   []GroupSummary `json:"groups"`
}

// GroupSummary describes one duplicate group.
type GroupSummary struct {
	// Key is the canonical key: the serialization under the string scheme,
	// 16 hex digits under the hash scheme.
	Key string `json:"key"`
	// Count is the number of occurrences in the tree.
	Count int `json:"count"`
	// Value is the representative's root value.
	Value int `json:"value"`
	// Size and Height describe the duplicated subtree.
	Size   int `json:"size"`
	Height int `json:"height"`
	// Subtree is the representative's serialization, or empty when the
	// subtree has more than PreviewNodes nodes.
	Subtree string `json:"subtree,omitempty"`
}

// Result contains the outputs of [Runner.Analyze].
type Result struct {
	// Summary is always set.
	Summary *Summary

	// Report holds the live representatives. It is nil when the summary
	// came from the cache.
	Report *dupes.Result[int]

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether Summary came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Nodes    int
	Height   int
	Duration time.Duration
}
