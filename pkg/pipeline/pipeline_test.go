package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/twintree/pkg/cache"
	errs "github.com/matzehuels/twintree/pkg/errors"
	"github.com/matzehuels/twintree/pkg/observability"
	"github.com/matzehuels/twintree/pkg/tree"
)

func scenarioD() *tree.Node[int] {
	return tree.New(42,
		tree.New(5, tree.Leaf(1), tree.Leaf(2)),
		tree.New(3, nil, tree.New(5, tree.Leaf(1), tree.Leaf(2))),
	)
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(fc, nil, nil)
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero Options should be valid: %v", err)
	}
	if opts.Scheme != DefaultScheme {
		t.Errorf("Scheme = %q, want %q", opts.Scheme, DefaultScheme)
	}
	if opts.Traversal != DefaultTraversal {
		t.Errorf("Traversal = %q, want %q", opts.Traversal, DefaultTraversal)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errs.Code
	}{
		{"upper case", Options{Scheme: "HASH", Traversal: "Parallel"}, ""},
		{"bad scheme", Options{Scheme: "md5"}, errs.ErrCodeInvalidScheme},
		{"bad traversal", Options{Traversal: "bfs"}, errs.ErrCodeInvalidTraversal},
		{"negative workers", Options{Workers: -1}, errs.ErrCodeInvalidInput},
		{"negative split", Options{SplitDepth: -2}, errs.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRenderOptionsDefaults(t *testing.T) {
	opts := RenderOptions{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Format != DefaultFormat {
		t.Errorf("Format = %q, want %q", opts.Format, DefaultFormat)
	}

	bad := RenderOptions{Format: "gif"}
	if err := bad.ValidateAndSetDefaults(); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("gif: error = %v, want %s", err, errs.ErrCodeInvalidFormat)
	}
}

func TestAnalyze(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	res, err := r.Analyze(ctx, scenarioD(), Options{})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.CacheHit {
		t.Error("first run should miss the cache")
	}
	if res.Report == nil {
		t.Fatal("Report should be set on a computed result")
	}

	want := []GroupSummary{
		{Key: "(1)", Count: 2, Value: 1, Size: 1, Height: 1, Subtree: "(1)"},
		{Key: "(2)", Count: 2, Value: 2, Size: 1, Height: 1, Subtree: "(2)"},
		{Key: "((1)5(2))", Count: 2, Value: 5, Size: 3, Height: 2, Subtree: "((1)5(2))"},
	}
	if diff := cmp.Diff(want, res.Summary.Groups); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
	if res.Summary.Nodes != 8 || res.Stats.Nodes != 8 {
		t.Errorf("Nodes = %d / %d, want 8", res.Summary.Nodes, res.Stats.Nodes)
	}
	if res.Summary.Height != 4 {
		t.Errorf("Height = %d, want 4", res.Summary.Height)
	}
}

func TestAnalyzeCache(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	first, err := r.Analyze(ctx, scenarioD(), Options{Traversal: "iterative"})
	if err != nil {
		t.Fatal(err)
	}

	// Traversal is not part of the cache key.
	second, err := r.Analyze(ctx, scenarioD(), Options{Traversal: "parallel"})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Error("second run should hit the cache")
	}
	if second.Report != nil {
		t.Error("Report should be nil on a cache hit")
	}
	if diff := cmp.Diff(first.Summary, second.Summary); diff != "" {
		t.Errorf("cached summary differs (-computed +cached):\n%s", diff)
	}

	refreshed, err := r.Analyze(ctx, scenarioD(), Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheHit {
		t.Error("Refresh should skip the cache")
	}

	hashed, err := r.Analyze(ctx, scenarioD(), Options{Scheme: "hash"})
	if err != nil {
		t.Fatal(err)
	}
	if hashed.CacheHit {
		t.Error("a different scheme should miss the cache")
	}
	if got := hashed.Summary.Groups[0].Key; len(got) != 16 {
		t.Errorf("hash key = %q, want 16 hex digits", got)
	}

	other, err := r.Analyze(ctx, tree.Mirror(scenarioD()), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if other.CacheHit {
		t.Error("a different tree should miss the cache")
	}
}

func TestAnalyzeTraversalsAgree(t *testing.T) {
	ctx := context.Background()
	root := scenarioD()
	var base *Summary
	for _, traversal := range []string{"iterative", "recursive", "parallel"} {
		r := NewRunner(nil, nil, nil)
		res, err := r.Analyze(ctx, root, Options{Traversal: traversal, SplitDepth: 1})
		if err != nil {
			t.Fatalf("%s: %v", traversal, err)
		}
		if base == nil {
			base = res.Summary
			continue
		}
		if diff := cmp.Diff(base, res.Summary); diff != "" {
			t.Errorf("%s summary differs (-iterative +%s):\n%s", traversal, traversal, diff)
		}
	}
}

func TestAnalyzeRejectsInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Analyze(context.Background(), scenarioD(), Options{Scheme: "sha1"})
	if !errs.Is(err, errs.ErrCodeInvalidScheme) {
		t.Errorf("error = %v, want %s", err, errs.ErrCodeInvalidScheme)
	}
}

func TestAnalyzeEmptyTree(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Analyze(context.Background(), nil, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Summary.Groups == nil || len(res.Summary.Groups) != 0 {
		t.Errorf("Groups = %#v, want empty non-nil", res.Summary.Groups)
	}
}

func TestSummarizePreviewCap(t *testing.T) {
	chain := func() *tree.Node[int] {
		var n *tree.Node[int]
		for i := 0; i < PreviewNodes+10; i++ {
			n = tree.New(i, n, nil)
		}
		return n
	}
	root := tree.New(-1, chain(), chain())

	r := NewRunner(nil, nil, nil)
	res, err := r.Analyze(context.Background(), root, Options{Scheme: "hash"})
	if err != nil {
		t.Fatal(err)
	}
	last := res.Summary.Groups[len(res.Summary.Groups)-1]
	if last.Size != PreviewNodes+10 {
		t.Fatalf("largest group size = %d, want %d", last.Size, PreviewNodes+10)
	}
	if last.Subtree != "" {
		t.Error("subtrees above PreviewNodes should not be serialized")
	}
	if first := res.Summary.Groups[0]; first.Subtree != "(0)" {
		t.Errorf("smallest group Subtree = %q, want (0)", first.Subtree)
	}
}

type recordingHooks struct {
	observability.NoopAnalysisHooks
	started, completed, rendered, groups int
}

func (h *recordingHooks) OnAnalyzeStart(context.Context, string, string, int) { h.started++ }
func (h *recordingHooks) OnAnalyzeComplete(_ context.Context, _, _ string, groups int, _ time.Duration, _ error) {
	h.completed++
	h.groups = groups
}
func (h *recordingHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {
	h.rendered++
}

func TestAnalyzeHooks(t *testing.T) {
	observability.Reset()
	t.Cleanup(observability.Reset)
	hooks := &recordingHooks{}
	observability.SetAnalysisHooks(hooks)

	r := newTestRunner(t)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := r.Analyze(ctx, scenarioD(), Options{}); err != nil {
			t.Fatal(err)
		}
	}
	if hooks.started != 1 || hooks.completed != 1 {
		t.Errorf("hooks fired %d/%d times, want once (second run is cached)", hooks.started, hooks.completed)
	}
	if hooks.groups != 3 {
		t.Errorf("groups = %d, want 3", hooks.groups)
	}
}

func TestRender(t *testing.T) {
	observability.Reset()
	t.Cleanup(observability.Reset)
	hooks := &recordingHooks{}
	observability.SetAnalysisHooks(hooks)

	r := newTestRunner(t)
	ctx := context.Background()

	dot, hit, err := r.Render(ctx, scenarioD(), RenderOptions{Format: "dot", Highlight: true})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if hit {
		t.Error("first render should miss the cache")
	}
	if !strings.HasPrefix(string(dot), "digraph T {") {
		t.Errorf("unexpected DOT: %.60s", dot)
	}

	again, hit, err := r.Render(ctx, scenarioD(), RenderOptions{Format: "DOT", Highlight: true})
	if err != nil {
		t.Fatal(err)
	}
	if !hit || string(again) != string(dot) {
		t.Error("second render should come from the cache")
	}
	if hooks.rendered != 1 {
		t.Errorf("render hooks fired %d times, want 1", hooks.rendered)
	}

	plain, _, err := r.Render(ctx, scenarioD(), RenderOptions{Format: "dot"})
	if err != nil {
		t.Fatal(err)
	}
	if string(plain) == string(dot) {
		t.Error("highlight should change the diagram")
	}
}

func TestSummaryIgnoresRuntimeFields(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Analyze(context.Background(), scenarioD(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := &Summary{Scheme: "string", Nodes: 8, Height: 4, Subtrees: 8, Distinct: 5}
	if diff := cmp.Diff(want, res.Summary, cmpopts.IgnoreFields(Summary{}, "TreeHash", "Groups")); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}
