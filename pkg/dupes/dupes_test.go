package dupes

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	errs "github.com/matzehuels/twintree/pkg/errors"
	"github.com/matzehuels/twintree/pkg/tree"
)

// scenarioD builds 42(5(1,2), 3(-, 5(1,2))).
func scenarioD() *tree.Node[int] {
	return tree.New(42,
		tree.New(5, tree.Leaf(1), tree.Leaf(2)),
		tree.New(3, nil, tree.New(5, tree.Leaf(1), tree.Leaf(2))),
	)
}

func values(nodes []*tree.Node[int]) []int {
	out := make([]int, len(nodes))
	for i, n := range nodes {
		out[i] = n.Value
	}
	return out
}

func TestFindDuplicateSubtreesEmpty(t *testing.T) {
	got := FindDuplicateSubtrees[int](nil, tree.IntRepr)
	if got == nil || len(got) != 0 {
		t.Errorf("FindDuplicateSubtrees(nil) = %v, want empty non-nil slice", got)
	}
}

func TestFindDuplicateSubtreesNoDuplicates(t *testing.T) {
	tests := []struct {
		name string
		root *tree.Node[int]
	}{
		{"single leaf", tree.Leaf(42)},
		{"distinct leaves", tree.New(2, tree.Leaf(1), tree.Leaf(3))},
		{"chain", tree.New(1, tree.New(2, tree.New(3, nil, nil), nil), nil)},
		{"repeated value different shape", tree.New(1, tree.New(1, nil, nil), tree.New(1, tree.Leaf(0), nil))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindDuplicateSubtrees(tt.root, tree.IntRepr); len(got) != 0 {
				t.Errorf("FindDuplicateSubtrees() = %v, want none", values(got))
			}
		})
	}
}

func TestScenarioDuplicateLeaves(t *testing.T) {
	// 2(15, 15)
	root := tree.New(2, tree.Leaf(15), tree.Leaf(15))
	got := FindDuplicateSubtrees(root, tree.IntRepr)
	if len(got) != 1 || got[0].Value != 15 {
		t.Fatalf("FindDuplicateSubtrees() = %v, want [15]", values(got))
	}
	if got[0] != root.Right {
		t.Error("representative should be the second occurrence (right leaf)")
	}
}

func TestScenarioSharedFixtureChild(t *testing.T) {
	// the same leaf referenced from both positions
	leaf := tree.Leaf(15)
	root := tree.New(2, leaf, leaf)
	got := FindDuplicateSubtrees(root, tree.IntRepr)
	if len(got) != 1 || got[0] != leaf {
		t.Errorf("FindDuplicateSubtrees() = %v, want the shared leaf", values(got))
	}
}

func TestScenarioMirroredSubtrees(t *testing.T) {
	// 42(5(1, -), 5(-, 1))
	root := tree.New(42,
		tree.New(5, tree.Leaf(1), nil),
		tree.New(5, nil, tree.Leaf(1)),
	)
	got := FindDuplicateSubtrees(root, tree.IntRepr)
	if !slices.Equal(values(got), []int{1}) {
		t.Fatalf("FindDuplicateSubtrees() = %v, want [1]", values(got))
	}
	if got[0] != root.Right.Right {
		t.Error("representative should be the leaf under the right 5")
	}
}

func TestScenarioSerialize(t *testing.T) {
	root := tree.New(2, tree.Leaf(1), tree.Leaf(3))
	if got := SerializeSubtree(root, tree.IntRepr); got != "((1)2(3))" {
		t.Errorf("SerializeSubtree() = %q, want %q", got, "((1)2(3))")
	}
}

func TestScenarioThreeGroups(t *testing.T) {
	root := scenarioD()
	got := FindDuplicateSubtrees(root, tree.IntRepr)

	if !slices.Equal(values(got), []int{1, 2, 5}) {
		t.Fatalf("FindDuplicateSubtrees() = %v, want [1 2 5]", values(got))
	}
	second := root.Right.Right
	want := []*tree.Node[int]{second.Left, second.Right, second}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("group %d: representative is not the second occurrence", i)
		}
	}
}

func TestReportedOnceRegardlessOfCount(t *testing.T) {
	// four copies of leaf 7 and three copies of 3(7, -)
	sub := func() *tree.Node[int] { return tree.New(3, tree.Leaf(7), nil) }
	root := tree.New(0,
		tree.New(1, sub(), sub()),
		tree.New(2, sub(), tree.Leaf(7)),
	)

	r := Find(root, Strings(tree.IntRepr), Options{})
	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}
	counts := map[int]int{}
	for _, g := range r.Groups {
		counts[g.Representative.Value] = g.Count
	}
	if counts[7] != 4 {
		t.Errorf("leaf 7 Count = %d, want 4", counts[7])
	}
	if counts[3] != 3 {
		t.Errorf("subtree 3 Count = %d, want 3", counts[3])
	}
	if r.Subtrees != tree.Size(root) {
		t.Errorf("Subtrees = %d, want %d", r.Subtrees, tree.Size(root))
	}
}

func TestPositionSensitivity(t *testing.T) {
	a := tree.New(5, tree.Leaf(1), tree.Leaf(2))
	b := tree.New(5, tree.Leaf(1), tree.Leaf(2))
	root := tree.New(0, a, b)

	before := FindDuplicateSubtrees(root, tree.IntRepr)
	if !slices.Contains(values(before), 5) {
		t.Fatalf("identical subtrees not reported: %v", values(before))
	}

	swapped := tree.New(0, a, tree.Mirror(b))
	after := FindDuplicateSubtrees(swapped, tree.IntRepr)
	if slices.Contains(values(after), 5) {
		t.Errorf("swapped subtrees still reported as duplicates: %v", values(after))
	}
}

func TestDetectionOrder(t *testing.T) {
	// post-order: 8 8* 9 9* 4 ... leaves detected before the parents
	root := tree.New(1,
		tree.New(4, tree.Leaf(8), tree.Leaf(9)),
		tree.New(4, tree.Leaf(8), tree.Leaf(9)),
	)
	got := values(FindDuplicateSubtrees(root, tree.IntRepr))
	if !slices.Equal(got, []int{8, 9, 4}) {
		t.Errorf("detection order = %v, want [8 9 4]", got)
	}
}

func TestAbsentChildDistinguished(t *testing.T) {
	// a leaf must not be confused with absence
	root := tree.New("r",
		tree.New("x", tree.Leaf("-"), nil),
		tree.New("x", nil, nil),
	)
	for _, st := range []string{SchemeString, SchemeHash} {
		t.Run(st, func(t *testing.T) {
			res, err := Detect(context.Background(), root, tree.StringRepr, Strategy{Scheme: st}, Options{})
			if err != nil {
				t.Fatalf("Detect: %v", err)
			}
			if len(res.Duplicates) != 0 {
				t.Errorf("got %d duplicates, want 0", len(res.Duplicates))
			}
		})
	}
}

func TestEmptyReprKeepsChildPosition(t *testing.T) {
	// mirrored subtrees whose parent value renders as ""
	root := tree.New("root",
		tree.New("", tree.Leaf("x"), nil),
		tree.New("", nil, tree.Leaf("x")),
	)

	_, err := Detect(context.Background(), root, tree.StringRepr, Strategy{Scheme: SchemeString}, Options{})
	if !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Fatalf("string scheme error = %v, want %s", err, errs.ErrCodeInvalidInput)
	}

	tests := []struct {
		name string
		trav string
	}{
		{"iterative", TraversalIterative},
		{"recursive", TraversalRecursive},
		{"parallel", TraversalParallel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Detect(context.Background(), root, tree.StringRepr, Strategy{Scheme: SchemeHash, Traversal: tt.trav}, Options{Verify: true})
			if err != nil {
				t.Fatalf("Detect: %v", err)
			}
			if len(res.Duplicates) != 1 || res.Duplicates[0].Representative != root.Right.Right {
				t.Errorf("Detect() = %+v, want only the leaf x", res.Duplicates)
			}
		})
	}
}

func TestHashSchemeAcceptsDelimitersInValues(t *testing.T) {
	root := tree.New("(", tree.Leaf(")("), tree.Leaf(")("))
	res, err := Detect(context.Background(), root, tree.StringRepr, Strategy{Scheme: SchemeHash}, Options{})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(res.Duplicates) != 1 || res.Duplicates[0].Representative != root.Right {
		t.Errorf("Detect() = %+v, want the right leaf", res.Duplicates)
	}

	_, err = Detect(context.Background(), root, tree.StringRepr, Strategy{Scheme: SchemeString}, Options{})
	if !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("string scheme error = %v, want %s", err, errs.ErrCodeInvalidInput)
	}
}

func TestStringSchemeMatchesSerialize(t *testing.T) {
	root := scenarioD()
	if got, want := KeyOf(root, Strings(tree.IntRepr)), tree.Serialize(root, tree.IntRepr); got != want {
		t.Errorf("KeyOf() = %q, want %q", got, want)
	}
	if got := KeyOf[int](nil, Strings(tree.IntRepr)); got != "" {
		t.Errorf("KeyOf(nil) = %q, want empty", got)
	}
}

func TestHashSchemePositionSensitive(t *testing.T) {
	s := Hashes(tree.IntRepr)
	l := s.Combine(1, s.Absent(), s.Absent())
	r := s.Combine(2, s.Absent(), s.Absent())
	if s.Combine(5, l, r) == s.Combine(5, r, l) {
		t.Error("swapping children should change the hash")
	}
	if s.Combine(5, l, s.Absent()) == s.Combine(5, s.Absent(), l) {
		t.Error("left-only and right-only should hash differently")
	}
	if s.Combine(5, l, r) != s.Combine(5, l, r) {
		t.Error("Combine should be deterministic")
	}
}

// randomTree builds a tree over a tiny value alphabet so duplicates are common.
func randomTree(rng *rand.Rand, size int) *tree.Node[int] {
	if size == 0 {
		return nil
	}
	leftSize := rng.IntN(size)
	return tree.New(rng.IntN(3),
		randomTree(rng, leftSize),
		randomTree(rng, size-1-leftSize),
	)
}

func TestTraversalsAndSchemesAgree(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		root := randomTree(rng, 1+rng.IntN(200))
		want := Find(root, Strings(tree.IntRepr), Options{}).Nodes()

		checks := map[string][]*tree.Node[int]{
			"recursive": FindRecursive(root, Strings(tree.IntRepr), Options{}).Nodes(),
			"hash":      Find(root, Hashes(tree.IntRepr), Options{}).Nodes(),
			"verify":    Find(root, Hashes(tree.IntRepr), Options{Verify: true}).Nodes(),
		}
		par, err := FindParallel(ctx, root, Strings(tree.IntRepr), Options{SplitDepth: 2, Workers: 3})
		if err != nil {
			t.Fatalf("FindParallel: %v", err)
		}
		checks["parallel"] = par.Nodes()

		for name, got := range checks {
			if !slices.Equal(got, want) {
				t.Fatalf("tree %d: %s report %v differs from iterative %v", i, name, values(got), values(want))
			}
		}
	}
}

func TestFindParallelShallowTree(t *testing.T) {
	root := tree.New(2, tree.Leaf(15), tree.Leaf(15))
	r, err := FindParallel(context.Background(), root, Strings(tree.IntRepr), Options{SplitDepth: 8})
	if err != nil {
		t.Fatalf("FindParallel: %v", err)
	}
	if !slices.Equal(r.Nodes(), []*tree.Node[int]{root.Right}) {
		t.Errorf("FindParallel() = %v, want [15]", values(r.Nodes()))
	}
}

func TestFindParallelCancelled(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	root := randomTree(rng, 500)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FindParallel(ctx, root, Hashes(tree.IntRepr), Options{SplitDepth: 1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("FindParallel() error = %v, want context.Canceled", err)
	}
}

func TestFindDeepTree(t *testing.T) {
	// two long identical chains; iterative traversal must not recurse
	const depth = 200_000
	chain := func() *tree.Node[int] {
		var n *tree.Node[int]
		for i := 0; i < depth; i++ {
			n = tree.New(i%2, n, nil)
		}
		return n
	}
	root := tree.New(-1, chain(), chain())

	r := Find(root, Hashes(tree.IntRepr), Options{})
	if r.Len() != depth {
		t.Errorf("Len() = %d, want %d", r.Len(), depth)
	}
	if r.Groups[r.Len()-1].Representative != root.Right {
		t.Error("last group should be the whole right chain")
	}
}

// constScheme maps every subtree to the same key to force collisions.
type constScheme struct{}

func (constScheme) Absent() int               { return 0 }
func (constScheme) Combine(int, int, int) int { return 1 }

func TestVerifySeparatesCollisions(t *testing.T) {
	root := scenarioD()
	var s Scheme[int, int] = constScheme{}

	merged := Find(root, s, Options{})
	if merged.Len() != 1 {
		t.Errorf("without Verify: Len() = %d, want 1 (everything collides)", merged.Len())
	}

	verified := Find(root, s, Options{Verify: true})
	if got := values(verified.Nodes()); !slices.Equal(got, []int{1, 2, 5}) {
		t.Errorf("with Verify: %v, want [1 2 5]", got)
	}
	if verified.Distinct != 5 {
		t.Errorf("Distinct = %d, want 5", verified.Distinct)
	}
}

func TestDetectStrategies(t *testing.T) {
	ctx := context.Background()
	root := scenarioD()

	for _, scheme := range []string{"", SchemeString, "HASH"} {
		for _, trav := range []string{"", TraversalIterative, TraversalRecursive, TraversalParallel} {
			t.Run(scheme+"/"+trav, func(t *testing.T) {
				res, err := Detect(ctx, root, tree.IntRepr, Strategy{Scheme: scheme, Traversal: trav}, Options{SplitDepth: 1})
				if err != nil {
					t.Fatalf("Detect: %v", err)
				}
				if got := values(res.Nodes()); !slices.Equal(got, []int{1, 2, 5}) {
					t.Errorf("Detect() = %v, want [1 2 5]", got)
				}
				if res.Subtrees != 8 {
					t.Errorf("Subtrees = %d, want 8", res.Subtrees)
				}
			})
		}
	}
}

func TestDetectStringKeys(t *testing.T) {
	res, err := Detect(context.Background(), scenarioD(), tree.IntRepr, Strategy{}, Options{})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	want := []string{"(1)", "(2)", "((1)5(2))"}
	for i, d := range res.Duplicates {
		if d.Key != want[i] {
			t.Errorf("Duplicates[%d].Key = %q, want %q", i, d.Key, want[i])
		}
	}

	res, _ = Detect(context.Background(), scenarioD(), tree.IntRepr, Strategy{Scheme: SchemeHash}, Options{})
	for i, d := range res.Duplicates {
		if len(d.Key) != 16 {
			t.Errorf("hash key %d = %q, want 16 hex digits", i, d.Key)
		}
	}
}

func TestDetectRejectsUnknownStrategy(t *testing.T) {
	ctx := context.Background()
	root := tree.Leaf(1)

	if _, err := Detect(ctx, root, tree.IntRepr, Strategy{Scheme: "md5"}, Options{}); !errs.Is(err, errs.ErrCodeInvalidScheme) {
		t.Errorf("unknown scheme error = %v", err)
	}
	if _, err := Detect(ctx, root, tree.IntRepr, Strategy{Traversal: "bfs"}, Options{}); !errs.Is(err, errs.ErrCodeInvalidTraversal) {
		t.Errorf("unknown traversal error = %v", err)
	}
}
