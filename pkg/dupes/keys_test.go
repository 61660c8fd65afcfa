package dupes

import (
	"testing"

	"github.com/matzehuels/twintree/pkg/tree"
)

func TestKeysMatchSerialize(t *testing.T) {
	root := tree.New(1, tree.New(2, tree.Leaf(4), nil), tree.New(3, tree.New(2, tree.Leaf(4), nil), tree.Leaf(4)))
	keys := Keys(root, Strings(tree.IntRepr))
	for n, k := range keys {
		if want := tree.Serialize(n, tree.IntRepr); k != want {
			t.Errorf("Keys()[%v] = %q, want %q", n.Value, k, want)
		}
	}
	if len(keys) != tree.Size(root) {
		t.Errorf("len(Keys()) = %d, want %d", len(keys), tree.Size(root))
	}
}

func TestKeysSharedNode(t *testing.T) {
	shared := tree.Leaf(7)
	root := tree.New(1, shared, shared)
	if got := len(Keys(root, Hashes(tree.IntRepr))); got != 2 {
		t.Errorf("len(Keys()) = %d, want 2 (shared child counted once)", got)
	}
	if got := len(Keys[int](nil, Hashes(tree.IntRepr))); got != 0 {
		t.Errorf("len(Keys(nil)) = %d, want 0", got)
	}
}

func TestMembers(t *testing.T) {
	// Scenario C: 2 -> 4 / (3 -> 4) repeated.
	a := tree.New(2, tree.Leaf(4), nil)
	b := tree.New(2, tree.Leaf(4), nil)
	root := tree.New(1, a, tree.New(3, b, tree.Leaf(4)))

	s := Hashes(tree.IntRepr)
	r := Find(root, s, Options{})
	members := Members(root, s, r)

	if len(members) != 2 {
		t.Fatalf("len(Members()) = %d, want 2", len(members))
	}
	// Group 0 is the leaf 4 (three copies), group 1 is 2 -> 4 (two copies).
	if len(members[0]) != 3 {
		t.Errorf("group 0 has %d members, want 3", len(members[0]))
	}
	if len(members[1]) != 2 || members[1][0] != a || members[1][1] != b {
		t.Errorf("group 1 members = %v, want [a b]", members[1])
	}
	for i, g := range r.Groups {
		if len(members[i]) != g.Count {
			t.Errorf("group %d: %d members, Count %d", i, len(members[i]), g.Count)
		}
	}
}
