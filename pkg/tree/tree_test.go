package tree

import (
	"slices"
	"testing"

	errs "github.com/matzehuels/twintree/pkg/errors"
)

func TestSerialize(t *testing.T) {
	tests := []struct {
		name string
		root *Node[int]
		want string
	}{
		{"nil", nil, ""},
		{"leaf", Leaf(7), "(7)"},
		{"both children", New(2, Leaf(1), Leaf(3)), "((1)2(3))"},
		{"left only", New(5, Leaf(1), nil), "((1)5)"},
		{"right only", New(5, nil, Leaf(1)), "(5(1))"},
		{"negative values", New(-1, Leaf(-2), nil), "((-2)-1)"},
		{
			"nested",
			New(42, New(5, Leaf(1), Leaf(2)), New(3, nil, New(5, Leaf(1), Leaf(2)))),
			"(((1)5(2))42(3((1)5(2))))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Serialize(tt.root, IntRepr); got != tt.want {
				t.Errorf("Serialize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSerializeDistinguishesPosition(t *testing.T) {
	left := New(5, Leaf(1), nil)
	right := New(5, nil, Leaf(1))
	if Serialize(left, IntRepr) == Serialize(right, IntRepr) {
		t.Errorf("left-only and right-only subtrees serialize equally: %q", Serialize(left, IntRepr))
	}
}

func TestSerializeDeterministic(t *testing.T) {
	root := New(1, New(2, Leaf(4), nil), New(3, Leaf(4), Leaf(5)))
	first := Serialize(root, IntRepr)
	second := Serialize(root, IntRepr)
	if first != second {
		t.Errorf("Serialize not deterministic: %q != %q", first, second)
	}
}

func TestSerializeNilReprUsesSprint(t *testing.T) {
	root := New("b", Leaf("a"), Leaf("c"))
	if got := Serialize(root, nil); got != "((a)b(c))" {
		t.Errorf("Serialize(nil repr) = %q, want %q", got, "((a)b(c))")
	}
	if got := root.String(); got != "((a)b(c))" {
		t.Errorf("String() = %q, want %q", got, "((a)b(c))")
	}
}

func TestSerializeDeepTree(t *testing.T) {
	const depth = 100_000
	var root *Node[int]
	for i := 0; i < depth; i++ {
		root = New(0, root, nil)
	}
	got := Serialize(root, IntRepr)
	if len(got) != depth*3 {
		t.Errorf("len(Serialize()) = %d, want %d", len(got), depth*3)
	}
}

func TestPostOrder(t *testing.T) {
	//       1
	//     /   \
	//    2     3
	//   /     / \
	//  4     5   6
	root := New(1, New(2, Leaf(4), nil), New(3, Leaf(5), Leaf(6)))

	var got []int
	for n := range PostOrder(root) {
		got = append(got, n.Value)
	}
	want := []int{4, 2, 5, 6, 3, 1}
	if !slices.Equal(got, want) {
		t.Errorf("PostOrder() = %v, want %v", got, want)
	}
}

func TestPostOrderEarlyStop(t *testing.T) {
	root := New(1, Leaf(2), Leaf(3))
	var got []int
	for n := range PostOrder(root) {
		got = append(got, n.Value)
		if len(got) == 2 {
			break
		}
	}
	if !slices.Equal(got, []int{2, 3}) {
		t.Errorf("PostOrder() with break = %v, want [2 3]", got)
	}
}

func TestPostOrderSharedChild(t *testing.T) {
	shared := Leaf(15)
	root := New(2, shared, shared)
	if got := Size(root); got != 3 {
		t.Errorf("Size() = %d, want 3 (shared child counted per position)", got)
	}
}

func TestSizeAndHeight(t *testing.T) {
	tests := []struct {
		name       string
		root       *Node[int]
		wantSize   int
		wantHeight int
	}{
		{"nil", nil, 0, 0},
		{"leaf", Leaf(1), 1, 1},
		{"balanced", New(1, Leaf(2), Leaf(3)), 3, 2},
		{"chain", New(1, New(2, New(3, nil, nil), nil), nil), 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Size(tt.root); got != tt.wantSize {
				t.Errorf("Size() = %d, want %d", got, tt.wantSize)
			}
			if got := Height(tt.root); got != tt.wantHeight {
				t.Errorf("Height() = %d, want %d", got, tt.wantHeight)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b *Node[int]
		want bool
	}{
		{"both nil", nil, nil, true},
		{"one nil", Leaf(1), nil, false},
		{"same leaf", Leaf(1), Leaf(1), true},
		{"different value", Leaf(1), Leaf(2), false},
		{"same shape", New(1, Leaf(2), nil), New(1, Leaf(2), nil), true},
		{"swapped child", New(1, Leaf(2), nil), New(1, nil, Leaf(2)), false},
		{"deep difference", New(1, New(2, Leaf(3), nil), nil), New(1, New(2, Leaf(4), nil), nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMirror(t *testing.T) {
	root := New(1, New(2, Leaf(4), nil), Leaf(3))
	before := Serialize(root, IntRepr)

	m := Mirror(root)
	if got, want := Serialize(m, IntRepr), "((3)1(2(4)))"; got != want {
		t.Errorf("Mirror() = %q, want %q", got, want)
	}
	if Serialize(root, IntRepr) != before {
		t.Error("Mirror() modified its input")
	}
	if !Equal(Mirror(m), root) {
		t.Error("Mirror(Mirror(t)) should equal t")
	}
	if Mirror[int](nil) != nil {
		t.Error("Mirror(nil) should be nil")
	}
}

func TestArena(t *testing.T) {
	a := NewArena[int](4)
	leaf1, err := a.Add(1, NoChild, NoChild)
	if err != nil {
		t.Fatalf("Add leaf: %v", err)
	}
	leaf3, _ := a.Add(3, NoChild, NoChild)
	root, err := a.Add(2, leaf1, leaf3)
	if err != nil {
		t.Fatalf("Add root: %v", err)
	}

	if a.Len() != 3 {
		t.Errorf("Len() = %d, want 3", a.Len())
	}
	if a.Value(root) != 2 {
		t.Errorf("Value(root) = %d, want 2", a.Value(root))
	}
	if l, r := a.Children(root); l != leaf1 || r != leaf3 {
		t.Errorf("Children(root) = (%d, %d), want (%d, %d)", l, r, leaf1, leaf3)
	}

	n, err := a.Tree(root)
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}
	if got := Serialize(n, IntRepr); got != "((1)2(3))" {
		t.Errorf("Serialize(Tree()) = %q, want %q", got, "((1)2(3))")
	}
}

func TestArenaSharesReusedSlots(t *testing.T) {
	a := NewArena[int](2)
	leaf, _ := a.Add(15, NoChild, NoChild)
	root, _ := a.Add(2, leaf, leaf)

	n, err := a.Tree(root)
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}
	if n.Left != n.Right {
		t.Error("slot referenced twice should map to one shared *Node")
	}
}

func TestArenaRejectsForwardReferences(t *testing.T) {
	a := NewArena[int](0)
	tests := []struct {
		name        string
		left, right Index
	}{
		{"left self", 0, NoChild},
		{"right forward", NoChild, 5},
		{"negative", -2, NoChild},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Add(1, tt.left, tt.right)
			if !errs.Is(err, errs.ErrCodeInvalidTree) {
				t.Errorf("Add() error = %v, want %s", err, errs.ErrCodeInvalidTree)
			}
			if a.Len() != 0 {
				t.Errorf("failed Add() changed Len() to %d", a.Len())
			}
		})
	}
}

func TestArenaTreeBounds(t *testing.T) {
	a := NewArena[int](1)
	_, _ = a.Add(1, NoChild, NoChild)

	if n, err := a.Tree(NoChild); err != nil || n != nil {
		t.Errorf("Tree(NoChild) = (%v, %v), want (nil, nil)", n, err)
	}
	if _, err := a.Tree(3); !errs.Is(err, errs.ErrCodeInvalidTree) {
		t.Errorf("Tree(3) error = %v, want %s", err, errs.ErrCodeInvalidTree)
	}
}
