package dupes

import (
	"encoding/binary"
	"math/bits"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/matzehuels/twintree/pkg/tree"
)

// Scheme derives canonical subtree keys bottom-up.
//
// Combine must be injective in (v, left, right) for exact schemes, and
// order-sensitive in (left, right) for all schemes. Absent returns the key
// used in place of a missing child; it must differ from every key Combine
// can return.
type Scheme[T comparable, K comparable] interface {
	Absent() K
	Combine(v T, left, right K) K
}

// StringScheme keys subtrees by their nested serialization, the same
// string [tree.Serialize] returns. A nil Repr formats values with fmt.Sprint.
//
// Keys are only unambiguous when every repr is non-empty and free of
// parentheses: with an empty value "((x))" is both a lone left child and a
// lone right child. [Detect] rejects such values; use [HashScheme] for them.
type StringScheme[T comparable] struct {
	Repr tree.Repr[T]
}

// Absent returns the empty string. Every real key starts with "(".
func (StringScheme[T]) Absent() string { return "" }

// Combine returns "(" + left + repr(v) + right + ")".
func (s StringScheme[T]) Combine(v T, left, right string) string {
	repr := s.Repr
	if repr == nil {
		repr = tree.Sprint[T]
	}
	val := repr(v)

	var b strings.Builder
	b.Grow(len(left) + len(val) + len(right) + 2)
	b.WriteByte('(')
	b.WriteString(left)
	b.WriteString(val)
	b.WriteString(right)
	b.WriteByte(')')
	return b.String()
}

// Hash scheme constants. The left and right multipliers differ so that
// swapping two different children changes the digest.
const (
	absentHash uint64 = 0x9e3779b97f4a7c15
	leftMix    uint64 = 0xff51afd7ed558ccd
	rightMix   uint64 = 0xc4ceb9fe1a85ec53
)

// HashScheme keys subtrees by a 64-bit structural hash: the xxhash digest
// of the length-prefixed value representation followed by the mixed left
// and right child hashes. A nil Repr formats values with fmt.Sprint.
//
// Because the value is length-prefixed, values may contain any bytes,
// parentheses included.
type HashScheme[T comparable] struct {
	Repr tree.Repr[T]
}

// Absent returns the fixed sentinel hash for a missing child.
func (HashScheme[T]) Absent() uint64 { return absentHash }

// Combine hashes v together with the child hashes.
func (s HashScheme[T]) Combine(v T, left, right uint64) uint64 {
	repr := s.Repr
	if repr == nil {
		repr = tree.Sprint[T]
	}
	val := repr(v)

	buf := make([]byte, 24, 24+len(val))
	binary.LittleEndian.PutUint64(buf[0:], uint64(len(val)))
	binary.LittleEndian.PutUint64(buf[8:], left*leftMix)
	binary.LittleEndian.PutUint64(buf[16:], bits.RotateLeft64(right*rightMix, 31))
	buf = append(buf, val...)
	return xxhash.Sum64(buf)
}

// Strings returns a [StringScheme] as a [Scheme], which lets the key type
// be inferred at call sites such as Find(root, Strings(repr), opts).
func Strings[T comparable](repr tree.Repr[T]) Scheme[T, string] {
	return StringScheme[T]{Repr: repr}
}

// Hashes returns a [HashScheme] as a [Scheme].
func Hashes[T comparable](repr tree.Repr[T]) Scheme[T, uint64] {
	return HashScheme[T]{Repr: repr}
}

// KeyOf computes the key of the subtree rooted at n under s without
// recording anything. A nil n yields s.Absent().
func KeyOf[T comparable, K comparable](n *tree.Node[T], s Scheme[T, K]) K {
	entries := keySubtree(n, s)
	if len(entries) == 0 {
		return s.Absent()
	}
	return entries[len(entries)-1].key
}
