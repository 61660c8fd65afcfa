package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/matzehuels/twintree/pkg/tree"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// treeSalt seeds the second digest of [TreeHash].
var treeSalt = [8]byte{'t', 'w', 'i', 'n', 't', 'r', 'e', 'e'}

// TreeHash fingerprints a whole tree for use in cache keys.
//
// The tree is streamed in preorder with explicit markers for absent
// children and length-prefixed values, so two trees share a fingerprint
// only if they are equal (barring a collision in both 64-bit digests).
// The result is "<xxhash><salted xxhash>-<size>". A nil tree hashes to a
// fixed value. The walk is iterative.
func TreeHash[T comparable](root *tree.Node[T], repr tree.Repr[T]) string {
	if repr == nil {
		repr = tree.Sprint[T]
	}
	plain := xxhash.New()
	salted := xxhash.New()
	_, _ = salted.Write(treeSalt[:])

	write := func(b []byte) {
		_, _ = plain.Write(b)
		_, _ = salted.Write(b)
	}

	var lenBuf [8]byte
	size := 0
	stack := []*tree.Node[T]{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil {
			write([]byte{0})
			continue
		}
		size++
		v := repr(n.Value)
		binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(v)))
		write([]byte{1})
		write(lenBuf[:])
		_, _ = plain.WriteString(v)
		_, _ = salted.WriteString(v)
		stack = append(stack, n.Right, n.Left)
	}
	return fmt.Sprintf("%016x%016x-%d", plain.Sum64(), salted.Sum64(), size)
}
