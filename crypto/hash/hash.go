// Package hash provides the library-scoped hasher handle used throughout
// the SSZ codec and the chain-spec helpers. The teacher installs a global
// BouncyCastle provider at process init (see SPEC_FULL.md design notes);
// we replace that with a handle threaded explicitly through callers instead
// of a package-level singleton that installs itself as a side effect.
package hash

import (
	"crypto/sha256"
	"hash"

	"golang.org/x/crypto/sha3"
)

// Hasher is a stateless handle producing 32-byte digests. It is safe for
// concurrent use: each call allocates its own hash.Hash internally.
type Hasher struct {
	new func() hash.Hash
}

// NewSHA256 returns a Hasher backed by the standard library's SHA-256,
// the only hash function used in SSZ and consensus (spec.md §4.2).
func NewSHA256() Hasher {
	return Hasher{new: sha256.New}
}

// Hash returns sha256(data).
func (h Hasher) Hash(data []byte) [32]byte {
	hasher := h.new()
	hasher.Write(data)
	var out [32]byte
	copy(out[:], hasher.Sum(nil))
	return out
}

// HashTwo returns sha256(a ++ b), the inner node function used throughout
// Merkleization.
func (h Hasher) HashTwo(a, b [32]byte) [32]byte {
	hasher := h.new()
	hasher.Write(a[:])
	hasher.Write(b[:])
	var out [32]byte
	copy(out[:], hasher.Sum(nil))
	return out
}

// Keccak256 is exposed for eth1-data fields that carry execution-layer
// hashes (deposit contract log hashing); it is never used inside SSZ
// Merkleization itself.
func Keccak256(data []byte) [32]byte {
	d := sha3.NewLegacyKeccak256()
	d.Write(data)
	var out [32]byte
	copy(out[:], d.Sum(nil))
	return out
}
