// Package iface defines the BLS12-381 primitive surface the rest of the
// repository programs against, so crypto/bls can swap its backing
// implementation (blst today) without callers caring. Grounded on the
// teacher's shared/bls/iface/interface.go.
package iface

// SecretKey is a BLS12-381 secret scalar.
type SecretKey interface {
	PublicKey() PublicKey
	Sign(msg []byte) Signature
	Marshal() []byte
}

// PublicKey is a BLS12-381 G1 point.
type PublicKey interface {
	Marshal() []byte
	Copy() PublicKey
	Aggregate(p2 PublicKey) PublicKey
}

// Signature is a BLS12-381 G2 point.
type Signature interface {
	// Verify checks a single (pubkey, msg) pair.
	Verify(pubKey PublicKey, msg []byte) bool
	// AggregateVerify checks an aggregate signature against distinct
	// (pubkey, msg) pairs, one per signer.
	AggregateVerify(pubKeys []PublicKey, msgs [][32]byte) bool
	// FastAggregateVerify checks an aggregate signature where every signer
	// signed the same message (the committee-attestation case).
	FastAggregateVerify(pubKeys []PublicKey, msg [32]byte) bool
	Marshal() []byte
	Copy() Signature
}
