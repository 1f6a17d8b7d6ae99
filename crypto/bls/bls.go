// Package bls is the public BLS12-381 surface the chain-spec helpers and
// the state-transition function verify against. It is a thin pass-through
// to crypto/bls/blst, kept separate so a future alternate backend (or a
// test double) only has to satisfy crypto/bls/iface.
package bls

import (
	"github.com/pkg/errors"
	"github.com/prylabs-zero/beacon-core/crypto/bls/blst"
	"github.com/prylabs-zero/beacon-core/crypto/bls/iface"
)

// skipVerify is a compile-time switch, never a runtime flag, so a debug
// build that disables signature checks cannot silently reach production
// and cannot affect any computed state_root: every call site that skips
// verification here still runs the full hashing and state-mutation path,
// it only omits the boolean check spec.md §9 requires gating this way.
const skipVerify = false

// SecretKey, PublicKey and Signature re-export the primitive interfaces so
// callers only need to import this package.
type (
	SecretKey = iface.SecretKey
	PublicKey = iface.PublicKey
	Signature = iface.Signature
)

func RandKey() (SecretKey, error)                       { return blst.RandKey() }
func SecretKeyFromSeed(seed []byte) (SecretKey, error)   { return blst.SecretKeyFromSeed(seed) }
func SecretKeyFromBytes(b []byte) (SecretKey, error)     { return blst.SecretKeyFromBytes(b) }
func PublicKeyFromBytes(b []byte) (PublicKey, error)     { return blst.PublicKeyFromBytes(b) }
func SignatureFromBytes(b []byte) (Signature, error)     { return blst.SignatureFromBytes(b) }
func AggregatePublicKeys(k []PublicKey) (PublicKey, error) { return blst.AggregatePublicKeys(k) }
func AggregateSignatures(s []Signature) (Signature, error) { return blst.AggregateSignatures(s) }

// Verify checks a single signature, honoring the compile-time bypass.
func Verify(pub PublicKey, msg []byte, sig Signature) (bool, error) {
	if skipVerify {
		return true, nil
	}
	if pub == nil || sig == nil {
		return false, errors.New("nil public key or signature")
	}
	return sig.Verify(pub, msg), nil
}

// FastAggregateVerify checks an aggregate signature where every signer
// signed the same message, the shape used for committee attestations.
func FastAggregateVerify(pubs []PublicKey, msg [32]byte, sig Signature) (bool, error) {
	if skipVerify {
		return true, nil
	}
	if sig == nil {
		return false, errors.New("nil signature")
	}
	return sig.FastAggregateVerify(pubs, msg), nil
}

// AggregateVerify checks an aggregate signature against distinct
// (pubkey, message) pairs, the shape used for indexed attestations in
// slashing evidence.
func AggregateVerify(pubs []PublicKey, msgs [][32]byte, sig Signature) (bool, error) {
	if skipVerify {
		return true, nil
	}
	if sig == nil {
		return false, errors.New("nil signature")
	}
	return sig.AggregateVerify(pubs, msgs), nil
}
