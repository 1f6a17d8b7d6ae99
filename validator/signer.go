package validator

import (
	"context"

	"github.com/pkg/errors"

	"github.com/prylabs-zero/beacon-core/crypto/bls"
)

var errUnknownPubKey = errors.New("signer: no secret key held for this pubkey")

// Signer is the abstract signing collaborator spec.md §4.10 requires the
// duties engine to go through for every signature: a local in-process
// keystore and a remote web3signer-style service both satisfy the same
// contract, and a misbehaving implementation can't corrupt the engine's
// own slashing-protection bookkeeping (that lives in slashingprotection,
// layered on top of a Signer, not inside one). Grounded on the teacher's
// validator/client package's split between v.keys (local secret keys)
// and v.keyManager/remote signer backends.
type Signer interface {
	// PublicKeys returns every pubkey this signer holds a secret key for.
	PublicKeys(ctx context.Context) ([][48]byte, error)
	// Sign produces a BLS signature over signingRoot, the value
	// helpers.ComputeSigningRoot(objectRoot, domain) already folded the
	// domain into — callers sign that final root directly, the same
	// value beacon-chain/core/transition's verifyBlockSignature and
	// beacon-chain/core/blocks' ProcessRandao/ProcessAttestations verify
	// against.
	Sign(ctx context.Context, pubKey [48]byte, signingRoot [32]byte) (bls.Signature, error)
}

// LocalSigner is a Signer backed by in-process secret keys, the teacher's
// validator/client v.keys map made concrete.
type LocalSigner struct {
	keys map[[48]byte]bls.SecretKey
}

// NewLocalSigner constructs a LocalSigner holding keys.
func NewLocalSigner(keys map[[48]byte]bls.SecretKey) *LocalSigner {
	return &LocalSigner{keys: keys}
}

// PublicKeys returns every pubkey this signer holds.
func (l *LocalSigner) PublicKeys(ctx context.Context) ([][48]byte, error) {
	out := make([][48]byte, 0, len(l.keys))
	for pk := range l.keys {
		out = append(out, pk)
	}
	return out, nil
}

// Sign signs signingRoot with pubKey's secret key.
func (l *LocalSigner) Sign(ctx context.Context, pubKey [48]byte, signingRoot [32]byte) (bls.Signature, error) {
	sk, ok := l.keys[pubKey]
	if !ok {
		return nil, errUnknownPubKey
	}
	return sk.Sign(signingRoot[:]), nil
}
