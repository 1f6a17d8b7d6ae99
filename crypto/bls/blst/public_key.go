package blst

import (
	"github.com/pkg/errors"
	"github.com/prylabs-zero/beacon-core/crypto/bls/iface"
	blst "github.com/supranational/blst/bindings/go"
)

// PublicKeyLength is the canonical compressed G1 point width.
const PublicKeyLength = 48

type publicKey struct {
	p *blst.P1Affine
}

// PublicKeyFromBytes unmarshals and subgroup-checks a 48-byte compressed
// public key. Subgroup checking happens here rather than being left
// optional, since spec.md §4.2 requires verification to be non-optional
// for protocol conformance.
func PublicKeyFromBytes(b []byte) (iface.PublicKey, error) {
	if len(b) != PublicKeyLength {
		return nil, errors.Errorf("public key must be %d bytes, got %d", PublicKeyLength, len(b))
	}
	p := new(blst.P1Affine).Deserialize(b)
	if p == nil {
		return nil, errors.New("blst: could not deserialize public key")
	}
	if !p.KeyValidate() {
		return nil, errors.New("blst: public key fails subgroup check")
	}
	return &publicKey{p: p}, nil
}

func (p *publicKey) Marshal() []byte {
	return p.p.Compress()
}

func (p *publicKey) Copy() iface.PublicKey {
	cp := *p.p
	return &publicKey{p: &cp}
}

func (p *publicKey) Aggregate(p2 iface.PublicKey) iface.PublicKey {
	other := p2.(*publicKey)
	agg := new(blst.P1Aggregate)
	agg.Add(p.p, false)
	agg.Add(other.p, false)
	return &publicKey{p: agg.ToAffine()}
}

// AggregatePublicKeys sums a set of public keys into one, the BLS
// primitive spec.md §4.2 names as aggregate_pubkeys.
func AggregatePublicKeys(keys []iface.PublicKey) (iface.PublicKey, error) {
	if len(keys) == 0 {
		return nil, errors.New("cannot aggregate an empty public key set")
	}
	agg := new(blst.P1Aggregate)
	for _, k := range keys {
		agg.Add(k.(*publicKey).p, false)
	}
	return &publicKey{p: agg.ToAffine()}, nil
}
