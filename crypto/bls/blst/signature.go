package blst

import (
	"github.com/pkg/errors"
	"github.com/prylabs-zero/beacon-core/crypto/bls/iface"
	blst "github.com/supranational/blst/bindings/go"
)

// SignatureLength is the canonical compressed G2 point width.
const SignatureLength = 96

type signature struct {
	p *blst.P2Affine
}

// SignatureFromBytes unmarshals a 96-byte compressed signature. Subgroup
// validation is deferred to verification time, matching blst's own
// recommended usage (Verify/AggregateVerify internally subgroup-check).
func SignatureFromBytes(b []byte) (iface.Signature, error) {
	if len(b) != SignatureLength {
		return nil, errors.Errorf("signature must be %d bytes, got %d", SignatureLength, len(b))
	}
	p := new(blst.P2Affine).Uncompress(b)
	if p == nil {
		return nil, errors.New("blst: could not deserialize signature")
	}
	return &signature{p: p}, nil
}

// Verify checks this signature against a single (pubkey, msg) pair in
// constant time with respect to the signature bytes, as spec.md §4.2
// requires at the API boundary.
func (s *signature) Verify(pubKey iface.PublicKey, msg []byte) bool {
	pk := pubKey.(*publicKey)
	return s.p.Verify(true, pk.p, true, msg, domainSeparationTag)
}

// AggregateVerify checks one aggregate signature against N distinct
// (pubkey, message) pairs — the indexed-attestation / slashing-evidence
// verification shape.
func (s *signature) AggregateVerify(pubKeys []iface.PublicKey, msgs [][32]byte) bool {
	if len(pubKeys) != len(msgs) {
		return false
	}
	pts := make([]*blst.P1Affine, len(pubKeys))
	msgSlices := make([][]byte, len(msgs))
	for i, pk := range pubKeys {
		pts[i] = pk.(*publicKey).p
		msgSlices[i] = msgs[i][:]
	}
	return s.p.AggregateVerify(true, pts, true, msgSlices, domainSeparationTag)
}

// FastAggregateVerify checks one aggregate signature where every signer
// signed the same 32-byte message — the committee-attestation shape
// spec.md §4.4 names directly.
func (s *signature) FastAggregateVerify(pubKeys []iface.PublicKey, msg [32]byte) bool {
	if len(pubKeys) == 0 {
		return false
	}
	pts := make([]*blst.P1Affine, len(pubKeys))
	for i, pk := range pubKeys {
		pts[i] = pk.(*publicKey).p
	}
	return s.p.FastAggregateVerify(true, pts, msg[:], domainSeparationTag)
}

func (s *signature) Marshal() []byte {
	return s.p.Compress()
}

func (s *signature) Copy() iface.Signature {
	cp := *s.p
	return &signature{p: &cp}
}

// AggregateSignatures sums a set of signatures into one, per spec.md
// §4.2's aggregate primitive.
func AggregateSignatures(sigs []iface.Signature) (iface.Signature, error) {
	if len(sigs) == 0 {
		return nil, errors.New("cannot aggregate an empty signature set")
	}
	agg := new(blst.P2Aggregate)
	for _, s := range sigs {
		agg.Add(s.(*signature).p, false)
	}
	return &signature{p: agg.ToAffine()}, nil
}
