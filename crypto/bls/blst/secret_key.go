package blst

import (
	"crypto/rand"

	"github.com/pkg/errors"
	"github.com/prylabs-zero/beacon-core/crypto/bls/iface"
	blst "github.com/supranational/blst/bindings/go"
)

// SecretKeyLength is the canonical marshaled width of a BLS12-381 secret
// scalar.
const SecretKeyLength = 32

type secretKey struct {
	p *blst.SecretKey
}

// RandKey generates a cryptographically random secret key, used by test
// harnesses and the interop genesis path (spec.md §8 scenario 1) that
// derives deterministic validator keys from a seed.
func RandKey() (iface.SecretKey, error) {
	var ikm [32]byte
	if _, err := rand.Read(ikm[:]); err != nil {
		return nil, errors.Wrap(err, "could not read random bytes")
	}
	return SecretKeyFromSeed(ikm[:])
}

// SecretKeyFromSeed deterministically derives a secret key from ikm (at
// least 32 bytes of entropy), used for interop-seeded validator sets.
func SecretKeyFromSeed(ikm []byte) (iface.SecretKey, error) {
	if len(ikm) < 32 {
		return nil, errors.New("seed material must be at least 32 bytes")
	}
	sk := blst.KeyGen(ikm)
	if sk == nil {
		return nil, errors.New("blst: key generation failed")
	}
	return &secretKey{p: sk}, nil
}

// SecretKeyFromBytes unmarshals a 32-byte secret key.
func SecretKeyFromBytes(b []byte) (iface.SecretKey, error) {
	if len(b) != SecretKeyLength {
		return nil, errors.Errorf("secret key must be %d bytes, got %d", SecretKeyLength, len(b))
	}
	sk := new(blst.SecretKey)
	sk.Deserialize(b)
	return &secretKey{p: sk}, nil
}

func (s *secretKey) PublicKey() iface.PublicKey {
	return &publicKey{p: new(blst.P1Affine).From(s.p)}
}

func (s *secretKey) Sign(msg []byte) iface.Signature {
	sig := new(blst.P2Affine).Sign(s.p, msg, domainSeparationTag)
	return &signature{p: sig}
}

func (s *secretKey) Marshal() []byte {
	return s.p.Serialize()
}
