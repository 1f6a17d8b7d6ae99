package helpers

import (
	"github.com/prylabs-zero/beacon-core/encoding/ssz"
)

// signingRootContainer is the two-field {object_root: Bytes32, domain:
// Bytes8} container every signed message is hashed into before BLS
// verification. It exists only to drive ssz.HashTreeRoot; callers never
// see the type itself.
type signingRootContainer struct {
	objectRoot [32]byte
	domain     [8]byte
}

var signingRootSchema = ssz.ContainerSchema(
	ssz.Field{Name: "object_root", Schema: ssz.BytesVectorSchema(32)},
	ssz.Field{Name: "domain", Schema: ssz.BytesVectorSchema(8)},
)

func (c *signingRootContainer) SSZSchema() *ssz.Schema { return signingRootSchema }

func (c *signingRootContainer) Field(i int) ssz.Value {
	switch i {
	case 0:
		return ssz.NewFixedBytes(c.objectRoot[:])
	case 1:
		return ssz.NewFixedBytes(c.domain[:])
	default:
		panic("signingRootContainer: field index out of range")
	}
}

// ComputeSigningRoot mixes domain into objectRoot the way every signed
// consensus message must before its signature is checked or produced.
//
//	def compute_signing_root(ssz_object, domain: Domain) -> Root:
//	  domain_wrapped_object = SigningData(object_root=hash_tree_root(ssz_object), domain=domain)
//	  return hash_tree_root(domain_wrapped_object)
func ComputeSigningRoot(objectRoot [32]byte, domain [8]byte) ([32]byte, error) {
	c := &signingRootContainer{objectRoot: objectRoot, domain: domain}
	return ssz.HashTreeRoot(c)
}
