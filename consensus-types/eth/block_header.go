package eth

import (
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
	"github.com/prylabs-zero/beacon-core/encoding/ssz"
)

// BeaconBlockHeader is the compact, body-less form of a block stored in
// state.latest_block_header (spec.md §4.4 phase 2).
type BeaconBlockHeader struct {
	Slot          primitives.Slot
	ProposerIndex primitives.ValidatorIndex
	ParentRoot    [32]byte
	StateRoot     [32]byte
	BodyRoot      [32]byte
}

var blockHeaderSchema = ssz.ContainerSchema(
	ssz.Field{Name: "slot", Schema: ssz.Uint64Schema},
	ssz.Field{Name: "proposer_index", Schema: ssz.Uint64Schema},
	ssz.Field{Name: "parent_root", Schema: ssz.BytesVectorSchema(32)},
	ssz.Field{Name: "state_root", Schema: ssz.BytesVectorSchema(32)},
	ssz.Field{Name: "body_root", Schema: ssz.BytesVectorSchema(32)},
)

func (h *BeaconBlockHeader) SSZSchema() *ssz.Schema { return blockHeaderSchema }

func (h *BeaconBlockHeader) Field(i int) ssz.Value {
	switch i {
	case 0:
		return ssz.U64(h.Slot)
	case 1:
		return ssz.U64(h.ProposerIndex)
	case 2:
		return ssz.NewFixedBytes(h.ParentRoot[:])
	case 3:
		return ssz.NewFixedBytes(h.StateRoot[:])
	case 4:
		return ssz.NewFixedBytes(h.BodyRoot[:])
	}
	panic("eth.BeaconBlockHeader: field index out of range")
}

func (h *BeaconBlockHeader) LoadSSZ(d *ssz.Decoded) error {
	h.Slot = primitives.Slot(d.Fields[0].Uint64())
	h.ProposerIndex = primitives.ValidatorIndex(d.Fields[1].Uint64())
	copy(h.ParentRoot[:], d.Fields[2].Bytes())
	copy(h.StateRoot[:], d.Fields[3].Bytes())
	copy(h.BodyRoot[:], d.Fields[4].Bytes())
	return nil
}

// Copy returns a deep copy of h.
func (h *BeaconBlockHeader) Copy() *BeaconBlockHeader {
	if h == nil {
		return nil
	}
	cp := *h
	return &cp
}

// SigningRoot returns htr(SigningRoot{object_root: htr(h with signature
// N/A), domain}) — headers carry no signature field themselves, so this is
// simply htr(h); the domain wrapping happens in core/signing.
func (h *BeaconBlockHeader) SigningRoot() ([32]byte, error) {
	return ssz.HashTreeRoot(h)
}

// SignedBeaconBlockHeader pairs a header with its proposer signature.
type SignedBeaconBlockHeader struct {
	Header    *BeaconBlockHeader
	Signature [96]byte
}

var signedBlockHeaderSchema = ssz.ContainerSchema(
	ssz.Field{Name: "message", Schema: blockHeaderSchema},
	ssz.Field{Name: "signature", Schema: ssz.BytesVectorSchema(96)},
)

func (s *SignedBeaconBlockHeader) SSZSchema() *ssz.Schema { return signedBlockHeaderSchema }

func (s *SignedBeaconBlockHeader) Field(i int) ssz.Value {
	switch i {
	case 0:
		return s.Header
	case 1:
		return ssz.NewFixedBytes(s.Signature[:])
	}
	panic("eth.SignedBeaconBlockHeader: field index out of range")
}

func (s *SignedBeaconBlockHeader) LoadSSZ(d *ssz.Decoded) error {
	s.Header = new(BeaconBlockHeader)
	if err := s.Header.LoadSSZ(d.Fields[0]); err != nil {
		return err
	}
	copy(s.Signature[:], d.Fields[1].Bytes())
	return nil
}
