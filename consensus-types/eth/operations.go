package eth

import (
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
	"github.com/prylabs-zero/beacon-core/encoding/ssz"
)

// ProposerSlashing bundles two conflicting headers signed by the same
// proposer for the same slot.
type ProposerSlashing struct {
	Header1 *SignedBeaconBlockHeader
	Header2 *SignedBeaconBlockHeader
}

var proposerSlashingSchema = ssz.ContainerSchema(
	ssz.Field{Name: "signed_header_1", Schema: signedBlockHeaderSchema},
	ssz.Field{Name: "signed_header_2", Schema: signedBlockHeaderSchema},
)

func (p *ProposerSlashing) SSZSchema() *ssz.Schema { return proposerSlashingSchema }

func (p *ProposerSlashing) Field(i int) ssz.Value {
	switch i {
	case 0:
		return p.Header1
	case 1:
		return p.Header2
	}
	panic("eth.ProposerSlashing: field index out of range")
}

func (p *ProposerSlashing) LoadSSZ(d *ssz.Decoded) error {
	p.Header1 = new(SignedBeaconBlockHeader)
	if err := p.Header1.LoadSSZ(d.Fields[0]); err != nil {
		return err
	}
	p.Header2 = new(SignedBeaconBlockHeader)
	return p.Header2.LoadSSZ(d.Fields[1])
}

// VoluntaryExit signals a validator's intent to leave the active set.
type VoluntaryExit struct {
	Epoch          primitives.Epoch
	ValidatorIndex primitives.ValidatorIndex
}

var voluntaryExitSchema = ssz.ContainerSchema(
	ssz.Field{Name: "epoch", Schema: ssz.Uint64Schema},
	ssz.Field{Name: "validator_index", Schema: ssz.Uint64Schema},
)

func (v *VoluntaryExit) SSZSchema() *ssz.Schema { return voluntaryExitSchema }

func (v *VoluntaryExit) Field(i int) ssz.Value {
	switch i {
	case 0:
		return ssz.U64(v.Epoch)
	case 1:
		return ssz.U64(v.ValidatorIndex)
	}
	panic("eth.VoluntaryExit: field index out of range")
}

func (v *VoluntaryExit) LoadSSZ(d *ssz.Decoded) error {
	v.Epoch = primitives.Epoch(d.Fields[0].Uint64())
	v.ValidatorIndex = primitives.ValidatorIndex(d.Fields[1].Uint64())
	return nil
}

// SignedVoluntaryExit pairs a VoluntaryExit with the exiting validator's
// signature.
type SignedVoluntaryExit struct {
	Exit      *VoluntaryExit
	Signature [96]byte
}

var signedVoluntaryExitSchema = ssz.ContainerSchema(
	ssz.Field{Name: "message", Schema: voluntaryExitSchema},
	ssz.Field{Name: "signature", Schema: ssz.BytesVectorSchema(96)},
)

func (s *SignedVoluntaryExit) SSZSchema() *ssz.Schema { return signedVoluntaryExitSchema }

func (s *SignedVoluntaryExit) Field(i int) ssz.Value {
	switch i {
	case 0:
		return s.Exit
	case 1:
		return ssz.NewFixedBytes(s.Signature[:])
	}
	panic("eth.SignedVoluntaryExit: field index out of range")
}

func (s *SignedVoluntaryExit) LoadSSZ(d *ssz.Decoded) error {
	s.Exit = new(VoluntaryExit)
	if err := s.Exit.LoadSSZ(d.Fields[0]); err != nil {
		return err
	}
	copy(s.Signature[:], d.Fields[1].Bytes())
	return nil
}

// Transfer is the phase-0 balance-transfer operation. Later forks dropped
// transfers in favor of ordinary execution-layer transactions; spec.md
// still names it as a first-class operation variant (§3), so it is carried
// here as a supplemented feature (SPEC_FULL.md §11).
type Transfer struct {
	Sender    primitives.ValidatorIndex
	Recipient primitives.ValidatorIndex
	Amount    primitives.Gwei
	Fee       primitives.Gwei
	Slot      primitives.Slot
	Pubkey    [48]byte
	Signature [96]byte
}

var transferSchema = ssz.ContainerSchema(
	ssz.Field{Name: "sender", Schema: ssz.Uint64Schema},
	ssz.Field{Name: "recipient", Schema: ssz.Uint64Schema},
	ssz.Field{Name: "amount", Schema: ssz.Uint64Schema},
	ssz.Field{Name: "fee", Schema: ssz.Uint64Schema},
	ssz.Field{Name: "slot", Schema: ssz.Uint64Schema},
	ssz.Field{Name: "pubkey", Schema: ssz.BytesVectorSchema(48)},
	ssz.Field{Name: "signature", Schema: ssz.BytesVectorSchema(96)},
)

func (t *Transfer) SSZSchema() *ssz.Schema { return transferSchema }

func (t *Transfer) Field(i int) ssz.Value {
	switch i {
	case 0:
		return ssz.U64(t.Sender)
	case 1:
		return ssz.U64(t.Recipient)
	case 2:
		return ssz.U64(t.Amount)
	case 3:
		return ssz.U64(t.Fee)
	case 4:
		return ssz.U64(t.Slot)
	case 5:
		return ssz.NewFixedBytes(t.Pubkey[:])
	case 6:
		return ssz.NewFixedBytes(t.Signature[:])
	}
	panic("eth.Transfer: field index out of range")
}

func (t *Transfer) LoadSSZ(d *ssz.Decoded) error {
	t.Sender = primitives.ValidatorIndex(d.Fields[0].Uint64())
	t.Recipient = primitives.ValidatorIndex(d.Fields[1].Uint64())
	t.Amount = primitives.Gwei(d.Fields[2].Uint64())
	t.Fee = primitives.Gwei(d.Fields[3].Uint64())
	t.Slot = primitives.Slot(d.Fields[4].Uint64())
	copy(t.Pubkey[:], d.Fields[5].Bytes())
	copy(t.Signature[:], d.Fields[6].Bytes())
	return nil
}

// SigningRoot returns the root the sender signs: the transfer with its
// signature field zeroed.
func (t *Transfer) SigningRoot() ([32]byte, error) {
	unsigned := *t
	unsigned.Signature = [96]byte{}
	return ssz.HashTreeRoot(&unsigned)
}
