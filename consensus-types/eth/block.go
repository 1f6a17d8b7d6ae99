package eth

import (
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
	"github.com/prylabs-zero/beacon-core/encoding/ssz"
)

const (
	maxProposerSlashings = 16
	maxAttesterSlashings = 2
	maxAttestations      = 128
	maxDeposits          = 16
	maxVoluntaryExits    = 16
	maxTransfers         = 16
)

// BeaconBlockBody carries every operation a proposer may include, in the
// declared order the state-transition function applies them in (spec.md
// §4.4 phase 5).
type BeaconBlockBody struct {
	RandaoReveal      [96]byte
	Eth1Data          *Eth1Data
	Graffiti          [32]byte
	ProposerSlashings []*ProposerSlashing
	AttesterSlashings []*AttesterSlashing
	Attestations      []*Attestation
	Deposits          []*Deposit
	VoluntaryExits    []*SignedVoluntaryExit
	Transfers         []*Transfer
}

var beaconBlockBodySchema = ssz.ContainerSchema(
	ssz.Field{Name: "randao_reveal", Schema: ssz.BytesVectorSchema(96)},
	ssz.Field{Name: "eth1_data", Schema: eth1DataSchema},
	ssz.Field{Name: "graffiti", Schema: ssz.BytesVectorSchema(32)},
	ssz.Field{Name: "proposer_slashings", Schema: ssz.ListSchema(proposerSlashingSchema, maxProposerSlashings)},
	ssz.Field{Name: "attester_slashings", Schema: ssz.ListSchema(attesterSlashingSchema, maxAttesterSlashings)},
	ssz.Field{Name: "attestations", Schema: ssz.ListSchema(attestationSchema, maxAttestations)},
	ssz.Field{Name: "deposits", Schema: ssz.ListSchema(depositSchema, maxDeposits)},
	ssz.Field{Name: "voluntary_exits", Schema: ssz.ListSchema(signedVoluntaryExitSchema, maxVoluntaryExits)},
	ssz.Field{Name: "transfers", Schema: ssz.ListSchema(transferSchema, maxTransfers)},
)

func (b *BeaconBlockBody) SSZSchema() *ssz.Schema { return beaconBlockBodySchema }

func (b *BeaconBlockBody) Field(i int) ssz.Value {
	switch i {
	case 0:
		return ssz.NewFixedBytes(b.RandaoReveal[:])
	case 1:
		return b.Eth1Data
	case 2:
		return ssz.NewFixedBytes(b.Graffiti[:])
	case 3:
		return ssz.GenericList{Elem_: proposerSlashingSchema, Limit: maxProposerSlashings, N: len(b.ProposerSlashings), At: func(i int) ssz.Value { return b.ProposerSlashings[i] }}
	case 4:
		return ssz.GenericList{Elem_: attesterSlashingSchema, Limit: maxAttesterSlashings, N: len(b.AttesterSlashings), At: func(i int) ssz.Value { return b.AttesterSlashings[i] }}
	case 5:
		return ssz.GenericList{Elem_: attestationSchema, Limit: maxAttestations, N: len(b.Attestations), At: func(i int) ssz.Value { return b.Attestations[i] }}
	case 6:
		return ssz.GenericList{Elem_: depositSchema, Limit: maxDeposits, N: len(b.Deposits), At: func(i int) ssz.Value { return b.Deposits[i] }}
	case 7:
		return ssz.GenericList{Elem_: signedVoluntaryExitSchema, Limit: maxVoluntaryExits, N: len(b.VoluntaryExits), At: func(i int) ssz.Value { return b.VoluntaryExits[i] }}
	case 8:
		return ssz.GenericList{Elem_: transferSchema, Limit: maxTransfers, N: len(b.Transfers), At: func(i int) ssz.Value { return b.Transfers[i] }}
	}
	panic("eth.BeaconBlockBody: field index out of range")
}

func (b *BeaconBlockBody) LoadSSZ(d *ssz.Decoded) error {
	copy(b.RandaoReveal[:], d.Fields[0].Bytes())
	b.Eth1Data = new(Eth1Data)
	if err := b.Eth1Data.LoadSSZ(d.Fields[1]); err != nil {
		return err
	}
	copy(b.Graffiti[:], d.Fields[2].Bytes())
	b.ProposerSlashings = make([]*ProposerSlashing, len(d.Fields[3].Elems))
	for i, e := range d.Fields[3].Elems {
		b.ProposerSlashings[i] = new(ProposerSlashing)
		if err := b.ProposerSlashings[i].LoadSSZ(e); err != nil {
			return err
		}
	}
	b.AttesterSlashings = make([]*AttesterSlashing, len(d.Fields[4].Elems))
	for i, e := range d.Fields[4].Elems {
		b.AttesterSlashings[i] = new(AttesterSlashing)
		if err := b.AttesterSlashings[i].LoadSSZ(e); err != nil {
			return err
		}
	}
	b.Attestations = make([]*Attestation, len(d.Fields[5].Elems))
	for i, e := range d.Fields[5].Elems {
		b.Attestations[i] = new(Attestation)
		if err := b.Attestations[i].LoadSSZ(e); err != nil {
			return err
		}
	}
	b.Deposits = make([]*Deposit, len(d.Fields[6].Elems))
	for i, e := range d.Fields[6].Elems {
		b.Deposits[i] = new(Deposit)
		if err := b.Deposits[i].LoadSSZ(e); err != nil {
			return err
		}
	}
	b.VoluntaryExits = make([]*SignedVoluntaryExit, len(d.Fields[7].Elems))
	for i, e := range d.Fields[7].Elems {
		b.VoluntaryExits[i] = new(SignedVoluntaryExit)
		if err := b.VoluntaryExits[i].LoadSSZ(e); err != nil {
			return err
		}
	}
	b.Transfers = make([]*Transfer, len(d.Fields[8].Elems))
	for i, e := range d.Fields[8].Elems {
		b.Transfers[i] = new(Transfer)
		if err := b.Transfers[i].LoadSSZ(e); err != nil {
			return err
		}
	}
	return nil
}

// BeaconBlock is a full proposed block: header fields plus its body.
type BeaconBlock struct {
	Slot       primitives.Slot
	ParentRoot [32]byte
	StateRoot  [32]byte
	Body       *BeaconBlockBody
}

var beaconBlockSchema = ssz.ContainerSchema(
	ssz.Field{Name: "slot", Schema: ssz.Uint64Schema},
	ssz.Field{Name: "parent_root", Schema: ssz.BytesVectorSchema(32)},
	ssz.Field{Name: "state_root", Schema: ssz.BytesVectorSchema(32)},
	ssz.Field{Name: "body", Schema: beaconBlockBodySchema},
)

func (b *BeaconBlock) SSZSchema() *ssz.Schema { return beaconBlockSchema }

func (b *BeaconBlock) Field(i int) ssz.Value {
	switch i {
	case 0:
		return ssz.U64(b.Slot)
	case 1:
		return ssz.NewFixedBytes(b.ParentRoot[:])
	case 2:
		return ssz.NewFixedBytes(b.StateRoot[:])
	case 3:
		return b.Body
	}
	panic("eth.BeaconBlock: field index out of range")
}

func (b *BeaconBlock) LoadSSZ(d *ssz.Decoded) error {
	b.Slot = primitives.Slot(d.Fields[0].Uint64())
	copy(b.ParentRoot[:], d.Fields[1].Bytes())
	copy(b.StateRoot[:], d.Fields[2].Bytes())
	b.Body = new(BeaconBlockBody)
	return b.Body.LoadSSZ(d.Fields[3])
}

// SigningRoot returns the root the proposer signs: the block hashed with
// its own state_root left populated (state_root is part of the block, not
// stripped like a trailing signature) — signature is a sibling field on
// SignedBeaconBlock, not part of BeaconBlock itself, so htr(b) already is
// the signing object root.
func (b *BeaconBlock) SigningRoot() ([32]byte, error) {
	return ssz.HashTreeRoot(b)
}

// SignedBeaconBlock pairs a BeaconBlock with its proposer signature.
type SignedBeaconBlock struct {
	Block     *BeaconBlock
	Signature [96]byte
}

var signedBeaconBlockSchema = ssz.ContainerSchema(
	ssz.Field{Name: "message", Schema: beaconBlockSchema},
	ssz.Field{Name: "signature", Schema: ssz.BytesVectorSchema(96)},
)

func (s *SignedBeaconBlock) SSZSchema() *ssz.Schema { return signedBeaconBlockSchema }

func (s *SignedBeaconBlock) Field(i int) ssz.Value {
	switch i {
	case 0:
		return s.Block
	case 1:
		return ssz.NewFixedBytes(s.Signature[:])
	}
	panic("eth.SignedBeaconBlock: field index out of range")
}

func (s *SignedBeaconBlock) LoadSSZ(d *ssz.Decoded) error {
	s.Block = new(BeaconBlock)
	if err := s.Block.LoadSSZ(d.Fields[0]); err != nil {
		return err
	}
	copy(s.Signature[:], d.Fields[1].Bytes())
	return nil
}
