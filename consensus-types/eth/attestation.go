package eth

import (
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
	"github.com/prylabs-zero/beacon-core/encoding/ssz"
)

const maxValidatorsPerCommittee = 2048

// AttestationData is a committee member's vote: the slot and committee it
// attests from, the block it attests to, its FFG source/target checkpoints,
// and its crosslink vote.
type AttestationData struct {
	Slot            primitives.Slot
	Index           primitives.CommitteeIndex
	BeaconBlockRoot [32]byte
	Source          *Checkpoint
	Target          *Checkpoint
	Crosslink       *Crosslink
}

var attestationDataSchema = ssz.ContainerSchema(
	ssz.Field{Name: "slot", Schema: ssz.Uint64Schema},
	ssz.Field{Name: "index", Schema: ssz.Uint64Schema},
	ssz.Field{Name: "beacon_block_root", Schema: ssz.BytesVectorSchema(32)},
	ssz.Field{Name: "source", Schema: checkpointSchema},
	ssz.Field{Name: "target", Schema: checkpointSchema},
	ssz.Field{Name: "crosslink", Schema: crosslinkSchema},
)

func (a *AttestationData) SSZSchema() *ssz.Schema { return attestationDataSchema }

func (a *AttestationData) Field(i int) ssz.Value {
	switch i {
	case 0:
		return ssz.U64(a.Slot)
	case 1:
		return ssz.U64(a.Index)
	case 2:
		return ssz.NewFixedBytes(a.BeaconBlockRoot[:])
	case 3:
		return a.Source
	case 4:
		return a.Target
	case 5:
		return a.Crosslink
	}
	panic("eth.AttestationData: field index out of range")
}

func (a *AttestationData) LoadSSZ(d *ssz.Decoded) error {
	a.Slot = primitives.Slot(d.Fields[0].Uint64())
	a.Index = primitives.CommitteeIndex(d.Fields[1].Uint64())
	copy(a.BeaconBlockRoot[:], d.Fields[2].Bytes())
	a.Source = new(Checkpoint)
	if err := a.Source.LoadSSZ(d.Fields[3]); err != nil {
		return err
	}
	a.Target = new(Checkpoint)
	if err := a.Target.LoadSSZ(d.Fields[4]); err != nil {
		return err
	}
	a.Crosslink = new(Crosslink)
	return a.Crosslink.LoadSSZ(d.Fields[5])
}

// Equals reports whether a and other are the same vote, the equality used
// to aggregate attestations in the pending-operation pool (spec.md §4.8).
func (a *AttestationData) Equals(other *AttestationData) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.Slot == other.Slot &&
		a.Index == other.Index &&
		a.BeaconBlockRoot == other.BeaconBlockRoot &&
		a.Source.Equals(other.Source) &&
		a.Target.Equals(other.Target) &&
		a.Crosslink.Equals(other.Crosslink)
}

// Copy returns a deep copy of a.
func (a *AttestationData) Copy() *AttestationData {
	if a == nil {
		return nil
	}
	return &AttestationData{
		Slot:            a.Slot,
		Index:           a.Index,
		BeaconBlockRoot: a.BeaconBlockRoot,
		Source:          a.Source.Copy(),
		Target:          a.Target.Copy(),
		Crosslink:       a.Crosslink.Copy(),
	}
}

// Attestation is a signed, committee-aggregated vote for AttestationData.
type Attestation struct {
	AggregationBits *ssz.Bitlist
	Data            *AttestationData
	CustodyBits     *ssz.Bitlist
	Signature       [96]byte
}

var attestationSchema = ssz.ContainerSchema(
	ssz.Field{Name: "aggregation_bits", Schema: ssz.BitlistSchema(maxValidatorsPerCommittee)},
	ssz.Field{Name: "data", Schema: attestationDataSchema},
	ssz.Field{Name: "custody_bits", Schema: ssz.BitlistSchema(maxValidatorsPerCommittee)},
	ssz.Field{Name: "signature", Schema: ssz.BytesVectorSchema(96)},
)

func (a *Attestation) SSZSchema() *ssz.Schema { return attestationSchema }

func (a *Attestation) Field(i int) ssz.Value {
	switch i {
	case 0:
		return a.AggregationBits
	case 1:
		return a.Data
	case 2:
		return a.CustodyBits
	case 3:
		return ssz.NewFixedBytes(a.Signature[:])
	}
	panic("eth.Attestation: field index out of range")
}

func (a *Attestation) LoadSSZ(d *ssz.Decoded) error {
	a.AggregationBits = bitlistFromDecoded(d.Fields[0], maxValidatorsPerCommittee)
	a.Data = new(AttestationData)
	if err := a.Data.LoadSSZ(d.Fields[1]); err != nil {
		return err
	}
	a.CustodyBits = bitlistFromDecoded(d.Fields[2], maxValidatorsPerCommittee)
	copy(a.Signature[:], d.Fields[3].Bytes())
	return nil
}

func bitlistFromDecoded(d *ssz.Decoded, limit uint64) *ssz.Bitlist {
	b := ssz.NewBitlist(d.BitLen, limit)
	for i := uint64(0); i < d.BitLen; i++ {
		if d.Bits[i/8]&(1<<(i%8)) != 0 {
			b.Inner().SetBitAt(i, true)
		}
	}
	return b
}

// PendingAttestation is an Attestation as recorded inside BeaconState once
// included in a block: it drops the signature/custody bits (already
// verified at inclusion time) and adds inclusion bookkeeping.
type PendingAttestation struct {
	AggregationBits *ssz.Bitlist
	Data            *AttestationData
	InclusionDelay  primitives.Slot
	ProposerIndex   primitives.ValidatorIndex
}

var pendingAttestationSchema = ssz.ContainerSchema(
	ssz.Field{Name: "aggregation_bits", Schema: ssz.BitlistSchema(maxValidatorsPerCommittee)},
	ssz.Field{Name: "data", Schema: attestationDataSchema},
	ssz.Field{Name: "inclusion_delay", Schema: ssz.Uint64Schema},
	ssz.Field{Name: "proposer_index", Schema: ssz.Uint64Schema},
)

func (p *PendingAttestation) SSZSchema() *ssz.Schema { return pendingAttestationSchema }

func (p *PendingAttestation) Field(i int) ssz.Value {
	switch i {
	case 0:
		return p.AggregationBits
	case 1:
		return p.Data
	case 2:
		return ssz.U64(p.InclusionDelay)
	case 3:
		return ssz.U64(p.ProposerIndex)
	}
	panic("eth.PendingAttestation: field index out of range")
}

func (p *PendingAttestation) LoadSSZ(d *ssz.Decoded) error {
	p.AggregationBits = bitlistFromDecoded(d.Fields[0], maxValidatorsPerCommittee)
	p.Data = new(AttestationData)
	if err := p.Data.LoadSSZ(d.Fields[1]); err != nil {
		return err
	}
	p.InclusionDelay = primitives.Slot(d.Fields[2].Uint64())
	p.ProposerIndex = primitives.ValidatorIndex(d.Fields[3].Uint64())
	return nil
}

// IndexedAttestation is the unaggregated, index-listing form attester
// slashings carry: two of these with conflicting votes from an overlapping
// index set is the slashing condition (spec.md §4.4 attester_slashings).
type IndexedAttestation struct {
	AttestingIndices []primitives.ValidatorIndex
	Data             *AttestationData
	Signature        [96]byte
}

const maxValidatorsPerCommitteeList = maxValidatorsPerCommittee

var indexedAttestationSchema = ssz.ContainerSchema(
	ssz.Field{Name: "attesting_indices", Schema: ssz.ListSchema(ssz.Uint64Schema, maxValidatorsPerCommitteeList)},
	ssz.Field{Name: "data", Schema: attestationDataSchema},
	ssz.Field{Name: "signature", Schema: ssz.BytesVectorSchema(96)},
)

func (ia *IndexedAttestation) SSZSchema() *ssz.Schema { return indexedAttestationSchema }

type u64ListValue []primitives.ValidatorIndex

func (u u64ListValue) SSZSchema() *ssz.Schema { return ssz.ListSchema(ssz.Uint64Schema, maxValidatorsPerCommitteeList) }
func (u u64ListValue) Len() int               { return len(u) }
func (u u64ListValue) Elem(i int) ssz.Value   { return ssz.U64(u[i]) }

func (ia *IndexedAttestation) Field(i int) ssz.Value {
	switch i {
	case 0:
		return u64ListValue(ia.AttestingIndices)
	case 1:
		return ia.Data
	case 2:
		return ssz.NewFixedBytes(ia.Signature[:])
	}
	panic("eth.IndexedAttestation: field index out of range")
}

func (ia *IndexedAttestation) LoadSSZ(d *ssz.Decoded) error {
	ia.AttestingIndices = make([]primitives.ValidatorIndex, len(d.Fields[0].Elems))
	for i, e := range d.Fields[0].Elems {
		ia.AttestingIndices[i] = primitives.ValidatorIndex(e.Uint64())
	}
	ia.Data = new(AttestationData)
	if err := ia.Data.LoadSSZ(d.Fields[1]); err != nil {
		return err
	}
	copy(ia.Signature[:], d.Fields[2].Bytes())
	return nil
}

// AttesterSlashing bundles two IndexedAttestations offered as slashing
// evidence.
type AttesterSlashing struct {
	Attestation1 *IndexedAttestation
	Attestation2 *IndexedAttestation
}

var attesterSlashingSchema = ssz.ContainerSchema(
	ssz.Field{Name: "attestation_1", Schema: indexedAttestationSchema},
	ssz.Field{Name: "attestation_2", Schema: indexedAttestationSchema},
)

func (as *AttesterSlashing) SSZSchema() *ssz.Schema { return attesterSlashingSchema }

func (as *AttesterSlashing) Field(i int) ssz.Value {
	switch i {
	case 0:
		return as.Attestation1
	case 1:
		return as.Attestation2
	}
	panic("eth.AttesterSlashing: field index out of range")
}

func (as *AttesterSlashing) LoadSSZ(d *ssz.Decoded) error {
	as.Attestation1 = new(IndexedAttestation)
	if err := as.Attestation1.LoadSSZ(d.Fields[0]); err != nil {
		return err
	}
	as.Attestation2 = new(IndexedAttestation)
	return as.Attestation2.LoadSSZ(d.Fields[1])
}
