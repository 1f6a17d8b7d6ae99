// Package eth defines the phase-0 consensus data model (spec.md §3): the
// containers carried on the wire and inside BeaconState, each wired into
// the encoding/ssz schema engine as a thin ContainerValue view rather than
// hand-rolling a bespoke marshal/unmarshal per type.
package eth

import (
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
	"github.com/prylabs-zero/beacon-core/encoding/ssz"
)

// Fork records a pending or past fork-version transition.
type Fork struct {
	PreviousVersion [4]byte
	CurrentVersion  [4]byte
	Epoch           primitives.Epoch
}

var forkSchema = ssz.ContainerSchema(
	ssz.Field{Name: "previous_version", Schema: ssz.BytesVectorSchema(4)},
	ssz.Field{Name: "current_version", Schema: ssz.BytesVectorSchema(4)},
	ssz.Field{Name: "epoch", Schema: ssz.Uint64Schema},
)

func (f *Fork) SSZSchema() *ssz.Schema { return forkSchema }

// Copy returns a deep copy of f.
func (f *Fork) Copy() *Fork {
	if f == nil {
		return nil
	}
	cp := *f
	return &cp
}

func (f *Fork) Field(i int) ssz.Value {
	switch i {
	case 0:
		return ssz.NewFixedBytes(f.PreviousVersion[:])
	case 1:
		return ssz.NewFixedBytes(f.CurrentVersion[:])
	case 2:
		return ssz.U64(f.Epoch)
	}
	panic("eth.Fork: field index out of range")
}

func (f *Fork) LoadSSZ(d *ssz.Decoded) error {
	copy(f.PreviousVersion[:], d.Fields[0].Bytes())
	copy(f.CurrentVersion[:], d.Fields[1].Bytes())
	f.Epoch = primitives.Epoch(d.Fields[2].Uint64())
	return nil
}
