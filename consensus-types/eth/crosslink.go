package eth

import (
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
	"github.com/prylabs-zero/beacon-core/encoding/ssz"
)

// Crosslink is the phase-0 shard-to-beacon commitment summary. Per
// spec.md's glossary it is a placeholder with deterministic fields in
// phase 0; the epoch-processing crosslink step (spec.md §4.4) still
// carries it forward each epoch per the winning-committee rule.
type Crosslink struct {
	Shard      primitives.ShardNumber
	ParentRoot [32]byte
	StartEpoch primitives.Epoch
	EndEpoch   primitives.Epoch
	DataRoot   [32]byte
}

var crosslinkSchema = ssz.ContainerSchema(
	ssz.Field{Name: "shard", Schema: ssz.Uint64Schema},
	ssz.Field{Name: "parent_root", Schema: ssz.BytesVectorSchema(32)},
	ssz.Field{Name: "start_epoch", Schema: ssz.Uint64Schema},
	ssz.Field{Name: "end_epoch", Schema: ssz.Uint64Schema},
	ssz.Field{Name: "data_root", Schema: ssz.BytesVectorSchema(32)},
)

func (c *Crosslink) SSZSchema() *ssz.Schema { return crosslinkSchema }

func (c *Crosslink) Field(i int) ssz.Value {
	switch i {
	case 0:
		return ssz.U64(c.Shard)
	case 1:
		return ssz.NewFixedBytes(c.ParentRoot[:])
	case 2:
		return ssz.U64(c.StartEpoch)
	case 3:
		return ssz.U64(c.EndEpoch)
	case 4:
		return ssz.NewFixedBytes(c.DataRoot[:])
	}
	panic("eth.Crosslink: field index out of range")
}

func (c *Crosslink) LoadSSZ(d *ssz.Decoded) error {
	c.Shard = primitives.ShardNumber(d.Fields[0].Uint64())
	copy(c.ParentRoot[:], d.Fields[1].Bytes())
	c.StartEpoch = primitives.Epoch(d.Fields[2].Uint64())
	c.EndEpoch = primitives.Epoch(d.Fields[3].Uint64())
	copy(c.DataRoot[:], d.Fields[4].Bytes())
	return nil
}

// Copy returns a deep copy of c.
func (c *Crosslink) Copy() *Crosslink {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// Equals reports field-wise equality.
func (c *Crosslink) Equals(other *Crosslink) bool {
	if c == nil || other == nil {
		return c == other
	}
	return *c == *other
}
