package eth

import (
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
	"github.com/prylabs-zero/beacon-core/encoding/ssz"
)

// Checkpoint is the FFG vote unit: (epoch, block root at the epoch boundary).
type Checkpoint struct {
	Epoch primitives.Epoch
	Root  [32]byte
}

var checkpointSchema = ssz.ContainerSchema(
	ssz.Field{Name: "epoch", Schema: ssz.Uint64Schema},
	ssz.Field{Name: "root", Schema: ssz.BytesVectorSchema(32)},
)

func (c *Checkpoint) SSZSchema() *ssz.Schema { return checkpointSchema }

func (c *Checkpoint) Field(i int) ssz.Value {
	switch i {
	case 0:
		return ssz.U64(c.Epoch)
	case 1:
		return ssz.NewFixedBytes(c.Root[:])
	}
	panic("eth.Checkpoint: field index out of range")
}

func (c *Checkpoint) LoadSSZ(d *ssz.Decoded) error {
	c.Epoch = primitives.Epoch(d.Fields[0].Uint64())
	copy(c.Root[:], d.Fields[1].Bytes())
	return nil
}

// Equals reports whether c and other name the same checkpoint.
func (c *Checkpoint) Equals(other *Checkpoint) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Epoch == other.Epoch && c.Root == other.Root
}

// Copy returns a deep copy of c.
func (c *Checkpoint) Copy() *Checkpoint {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
