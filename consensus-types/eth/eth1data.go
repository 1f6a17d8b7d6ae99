package eth

import "github.com/prylabs-zero/beacon-core/encoding/ssz"

// Eth1Data is a proposer's vote on the state of the deposit contract.
type Eth1Data struct {
	DepositRoot  [32]byte
	DepositCount uint64
	BlockHash    [32]byte
}

var eth1DataSchema = ssz.ContainerSchema(
	ssz.Field{Name: "deposit_root", Schema: ssz.BytesVectorSchema(32)},
	ssz.Field{Name: "deposit_count", Schema: ssz.Uint64Schema},
	ssz.Field{Name: "block_hash", Schema: ssz.BytesVectorSchema(32)},
)

func (e *Eth1Data) SSZSchema() *ssz.Schema { return eth1DataSchema }

func (e *Eth1Data) Field(i int) ssz.Value {
	switch i {
	case 0:
		return ssz.NewFixedBytes(e.DepositRoot[:])
	case 1:
		return ssz.U64(e.DepositCount)
	case 2:
		return ssz.NewFixedBytes(e.BlockHash[:])
	}
	panic("eth.Eth1Data: field index out of range")
}

func (e *Eth1Data) LoadSSZ(d *ssz.Decoded) error {
	copy(e.DepositRoot[:], d.Fields[0].Bytes())
	e.DepositCount = d.Fields[1].Uint64()
	copy(e.BlockHash[:], d.Fields[2].Bytes())
	return nil
}

// Equals reports whether e and other carry identical fields.
func (e *Eth1Data) Equals(other *Eth1Data) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.DepositRoot == other.DepositRoot && e.DepositCount == other.DepositCount && e.BlockHash == other.BlockHash
}

// Copy returns a deep copy of e.
func (e *Eth1Data) Copy() *Eth1Data {
	if e == nil {
		return nil
	}
	cp := *e
	return &cp
}
