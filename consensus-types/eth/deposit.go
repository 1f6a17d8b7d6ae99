package eth

import (
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
	"github.com/prylabs-zero/beacon-core/encoding/ssz"
)

// depositContractTreeDepth mirrors DEPOSIT_CONTRACT_TREE_DEPTH; the deposit
// Merkle proof has one extra level mixing in the deposit count, giving a
// Vector[Bytes32, 33] proof shape (spec.md §3).
const depositContractTreeDepth = 32

// DepositData is what a validator signs to deposit into the beacon chain.
type DepositData struct {
	Pubkey                [48]byte
	WithdrawalCredentials [32]byte
	Amount                primitives.Gwei
	Signature             [96]byte
}

var depositDataSchema = ssz.ContainerSchema(
	ssz.Field{Name: "pubkey", Schema: ssz.BytesVectorSchema(48)},
	ssz.Field{Name: "withdrawal_credentials", Schema: ssz.BytesVectorSchema(32)},
	ssz.Field{Name: "amount", Schema: ssz.Uint64Schema},
	ssz.Field{Name: "signature", Schema: ssz.BytesVectorSchema(96)},
)

func (d *DepositData) SSZSchema() *ssz.Schema { return depositDataSchema }

func (d *DepositData) Field(i int) ssz.Value {
	switch i {
	case 0:
		return ssz.NewFixedBytes(d.Pubkey[:])
	case 1:
		return ssz.NewFixedBytes(d.WithdrawalCredentials[:])
	case 2:
		return ssz.U64(d.Amount)
	case 3:
		return ssz.NewFixedBytes(d.Signature[:])
	}
	panic("eth.DepositData: field index out of range")
}

func (d *DepositData) LoadSSZ(dec *ssz.Decoded) error {
	copy(d.Pubkey[:], dec.Fields[0].Bytes())
	copy(d.WithdrawalCredentials[:], dec.Fields[1].Bytes())
	d.Amount = primitives.Gwei(dec.Fields[2].Uint64())
	copy(d.Signature[:], dec.Fields[3].Bytes())
	return nil
}

// SigningRoot returns the root DepositData signatures are computed over:
// the container hashed with its signature field zeroed (spec.md §4.3
// signing_root), except deposits sign over object_root directly per the
// phase-0 spec rather than a domain-wrapped SigningRoot container, since
// deposits must remain valid across forks.
func (d *DepositData) SigningRoot() ([32]byte, error) {
	unsigned := &DepositData{Pubkey: d.Pubkey, WithdrawalCredentials: d.WithdrawalCredentials, Amount: d.Amount}
	return ssz.HashTreeRoot(unsigned)
}

// Deposit carries DepositData plus its Merkle inclusion proof against the
// eth1 deposit root.
type Deposit struct {
	Proof [depositContractTreeDepth + 1][32]byte
	Data  *DepositData
}

var depositSchema = ssz.ContainerSchema(
	ssz.Field{Name: "proof", Schema: ssz.VectorSchema(ssz.BytesVectorSchema(32), depositContractTreeDepth+1)},
	ssz.Field{Name: "data", Schema: depositDataSchema},
)

func (d *Deposit) SSZSchema() *ssz.Schema { return depositSchema }

type proofVector [depositContractTreeDepth + 1][32]byte

func (p proofVector) SSZSchema() *ssz.Schema {
	return ssz.VectorSchema(ssz.BytesVectorSchema(32), depositContractTreeDepth+1)
}
func (p proofVector) Len() int { return len(p) }
func (p proofVector) Elem(i int) ssz.Value {
	return ssz.NewFixedBytes(p[i][:])
}

func (d *Deposit) Field(i int) ssz.Value {
	switch i {
	case 0:
		return proofVector(d.Proof)
	case 1:
		return d.Data
	}
	panic("eth.Deposit: field index out of range")
}

func (d *Deposit) LoadSSZ(dec *ssz.Decoded) error {
	for i, e := range dec.Fields[0].Elems {
		copy(d.Proof[i][:], e.Bytes())
	}
	d.Data = new(DepositData)
	return d.Data.LoadSSZ(dec.Fields[1])
}
