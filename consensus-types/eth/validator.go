package eth

import (
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
	"github.com/prylabs-zero/beacon-core/encoding/ssz"
)

// Validator is the registry entry spec.md §3 defines: identity,
// withdrawal destination, effective balance, and the lifecycle epochs
// (eligibility, activation, exit, withdrawable).
type Validator struct {
	Pubkey                     [48]byte
	WithdrawalCredentials      [32]byte
	EffectiveBalance           primitives.Gwei
	Slashed                    bool
	ActivationEligibilityEpoch primitives.Epoch
	ActivationEpoch            primitives.Epoch
	ExitEpoch                  primitives.Epoch
	WithdrawableEpoch          primitives.Epoch
}

var validatorSchema = ssz.ContainerSchema(
	ssz.Field{Name: "pubkey", Schema: ssz.BytesVectorSchema(48)},
	ssz.Field{Name: "withdrawal_credentials", Schema: ssz.BytesVectorSchema(32)},
	ssz.Field{Name: "effective_balance", Schema: ssz.Uint64Schema},
	ssz.Field{Name: "slashed", Schema: ssz.BoolSchema},
	ssz.Field{Name: "activation_eligibility_epoch", Schema: ssz.Uint64Schema},
	ssz.Field{Name: "activation_epoch", Schema: ssz.Uint64Schema},
	ssz.Field{Name: "exit_epoch", Schema: ssz.Uint64Schema},
	ssz.Field{Name: "withdrawable_epoch", Schema: ssz.Uint64Schema},
)

func (v *Validator) SSZSchema() *ssz.Schema { return validatorSchema }

func (v *Validator) Field(i int) ssz.Value {
	switch i {
	case 0:
		return ssz.NewFixedBytes(v.Pubkey[:])
	case 1:
		return ssz.NewFixedBytes(v.WithdrawalCredentials[:])
	case 2:
		return ssz.U64(v.EffectiveBalance)
	case 3:
		return ssz.Bool(v.Slashed)
	case 4:
		return ssz.U64(v.ActivationEligibilityEpoch)
	case 5:
		return ssz.U64(v.ActivationEpoch)
	case 6:
		return ssz.U64(v.ExitEpoch)
	case 7:
		return ssz.U64(v.WithdrawableEpoch)
	}
	panic("eth.Validator: field index out of range")
}

func (v *Validator) LoadSSZ(d *ssz.Decoded) error {
	copy(v.Pubkey[:], d.Fields[0].Bytes())
	copy(v.WithdrawalCredentials[:], d.Fields[1].Bytes())
	v.EffectiveBalance = primitives.Gwei(d.Fields[2].Uint64())
	v.Slashed = d.Fields[3].Basic[0] != 0
	v.ActivationEligibilityEpoch = primitives.Epoch(d.Fields[4].Uint64())
	v.ActivationEpoch = primitives.Epoch(d.Fields[5].Uint64())
	v.ExitEpoch = primitives.Epoch(d.Fields[6].Uint64())
	v.WithdrawableEpoch = primitives.Epoch(d.Fields[7].Uint64())
	return nil
}

// Copy returns a deep copy of v (Validator has no nested pointers, so a
// value copy suffices).
func (v *Validator) Copy() *Validator {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}
