package epoch

import (
	"github.com/prylabs-zero/beacon-core/beacon-chain/core/helpers"
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/config/params"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
)

// ProcessSlashings prorates an additional penalty onto every validator
// still serving out a slashing's withdrawable period, sized by how much of
// the total slashed balance over the trailing slashings-vector window its
// own effective balance represents.
//
//	def process_slashings(state: BeaconState) -> None:
//	  epoch = get_current_epoch(state)
//	  total_balance = get_total_active_balance(state)
//	  total_slashings = sum(state.slashings)
//	  adjusted_total_slashing_balance = min(total_slashings * PROPORTIONAL_SLASHING_MULTIPLIER, total_balance)
//	  for index, validator in enumerate(state.validators):
//	    if validator.slashed and epoch + EPOCHS_PER_SLASHINGS_VECTOR // 2 == validator.withdrawable_epoch:
//	      increment = EFFECTIVE_BALANCE_INCREMENT
//	      penalty_numerator = validator.effective_balance // increment * adjusted_total_slashing_balance
//	      penalty = penalty_numerator // total_balance * increment
//	      decrease_balance(state, ValidatorIndex(index), penalty)
func ProcessSlashings(st *state.BeaconState) error {
	cfg := params.BeaconConfig()
	epoch := helpers.CurrentEpoch(st.Slot())

	totalBalance, err := helpers.TotalActiveBalance(st)
	if err != nil {
		return err
	}
	var totalSlashings primitives.Gwei
	for i := uint64(0); i < uint64(cfg.EpochsPerSlashingsVector); i++ {
		bucket, err := st.SlashedBalance(i)
		if err != nil {
			return err
		}
		totalSlashings = totalSlashings.Add(bucket)
	}
	adjusted := primitives.Gwei(uint64(totalSlashings) * cfg.ProportionalSlashingMultiplier)
	if adjusted > totalBalance {
		adjusted = totalBalance
	}

	increment := cfg.EffectiveBalanceIncrement
	target := epoch.Add(uint64(cfg.EpochsPerSlashingsVector) / 2)
	for i, v := range st.Validators() {
		if !v.Slashed || target != v.WithdrawableEpoch {
			continue
		}
		numerator := uint64(v.EffectiveBalance) / uint64(increment) * uint64(adjusted)
		penalty := numerator / uint64(totalBalance) * uint64(increment)
		if err := helpers.DecreaseBalance(st, primitives.ValidatorIndex(i), primitives.Gwei(penalty)); err != nil {
			return err
		}
	}
	return nil
}
