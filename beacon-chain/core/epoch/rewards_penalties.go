package epoch

import (
	"github.com/prylabs-zero/beacon-core/beacon-chain/core/helpers"
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/config/params"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
)

// ProcessRewardsAndPenalties applies helpers.AttestationDeltas' per-validator
// deltas to the balances vector. It is skipped in the single epoch
// immediately after genesis, which has no previous epoch to reward.
//
//	def process_rewards_and_penalties(state: BeaconState) -> None:
//	  if get_current_epoch(state) == GENESIS_EPOCH:
//	    return
//	  rewards, penalties = get_attestation_deltas(state)
//	  for index in range(len(state.validators)):
//	    increase_balance(state, ValidatorIndex(index), rewards[index])
//	    decrease_balance(state, ValidatorIndex(index), penalties[index])
func ProcessRewardsAndPenalties(st *state.BeaconState) error {
	if helpers.CurrentEpoch(st.Slot()) == params.BeaconConfig().GenesisEpoch {
		return nil
	}
	rewards, penalties, err := helpers.AttestationDeltas(st)
	if err != nil {
		return err
	}
	for i := range rewards {
		index := primitives.ValidatorIndex(i)
		if err := helpers.IncreaseBalance(st, index, rewards[i]); err != nil {
			return err
		}
		if err := helpers.DecreaseBalance(st, index, penalties[i]); err != nil {
			return err
		}
	}
	return nil
}
