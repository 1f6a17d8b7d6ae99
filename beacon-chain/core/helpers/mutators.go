package helpers

import (
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/config/params"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
)

// IncreaseBalance adds delta to balances[index], saturating per Gwei's
// arithmetic contract.
//
//	def increase_balance(state: BeaconState, index: ValidatorIndex, delta: Gwei) -> None:
//	  state.balances[index] += delta
func IncreaseBalance(st *state.BeaconState, index primitives.ValidatorIndex, delta primitives.Gwei) error {
	balance, err := st.BalanceAtIndex(index)
	if err != nil {
		return err
	}
	return st.UpdateBalanceAtIndex(index, balance.Add(delta))
}

// DecreaseBalance subtracts delta from balances[index], flooring at zero
// rather than underflowing.
//
//	def decrease_balance(state: BeaconState, index: ValidatorIndex, delta: Gwei) -> None:
//	  state.balances[index] = 0 if delta > state.balances[index] else state.balances[index] - delta
func DecreaseBalance(st *state.BeaconState, index primitives.ValidatorIndex, delta primitives.Gwei) error {
	balance, err := st.BalanceAtIndex(index)
	if err != nil {
		return err
	}
	return st.UpdateBalanceAtIndex(index, balance.Sub(delta))
}

// InitiateValidatorExit schedules index for exit at the earliest
// churn-limited epoch at or after the current activation-exit horizon,
// pushing later into an already-full exit epoch rather than letting an
// attacker overload a single epoch's churn.
//
//	def initiate_validator_exit(state: BeaconState, index: ValidatorIndex) -> None:
//	  validator = state.validators[index]
//	  if validator.exit_epoch != FAR_FUTURE_EPOCH:
//	    return
//	  exit_epochs = [v.exit_epoch for v in state.validators if v.exit_epoch != FAR_FUTURE_EPOCH]
//	  exit_queue_epoch = max(exit_epochs + [compute_activation_exit_epoch(get_current_epoch(state))])
//	  exit_queue_churn = len([v for v in state.validators if v.exit_epoch == exit_queue_epoch])
//	  if exit_queue_churn >= get_validator_churn_limit(state):
//	    exit_queue_epoch += Epoch(1)
//	  validator.exit_epoch = exit_queue_epoch
//	  validator.withdrawable_epoch = validator.exit_epoch + MIN_VALIDATOR_WITHDRAWABILITY_DELAY
func InitiateValidatorExit(st *state.BeaconState, index primitives.ValidatorIndex) error {
	cfg := params.BeaconConfig()
	v, err := st.ValidatorAtIndex(index)
	if err != nil {
		return err
	}
	if v.ExitEpoch != cfg.FarFutureEpoch {
		return nil
	}

	exitQueueEpoch := ActivationExitEpoch(CurrentEpoch(st.Slot()))
	churn := 0
	for _, other := range st.Validators() {
		if other.ExitEpoch == cfg.FarFutureEpoch {
			continue
		}
		if other.ExitEpoch > exitQueueEpoch {
			exitQueueEpoch = other.ExitEpoch
		}
	}
	for _, other := range st.Validators() {
		if other.ExitEpoch == exitQueueEpoch {
			churn++
		}
	}
	if uint64(churn) >= ValidatorChurnLimit(st) {
		exitQueueEpoch++
	}

	updated := v.Copy()
	updated.ExitEpoch = exitQueueEpoch
	updated.WithdrawableEpoch = exitQueueEpoch.Add(uint64(cfg.MinValidatorWithdrawabilityDelay))
	return st.UpdateValidatorAtIndex(index, updated)
}

// SlashValidator applies the slashing penalty to index: exit initiation,
// the slashed flag and extended withdrawable_epoch, the slashings-vector
// bookkeeping epoch processing later prorates against, an immediate
// balance penalty, and the whistleblower/proposer reward split. Passing a
// nil whistleblowerIndex credits the current proposer as its own
// whistleblower, the shape a ProcessProposerSlashings/
// ProcessAttesterSlashings caller uses when no separate reporter is
// tracked.
//
//	def slash_validator(state, slashed_index, whistleblower_index=None) -> None:
//	  (see body)
func SlashValidator(st *state.BeaconState, slashedIndex primitives.ValidatorIndex, whistleblowerIndex *primitives.ValidatorIndex) error {
	cfg := params.BeaconConfig()
	epoch := CurrentEpoch(st.Slot())

	if err := InitiateValidatorExit(st, slashedIndex); err != nil {
		return err
	}

	v, err := st.ValidatorAtIndex(slashedIndex)
	if err != nil {
		return err
	}
	updated := v.Copy()
	updated.Slashed = true
	withdrawable := epoch.Add(uint64(cfg.EpochsPerSlashingsVector))
	if updated.WithdrawableEpoch > withdrawable {
		withdrawable = updated.WithdrawableEpoch
	}
	updated.WithdrawableEpoch = withdrawable
	if err := st.UpdateValidatorAtIndex(slashedIndex, updated); err != nil {
		return err
	}

	bucket := uint64(epoch) % uint64(cfg.EpochsPerSlashingsVector)
	slashedBalance, err := st.SlashedBalance(bucket)
	if err != nil {
		return err
	}
	if err := st.UpdateSlashingsAtIndex(bucket, slashedBalance.Add(updated.EffectiveBalance)); err != nil {
		return err
	}
	if err := DecreaseBalance(st, slashedIndex, primitives.Gwei(uint64(updated.EffectiveBalance)/cfg.MinSlashingPenaltyQuotient)); err != nil {
		return err
	}

	proposerIndex, err := BeaconProposerIndex(st)
	if err != nil {
		return err
	}
	whistleblower := proposerIndex
	if whistleblowerIndex != nil {
		whistleblower = *whistleblowerIndex
	}
	whistleblowerReward := primitives.Gwei(uint64(updated.EffectiveBalance) / cfg.WhistleblowerRewardQuotient)
	proposerReward := primitives.Gwei(uint64(whistleblowerReward) / cfg.ProposerRewardQuotient)
	if err := IncreaseBalance(st, proposerIndex, proposerReward); err != nil {
		return err
	}
	return IncreaseBalance(st, whistleblower, whistleblowerReward.Sub(proposerReward))
}
