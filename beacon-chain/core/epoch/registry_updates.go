package epoch

import (
	"sort"

	"github.com/prylabs-zero/beacon-core/beacon-chain/core/helpers"
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/config/params"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
)

// ProcessRegistryUpdates ejects validators whose effective balance has
// fallen to or below the ejection threshold, then activates as many
// eligible validators as the churn limit allows, in ascending
// activation-eligibility order so the queue is first-in-first-out.
//
//	def process_registry_updates(state: BeaconState) -> None:
//	  for index, validator in enumerate(state.validators):
//	    if is_eligible_for_activation_queue(validator):
//	      validator.activation_eligibility_epoch = get_current_epoch(state) + 1
//	    if is_active_validator(validator, get_current_epoch(state)) and validator.effective_balance <= EJECTION_BALANCE:
//	      initiate_validator_exit(state, ValidatorIndex(index))
//	  activation_queue = sorted([...], key=lambda i: state.validators[i].activation_eligibility_epoch)
//	  for index in activation_queue[:get_validator_churn_limit(state)]:
//	    validator = state.validators[index]
//	    validator.activation_epoch = compute_activation_exit_epoch(get_current_epoch(state))
func ProcessRegistryUpdates(st *state.BeaconState) error {
	cfg := params.BeaconConfig()
	currentEpoch := helpers.CurrentEpoch(st.Slot())

	validators := st.Validators()
	for i, v := range validators {
		index := primitives.ValidatorIndex(i)
		if helpers.IsEligibleForActivationQueue(v) {
			updated := v.Copy()
			updated.ActivationEligibilityEpoch = currentEpoch.Add(1)
			if err := st.UpdateValidatorAtIndex(index, updated); err != nil {
				return err
			}
			v = updated
		}
		if helpers.IsActiveValidator(v, currentEpoch) && v.EffectiveBalance <= cfg.EjectionBalance {
			if err := helpers.InitiateValidatorExit(st, index); err != nil {
				return err
			}
		}
	}

	var queue []primitives.ValidatorIndex
	for i, v := range st.Validators() {
		if helpers.IsEligibleForActivation(st, v) {
			queue = append(queue, primitives.ValidatorIndex(i))
		}
	}
	sort.Slice(queue, func(a, b int) bool {
		va, _ := st.ValidatorAtIndex(queue[a])
		vb, _ := st.ValidatorAtIndex(queue[b])
		if va.ActivationEligibilityEpoch != vb.ActivationEligibilityEpoch {
			return va.ActivationEligibilityEpoch < vb.ActivationEligibilityEpoch
		}
		return queue[a] < queue[b]
	})

	churnLimit := helpers.ValidatorChurnLimit(st)
	if uint64(len(queue)) > churnLimit {
		queue = queue[:churnLimit]
	}
	activationEpoch := helpers.ActivationExitEpoch(currentEpoch)
	for _, index := range queue {
		v, err := st.ValidatorAtIndex(index)
		if err != nil {
			return err
		}
		updated := v.Copy()
		updated.ActivationEpoch = activationEpoch
		if err := st.UpdateValidatorAtIndex(index, updated); err != nil {
			return err
		}
	}
	return nil
}
