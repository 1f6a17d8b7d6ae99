package helpers

import (
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/config/params"
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
	"github.com/prylabs-zero/beacon-core/encoding/ssz"
)

// baseRewardsPerEpoch is the number of independent reward components
// (source, target, head, plus the fourth slot Altair would later spend on
// sync-committee participation but phase 0 folds into the inclusion-delay
// term) a fully-participating validator can earn per epoch.
const baseRewardsPerEpoch = 4

// IntegerSqrt returns floor(sqrt(n)) using Newton's method over integers,
// exactly as the reward formulas require (no floating point anywhere in
// consensus-critical arithmetic).
//
//	def integer_squareroot(n: uint64) -> uint64:
//	  x = n
//	  y = (x + 1) // 2
//	  while y < x:
//	    x = y
//	    y = (x + n // x) // 2
//	  return x
func IntegerSqrt(n uint64) uint64 {
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}

// BaseReward is the unit reward/penalty size for index: proportional to its
// effective balance and inversely proportional to the square root of total
// active balance, so per-validator influence shrinks as the validator set
// grows.
//
//	def get_base_reward(state: BeaconState, index: ValidatorIndex) -> Gwei:
//	  total_balance = get_total_active_balance(state)
//	  effective_balance = state.validators[index].effective_balance
//	  return Gwei(effective_balance * BASE_REWARD_FACTOR // integer_squareroot(total_balance) // BASE_REWARDS_PER_EPOCH)
func BaseReward(st *state.BeaconState, index primitives.ValidatorIndex) (primitives.Gwei, error) {
	totalBalance, err := TotalActiveBalance(st)
	if err != nil {
		return 0, err
	}
	v, err := st.ValidatorAtIndex(index)
	if err != nil {
		return 0, err
	}
	sqrtBalance := IntegerSqrt(uint64(totalBalance))
	if sqrtBalance == 0 {
		return 0, nil
	}
	cfg := params.BeaconConfig()
	reward := uint64(v.EffectiveBalance) * cfg.BaseRewardFactor / sqrtBalance / baseRewardsPerEpoch
	return primitives.Gwei(reward), nil
}

// ProposerReward is the slice of an attester's base reward diverted to the
// proposer who included the attestation, the remainder scaled down by the
// attestation's inclusion delay so a proposer is rewarded for inclusion but
// most of the reward still flows to the attester.
//
//	proposer_reward = Gwei(base_reward // PROPOSER_REWARD_QUOTIENT)
func ProposerReward(baseReward primitives.Gwei) primitives.Gwei {
	return primitives.Gwei(uint64(baseReward) / params.BeaconConfig().ProposerRewardQuotient)
}

// AttestingIndices resolves the committee data was drawn from and returns
// the subset bits marks as having participated, in committee order.
//
//	def get_attesting_indices(state, data: AttestationData, bits: Bitlist) -> Set[ValidatorIndex]:
//	  committee = get_beacon_committee(state, data.slot, data.index)
//	  return set(index for i, index in enumerate(committee) if bits[i])
func AttestingIndices(st *state.BeaconState, data *eth.AttestationData, bits ssz.BitsValue) ([]primitives.ValidatorIndex, error) {
	committee, err := BeaconCommittee(st, data.Slot, data.Index)
	if err != nil {
		return nil, err
	}
	attesting := make([]primitives.ValidatorIndex, 0, len(committee))
	for i, idx := range committee {
		if bits.BitAt(uint64(i)) {
			attesting = append(attesting, idx)
		}
	}
	return attesting, nil
}

func unslashedAttestingIndices(st *state.BeaconState, atts []*eth.PendingAttestation) (map[primitives.ValidatorIndex]bool, error) {
	out := make(map[primitives.ValidatorIndex]bool)
	for _, att := range atts {
		indices, err := AttestingIndices(st, att.Data, att.AggregationBits)
		if err != nil {
			return nil, err
		}
		for _, idx := range indices {
			v, err := st.ValidatorAtIndex(idx)
			if err != nil {
				return nil, err
			}
			if !v.Slashed {
				out[idx] = true
			}
		}
	}
	return out, nil
}

func indicesToSlice(set map[primitives.ValidatorIndex]bool) []primitives.ValidatorIndex {
	out := make([]primitives.ValidatorIndex, 0, len(set))
	for idx := range set {
		out = append(out, idx)
	}
	return out
}

// IsInInactivityLeak reports whether the chain has gone too long without
// finalizing, the condition under which AttestationDeltas stops rewarding
// participation and instead only penalizes non-participation.
//
//	def is_in_inactivity_leak(state: BeaconState) -> bool:
//	  return get_finality_delay(state) > MIN_EPOCHS_TO_INACTIVITY_PENALTY
func IsInInactivityLeak(st *state.BeaconState) bool {
	return FinalityDelay(st) > params.BeaconConfig().MinEpochsToInactivityPenalty
}

// FinalityDelay is how many epochs have elapsed since the last finalized
// checkpoint.
//
//	def get_finality_delay(state: BeaconState) -> uint64:
//	  return get_previous_epoch(state) - state.finalized_checkpoint.epoch
func FinalityDelay(st *state.BeaconState) primitives.Epoch {
	return PrevEpoch(st.Slot()) - st.FinalizedCheckpoint().Epoch
}

// AttestationDeltas computes the per-validator reward and penalty owed for
// the previous epoch's attestation participation: source/target/head
// matching rewards (during an inactivity leak, a flat base reward per
// matched component), one base-reward penalty per component a validator
// missed, leak or not, inclusion-delay-weighted attester
// reward with its proposer's cut split off, and — when finality has lagged
// long enough to enter the leak — an additional balance-proportional
// penalty for every validator not matching the target.
//
//	def get_attestation_deltas(state: BeaconState) -> Tuple[Sequence[Gwei], Sequence[Gwei]]:
//	  (rewards, penalties, as above)
func AttestationDeltas(st *state.BeaconState) ([]primitives.Gwei, []primitives.Gwei, error) {
	n := st.NumValidators()
	rewards := make([]primitives.Gwei, n)
	penalties := make([]primitives.Gwei, n)

	previousEpoch := PrevEpoch(st.Slot())
	totalBalance, err := TotalActiveBalance(st)
	if err != nil {
		return nil, nil, err
	}
	increment := params.BeaconConfig().EffectiveBalanceIncrement

	eligible := make([]primitives.ValidatorIndex, 0, n)
	for i, v := range st.Validators() {
		if IsActiveValidator(v, previousEpoch) || (v.Slashed && previousEpoch+1 < v.WithdrawableEpoch) {
			eligible = append(eligible, primitives.ValidatorIndex(i))
		}
	}

	matchingSource := st.PreviousEpochAttestations()

	epochTargetRoot, err := BlockRoot(st, previousEpoch)
	if err != nil {
		return nil, nil, err
	}
	matchingTarget := make([]*eth.PendingAttestation, 0, len(matchingSource))
	for _, att := range matchingSource {
		if att.Data.Target.Root == epochTargetRoot {
			matchingTarget = append(matchingTarget, att)
		}
	}

	matchingHead := make([]*eth.PendingAttestation, 0, len(matchingTarget))
	for _, att := range matchingTarget {
		slotRoot, err := BlockRootAtSlot(st, att.Data.Slot)
		if err != nil {
			return nil, nil, err
		}
		if att.Data.BeaconBlockRoot == slotRoot {
			matchingHead = append(matchingHead, att)
		}
	}

	leak := IsInInactivityLeak(st)

	for _, group := range [][]*eth.PendingAttestation{matchingSource, matchingTarget, matchingHead} {
		attestingSet, err := unslashedAttestingIndices(st, group)
		if err != nil {
			return nil, nil, err
		}
		attestingBalance, err := TotalBalance(st, indicesToSlice(attestingSet))
		if err != nil {
			return nil, nil, err
		}
		for _, idx := range eligible {
			base, err := BaseReward(st, idx)
			if err != nil {
				return nil, nil, err
			}
			if attestingSet[idx] {
				if leak {
					rewards[idx] = rewards[idx].Add(base)
				} else {
					numerator := uint64(base) * (uint64(attestingBalance) / uint64(increment))
					rewards[idx] = rewards[idx].Add(primitives.Gwei(numerator / (uint64(totalBalance) / uint64(increment))))
				}
			} else {
				penalties[idx] = penalties[idx].Add(base)
			}
		}
	}

	sourceAttestingSet, err := unslashedAttestingIndices(st, matchingSource)
	if err != nil {
		return nil, nil, err
	}
	for idx := range sourceAttestingSet {
		var best *eth.PendingAttestation
		for _, att := range matchingSource {
			indices, err := AttestingIndices(st, att.Data, att.AggregationBits)
			if err != nil {
				return nil, nil, err
			}
			attests := false
			for _, ai := range indices {
				if ai == idx {
					attests = true
					break
				}
			}
			if !attests {
				continue
			}
			if best == nil || att.InclusionDelay < best.InclusionDelay {
				best = att
			}
		}
		if best == nil {
			continue
		}
		base, err := BaseReward(st, idx)
		if err != nil {
			return nil, nil, err
		}
		proposerCut := ProposerReward(base)
		rewards[best.ProposerIndex] = rewards[best.ProposerIndex].Add(proposerCut)
		maxAttesterReward := base.Sub(proposerCut)
		rewards[idx] = rewards[idx].Add(primitives.Gwei(uint64(maxAttesterReward) / uint64(best.InclusionDelay)))
	}

	if leak {
		targetAttestingSet, err := unslashedAttestingIndices(st, matchingTarget)
		if err != nil {
			return nil, nil, err
		}
		finalityDelay := uint64(FinalityDelay(st))
		for _, idx := range eligible {
			base, err := BaseReward(st, idx)
			if err != nil {
				return nil, nil, err
			}
			flat := primitives.Gwei(baseRewardsPerEpoch * uint64(base)).Sub(ProposerReward(base))
			penalties[idx] = penalties[idx].Add(flat)
			if !targetAttestingSet[idx] {
				v, err := st.ValidatorAtIndex(idx)
				if err != nil {
					return nil, nil, err
				}
				penalties[idx] = penalties[idx].Add(primitives.Gwei(uint64(v.EffectiveBalance) * finalityDelay / params.BeaconConfig().InactivityPenaltyQuotient))
			}
		}
	}

	return rewards, penalties, nil
}
