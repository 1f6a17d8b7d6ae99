package helpers

import (
	"github.com/pkg/errors"

	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/config/params"
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
	"github.com/prylabs-zero/beacon-core/crypto/hash"
	"github.com/prylabs-zero/beacon-core/encoding/bytesutil"
)

var proposerHasher = hash.NewSHA256()

// IsActiveValidator reports whether v is eligible to propose, attest and be
// counted toward TotalBalance at epoch.
//
//	def is_active_validator(validator: Validator, epoch: Epoch) -> bool:
//	  return validator.activation_epoch <= epoch < validator.exit_epoch
func IsActiveValidator(v *eth.Validator, epoch primitives.Epoch) bool {
	return v.ActivationEpoch <= epoch && epoch < v.ExitEpoch
}

// IsSlashableValidator reports whether v can still be slashed at epoch: not
// already slashed, and epoch falls inside [activation_epoch,
// withdrawable_epoch).
//
//	def is_slashable_validator(validator: Validator, epoch: Epoch) -> bool:
//	  return (not validator.slashed) and (validator.activation_epoch <= epoch < validator.withdrawable_epoch)
func IsSlashableValidator(v *eth.Validator, epoch primitives.Epoch) bool {
	return !v.Slashed && v.ActivationEpoch <= epoch && epoch < v.WithdrawableEpoch
}

// IsEligibleForActivationQueue reports whether v may be queued for future
// activation: not yet queued, and its effective balance has caught up to
// MAX_EFFECTIVE_BALANCE.
//
//	def is_eligible_for_activation_queue(validator: Validator) -> bool:
//	  return (validator.activation_eligibility_epoch == FAR_FUTURE_EPOCH
//	          and validator.effective_balance == MAX_EFFECTIVE_BALANCE)
func IsEligibleForActivationQueue(v *eth.Validator) bool {
	cfg := params.BeaconConfig()
	return v.ActivationEligibilityEpoch == cfg.FarFutureEpoch && v.EffectiveBalance == cfg.MaxEffectiveBalance
}

// IsEligibleForActivation reports whether v may be activated in the current
// registry update: finalized after it became eligible, and not yet
// scheduled for activation.
//
//	def is_eligible_for_activation(state: BeaconState, validator: Validator) -> bool:
//	  return (validator.activation_eligibility_epoch <= state.finalized_checkpoint.epoch
//	          and validator.activation_epoch == FAR_FUTURE_EPOCH)
func IsEligibleForActivation(st *state.BeaconState, v *eth.Validator) bool {
	return v.ActivationEligibilityEpoch <= st.FinalizedCheckpoint().Epoch &&
		v.ActivationEpoch == params.BeaconConfig().FarFutureEpoch
}

// ActiveValidatorIndices returns the indices of every validator active at
// epoch, in registry order.
//
//	def get_active_validator_indices(state: BeaconState, epoch: Epoch) -> Sequence[ValidatorIndex]:
//	  return [ValidatorIndex(i) for i, v in enumerate(state.validators) if is_active_validator(v, epoch)]
func ActiveValidatorIndices(st *state.BeaconState, epoch primitives.Epoch) []primitives.ValidatorIndex {
	validators := st.Validators()
	indices := make([]primitives.ValidatorIndex, 0, len(validators))
	for i, v := range validators {
		if IsActiveValidator(v, epoch) {
			indices = append(indices, primitives.ValidatorIndex(i))
		}
	}
	return indices
}

// ActiveValidatorCount returns len(ActiveValidatorIndices(state, epoch))
// without materializing the index slice.
func ActiveValidatorCount(st *state.BeaconState, epoch primitives.Epoch) uint64 {
	count := uint64(0)
	for _, v := range st.Validators() {
		if IsActiveValidator(v, epoch) {
			count++
		}
	}
	return count
}

// TotalBalance sums the effective balances of the validators named by
// indices, floored at EFFECTIVE_BALANCE_INCREMENT to keep committee-weight
// ratios from degenerating to zero when the validator set is tiny.
//
//	def get_total_balance(state: BeaconState, indices: Set[ValidatorIndex]) -> Gwei:
//	  return Gwei(max(EFFECTIVE_BALANCE_INCREMENT, sum([state.validators[index].effective_balance for index in indices])))
func TotalBalance(st *state.BeaconState, indices []primitives.ValidatorIndex) (primitives.Gwei, error) {
	total := primitives.Gwei(0)
	for _, idx := range indices {
		v, err := st.ValidatorAtIndex(idx)
		if err != nil {
			return 0, err
		}
		total = total.Add(v.EffectiveBalance)
	}
	if floor := params.BeaconConfig().EffectiveBalanceIncrement; total < floor {
		return floor, nil
	}
	return total, nil
}

// TotalActiveBalance is TotalBalance over ActiveValidatorIndices at the
// epoch state.Slot() falls in.
func TotalActiveBalance(st *state.BeaconState) (primitives.Gwei, error) {
	epoch := CurrentEpoch(st.Slot())
	return TotalBalance(st, ActiveValidatorIndices(st, epoch))
}

// ValidatorChurnLimit bounds how many validators may activate or exit in a
// single epoch, scaling with the active validator set so a tiny testnet
// isn't stuck at a fixed churn rate meant for a mainnet-size registry.
//
//	def get_validator_churn_limit(state: BeaconState) -> uint64:
//	  active_validator_indices = get_active_validator_indices(state, get_current_epoch(state))
//	  return max(MIN_PER_EPOCH_CHURN_LIMIT, len(active_validator_indices) // CHURN_LIMIT_QUOTIENT)
func ValidatorChurnLimit(st *state.BeaconState) uint64 {
	cfg := params.BeaconConfig()
	count := ActiveValidatorCount(st, CurrentEpoch(st.Slot()))
	limit := count / cfg.ChurnLimitQuotient
	if limit < cfg.MinPerEpochChurnLimit {
		return cfg.MinPerEpochChurnLimit
	}
	return limit
}

// ComputeProposerIndex selects the block proposer from indices using seed,
// biasing selection toward higher-balance validators by rejection sampling
// against a random byte scaled to MAX_EFFECTIVE_BALANCE.
//
//	def compute_proposer_index(state: BeaconState, indices: Sequence[ValidatorIndex], seed: Bytes32) -> ValidatorIndex:
//	  assert len(indices) > 0
//	  MAX_RANDOM_BYTE = 2**8 - 1
//	  i = uint64(0)
//	  total = uint64(len(indices))
//	  while True:
//	    candidate_index = indices[compute_shuffled_index(i % total, total, seed)]
//	    random_byte = hash(seed + int_to_bytes(i // 32, 8))[i % 32]
//	    effective_balance = state.validators[candidate_index].effective_balance
//	    if effective_balance * MAX_RANDOM_BYTE >= MAX_EFFECTIVE_BALANCE * random_byte:
//	      return candidate_index
//	    i += 1
func ComputeProposerIndex(st *state.BeaconState, indices []primitives.ValidatorIndex, seed [32]byte) (primitives.ValidatorIndex, error) {
	if len(indices) == 0 {
		return 0, errors.New("empty index set for proposer selection")
	}
	const maxRandomByte = uint64(1<<8 - 1)
	total := uint64(len(indices))
	maxEffectiveBalance := params.BeaconConfig().MaxEffectiveBalance

	for i := uint64(0); ; i++ {
		shuffled, err := ComputeShuffledIndex(i%total, total, seed)
		if err != nil {
			return 0, err
		}
		candidate := indices[shuffled]

		v, err := st.ValidatorAtIndex(candidate)
		if err != nil {
			return 0, err
		}

		input := append(append([]byte{}, seed[:]...), bytesutil.Bytes8(i/32)...)
		digest := proposerHasher.Hash(input)
		randomByte := uint64(digest[i%32])

		if uint64(v.EffectiveBalance)*maxRandomByte >= uint64(maxEffectiveBalance)*randomByte {
			return candidate, nil
		}
	}
}

// BeaconProposerIndex returns the proposer for state.Slot(), seeded by the
// current epoch's proposer seed over the full active validator set.
//
//	def get_beacon_proposer_index(state: BeaconState) -> ValidatorIndex:
//	  epoch = get_current_epoch(state)
//	  seed = hash(get_seed(state, epoch, DOMAIN_BEACON_PROPOSER) + int_to_bytes(state.slot, 8))
//	  indices = get_active_validator_indices(state, epoch)
//	  return compute_proposer_index(state, indices, seed)
func BeaconProposerIndex(st *state.BeaconState) (primitives.ValidatorIndex, error) {
	epoch := CurrentEpoch(st.Slot())
	epochSeed, err := Seed(st, epoch, params.BeaconConfig().DomainBeaconProposer)
	if err != nil {
		return 0, err
	}
	input := append(append([]byte{}, epochSeed[:]...), bytesutil.Bytes8(uint64(st.Slot()))...)
	seed := proposerHasher.Hash(input)

	indices := ActiveValidatorIndices(st, epoch)
	return ComputeProposerIndex(st, indices, seed)
}
