package helpers

import (
	"github.com/pkg/errors"

	"github.com/prylabs-zero/beacon-core/beacon-chain/cache"
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/config/params"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
)

// activeIndicesCache backs get_active_validator_indices lookups within
// BeaconCommittee: called up to MAX_COMMITTEES_PER_SLOT times per slot for
// a set that only changes at epoch boundaries.
var activeIndicesCache = cache.NewActiveIndicesCache()

// ComputeCommittee slices the index-th of count equal partitions out of the
// shuffled permutation of indices under seed. Because compute_shuffled_index
// is itself a bijection, this never needs to materialize the full shuffled
// slice: each output position is one direct shuffle lookup.
//
//	def compute_committee(indices, seed, index, count) -> Sequence[ValidatorIndex]:
//	  start = (len(indices) * index) // count
//	  end = (len(indices) * (index + 1)) // count
//	  return [indices[compute_shuffled_index(i, len(indices), seed)] for i in range(start, end)]
func ComputeCommittee(indices []primitives.ValidatorIndex, seed [32]byte, index, count uint64) ([]primitives.ValidatorIndex, error) {
	total := uint64(len(indices))
	start := (total * index) / count
	end := (total * (index + 1)) / count
	if start > end || end > total {
		return nil, errors.Errorf("invalid committee slice [%d,%d) over %d indices", start, end, total)
	}

	committee := make([]primitives.ValidatorIndex, 0, end-start)
	for i := start; i < end; i++ {
		shuffled, err := ComputeShuffledIndex(i, total, seed)
		if err != nil {
			return nil, err
		}
		committee = append(committee, indices[shuffled])
	}
	return committee, nil
}

// CommitteeCountPerSlot returns how many committees are active in each slot
// of epoch, held between 1 and MAX_COMMITTEES_PER_SLOT so a chain never runs
// with zero committees nor over-subdivides a small validator set into
// committees too small to be sybil-resistant.
//
//	def get_committee_count_per_slot(state: BeaconState, epoch: Epoch) -> uint64:
//	  return max(1, min(
//	      MAX_COMMITTEES_PER_SLOT,
//	      uint64(len(get_active_validator_indices(state, epoch))) // SLOTS_PER_EPOCH // TARGET_COMMITTEE_SIZE,
//	  ))
func CommitteeCountPerSlot(st *state.BeaconState, epoch primitives.Epoch) uint64 {
	cfg := params.BeaconConfig()
	activeCount := ActiveValidatorCount(st, epoch)
	perSlot := activeCount / uint64(cfg.SlotsPerEpoch) / cfg.TargetCommitteeSize

	if perSlot > cfg.MaxCommitteesPerSlot {
		perSlot = cfg.MaxCommitteesPerSlot
	}
	if perSlot < 1 {
		perSlot = 1
	}
	return perSlot
}

// BeaconCommittee returns the committeeIndex-th committee assigned to slot,
// drawn from the full active-validator shuffle for slot's epoch.
//
//	def get_beacon_committee(state: BeaconState, slot: Slot, index: CommitteeIndex) -> Sequence[ValidatorIndex]:
//	  epoch = compute_epoch_at_slot(slot)
//	  committees_per_slot = get_committee_count_per_slot(state, epoch)
//	  return compute_committee(
//	      indices=get_active_validator_indices(state, epoch),
//	      seed=get_seed(state, epoch, DOMAIN_BEACON_ATTESTER),
//	      index=(slot % SLOTS_PER_EPOCH) * committees_per_slot + index,
//	      count=committees_per_slot * SLOTS_PER_EPOCH,
//	  )
func BeaconCommittee(st *state.BeaconState, slot primitives.Slot, committeeIndex primitives.CommitteeIndex) ([]primitives.ValidatorIndex, error) {
	cfg := params.BeaconConfig()
	epoch := SlotToEpoch(slot)
	committeesPerSlot := CommitteeCountPerSlot(st, epoch)

	seed, err := Seed(st, epoch, cfg.DomainBeaconAttester)
	if err != nil {
		return nil, err
	}
	indices, ok := activeIndicesCache.ActiveIndices(seed)
	if !ok {
		indices = ActiveValidatorIndices(st, epoch)
		activeIndicesCache.AddActiveIndices(seed, indices)
	}

	slotOffset := uint64(slot % cfg.SlotsPerEpoch)
	return ComputeCommittee(
		indices,
		seed,
		slotOffset*committeesPerSlot+uint64(committeeIndex),
		committeesPerSlot*uint64(cfg.SlotsPerEpoch),
	)
}
