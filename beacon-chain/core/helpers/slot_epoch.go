// Package helpers implements the pure functions the state-transition
// function is built from (spec.md §4.3): epoch/slot arithmetic, committee
// assignment, seed and domain derivation, and validator predicates.
// Grounded on the teacher's beacon-chain/core/helpers package, one function
// per spec pseudocode definition with the same doc-comment convention.
package helpers

import (
	"github.com/prylabs-zero/beacon-core/config/params"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
)

// SlotToEpoch returns the epoch number of the given slot.
//
//	def slot_to_epoch(slot: Slot) -> Epoch:
//	  return Epoch(slot // SLOTS_PER_EPOCH)
func SlotToEpoch(slot primitives.Slot) primitives.Epoch {
	return primitives.Epoch(uint64(slot) / uint64(params.BeaconConfig().SlotsPerEpoch))
}

// CurrentEpoch returns the epoch of state.slot.
func CurrentEpoch(slot primitives.Slot) primitives.Epoch {
	return SlotToEpoch(slot)
}

// PrevEpoch returns the previous epoch, floored at GENESIS_EPOCH.
//
//	def get_previous_epoch(state: BeaconState) -> Epoch:
//	  current_epoch = get_current_epoch(state)
//	  return GENESIS_EPOCH if current_epoch == GENESIS_EPOCH else Epoch(current_epoch - 1)
func PrevEpoch(slot primitives.Slot) primitives.Epoch {
	current := CurrentEpoch(slot)
	if current == params.BeaconConfig().GenesisEpoch {
		return params.BeaconConfig().GenesisEpoch
	}
	return current - 1
}

// NextEpoch returns the epoch after state.slot's epoch.
func NextEpoch(slot primitives.Slot) primitives.Epoch {
	return CurrentEpoch(slot) + 1
}

// StartSlot returns the first slot of the given epoch.
//
//	def compute_start_slot_at_epoch(epoch: Epoch) -> Slot:
//	  return Slot(epoch * SLOTS_PER_EPOCH)
func StartSlot(epoch primitives.Epoch) primitives.Slot {
	return primitives.Slot(uint64(epoch) * uint64(params.BeaconConfig().SlotsPerEpoch))
}

// IsEpochStart reports whether slot is the first slot of its epoch.
func IsEpochStart(slot primitives.Slot) bool {
	return slot%params.BeaconConfig().SlotsPerEpoch == 0
}

// IsEpochEnd reports whether slot is the last slot of its epoch.
func IsEpochEnd(slot primitives.Slot) bool {
	return IsEpochStart(slot + 1)
}

// ActivationExitEpoch returns the epoch at which an action initiated in
// epoch takes effect, delayed by MAX_SEED_LOOKAHEAD to bound the validator
// set an attacker can predict in advance.
//
//	def compute_activation_exit_epoch(epoch: Epoch) -> Epoch:
//	  return Epoch(epoch + 1 + MAX_SEED_LOOKAHEAD)
func ActivationExitEpoch(epoch primitives.Epoch) primitives.Epoch {
	return epoch + 1 + params.BeaconConfig().MaxSeedLookahead
}
