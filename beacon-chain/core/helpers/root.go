package helpers

import (
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/config/params"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
)

// BlockRootAtSlot returns the root recorded for slot in the fixed-size
// block_roots vector, which only retains SLOTS_PER_HISTORICAL_ROOT entries.
// The range assertion below is not checked: a slot outside that window
// returns whatever root currently occupies its ring position.
//
//	def get_block_root_at_slot(state: BeaconState, slot: Slot) -> Root:
//	  assert slot < state.slot <= slot + SLOTS_PER_HISTORICAL_ROOT
//	  return state.block_roots[slot % SLOTS_PER_HISTORICAL_ROOT]
func BlockRootAtSlot(st *state.BeaconState, slot primitives.Slot) ([32]byte, error) {
	vectorLen := uint64(params.BeaconConfig().SlotsPerHistoricalRoot)
	return st.BlockRootAtIndex(uint64(slot) % vectorLen)
}

// BlockRoot returns the root of the block at the first slot of epoch.
//
//	def get_block_root(state: BeaconState, epoch: Epoch) -> Root:
//	  return get_block_root_at_slot(state, compute_start_slot_at_epoch(epoch))
func BlockRoot(st *state.BeaconState, epoch primitives.Epoch) ([32]byte, error) {
	return BlockRootAtSlot(st, StartSlot(epoch))
}
