// Package epoch implements spec.md §4.4 phase 6: the once-per-epoch
// sub-transitions applied after slot processing crosses an epoch boundary
// — justification and finalization, crosslinks, rewards and penalties,
// registry updates, slashings, and final bookkeeping. Grounded on the
// teacher's beacon-chain/core/epoch package, one file per sub-transition
// matching the teacher's split, adapted to this repository's
// beacon-chain/state.BeaconState and beacon-chain/core/helpers.
package epoch

import (
	"github.com/prylabs-zero/beacon-core/beacon-chain/core/helpers"
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/config/params"
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
)

// ProcessJustificationAndFinalization runs Casper FFG's justification vote
// tally and the four-bit finality rule over the previous two epochs'
// attestations. It is a no-op for the first two epochs after genesis,
// since there is no previous epoch to have justified yet.
//
//	def process_justification_and_finalization(state: BeaconState) -> None:
//	  (see body)
func ProcessJustificationAndFinalization(st *state.BeaconState) error {
	currentEpoch := helpers.CurrentEpoch(st.Slot())
	genesisEpoch := params.BeaconConfig().GenesisEpoch
	if currentEpoch <= genesisEpoch.Add(1) {
		return nil
	}

	previousEpoch := helpers.PrevEpoch(st.Slot())
	oldPreviousJustified := st.PreviousJustifiedCheckpoint()
	oldCurrentJustified := st.CurrentJustifiedCheckpoint()

	st.SetPreviousJustifiedCheckpoint(oldCurrentJustified)
	shiftJustificationBits(st)

	totalActive, err := helpers.TotalActiveBalance(st)
	if err != nil {
		return err
	}

	previousTargetAtts, err := helpers.MatchingTargetAttestations(st, previousEpoch)
	if err != nil {
		return err
	}
	previousTargetBalance, err := helpers.AttestingBalance(st, previousTargetAtts)
	if err != nil {
		return err
	}
	if uint64(previousTargetBalance)*3 >= uint64(totalActive)*2 {
		root, err := helpers.BlockRoot(st, previousEpoch)
		if err != nil {
			return err
		}
		st.SetCurrentJustifiedCheckpoint(&eth.Checkpoint{Epoch: previousEpoch, Root: root})
		st.SetJustificationBitAt(1, true)
	}

	currentTargetAtts, err := helpers.MatchingTargetAttestations(st, currentEpoch)
	if err != nil {
		return err
	}
	currentTargetBalance, err := helpers.AttestingBalance(st, currentTargetAtts)
	if err != nil {
		return err
	}
	if uint64(currentTargetBalance)*3 >= uint64(totalActive)*2 {
		root, err := helpers.BlockRoot(st, currentEpoch)
		if err != nil {
			return err
		}
		st.SetCurrentJustifiedCheckpoint(&eth.Checkpoint{Epoch: currentEpoch, Root: root})
		st.SetJustificationBitAt(0, true)
	}

	if allBitsSet(st, 1, 4) && oldPreviousJustified.Epoch.Add(3) == currentEpoch {
		st.SetFinalizedCheckpoint(oldPreviousJustified)
	}
	if allBitsSet(st, 1, 3) && oldPreviousJustified.Epoch.Add(2) == currentEpoch {
		st.SetFinalizedCheckpoint(oldPreviousJustified)
	}
	if allBitsSet(st, 0, 3) && oldCurrentJustified.Epoch.Add(2) == currentEpoch {
		st.SetFinalizedCheckpoint(oldCurrentJustified)
	}
	if allBitsSet(st, 0, 2) && oldCurrentJustified.Epoch.Add(1) == currentEpoch {
		st.SetFinalizedCheckpoint(oldCurrentJustified)
	}

	return nil
}

// shiftJustificationBits shifts justification_bits left by one (dropping
// the oldest tracked epoch) and clears the newest slot, mirroring Python's
// state.justification_bits[1:] = state.justification_bits[:-1] followed by
// clearing bit 0.
func shiftJustificationBits(st *state.BeaconState) {
	length := params.BeaconConfig().JustificationBitsLength
	for i := length - 1; i > 0; i-- {
		st.SetJustificationBitAt(i, st.JustificationBitAt(i-1))
	}
	st.SetJustificationBitAt(0, false)
}

// allBitsSet reports whether justification_bits[from:to] are all set.
func allBitsSet(st *state.BeaconState, from, to uint64) bool {
	for i := from; i < to; i++ {
		if !st.JustificationBitAt(i) {
			return false
		}
	}
	return true
}
