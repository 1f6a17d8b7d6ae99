package epoch

import (
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
)

// ProcessEpoch runs every per-epoch sub-transition against st in the
// declared order of spec.md §4.4 phase 6, mutating st in place. Callers
// invoke this once per epoch boundary crossed during slot processing, never
// mid-epoch.
//
//	def process_epoch(state: BeaconState) -> None:
//	  process_justification_and_finalization(state)
//	  process_crosslinks(state)
//	  process_rewards_and_penalties(state)
//	  process_registry_updates(state)
//	  process_slashings(state)
//	  process_final_updates(state)
func ProcessEpoch(st *state.BeaconState) error {
	if err := ProcessJustificationAndFinalization(st); err != nil {
		return err
	}
	if err := ProcessCrosslinks(st); err != nil {
		return err
	}
	if err := ProcessRewardsAndPenalties(st); err != nil {
		return err
	}
	if err := ProcessRegistryUpdates(st); err != nil {
		return err
	}
	if err := ProcessSlashings(st); err != nil {
		return err
	}
	return ProcessFinalUpdates(st)
}
