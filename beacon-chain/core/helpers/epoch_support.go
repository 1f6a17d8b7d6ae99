package helpers

import (
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
)

// MatchingTargetAttestations returns the recorded attestations (previous or
// current epoch's list, whichever epoch names) whose target checkpoint
// root equals the block root at epoch's boundary.
//
//	def get_matching_target_attestations(state, epoch) -> Sequence[PendingAttestation]:
//	  source = state.current_epoch_attestations if epoch == get_current_epoch(state) else state.previous_epoch_attestations
//	  return [a for a in source if a.data.target.root == get_block_root(state, epoch)]
func MatchingTargetAttestations(st *state.BeaconState, epoch primitives.Epoch) ([]*eth.PendingAttestation, error) {
	var source []*eth.PendingAttestation
	if epoch == CurrentEpoch(st.Slot()) {
		source = st.CurrentEpochAttestations()
	} else {
		source = st.PreviousEpochAttestations()
	}

	targetRoot, err := BlockRoot(st, epoch)
	if err != nil {
		return nil, err
	}
	matching := make([]*eth.PendingAttestation, 0, len(source))
	for _, att := range source {
		if att.Data.Target.Root == targetRoot {
			matching = append(matching, att)
		}
	}
	return matching, nil
}

// AttestingBalance sums TotalBalance over the unslashed attesters recorded
// across atts.
//
//	def get_attesting_balance(state, attestations) -> Gwei:
//	  return get_total_balance(state, get_unslashed_attesting_indices(state, attestations))
func AttestingBalance(st *state.BeaconState, atts []*eth.PendingAttestation) (primitives.Gwei, error) {
	set, err := unslashedAttestingIndices(st, atts)
	if err != nil {
		return 0, err
	}
	return TotalBalance(st, indicesToSlice(set))
}
