package epoch

import (
	"bytes"

	"github.com/prylabs-zero/beacon-core/beacon-chain/core/helpers"
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
)

// ProcessCrosslinks carries state.current_crosslinks forward into
// state.previous_crosslinks and, for each committee of the previous and
// current epoch, adopts that committee's winning crosslink if two-thirds of
// its balance attested to it. This repository's committee model has no
// separate shard-rotation layer, so a committee's crosslink slot is its
// committee index within the epoch (data.index), grounded on spec.md's
// glossary note that phase-0 crosslinks are a deterministic placeholder.
//
//	def process_crosslinks(state: BeaconState) -> None:
//	  state.previous_crosslinks = [c for c in state.current_crosslinks]
//	  for epoch in (get_previous_epoch(state), get_current_epoch(state)):
//	    for offset in range(get_committee_count(state, epoch)):
//	      crosslink_committee = get_crosslink_committee(state, epoch, offset)
//	      winning_crosslink, attesting_indices = get_winning_crosslink_and_attesting_indices(state, epoch, offset)
//	      if 3 * get_total_balance(state, attesting_indices) >= 2 * get_total_balance(state, crosslink_committee):
//	        state.current_crosslinks[offset] = winning_crosslink
func ProcessCrosslinks(st *state.BeaconState) error {
	current := st.CurrentCrosslinks()
	previousCopy := make([]*eth.Crosslink, len(current))
	for i, c := range current {
		previousCopy[i] = c.Copy()
	}
	st.SetPreviousCrosslinks(previousCopy)

	for _, epoch := range []primitives.Epoch{helpers.PrevEpoch(st.Slot()), helpers.CurrentEpoch(st.Slot())} {
		count := helpers.CommitteeCountPerSlot(st, epoch)
		for offset := primitives.CommitteeIndex(0); uint64(offset) < count; offset++ {
			if err := processCrosslinkCommittee(st, epoch, offset); err != nil {
				return err
			}
		}
	}
	return nil
}

func processCrosslinkCommittee(st *state.BeaconState, epoch primitives.Epoch, index primitives.CommitteeIndex) error {
	winning, attestingIndices, err := winningCrosslink(st, epoch, index)
	if err != nil || winning == nil {
		return err
	}

	committee, err := committeeForEpoch(st, epoch, index)
	if err != nil {
		return err
	}
	attestingBalance, err := helpers.TotalBalance(st, attestingIndices)
	if err != nil {
		return err
	}
	committeeBalance, err := helpers.TotalBalance(st, committee)
	if err != nil {
		return err
	}
	if uint64(attestingBalance)*3 >= uint64(committeeBalance)*2 {
		return st.UpdateCurrentCrosslinkAtShard(primitives.ShardNumber(index), winning)
	}
	return nil
}

// committeeForEpoch returns the committee assigned to index in the start
// slot of epoch. Committees with the same index in later slots of the
// epoch have different members.
func committeeForEpoch(st *state.BeaconState, epoch primitives.Epoch, index primitives.CommitteeIndex) ([]primitives.ValidatorIndex, error) {
	slot := helpers.StartSlot(epoch)
	return helpers.BeaconCommittee(st, slot, index)
}

// winningCrosslink picks the crosslink candidate with the greatest attesting
// balance among this epoch's recorded attestations for index, tie-broken by
// lexicographically greatest data root.
func winningCrosslink(st *state.BeaconState, epoch primitives.Epoch, index primitives.CommitteeIndex) (*eth.Crosslink, []primitives.ValidatorIndex, error) {
	atts, err := attestationsForCommittee(st, epoch, index)
	if err != nil {
		return nil, nil, err
	}

	candidates := make(map[[32]byte][]*eth.PendingAttestation)
	for _, att := range atts {
		candidates[att.Data.Crosslink.DataRoot] = append(candidates[att.Data.Crosslink.DataRoot], att)
	}

	var winner *eth.Crosslink
	var winnerIndices []primitives.ValidatorIndex
	var winnerBalance primitives.Gwei
	for root, group := range candidates {
		indices, err := attestingIndicesFor(st, group)
		if err != nil {
			return nil, nil, err
		}
		balance, err := helpers.TotalBalance(st, indices)
		if err != nil {
			return nil, nil, err
		}
		if winner == nil || balance > winnerBalance ||
			(balance == winnerBalance && bytes.Compare(root[:], winner.DataRoot[:]) > 0) {
			winner = group[0].Data.Crosslink
			winnerIndices = indices
			winnerBalance = balance
		}
	}
	return winner, winnerIndices, nil
}

func attestationsForCommittee(st *state.BeaconState, epoch primitives.Epoch, index primitives.CommitteeIndex) ([]*eth.PendingAttestation, error) {
	var source []*eth.PendingAttestation
	if epoch == helpers.CurrentEpoch(st.Slot()) {
		source = st.CurrentEpochAttestations()
	} else {
		source = st.PreviousEpochAttestations()
	}
	matching := make([]*eth.PendingAttestation, 0, len(source))
	for _, att := range source {
		if att.Data.Index == index && att.Data.Crosslink != nil {
			matching = append(matching, att)
		}
	}
	return matching, nil
}

func attestingIndicesFor(st *state.BeaconState, atts []*eth.PendingAttestation) ([]primitives.ValidatorIndex, error) {
	set := make(map[primitives.ValidatorIndex]bool)
	for _, att := range atts {
		indices, err := helpers.AttestingIndices(st, att.Data, att.AggregationBits)
		if err != nil {
			return nil, err
		}
		for _, idx := range indices {
			set[idx] = true
		}
	}
	out := make([]primitives.ValidatorIndex, 0, len(set))
	for idx := range set {
		out = append(out, idx)
	}
	return out, nil
}
