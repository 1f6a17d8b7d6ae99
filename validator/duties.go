// Package validator implements spec.md §4.10's validator duties engine:
// given the observable state and a set of local pubkeys, compute each
// one's proposer and attester duties for an epoch, and drive block and
// attestation production at the right slots. Grounded on the teacher's
// validator/client package (validator_propose.go, validator_aggregate.go,
// propose_protect.go), adapted from its gRPC-to-beacon-node round trips
// onto a direct, in-process call against this repository's
// beacon-chain/blockchain.Service observable state.
package validator

import (
	"github.com/pkg/errors"

	"github.com/prylabs-zero/beacon-core/beacon-chain/core/helpers"
	"github.com/prylabs-zero/beacon-core/beacon-chain/core/transition"
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/config/params"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
)

// ProposerDuty is spec.md §4.10's proposer_duties[slot] entry: the single
// validator assigned to propose at slot.
type ProposerDuty struct {
	Slot      primitives.Slot
	Validator primitives.ValidatorIndex
}

// AttesterDuty is spec.md §4.10's attester_duties[validator] entry.
type AttesterDuty struct {
	Validator         primitives.ValidatorIndex
	Slot              primitives.Slot
	CommitteeIndex    primitives.CommitteeIndex
	CommitteeLength   int
	PositionInCommittee int
}

// ComputeProposerDuties returns, for every slot in epoch, the validator
// assigned to propose there. headState is advanced slot by slot (via
// empty-slot transitions over a working copy) since
// helpers.BeaconProposerIndex is defined in terms of state.Slot().
func ComputeProposerDuties(headState *state.BeaconState, epoch primitives.Epoch) ([]ProposerDuty, error) {
	cfg := params.BeaconConfig()
	startSlot := helpers.StartSlot(epoch)

	st := headState.Copy()
	duties := make([]ProposerDuty, 0, cfg.SlotsPerEpoch)
	for i := uint64(0); i < uint64(cfg.SlotsPerEpoch); i++ {
		slot := startSlot.Add(i)
		if st.Slot() < slot {
			if err := transition.ProcessSlots(st, slot); err != nil {
				return nil, errors.Wrapf(err, "could not advance state to slot %d", slot)
			}
		}
		proposer, err := helpers.BeaconProposerIndex(st)
		if err != nil {
			return nil, errors.Wrapf(err, "could not compute proposer for slot %d", slot)
		}
		duties = append(duties, ProposerDuty{Slot: slot, Validator: proposer})
	}
	return duties, nil
}

// ComputeAttesterDuties returns every committee assignment in epoch for
// the validators in want, keyed implicitly by AttesterDuty.Validator.
// headState must already be advanced to (or past) the first slot of
// epoch — attester duties depend only on the shuffling for epoch, which
// is fixed as of that epoch's first slot, so unlike proposer duties no
// further per-slot advance is needed.
func ComputeAttesterDuties(headState *state.BeaconState, epoch primitives.Epoch, want map[primitives.ValidatorIndex]bool) ([]AttesterDuty, error) {
	cfg := params.BeaconConfig()
	startSlot := helpers.StartSlot(epoch)

	var duties []AttesterDuty
	for i := uint64(0); i < uint64(cfg.SlotsPerEpoch); i++ {
		slot := startSlot.Add(i)
		committeesPerSlot := helpers.CommitteeCountPerSlot(headState, epoch)
		for c := uint64(0); c < committeesPerSlot; c++ {
			committee, err := helpers.BeaconCommittee(headState, slot, primitives.CommitteeIndex(c))
			if err != nil {
				return nil, errors.Wrapf(err, "could not compute committee %d at slot %d", c, slot)
			}
			for pos, idx := range committee {
				if !want[idx] {
					continue
				}
				duties = append(duties, AttesterDuty{
					Validator:           idx,
					Slot:                slot,
					CommitteeIndex:      primitives.CommitteeIndex(c),
					CommitteeLength:     len(committee),
					PositionInCommittee: pos,
				})
			}
		}
	}
	return duties, nil
}
