package blocks

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/prylabs-zero/beacon-core/beacon-chain/core/helpers"
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/config/params"
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
)

// ProcessAttestations applies every attestation in a block body, in list
// order, each capped at MAX_ATTESTATIONS by the body's SSZ schema.
func ProcessAttestations(st *state.BeaconState, attestations []*eth.Attestation) error {
	for _, att := range attestations {
		if err := processAttestation(st, att); err != nil {
			return badOperation(OpAttestation, err)
		}
	}
	return nil
}

// processAttestation validates an attestation's slot/committee/inclusion
// bounds and FFG source vote, records it as a PendingAttestation, and
// checks its aggregate signature.
//
//	def process_attestation(state, attestation) -> None:
//	  (see body)
func processAttestation(st *state.BeaconState, att *eth.Attestation) error {
	cfg := params.BeaconConfig()
	data := att.Data

	previousEpoch := helpers.PrevEpoch(st.Slot())
	currentEpoch := helpers.CurrentEpoch(st.Slot())

	committeeCount := helpers.CommitteeCountPerSlot(st, data.Target.Epoch)
	if uint64(data.Index) >= committeeCount {
		return errors.Errorf("committee index %d out of range for %d committees", data.Index, committeeCount)
	}
	if data.Target.Epoch != previousEpoch && data.Target.Epoch != currentEpoch {
		return errors.Errorf("target epoch %d is neither previous nor current epoch", data.Target.Epoch)
	}
	if data.Target.Epoch != helpers.SlotToEpoch(data.Slot) {
		return errors.New("target epoch does not match attestation slot's epoch")
	}
	lowerBound := data.Slot.Add(uint64(cfg.MinAttestationInclusionDelay))
	upperBound := data.Slot.Add(uint64(cfg.SlotsPerEpoch))
	if st.Slot() < lowerBound || st.Slot() > upperBound {
		return errors.Errorf("state slot %d is outside inclusion window [%d,%d]", st.Slot(), lowerBound, upperBound)
	}

	committee, err := helpers.BeaconCommittee(st, data.Slot, data.Index)
	if err != nil {
		return err
	}
	if uint64(att.AggregationBits.BitLen()) != uint64(len(committee)) {
		return errors.Errorf("aggregation_bits length %d does not match committee size %d", att.AggregationBits.BitLen(), len(committee))
	}

	proposerIndex, err := helpers.BeaconProposerIndex(st)
	if err != nil {
		return err
	}
	pending := &eth.PendingAttestation{
		Data:            data,
		AggregationBits: att.AggregationBits,
		InclusionDelay:  st.Slot().SubSlot(data.Slot),
		ProposerIndex:   proposerIndex,
	}

	if data.Target.Epoch == currentEpoch {
		if !data.Source.Equals(st.CurrentJustifiedCheckpoint()) {
			return errors.New("source checkpoint does not match current_justified_checkpoint")
		}
		st.AppendCurrentEpochAttestation(pending)
	} else {
		if !data.Source.Equals(st.PreviousJustifiedCheckpoint()) {
			return errors.New("source checkpoint does not match previous_justified_checkpoint")
		}
		st.SetPreviousEpochAttestations(append(st.PreviousEpochAttestations(), pending))
	}

	indexed, err := indexedAttestationFrom(st, att)
	if err != nil {
		return err
	}
	valid, err := isValidIndexedAttestation(st, indexed)
	if err != nil {
		return err
	}
	if !valid {
		return errors.New("invalid attestation aggregate signature")
	}
	return nil
}

// indexedAttestationFrom builds the sorted-index form a signature check
// needs from a committee-aligned aggregate, per get_indexed_attestation.
func indexedAttestationFrom(st *state.BeaconState, att *eth.Attestation) (*eth.IndexedAttestation, error) {
	indices, err := helpers.AttestingIndices(st, att.Data, att.AggregationBits)
	if err != nil {
		return nil, err
	}
	sorted := make([]primitives.ValidatorIndex, len(indices))
	copy(sorted, indices)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return &eth.IndexedAttestation{
		AttestingIndices: sorted,
		Data:             att.Data,
		Signature:        att.Signature,
	}, nil
}
