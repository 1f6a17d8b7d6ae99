package blocks

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/prylabs-zero/beacon-core/beacon-chain/core/helpers"
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/config/params"
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
	"github.com/prylabs-zero/beacon-core/crypto/bls"
	"github.com/prylabs-zero/beacon-core/encoding/ssz"
)

// ProcessAttesterSlashings applies every attester slashing in a block body,
// in list order, each capped at MAX_ATTESTER_SLASHINGS by the body's SSZ
// schema.
func ProcessAttesterSlashings(st *state.BeaconState, slashings []*eth.AttesterSlashing) error {
	for _, as := range slashings {
		if err := processAttesterSlashing(st, as); err != nil {
			return badOperation(OpAttesterSlashing, err)
		}
	}
	return nil
}

// isSlashableAttestationData reports whether the two votes are a double
// vote (same target epoch, different data) or a surround vote (one's
// source/target strictly encloses the other's).
//
//	def is_slashable_attestation_data(data_1, data_2) -> bool:
//	  return (
//	      (data_1 != data_2 and data_1.target.epoch == data_2.target.epoch) or
//	      (data_1.source.epoch < data_2.source.epoch and data_2.target.epoch < data_1.target.epoch))
func isSlashableAttestationData(d1, d2 *eth.AttestationData) bool {
	if !d1.Equals(d2) && d1.Target.Epoch == d2.Target.Epoch {
		return true
	}
	return d1.Source.Epoch < d2.Source.Epoch && d2.Target.Epoch < d1.Target.Epoch
}

// isValidIndexedAttestation verifies an IndexedAttestation's index set is
// sorted and deduplicated and its aggregate signature matches.
//
//	def is_valid_indexed_attestation(state, indexed_attestation) -> bool:
//	  indices = indexed_attestation.attesting_indices
//	  if len(indices) == 0 or not indices == sorted(set(indices)): return False
//	  domain = get_domain(state, DOMAIN_BEACON_ATTESTER, indexed_attestation.data.target.epoch)
//	  signing_root = compute_signing_root(indexed_attestation.data, domain)
//	  return bls_fast_aggregate_verify(pubkeys, signing_root, indexed_attestation.signature)
func isValidIndexedAttestation(st *state.BeaconState, ia *eth.IndexedAttestation) (bool, error) {
	indices := ia.AttestingIndices
	if len(indices) == 0 {
		return false, nil
	}
	for i := 1; i < len(indices); i++ {
		if indices[i] <= indices[i-1] {
			return false, nil
		}
	}

	pubkeys := make([]bls.PublicKey, len(indices))
	for i, idx := range indices {
		v, err := st.ValidatorAtIndex(idx)
		if err != nil {
			return false, err
		}
		pub, err := bls.PublicKeyFromBytes(v.Pubkey[:])
		if err != nil {
			return false, err
		}
		pubkeys[i] = pub
	}

	domain := helpers.Domain(st.Fork(), ia.Data.Target.Epoch, params.BeaconConfig().DomainBeaconAttester)
	objectRoot, err := ssz.HashTreeRoot(ia.Data)
	if err != nil {
		return false, err
	}
	signingRoot, err := helpers.ComputeSigningRoot(objectRoot, domain)
	if err != nil {
		return false, err
	}
	sig, err := bls.SignatureFromBytes(ia.Signature[:])
	if err != nil {
		return false, err
	}
	return bls.FastAggregateVerify(pubkeys, signingRoot, sig)
}

// processAttesterSlashing slashes the intersection of two conflicting
// indexed attestations' attesting sets.
//
//	def process_attester_slashing(state, attester_slashing) -> None:
//	  (see body)
func processAttesterSlashing(st *state.BeaconState, as *eth.AttesterSlashing) error {
	a1, a2 := as.Attestation1, as.Attestation2

	if !isSlashableAttestationData(a1.Data, a2.Data) {
		return errors.New("attestations are not slashable")
	}
	valid1, err := isValidIndexedAttestation(st, a1)
	if err != nil {
		return err
	}
	if !valid1 {
		return errors.New("attestation_1 is not a valid indexed attestation")
	}
	valid2, err := isValidIndexedAttestation(st, a2)
	if err != nil {
		return err
	}
	if !valid2 {
		return errors.New("attestation_2 is not a valid indexed attestation")
	}

	set1 := make(map[primitives.ValidatorIndex]bool, len(a1.AttestingIndices))
	for _, idx := range a1.AttestingIndices {
		set1[idx] = true
	}
	var intersection []primitives.ValidatorIndex
	for _, idx := range a2.AttestingIndices {
		if set1[idx] {
			intersection = append(intersection, idx)
		}
	}
	sort.Slice(intersection, func(i, j int) bool { return intersection[i] < intersection[j] })

	currentEpoch := helpers.CurrentEpoch(st.Slot())
	slashedAny := false
	for _, idx := range intersection {
		v, err := st.ValidatorAtIndex(idx)
		if err != nil {
			return err
		}
		if helpers.IsSlashableValidator(v, currentEpoch) {
			if err := helpers.SlashValidator(st, idx, nil); err != nil {
				return err
			}
			slashedAny = true
		}
	}
	if !slashedAny {
		return errors.New("attester slashing slashed no validator")
	}
	return nil
}
