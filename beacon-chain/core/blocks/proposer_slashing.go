package blocks

import (
	"github.com/pkg/errors"

	"github.com/prylabs-zero/beacon-core/beacon-chain/core/helpers"
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/config/params"
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
	"github.com/prylabs-zero/beacon-core/crypto/bls"
)

// ProcessProposerSlashings applies every proposer slashing in a block body,
// in list order, each capped at MAX_PROPOSER_SLASHINGS by the body's SSZ
// schema.
func ProcessProposerSlashings(st *state.BeaconState, slashings []*eth.ProposerSlashing) error {
	for _, ps := range slashings {
		if err := processProposerSlashing(st, ps); err != nil {
			return badOperation(OpProposerSlashing, err)
		}
	}
	return nil
}

// processProposerSlashing verifies two conflicting signed headers from the
// same proposer for the same slot and slashes them.
//
//	def process_proposer_slashing(state, proposer_slashing) -> None:
//	  header_1 = proposer_slashing.signed_header_1.message
//	  header_2 = proposer_slashing.signed_header_2.message
//	  assert header_1.slot == header_2.slot
//	  assert header_1.proposer_index == header_2.proposer_index
//	  assert header_1 != header_2
//	  proposer = state.validators[header_1.proposer_index]
//	  assert is_slashable_validator(proposer, get_current_epoch(state))
//	  for signed_header in (proposer_slashing.signed_header_1, proposer_slashing.signed_header_2):
//	    domain = get_domain(state, DOMAIN_BEACON_PROPOSER, compute_epoch_at_slot(signed_header.message.slot))
//	    signing_root = compute_signing_root(signed_header.message, domain)
//	    assert bls_verify(proposer.pubkey, signing_root, signed_header.signature)
//	  slash_validator(state, header_1.proposer_index)
func processProposerSlashing(st *state.BeaconState, ps *eth.ProposerSlashing) error {
	header1 := ps.Header1.Header
	header2 := ps.Header2.Header

	if header1.Slot != header2.Slot {
		return errors.New("proposer slashing headers have different slots")
	}
	if header1.ProposerIndex != header2.ProposerIndex {
		return errors.New("proposer slashing headers have different proposers")
	}
	if *header1 == *header2 {
		return errors.New("proposer slashing headers are identical")
	}

	proposer, err := st.ValidatorAtIndex(header1.ProposerIndex)
	if err != nil {
		return err
	}
	if !helpers.IsSlashableValidator(proposer, helpers.CurrentEpoch(st.Slot())) {
		return errors.Errorf("validator %d is not slashable", header1.ProposerIndex)
	}

	pub, err := bls.PublicKeyFromBytes(proposer.Pubkey[:])
	if err != nil {
		return err
	}
	for _, signed := range []*eth.SignedBeaconBlockHeader{ps.Header1, ps.Header2} {
		domain := helpers.Domain(st.Fork(), helpers.SlotToEpoch(signed.Header.Slot), params.BeaconConfig().DomainBeaconProposer)
		objectRoot, err := signed.Header.SigningRoot()
		if err != nil {
			return err
		}
		signingRoot, err := helpers.ComputeSigningRoot(objectRoot, domain)
		if err != nil {
			return err
		}
		sig, err := bls.SignatureFromBytes(signed.Signature[:])
		if err != nil {
			return err
		}
		valid, err := bls.Verify(pub, signingRoot[:], sig)
		if err != nil {
			return err
		}
		if !valid {
			return errors.New("invalid proposer slashing signature")
		}
	}

	return helpers.SlashValidator(st, header1.ProposerIndex, nil)
}
