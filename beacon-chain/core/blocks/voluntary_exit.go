package blocks

import (
	"github.com/pkg/errors"

	"github.com/prylabs-zero/beacon-core/beacon-chain/core/helpers"
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/config/params"
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
	"github.com/prylabs-zero/beacon-core/crypto/bls"
	"github.com/prylabs-zero/beacon-core/encoding/ssz"
)

// ProcessVoluntaryExits applies every voluntary exit in a block body, in
// list order, each capped at MAX_VOLUNTARY_EXITS by the body's SSZ schema.
func ProcessVoluntaryExits(st *state.BeaconState, exits []*eth.SignedVoluntaryExit) error {
	for _, exit := range exits {
		if err := processVoluntaryExit(st, exit); err != nil {
			return badOperation(OpVoluntaryExit, err)
		}
	}
	return nil
}

// processVoluntaryExit verifies eligibility and signature, then initiates
// the validator's exit.
//
//	def process_voluntary_exit(state, signed_voluntary_exit) -> None:
//	  voluntary_exit = signed_voluntary_exit.message
//	  validator = state.validators[voluntary_exit.validator_index]
//	  assert is_active_validator(validator, get_current_epoch(state))
//	  assert validator.exit_epoch == FAR_FUTURE_EPOCH
//	  assert get_current_epoch(state) >= voluntary_exit.epoch
//	  assert get_current_epoch(state) >= validator.activation_epoch + SHARD_COMMITTEE_PERIOD
//	  domain = get_domain(state, DOMAIN_VOLUNTARY_EXIT, voluntary_exit.epoch)
//	  signing_root = compute_signing_root(voluntary_exit, domain)
//	  assert bls_verify(validator.pubkey, signing_root, signed_voluntary_exit.signature)
//	  initiate_validator_exit(state, voluntary_exit.validator_index)
func processVoluntaryExit(st *state.BeaconState, signed *eth.SignedVoluntaryExit) error {
	exit := signed.Exit
	currentEpoch := helpers.CurrentEpoch(st.Slot())

	v, err := st.ValidatorAtIndex(exit.ValidatorIndex)
	if err != nil {
		return err
	}
	cfg := params.BeaconConfig()
	if !helpers.IsActiveValidator(v, currentEpoch) {
		return errors.Errorf("validator %d is not active", exit.ValidatorIndex)
	}
	if v.ExitEpoch != cfg.FarFutureEpoch {
		return errors.Errorf("validator %d has already initiated exit", exit.ValidatorIndex)
	}
	if currentEpoch < exit.Epoch {
		return errors.New("voluntary exit epoch is in the future")
	}
	if currentEpoch < v.ActivationEpoch.Add(uint64(cfg.PersistentCommitteePeriod)) {
		return errors.Errorf("validator %d has not completed the shard committee period", exit.ValidatorIndex)
	}

	domain := helpers.Domain(st.Fork(), exit.Epoch, cfg.DomainVoluntaryExit)
	objectRoot, err := ssz.HashTreeRoot(exit)
	if err != nil {
		return err
	}
	signingRoot, err := helpers.ComputeSigningRoot(objectRoot, domain)
	if err != nil {
		return err
	}
	pub, err := bls.PublicKeyFromBytes(v.Pubkey[:])
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
		return errors.New("invalid voluntary exit signature")
	}

	return helpers.InitiateValidatorExit(st, exit.ValidatorIndex)
}
