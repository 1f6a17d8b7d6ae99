// Package transition implements spec.md §4.4's top-level state-transition
// function: the per-slot caching loop, epoch-boundary dispatch into
// beacon-chain/core/epoch, and per-block dispatch into
// beacon-chain/core/blocks, tied together with the final state-root check
// spec.md §7 names TransitionError{StateRootMismatch}. Grounded on the
// teacher's beacon-chain/core/state package (process_slot/process_slots/
// ExecuteStateTransition split), adapted to this repository's
// beacon-chain/state.BeaconState.
package transition

import (
	"github.com/pkg/errors"

	"github.com/prylabs-zero/beacon-core/beacon-chain/core/blocks"
	"github.com/prylabs-zero/beacon-core/beacon-chain/core/epoch"
	"github.com/prylabs-zero/beacon-core/beacon-chain/core/helpers"
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/config/params"
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
	"github.com/prylabs-zero/beacon-core/crypto/bls"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
)

// Transition computes the post-state that results from applying
// signedBlock to preState, without mutating preState: it takes a working
// copy up front and only ever returns that copy, per spec.md §4.4's
// pre_state/post_state contract. validateStateRoot lets a proposer
// building a new block skip the check against its own not-yet-known
// state_root.
//
//	def state_transition(state: BeaconState, signed_block: SignedBeaconBlock, validate_result: bool = True) -> BeaconState:
//	  block = signed_block.message
//	  process_slots(state, block.slot)
//	  if validate_result:
//	    assert verify_block_signature(state, signed_block)
//	  process_block(state, block)
//	  if validate_result:
//	    assert block.state_root == hash_tree_root(state)
//	  return state
func Transition(preState *state.BeaconState, signedBlock *eth.SignedBeaconBlock, validateStateRoot bool) (*state.BeaconState, error) {
	if signedBlock == nil || signedBlock.Block == nil {
		return nil, errors.New("nil signed block")
	}
	st := preState.Copy()
	block := signedBlock.Block

	if err := ProcessSlots(st, block.Slot); err != nil {
		return nil, err
	}
	if validateStateRoot {
		if err := verifyBlockSignature(st, signedBlock); err != nil {
			return nil, err
		}
	}
	if err := blocks.ProcessBlock(st, block); err != nil {
		return nil, err
	}
	if validateStateRoot {
		root, err := st.HashTreeRoot()
		if err != nil {
			return nil, err
		}
		if root != block.StateRoot {
			return nil, blocks.StateRootMismatch(errors.Errorf("computed state root %x does not match block's %x", root, block.StateRoot))
		}
	}
	return st, nil
}

// ProcessSlots advances st up to (not through) slot, caching each visited
// slot's state and block roots and running ProcessEpoch on every epoch
// boundary crossed along the way. Unlike the assertion below, a target
// equal to st's current slot is accepted and leaves st unchanged; only a
// target behind it is an error.
//
//	def process_slots(state: BeaconState, slot: Slot) -> None:
//	  assert state.slot < slot
//	  while state.slot < slot:
//	    process_slot(state)
//	    if (state.slot + 1) % SLOTS_PER_EPOCH == 0:
//	      process_epoch(state)
//	    state.slot = Slot(state.slot + 1)
func ProcessSlots(st *state.BeaconState, slot primitives.Slot) error {
	if st.Slot() > slot {
		return errors.Errorf("state slot %d is already ahead of target slot %d", st.Slot(), slot)
	}
	for st.Slot() < slot {
		if err := processSlot(st); err != nil {
			return err
		}
		if helpers.IsEpochEnd(st.Slot()) {
			if err := epoch.ProcessEpoch(st); err != nil {
				return err
			}
		}
		st.SetSlot(st.Slot() + 1)
	}
	return nil
}

// processSlot caches the pre-advance state root into state_roots, backfills
// latest_block_header.state_root the first time it's needed, then caches
// that header's signing root into block_roots.
//
//	def process_slot(state: BeaconState) -> None:
//	  previous_state_root = hash_tree_root(state)
//	  state.state_roots[state.slot % SLOTS_PER_HISTORICAL_ROOT] = previous_state_root
//	  if state.latest_block_header.state_root == Bytes32():
//	    state.latest_block_header.state_root = previous_state_root
//	  previous_block_root = hash_tree_root(state.latest_block_header)
//	  state.block_roots[state.slot % SLOTS_PER_HISTORICAL_ROOT] = previous_block_root
func processSlot(st *state.BeaconState) error {
	cfg := params.BeaconConfig()
	stateRoot, err := st.HashTreeRoot()
	if err != nil {
		return err
	}
	index := uint64(st.Slot()) % uint64(cfg.SlotsPerHistoricalRoot)
	if err := st.UpdateStateRootAtIndex(index, stateRoot); err != nil {
		return err
	}

	header := st.LatestBlockHeader()
	var zero [32]byte
	if header.StateRoot == zero {
		header.StateRoot = stateRoot
		st.SetLatestBlockHeader(header)
	}
	blockRoot, err := header.SigningRoot()
	if err != nil {
		return err
	}
	return st.UpdateBlockRootAtIndex(index, blockRoot)
}

// verifyBlockSignature checks signedBlock.Signature against the slot's
// assigned proposer under DOMAIN_BEACON_PROPOSER, the outer signature
// process_block itself never checks (only the operations inside the body
// carry their own domain-scoped signatures).
//
//	def verify_block_signature(state: BeaconState, signed_block: SignedBeaconBlock) -> bool:
//	  proposer = state.validators[get_beacon_proposer_index(state)]
//	  domain = get_domain(state, DOMAIN_BEACON_PROPOSER)
//	  signing_root = compute_signing_root(signed_block.message, domain)
//	  return bls_verify(proposer.pubkey, signing_root, signed_block.signature)
func verifyBlockSignature(st *state.BeaconState, signedBlock *eth.SignedBeaconBlock) error {
	proposerIndex, err := helpers.BeaconProposerIndex(st)
	if err != nil {
		return err
	}
	proposer, err := st.ValidatorAtIndex(proposerIndex)
	if err != nil {
		return err
	}
	domain := helpers.Domain(st.Fork(), helpers.CurrentEpoch(st.Slot()), params.BeaconConfig().DomainBeaconProposer)
	objectRoot, err := signedBlock.Block.SigningRoot()
	if err != nil {
		return err
	}
	signingRoot, err := helpers.ComputeSigningRoot(objectRoot, domain)
	if err != nil {
		return err
	}
	pub, err := bls.PublicKeyFromBytes(proposer.Pubkey[:])
	if err != nil {
		return err
	}
	sig, err := bls.SignatureFromBytes(signedBlock.Signature[:])
	if err != nil {
		return err
	}
	valid, err := bls.Verify(pub, signingRoot[:], sig)
	if err != nil {
		return err
	}
	if !valid {
		return errors.New("invalid block proposer signature")
	}
	return nil
}
