package blocks

import (
	"github.com/pkg/errors"

	"github.com/prylabs-zero/beacon-core/beacon-chain/core/helpers"
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
	"github.com/prylabs-zero/beacon-core/encoding/ssz"
)

// ProcessBlockHeader verifies block against the pre-state's slot and latest
// header, then records it as the new latest_block_header with its
// state_root zeroed (the block that carries the real state_root is only
// known once the transition finishes).
//
//	def process_block_header(state: BeaconState, block: BeaconBlock) -> None:
//	  assert block.slot == state.slot
//	  assert block.parent_root == hash_tree_root(state.latest_block_header)
//	  proposer = state.validators[get_beacon_proposer_index(state)]
//	  assert not proposer.slashed
//	  state.latest_block_header = BeaconBlockHeader(
//	      slot=block.slot, parent_root=block.parent_root,
//	      state_root=Bytes32(), body_root=hash_tree_root(block.body))
func ProcessBlockHeader(st *state.BeaconState, block *eth.BeaconBlock) error {
	if block.Slot != st.Slot() {
		return invalidHeader(errors.Errorf("block slot %d does not match state slot %d", block.Slot, st.Slot()))
	}

	latest := st.LatestBlockHeader()
	parentRoot, err := latest.SigningRoot()
	if err != nil {
		return invalidHeader(err)
	}
	if block.ParentRoot != parentRoot {
		return invalidHeader(errors.New("block parent_root does not match latest_block_header"))
	}

	proposerIndex, err := helpers.BeaconProposerIndex(st)
	if err != nil {
		return invalidHeader(err)
	}
	proposer, err := st.ValidatorAtIndex(proposerIndex)
	if err != nil {
		return invalidHeader(err)
	}
	if proposer.Slashed {
		return invalidHeader(errors.Errorf("proposer %d is slashed", proposerIndex))
	}

	bodyRoot, err := ssz.HashTreeRoot(block.Body)
	if err != nil {
		return invalidHeader(err)
	}

	st.SetLatestBlockHeader(&eth.BeaconBlockHeader{
		Slot:          block.Slot,
		ProposerIndex: proposerIndex,
		ParentRoot:    block.ParentRoot,
		StateRoot:     [32]byte{},
		BodyRoot:      bodyRoot,
	})
	return nil
}
