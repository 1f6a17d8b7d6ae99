package kv

import (
	"context"

	"github.com/pkg/errors"

	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
)

// SaveGenesisData seeds an empty store from genesisState: an empty genesis
// block whose state_root is the genesis state's own hash_tree_root,
// recorded as both the store's genesis and its initial canonical head,
// with the genesis root justified and finalized from slot zero.
func (s *Store) SaveGenesisData(ctx context.Context, genesisState *state.BeaconState) error {
	if genesisState == nil {
		return errors.New("cannot save nil genesis state")
	}
	stateRoot, err := genesisState.HashTreeRoot()
	if err != nil {
		return errors.Wrap(err, "could not compute genesis state root")
	}

	genesisBlock := &eth.SignedBeaconBlock{
		Block: &eth.BeaconBlock{
			StateRoot: stateRoot,
			Body:      &eth.BeaconBlockBody{},
		},
	}
	if err := s.SaveBlock(ctx, genesisBlock); err != nil {
		return errors.Wrap(err, "could not save genesis block")
	}
	root, err := genesisBlock.Block.SigningRoot()
	if err != nil {
		return errors.Wrap(err, "could not compute genesis block root")
	}
	if err := s.SaveState(ctx, genesisState, root); err != nil {
		return errors.Wrap(err, "could not save genesis state")
	}
	if err := s.Commit(true); err != nil {
		return err
	}
	if err := s.SaveHeadBlockRoot(ctx, root); err != nil {
		return err
	}

	genesisCheckpoint := &eth.Checkpoint{Root: root}
	if err := s.SaveJustifiedCheckpoint(ctx, genesisCheckpoint); err != nil {
		return err
	}
	return s.SaveFinalizedCheckpoint(ctx, genesisCheckpoint)
}
