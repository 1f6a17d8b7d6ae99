// Package db defines the storage interface spec.md §4.5 describes: a
// content-addressed map from block root to (block, post-block state), plus
// the checkpoint and head bookkeeping the rest of the node needs to resume
// after a restart. Grounded on the teacher's beacon-chain/db/iface.Database
// split (ReadOnlyDatabase / NoHeadAccessDatabase / HeadAccessDatabase),
// trimmed to the subset this repository's domain actually needs — no
// slasher store, no execution-chain or fee-recipient bookkeeping, no
// archived-point history, since those modules don't exist here.
package db

import (
	"context"

	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
)

// ReadOnlyDatabase is the query surface every caller gets, including ones
// that must never be able to mutate the store (RPC handlers, fork-choice).
type ReadOnlyDatabase interface {
	Block(ctx context.Context, blockRoot [32]byte) (*eth.SignedBeaconBlock, error)
	HasBlock(ctx context.Context, blockRoot [32]byte) bool
	State(ctx context.Context, blockRoot [32]byte) (*state.BeaconState, error)
	HasState(ctx context.Context, blockRoot [32]byte) bool
	HeadBlockRoot(ctx context.Context) ([32]byte, bool)
	JustifiedCheckpoint(ctx context.Context) *eth.Checkpoint
	FinalizedCheckpoint(ctx context.Context) *eth.Checkpoint
	GenesisBlockRoot(ctx context.Context) ([32]byte, bool)
}

// NoHeadAccessDatabase adds the write methods a component that isn't
// allowed to move the canonical head still needs (backfilling historical
// blocks during a long-range sync, for instance).
type NoHeadAccessDatabase interface {
	ReadOnlyDatabase

	SaveBlock(ctx context.Context, block *eth.SignedBeaconBlock) error
	SaveState(ctx context.Context, st *state.BeaconState, blockRoot [32]byte) error
	SaveJustifiedCheckpoint(ctx context.Context, cp *eth.Checkpoint) error
	SaveFinalizedCheckpoint(ctx context.Context, cp *eth.Checkpoint) error

	// DeleteBelow is spec.md §4.5's delete_below: prune every block (and its
	// paired state) at a slot strictly less than finalizedSlot, except
	// keepRoot and any of keepRoot's ancestors still resident in the store.
	DeleteBelow(ctx context.Context, finalizedSlot primitives.Slot, keepRoot [32]byte) error

	// Commit flushes the write buffer to the backing map once its size
	// reaches the store's threshold, or unconditionally if force is true.
	Commit(force bool) error
}

// HeadAccessDatabase is the full read/write surface, including moving the
// canonical head pointer and seeding a fresh chain from a genesis state.
type HeadAccessDatabase interface {
	NoHeadAccessDatabase

	SaveHeadBlockRoot(ctx context.Context, blockRoot [32]byte) error
	SaveGenesisData(ctx context.Context, genesisState *state.BeaconState) error
}

// Database is the full interface a beacon node depends on, matching the
// teacher's top-level iface.Database (io.Closer plus HeadAccessDatabase)
// minus the backup exporter and DatabasePath/ClearDB pair, which belong to
// an on-disk backend this in-memory store doesn't have.
type Database interface {
	HeadAccessDatabase
	Close() error
}
