package kv

import (
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
)

// writeBuffer is spec.md §4.5's write buffer sitting in front of the
// backing store: every save lands here first and is only visible through
// Store's buffer-then-cache-then-map lookup chain until Commit folds it
// into the backing maps.
type writeBuffer struct {
	threshold int
	blocks    map[[32]byte]*eth.SignedBeaconBlock
	states    map[[32]byte]*state.BeaconState
}

func newWriteBuffer(threshold int) *writeBuffer {
	return &writeBuffer{
		threshold: threshold,
		blocks:    make(map[[32]byte]*eth.SignedBeaconBlock),
		states:    make(map[[32]byte]*state.BeaconState),
	}
}

func (b *writeBuffer) putBlock(root [32]byte, block *eth.SignedBeaconBlock) {
	b.blocks[root] = block
}

func (b *writeBuffer) putState(root [32]byte, st *state.BeaconState) {
	b.states[root] = st
}

func (b *writeBuffer) block(root [32]byte) (*eth.SignedBeaconBlock, bool) {
	blk, ok := b.blocks[root]
	return blk, ok
}

func (b *writeBuffer) state(root [32]byte) (*state.BeaconState, bool) {
	st, ok := b.states[root]
	return st, ok
}

func (b *writeBuffer) size() int {
	return len(b.blocks) + len(b.states)
}

func (b *writeBuffer) full() bool {
	return b.size() >= b.threshold
}

func (b *writeBuffer) clear() {
	b.blocks = make(map[[32]byte]*eth.SignedBeaconBlock)
	b.states = make(map[[32]byte]*state.BeaconState)
}
