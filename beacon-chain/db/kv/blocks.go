package kv

import (
	"context"

	"github.com/pkg/errors"

	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
)

// Block returns the block stored under blockRoot, checking the pending
// write buffer before the read cache and the committed map.
func (s *Store) Block(ctx context.Context, blockRoot [32]byte) (*eth.SignedBeaconBlock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if b, ok := s.buffer.block(blockRoot); ok {
		return b, nil
	}
	if cached, ok := s.blockCache.Get(blockRoot); ok {
		blockCacheHit.Inc()
		return cached.(*eth.SignedBeaconBlock), nil
	}
	blockCacheMiss.Inc()
	b, ok := s.blocks[blockRoot]
	if !ok {
		return nil, nil
	}
	s.blockCache.Add(blockRoot, b)
	return b, nil
}

// HasBlock reports whether blockRoot names a block in the buffer or the
// committed store.
func (s *Store) HasBlock(ctx context.Context, blockRoot [32]byte) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.buffer.block(blockRoot); ok {
		return true
	}
	_, ok := s.blocks[blockRoot]
	return ok
}

// SaveBlock keys block by its own hash_tree_root (spec.md §4.5) and stages
// it in the write buffer, flushing if the buffer has reached its
// threshold. The first block ever saved into an empty store also becomes
// its recorded genesis root.
func (s *Store) SaveBlock(ctx context.Context, block *eth.SignedBeaconBlock) error {
	if block == nil || block.Block == nil {
		return errors.New("cannot save nil block")
	}
	root, err := block.Block.SigningRoot()
	if err != nil {
		return errors.Wrap(err, "could not compute block root")
	}

	s.mu.Lock()
	if !s.hasGenesis {
		s.genesisRoot = root
		s.hasGenesis = true
	}
	s.buffer.putBlock(root, block)
	full := s.buffer.full()
	s.mu.Unlock()

	if full {
		return s.Commit(false)
	}
	return nil
}

// HeadBlockRoot returns the block root recorded as canonical head, and
// whether one has been saved yet.
func (s *Store) HeadBlockRoot(ctx context.Context) ([32]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.headRoot, s.hasHead
}

// SaveHeadBlockRoot moves the canonical head pointer to blockRoot.
func (s *Store) SaveHeadBlockRoot(ctx context.Context, blockRoot [32]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.headRoot = blockRoot
	s.hasHead = true
	return nil
}

// GenesisBlockRoot returns the root of the first block ever saved into the
// store, and whether one has been saved yet.
func (s *Store) GenesisBlockRoot(ctx context.Context) ([32]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.genesisRoot, s.hasGenesis
}
