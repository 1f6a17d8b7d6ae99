package kv

import (
	"context"

	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
)

// DeleteBelow is spec.md §4.5's delete_below: remove every block (and its
// paired state) whose slot is strictly below finalizedSlot, except
// keepRoot and any ancestor of keepRoot the store still holds. Pruning a
// block still reachable from the kept chain would strand a live
// descendant with a dangling parent link, so the deletion protection walks
// keepRoot's parent chain first and excludes everything it finds.
func (s *Store) DeleteBelow(ctx context.Context, finalizedSlot primitives.Slot, keepRoot [32]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	protected := s.protectedAncestors(keepRoot)

	for root, block := range s.blocks {
		if protected[root] || block.Block.Slot >= finalizedSlot {
			continue
		}
		delete(s.blocks, root)
		delete(s.states, root)
		s.blockCache.Remove(root)
		s.stateCache.Remove(root)
		deletedBelowTotal.Inc()
	}
	for root, block := range s.buffer.blocks {
		if protected[root] || block.Block.Slot >= finalizedSlot {
			continue
		}
		delete(s.buffer.blocks, root)
		delete(s.buffer.states, root)
		deletedBelowTotal.Inc()
	}
	return nil
}

// protectedAncestors walks keepRoot's parent chain through whichever of the
// buffer or the committed store still holds each ancestor, stopping at the
// first parent the store doesn't know about (typically an already-pruned
// ancestor, or the genesis block's zero parent root).
func (s *Store) protectedAncestors(keepRoot [32]byte) map[[32]byte]bool {
	protected := make(map[[32]byte]bool)
	root := keepRoot
	for {
		block, ok := s.buffer.blocks[root]
		if !ok {
			block, ok = s.blocks[root]
		}
		if !ok || protected[root] {
			break
		}
		protected[root] = true
		root = block.Block.ParentRoot
	}
	return protected
}
