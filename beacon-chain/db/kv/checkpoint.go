package kv

import (
	"context"

	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
)

// JustifiedCheckpoint returns a copy of the store's current justified
// checkpoint, or nil if none has been saved yet.
func (s *Store) JustifiedCheckpoint(ctx context.Context) *eth.Checkpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.justifiedCheckpoint.Copy()
}

// SaveJustifiedCheckpoint records cp as the current justified checkpoint.
func (s *Store) SaveJustifiedCheckpoint(ctx context.Context, cp *eth.Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.justifiedCheckpoint = cp.Copy()
	return nil
}

// FinalizedCheckpoint returns a copy of the store's current finalized
// checkpoint, or nil if none has been saved yet.
func (s *Store) FinalizedCheckpoint(ctx context.Context) *eth.Checkpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.finalizedCheckpoint.Copy()
}

// SaveFinalizedCheckpoint records cp as the current finalized checkpoint.
func (s *Store) SaveFinalizedCheckpoint(ctx context.Context, cp *eth.Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finalizedCheckpoint = cp.Copy()
	return nil
}
