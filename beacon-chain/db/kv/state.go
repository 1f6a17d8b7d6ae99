package kv

import (
	"context"

	"github.com/pkg/errors"

	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
)

// State returns the post-block state stored under blockRoot, checking the
// pending write buffer before the read cache and the committed map.
func (s *Store) State(ctx context.Context, blockRoot [32]byte) (*state.BeaconState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if st, ok := s.buffer.state(blockRoot); ok {
		return st, nil
	}
	if cached, ok := s.stateCache.Get(blockRoot); ok {
		stateCacheHit.Inc()
		return cached.(*state.BeaconState), nil
	}
	stateCacheMiss.Inc()
	st, ok := s.states[blockRoot]
	if !ok {
		return nil, nil
	}
	s.stateCache.Add(blockRoot, st)
	return st, nil
}

// HasState reports whether blockRoot has a paired state in the buffer or
// the committed store.
func (s *Store) HasState(ctx context.Context, blockRoot [32]byte) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.buffer.state(blockRoot); ok {
		return true
	}
	_, ok := s.states[blockRoot]
	return ok
}

// SaveState stages st as the post-block state for blockRoot, flushing the
// write buffer if it has reached its threshold.
func (s *Store) SaveState(ctx context.Context, st *state.BeaconState, blockRoot [32]byte) error {
	if st == nil {
		return errors.New("cannot save nil state")
	}

	s.mu.Lock()
	s.buffer.putState(blockRoot, st)
	full := s.buffer.full()
	s.mu.Unlock()

	if full {
		return s.Commit(false)
	}
	return nil
}
