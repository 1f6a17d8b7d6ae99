// Package kv is the in-memory implementation of beacon-chain/db.Database.
// Grounded on the teacher's beacon-chain/db/kv.Store (bolt-backed maps
// behind a ccache read cache, promoted from disk by a single call site);
// this repository has no on-disk backend, so the "backing store" collapses
// to a plain guarded map, but the buffer-then-cache-then-map lookup chain
// and the prometheus/lru instrumentation carry over unchanged.
package kv

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
)

var log = logrus.WithField("prefix", "db")

const (
	defaultCacheSize       = 256
	defaultBufferThreshold = 32
)

// Store is spec.md §4.5's content-addressed block/state store: a
// write-buffered, cache-fronted map from block root to (block,
// state-after-block), plus the checkpoint and head pointers a node needs
// to resume from after a restart.
type Store struct {
	mu sync.RWMutex

	blocks map[[32]byte]*eth.SignedBeaconBlock
	states map[[32]byte]*state.BeaconState

	blockCache *lru.Cache
	stateCache *lru.Cache

	buffer *writeBuffer

	headRoot    [32]byte
	hasHead     bool
	genesisRoot [32]byte
	hasGenesis  bool

	justifiedCheckpoint *eth.Checkpoint
	finalizedCheckpoint *eth.Checkpoint
}

// NewKVStore constructs an empty Store with its default cache sizes and
// buffer flush threshold.
func NewKVStore() (*Store, error) {
	blockCache, err := lru.New(defaultCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "could not initialize block cache")
	}
	stateCache, err := lru.New(defaultCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "could not initialize state cache")
	}
	return &Store{
		blocks:     make(map[[32]byte]*eth.SignedBeaconBlock),
		states:     make(map[[32]byte]*state.BeaconState),
		blockCache: blockCache,
		stateCache: stateCache,
		buffer:     newWriteBuffer(defaultBufferThreshold),
	}, nil
}

// Close drains any buffered writes into the backing maps. The in-memory
// backend has nothing else to release.
func (s *Store) Close() error {
	return s.Commit(true)
}

// Commit is spec.md §4.5's commit: flush the write buffer into the backing
// maps once it has reached its threshold, or unconditionally when force is
// true, which Close relies on so a caller that shuts down without an
// explicit final commit doesn't lose buffered writes.
func (s *Store) Commit(force bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buffer.size() == 0 {
		return nil
	}
	if !force && !s.buffer.full() {
		return nil
	}
	for root, block := range s.buffer.blocks {
		s.blocks[root] = block
		s.blockCache.Add(root, block)
	}
	for root, st := range s.buffer.states {
		s.states[root] = st
		s.stateCache.Add(root, st)
	}
	flushed := s.buffer.size()
	s.buffer.clear()
	bufferFlushTotal.Inc()
	log.WithField("entries", flushed).Debug("Flushed write buffer to backing store")
	return nil
}
