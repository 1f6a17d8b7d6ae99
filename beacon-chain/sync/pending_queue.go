package sync

import (
	"sync"

	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
)

// ShortRangeSync drives spec.md §4.9's short-sync mode: gossip blocks are
// fed to the acceptor in arrival order, and an out-of-order descendant
// (one whose parent hasn't been accepted yet) is buffered keyed by
// parent_root until that parent shows up, at which point it — and
// anything buffered on top of it — is released and applied in turn.
// Grounded on the teacher's beacon-chain/sync/pending_blocks_queue.go,
// the same parent-root-keyed buffering idea, collapsed to a single
// unbounded map since this repository has no slot-range eviction policy
// to replicate without the teacher's full block-by-root RPC surface.
type ShortRangeSync struct {
	mu       sync.Mutex
	acceptor BlockAcceptor
	// pending buffers blocks whose parent hasn't been seen yet, keyed by
	// that missing parent's root.
	pending map[[32]byte][]*eth.SignedBeaconBlock
	// known tracks every root this sync has successfully applied, so a
	// buffered child can be released once its parent root shows up here.
	known map[[32]byte]bool
}

// NewShortRangeSync constructs an empty ShortRangeSync feeding accepted
// blocks to acceptor.
func NewShortRangeSync(acceptor BlockAcceptor) *ShortRangeSync {
	return &ShortRangeSync{
		acceptor: acceptor,
		pending:  make(map[[32]byte][]*eth.SignedBeaconBlock),
		known:    make(map[[32]byte]bool),
	}
}

// SeedKnownRoot marks root (typically the current head) as already
// applied, so a gossiped child of it is accepted immediately rather than
// buffered as if its parent were missing.
func (s *ShortRangeSync) SeedKnownRoot(root [32]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.known[root] = true
}

// OnGossipBlock handles one gossip-arrival-order block: applies it
// immediately if its parent is already known, or buffers it under its
// parent's root otherwise. Applying a block may in turn release any
// children buffered on top of it, which are applied (and recursively
// checked for their own children) before OnGossipBlock returns.
func (s *ShortRangeSync) OnGossipBlock(signedBlock *eth.SignedBeaconBlock) error {
	root, err := signedBlock.Block.SigningRoot()
	if err != nil {
		return err
	}

	s.mu.Lock()
	if !s.known[signedBlock.Block.ParentRoot] {
		s.pending[signedBlock.Block.ParentRoot] = append(s.pending[signedBlock.Block.ParentRoot], signedBlock)
		pendingQueueDepth.Inc()
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	return s.applyAndRelease(signedBlock, root)
}

// applyAndRelease runs the acceptor against signedBlock and then drains
// any children that were buffered waiting for root.
func (s *ShortRangeSync) applyAndRelease(signedBlock *eth.SignedBeaconBlock, root [32]byte) error {
	if err := s.acceptor.ProcessBlock(signedBlock); err != nil {
		return err
	}

	s.mu.Lock()
	s.known[root] = true
	children := s.pending[root]
	delete(s.pending, root)
	if len(children) > 0 {
		pendingQueueDepth.Sub(float64(len(children)))
	}
	s.mu.Unlock()

	for _, child := range children {
		childRoot, err := child.Block.SigningRoot()
		if err != nil {
			continue
		}
		if err := s.applyAndRelease(child, childRoot); err != nil {
			return err
		}
	}
	return nil
}

// PendingDepth returns the total number of blocks currently buffered
// across every parent root.
func (s *ShortRangeSync) PendingDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, children := range s.pending {
		n += len(children)
	}
	return n
}
