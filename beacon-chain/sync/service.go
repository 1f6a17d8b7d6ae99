// Package sync implements spec.md §4.9's sync orchestrator: a per-peer
// handshake state machine plus two sync modes, long-range (batched,
// concurrent, peer-scored backfill) and short-range (gossip order with
// parent-buffering). Grounded on the teacher's older-fork
// beacon-chain/deprecated-sync.Service (a thin struct composing
// sub-services behind a Config, logged under the "sync" prefix), with
// the sub-services themselves grounded on the newer fork's
// beacon-chain/p2p/peers.Status and beacon-chain/sync/initial-sync
// semaphore-bounded batch fetcher.
package sync

import (
	"context"

	"github.com/libp2p/go-libp2p-core/peer"
	"github.com/pkg/errors"

	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
)

// maxBadResponses is how many bad responses (STF rejections, malformed
// replies) a peer tolerates before PeerStatus disconnects it.
const maxBadResponses = 5

// maxConcurrentBatches bounds how many long-range block-range requests
// run in flight at once, the same role the teacher's initial-sync
// semaphore.go plays around its block fetcher.
const maxConcurrentBatches = 8

// Config bundles Service's constructor dependencies.
type Config struct {
	Fetcher     BlockRangeFetcher
	Handshaker  HandshakeSender
	Acceptor    BlockAcceptor
	ForkVersion [4]byte
}

// Service is the sync orchestrator: it owns the peer-status table and
// both sync modes, and is the entry point the rest of the node calls
// into on a new peer connection or an arriving gossip block.
type Service struct {
	ctx    context.Context
	cancel context.CancelFunc

	cfg   *Config
	peers *PeerStatus

	longRange  *LongRangeSync
	shortRange *ShortRangeSync
}

// NewService constructs a Service around cfg.
func NewService(ctx context.Context, cfg *Config) *Service {
	ctx, cancel := context.WithCancel(ctx)
	peers := NewPeerStatus(maxBadResponses)
	return &Service{
		ctx:        ctx,
		cancel:     cancel,
		cfg:        cfg,
		peers:      peers,
		longRange:  NewLongRangeSync(cfg.Fetcher, cfg.Acceptor, peers, maxConcurrentBatches),
		shortRange: NewShortRangeSync(cfg.Acceptor),
	}
}

// Start satisfies runtime.Service. HandleNewPeer/OnPeerDisconnected are
// called directly by the transport layer as connections come and go, so
// there is no internal loop to spawn here either.
func (s *Service) Start() {
	log.Info("sync service ready")
}

// Stop cancels the service's context, aborting any long-range sync
// currently in progress.
func (s *Service) Stop() error {
	s.cancel()
	return nil
}

// Status reports an error if too many peers have gone inactive to make
// any further progress plausible. A fresh service with zero peers isn't
// unhealthy, only one that has tried and lost every peer it had.
func (s *Service) Status() error {
	if len(s.peers.ActivePeers()) == 0 && len(s.peers.peers) > 0 {
		return errors.New("no active peers remain")
	}
	return nil
}

// Syncing reports whether a long-range sync is currently in progress,
// satisfying api/validatorapi.SyncChecker.
func (s *Service) Syncing() bool {
	return s.longRange.InProgress()
}

// PeerStatus returns the peer-status table, for the RPC layer to record
// connects/disconnects against.
func (s *Service) PeerStatus() *PeerStatus {
	return s.peers
}

// HandleNewPeer performs the handshake with a newly connected peer and,
// if it lands far enough ahead of localHeadSlot, kicks off a long-range
// sync against it. Grounded on the teacher's deprecated-sync Querier,
// which likewise gated long-range sync behind a peer's advertised head
// slot.
func (s *Service) HandleNewPeer(pid peer.ID, local ChainState, localHeadSlot primitives.Slot) error {
	if err := PerformHandshake(s.ctx, s.cfg.Handshaker, s.peers, pid, s.cfg.ForkVersion, local); err != nil {
		return errors.Wrap(err, "handshake failed")
	}

	remote, ok := s.peers.ChainState(pid)
	if !ok {
		return errors.New("no chain state recorded after successful handshake")
	}
	if !NeedsLongRangeSync(localHeadSlot, remote.HeadSlot) {
		return nil
	}

	return s.longRange.Sync(s.ctx, localHeadSlot, remote.HeadSlot, []peer.ID{pid})
}

// OnPeerDisconnected transitions pid to StateDisconnected. Any long-range
// batch currently assigned to pid notices on its next fetch attempt and
// is reissued to another candidate, per spec.md §4.9's cancellation
// rule.
func (s *Service) OnPeerDisconnected(pid peer.ID) {
	s.peers.Disconnect(pid)
}

// ShortRangeSync exposes the short-range sync sub-service for the gossip
// subscriber to feed blocks into directly.
func (s *Service) ShortRangeSync() *ShortRangeSync {
	return s.shortRange
}
