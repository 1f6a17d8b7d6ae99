package sync

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/libp2p/go-libp2p-core/peer"
	"github.com/pkg/errors"

	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
)

// backfillThreshold is spec.md §4.9's BACKFILL_THRESHOLD: a peer whose
// advertised head is more than this many slots ahead of the local head is
// a long-range sync candidate rather than something gossip alone will
// catch up on.
const backfillThreshold = primitives.Slot(64)

// batchSize is spec.md §4.9's BATCH: the width of a single block-range
// request dispatched to one peer.
const batchSize = uint64(64)

// batchTimeout bounds how long a single peer is given to answer a batch
// request before it's reissued to someone else.
const batchTimeout = 10 * time.Second

// BlockRangeFetcher is the transport's half of long-range sync: given a
// peer and a slot range, fetch whatever blocks that peer has in it.
// Grounded on the teacher's beacon-chain/sync RegularSync/p2p split — the
// actual libp2p request/response machinery is a collaborator injected
// from outside this package, per spec.md §1's transport boundary.
type BlockRangeFetcher interface {
	FetchBlockRange(ctx context.Context, pid peer.ID, start primitives.Slot, count uint64) ([]*eth.SignedBeaconBlock, error)
}

// BlockAcceptor is the sink long-range sync serially feeds reassembled
// blocks to — the beacon-chain/blockchain observable state processor's
// ProcessBlock, in production.
type BlockAcceptor interface {
	ProcessBlock(signedBlock *eth.SignedBeaconBlock) error
}

// LongRangeSync drives spec.md §4.9's long-sync mode: split the gap
// between the local head and a far-ahead peer into batches, dispatch
// them across multiple peers with bounded concurrency, reassemble
// responses in slot order, and feed the result to the state-transition
// function serially so an STF rejection cleanly stops at the bad batch.
type LongRangeSync struct {
	fetcher    BlockRangeFetcher
	acceptor   BlockAcceptor
	peers      *PeerStatus
	semaphore  chan struct{}
	inProgress int32
}

// NewLongRangeSync constructs a LongRangeSync that runs at most
// maxConcurrentBatches block-range requests in flight at once. Grounded
// on the teacher's initial-sync semaphore.go, a buffered-channel
// concurrency limiter around the same kind of batched peer fetch.
func NewLongRangeSync(fetcher BlockRangeFetcher, acceptor BlockAcceptor, peers *PeerStatus, maxConcurrentBatches int) *LongRangeSync {
	return &LongRangeSync{
		fetcher:   fetcher,
		acceptor:  acceptor,
		peers:     peers,
		semaphore: make(chan struct{}, maxConcurrentBatches),
	}
}

// batch is one [start, start+count) block-range request and its
// lifecycle: which peer currently owns it, and the blocks it resolved to
// once satisfied.
type batch struct {
	start  primitives.Slot
	count  uint64
	peer   peer.ID
	blocks []*eth.SignedBeaconBlock
	err    error
}

// Sync fetches every block in [localHeadSlot+1, targetSlot] from
// candidates, feeding them to the acceptor in slot order, and returns
// once the whole range has been accepted or an unrecoverable error
// occurs. A batch whose peer disconnects mid-flight, or that times out,
// is reissued to another candidate; an STF rejection downscores the
// offending peer and aborts the sync (spec.md §4.9: "no partial
// acceptance" — batches before the failing one have already been
// applied, but nothing past it is).
func (l *LongRangeSync) Sync(ctx context.Context, localHeadSlot, targetSlot primitives.Slot, candidates []peer.ID) error {
	atomic.StoreInt32(&l.inProgress, 1)
	defer atomic.StoreInt32(&l.inProgress, 0)

	if len(candidates) == 0 {
		return errors.New("no candidate peers for long-range sync")
	}

	batches := planBatches(localHeadSlot, targetSlot)
	if len(batches) == 0 {
		return nil
	}

	results := make([]*batch, len(batches))
	var wg sync.WaitGroup
	for i, b := range batches {
		results[i] = b
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			l.runBatch(ctx, results[idx], candidates)
		}(i)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].start < results[j].start })

	for _, b := range results {
		if b.err != nil {
			return errors.Wrapf(b.err, "batch starting at slot %d failed", b.start)
		}
		for _, blk := range b.blocks {
			if err := l.acceptor.ProcessBlock(blk); err != nil {
				batchesRejected.Inc()
				if b.peer != "" {
					l.peers.IncrementBadResponses(b.peer)
				}
				return errors.Wrapf(err, "state transition rejected block at slot %d", blk.Block.Slot)
			}
		}
	}
	return nil
}

// runBatch assigns b to a candidate peer, retrying against other
// candidates on timeout or disconnect until one answers or the candidate
// list is exhausted.
func (l *LongRangeSync) runBatch(ctx context.Context, b *batch, candidates []peer.ID) {
	l.semaphore <- struct{}{}
	defer func() { <-l.semaphore }()

	tried := make(map[peer.ID]bool, len(candidates))
	for {
		pid, ok := nextCandidate(candidates, tried)
		if !ok {
			b.err = errors.New("exhausted all candidate peers for batch")
			return
		}
		tried[pid] = true
		b.peer = pid

		batchCtx, cancel := context.WithTimeout(ctx, batchTimeout)
		blocks, err := l.fetcher.FetchBlockRange(batchCtx, pid, b.start, b.count)
		cancel()

		if err == nil {
			sort.Slice(blocks, func(i, j int) bool { return blocks[i].Block.Slot < blocks[j].Block.Slot })
			b.blocks = blocks
			b.err = nil
			return
		}

		batchesReissued.Inc()
		if !l.peers.IsActive(pid) {
			continue
		}
		select {
		case <-ctx.Done():
			b.err = ctx.Err()
			return
		default:
		}
	}
}

func nextCandidate(candidates []peer.ID, tried map[peer.ID]bool) (peer.ID, bool) {
	for _, pid := range candidates {
		if !tried[pid] {
			return pid, true
		}
	}
	return "", false
}

// planBatches splits (localHeadSlot, targetSlot] into fixed-width
// batches of batchSize slots each.
func planBatches(localHeadSlot, targetSlot primitives.Slot) []*batch {
	var out []*batch
	start := localHeadSlot.Add(1)
	for start <= targetSlot {
		remaining := uint64(targetSlot-start) + 1
		count := batchSize
		if remaining < count {
			count = remaining
		}
		out = append(out, &batch{start: start, count: count})
		start = start.Add(count)
	}
	return out
}

// InProgress reports whether a Sync call is currently running.
func (l *LongRangeSync) InProgress() bool {
	return atomic.LoadInt32(&l.inProgress) == 1
}

// NeedsLongRangeSync reports whether peerHeadSlot is far enough ahead of
// localHeadSlot to warrant long-range sync rather than gossip-driven
// short-range sync.
func NeedsLongRangeSync(localHeadSlot, peerHeadSlot primitives.Slot) bool {
	return peerHeadSlot > localHeadSlot && peerHeadSlot-localHeadSlot > backfillThreshold
}
