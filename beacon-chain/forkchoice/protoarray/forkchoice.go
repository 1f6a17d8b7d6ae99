package protoarray

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
)

// Vote is a single validator's latest LMD-GHOST vote: the root it voted for
// last time its weight was folded into the store (currentRoot) versus the
// root its most recent attestation actually names (nextRoot), so Head can
// apply just the delta between the two instead of re-tallying every vote
// from scratch.
type Vote struct {
	currentRoot [32]byte
	nextRoot    [32]byte
	nextEpoch   primitives.Epoch
}

// ForkChoice is spec.md §4.6's fork-choice store: the protoarray Store plus
// the pending-vote ledger on_attestation accumulates between Head calls.
// Grounded on the teacher's beacon-chain/forkchoice/protoarray.ForkChoice
// (store + votes + balances fields, same New/ProcessBlock/ProcessAttestation
// entry points).
type ForkChoice struct {
	mu       sync.Mutex
	store    *Store
	votes    []Vote
	balances []primitives.Gwei
	time     primitives.Slot
}

// New creates a fork-choice store rooted at finalizedRoot.
//
//	def get_forkchoice_store(state: BeaconState) -> Store:
//	  (store seeded with the finalized checkpoint as its single node)
func New(justifiedEpoch, finalizedEpoch primitives.Epoch, finalizedRoot [32]byte) *ForkChoice {
	return &ForkChoice{
		store:    newStore(justifiedEpoch, finalizedEpoch, finalizedRoot),
		votes:    make([]Vote, 0),
		balances: make([]primitives.Gwei, 0),
	}
}

// HasNode reports whether root has been inserted into the store.
func (f *ForkChoice) HasNode(root [32]byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.store.nodeIndices[root]
	return ok
}

// ProcessBlock is on_block's fork-choice-relevant slice: insert the new
// block into the store, rejecting it if its parent is unknown or if it
// falls at or below the already-finalized slot.
//
//	def on_block(store: Store, signed_block: SignedBeaconBlock) -> None:
//	  (validity checks elided — validated by core/transition beforehand;
//	   this records the block's place in the fork-choice array)
func (f *ForkChoice) ProcessBlock(slot primitives.Slot, root, parentRoot [32]byte, justifiedEpoch, finalizedEpoch primitives.Epoch) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if finalizedIdx, ok := f.store.nodeIndices[f.store.finalizedRoot]; ok {
		if slot <= f.store.nodes[finalizedIdx].slot && root != f.store.finalizedRoot {
			return belowFinalized(errors.Errorf("block slot %d is at or below finalized slot %d", slot, f.store.nodes[finalizedIdx].slot))
		}
	}
	return f.store.insert(slot, root, parentRoot, justifiedEpoch, finalizedEpoch)
}

// ProcessAttestation is on_attestation's vote-accounting slice: record
// validatorIndex's vote for blockRoot if it is newer than anything already
// recorded for it, per LMD-GHOST's "latest message" rule.
//
//	def on_attestation(store: Store, attestation: Attestation) -> None:
//	  (per attesting validator index) store.latest_messages[i] = LatestMessage(target.epoch, beacon_block_root)
func (f *ForkChoice) ProcessAttestation(validatorIndex uint64, blockRoot [32]byte, targetEpoch primitives.Epoch) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for uint64(len(f.votes)) <= validatorIndex {
		f.votes = append(f.votes, Vote{})
	}
	v := &f.votes[validatorIndex]
	var zero [32]byte
	if v.nextRoot == zero || targetEpoch > v.nextEpoch {
		v.nextEpoch = targetEpoch
		v.nextRoot = blockRoot
	}
}

// OnTick advances the store's notion of current slot, the wall-clock signal
// on_tick folds into Store in the full spec (used there to gate late
// attestations and epoch-boundary justification updates); this repository's
// simplified store only exposes it for callers that want to assert
// monotonic ticking.
func (f *ForkChoice) OnTick(slot primitives.Slot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if slot > f.time {
		f.time = slot
	}
}

// Head applies every pending vote's weight delta against justifiedStateBalances,
// records justifiedEpoch/finalizedEpoch on the store, and returns the
// resulting LMD-GHOST head. Child selection compares weight and then root
// only; children are not filtered by their justified/finalized epochs.
//
//	def get_head(store: Store) -> Root:
func (f *ForkChoice) Head(justifiedRoot [32]byte, justifiedEpoch, finalizedEpoch primitives.Epoch, justifiedStateBalances []primitives.Gwei) ([32]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.store.justifiedEpoch = justifiedEpoch
	f.store.finalizedEpoch = finalizedEpoch
	f.applyWeightChanges(justifiedStateBalances)
	f.store.updateBestChildAndDescendant()
	return f.store.head(justifiedRoot)
}

// applyWeightChanges folds every vote whose target root or whose validator's
// balance changed since the last call into the store's weights, then
// remembers the new balances/vote roots as the new baseline.
func (f *ForkChoice) applyWeightChanges(newBalances []primitives.Gwei) {
	var zero [32]byte
	for i := range f.votes {
		vote := &f.votes[i]
		oldBalance := primitives.Gwei(0)
		if i < len(f.balances) {
			oldBalance = f.balances[i]
		}
		newBalance := primitives.Gwei(0)
		if i < len(newBalances) {
			newBalance = newBalances[i]
		}
		if vote.currentRoot == vote.nextRoot && oldBalance == newBalance {
			continue
		}
		if vote.currentRoot != zero {
			f.store.applyDelta(vote.currentRoot, -int64(oldBalance))
		}
		if vote.nextRoot != zero {
			f.store.applyDelta(vote.nextRoot, int64(newBalance))
		}
		vote.currentRoot = vote.nextRoot
	}
	f.balances = append(f.balances[:0], newBalances...)
}

// Prune drops every node behind finalizedRoot once the store holds at
// least its prune threshold of nodes, content-addressed deletion
// mirroring beacon-chain/db's delete_below.
func (f *ForkChoice) Prune(finalizedRoot [32]byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.store.prune(finalizedRoot)
}

// JustifiedEpoch returns the store's current justified epoch.
func (f *ForkChoice) JustifiedEpoch() primitives.Epoch {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.store.justifiedEpoch
}

// FinalizedEpoch returns the store's current finalized epoch.
func (f *ForkChoice) FinalizedEpoch() primitives.Epoch {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.store.finalizedEpoch
}
