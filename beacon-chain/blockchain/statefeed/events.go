// Package statefeed defines the event types the observable state
// processor (spec.md §4.7) publishes through a shared/event.Feed, one
// feed per event kind. Grounded on the teacher's older-fork
// beacon-chain/core/statefeed package (an EventType/Event{Type,Data} pair
// dispatched over a single feed with a type switch on Data), simplified
// here to one feed per kind since shared/event.Feed already fixes its
// element type on first Subscribe — a type switch over an interface{}
// payload would just be working around that.
package statefeed

import (
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
	"github.com/prylabs-zero/beacon-core/shared/event"
)

// BlockProcessed is sent after a block has been accepted, verified, and
// had its post-state computed and stored.
type BlockProcessed struct {
	Slot        primitives.Slot
	BlockRoot   [32]byte
	SignedBlock *eth.SignedBeaconBlock
}

// Observation is the node's externally-visible view as of an accepted-block
// or slot-tick event: the head block, the latest slot state and the
// finalized epoch. It carries no pending operations; those stay in the
// operation pools.
type Observation struct {
	HeadBlock        *eth.SignedBeaconBlock
	LatestSlotState  *state.BeaconState
	FinalizedEpoch   primitives.Epoch
}

// Notifier fans out the events the rest of the node (RPC, sync, the
// validator client) subscribes to.
type Notifier struct {
	blockFeed       event.Feed
	observationFeed event.Feed
}

// NewNotifier constructs an empty Notifier. Its feeds' element types are
// fixed lazily by whichever caller subscribes first.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// SubscribeBlockProcessed registers ch to receive every BlockProcessed
// event sent after this Notifier's owner.
func (n *Notifier) SubscribeBlockProcessed(ch chan BlockProcessed) event.Subscription {
	return n.blockFeed.Subscribe(ch)
}

// SendBlockProcessed publishes ev to every current BlockProcessed
// subscriber.
func (n *Notifier) SendBlockProcessed(ev BlockProcessed) int {
	return n.blockFeed.Send(ev)
}

// SubscribeObservation registers ch to receive every Observation emitted
// on an accepted-block or slot-tick event.
func (n *Notifier) SubscribeObservation(ch chan *Observation) event.Subscription {
	return n.observationFeed.Subscribe(ch)
}

// SendObservation publishes obs to every current Observation subscriber.
func (n *Notifier) SendObservation(obs *Observation) int {
	return n.observationFeed.Send(obs)
}
