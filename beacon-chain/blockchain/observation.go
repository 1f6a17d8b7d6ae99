package blockchain

import (
	"github.com/pkg/errors"

	"github.com/prylabs-zero/beacon-core/beacon-chain/blockchain/statefeed"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
)

// ProcessSlotTick is spec.md §4.7's "slot tick" event: it recomputes
// latest_slot_state for the new wall-clock slot and emits an Observation,
// without touching the canonical head block or fork choice (only
// ProcessBlock moves those).
func (s *Service) ProcessSlotTick(slot primitives.Slot) error {
	return s.emitObservation()
}

// emitObservation publishes the node's current externally-visible view,
// gated so emission never regresses in (finalized_epoch, slot), per
// spec.md §4.7.
func (s *Service) emitObservation() error {
	if s.notifier == nil {
		return nil
	}

	finalizedEpoch := s.finalizedCheckpoint.Epoch
	slot := s.CurrentSlot()

	if finalizedEpoch < s.lastEmittedFinalized {
		return nil
	}
	if finalizedEpoch == s.lastEmittedFinalized && slot < s.lastEmittedSlot {
		return nil
	}

	latestSlotState, err := s.HeadState(slot)
	if err != nil {
		return errors.Wrap(err, "could not compute latest slot state")
	}

	s.lastEmittedFinalized = finalizedEpoch
	s.lastEmittedSlot = slot

	s.notifier.SendObservation(&statefeed.Observation{
		HeadBlock:       s.HeadBlock(),
		LatestSlotState: latestSlotState,
		FinalizedEpoch:  finalizedEpoch,
	})
	return nil
}
