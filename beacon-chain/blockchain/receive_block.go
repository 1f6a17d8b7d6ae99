package blockchain

import (
	"github.com/pkg/errors"

	"github.com/prylabs-zero/beacon-core/beacon-chain/blockchain/statefeed"
	"github.com/prylabs-zero/beacon-core/beacon-chain/core/helpers"
	"github.com/prylabs-zero/beacon-core/beacon-chain/core/transition"
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
)

// ProcessBlock is spec.md §4.7's "accepted block" event: it runs the
// state-transition function against the block's parent state, stores the
// resulting (block, post-state) pair, advances fork choice, recomputes
// the canonical head, and emits an Observation. Grounded on the teacher's
// older-fork Service.ReceiveBlock, collapsed into one call since this
// repository has no separate gossip-validation stage ahead of it.
func (s *Service) ProcessBlock(signedBlock *eth.SignedBeaconBlock) error {
	if signedBlock == nil || signedBlock.Block == nil {
		return errors.New("cannot process nil block")
	}
	block := signedBlock.Block

	parentState, err := s.db.State(s.ctx, block.ParentRoot)
	if err != nil {
		return errors.Wrap(err, "could not load parent state")
	}

	postState, err := transition.Transition(parentState, signedBlock, true)
	if err != nil {
		return errors.Wrap(err, "could not run state transition")
	}

	root, err := block.SigningRoot()
	if err != nil {
		return errors.Wrap(err, "could not compute block root")
	}

	if err := s.db.SaveBlock(s.ctx, signedBlock); err != nil {
		return errors.Wrap(err, "could not save block")
	}
	if err := s.db.SaveState(s.ctx, postState, root); err != nil {
		return errors.Wrap(err, "could not save post-state")
	}
	if err := s.db.Commit(false); err != nil {
		return errors.Wrap(err, "could not flush database buffer")
	}

	if err := s.forkChoice.ProcessBlock(
		block.Slot, root, block.ParentRoot,
		s.justifiedCheckpoint.Epoch, s.finalizedCheckpoint.Epoch,
	); err != nil {
		return errors.Wrap(err, "could not insert block into fork choice")
	}

	s.updateCheckpoints(postState)

	balances, err := activeBalances(postState)
	if err != nil {
		return errors.Wrap(err, "could not compute active balances")
	}
	if err := s.updateHead(balances); err != nil {
		return errors.Wrap(err, "could not update head")
	}

	s.prunePools(block.Body)

	if s.notifier != nil {
		s.notifier.SendBlockProcessed(statefeed.BlockProcessed{
			Slot:        block.Slot,
			BlockRoot:   root,
			SignedBlock: signedBlock,
		})
	}

	return s.emitObservation()
}

// updateCheckpoints adopts st's justified and finalized checkpoints if
// they represent progress, tracking the best-seen justified checkpoint
// separately so updateHead's bounce-attack guard has something to compare
// against. A newly finalized checkpoint also triggers pruning the
// database down to the finality horizon.
func (s *Service) updateCheckpoints(st *state.BeaconState) {
	if cp := st.CurrentJustifiedCheckpoint(); cp.Epoch > s.bestJustifiedCheckpoint.Epoch {
		s.bestJustifiedCheckpoint = cp
	}
	cp := st.FinalizedCheckpoint()
	if cp.Epoch <= s.finalizedCheckpoint.Epoch {
		return
	}
	s.finalizedCheckpoint = cp
	if err := s.db.SaveFinalizedCheckpoint(s.ctx, cp); err != nil {
		log.WithError(err).Error("could not save finalized checkpoint")
		return
	}
	if err := s.forkChoice.Prune(cp.Root); err != nil {
		log.WithError(err).Error("could not prune fork choice")
	}
	if err := s.db.DeleteBelow(s.ctx, helpers.StartSlot(cp.Epoch), s.HeadRoot()); err != nil {
		log.WithError(err).Error("could not prune database below finalized slot")
	}
}

// prunePools drops every pending operation body has already included
// from the node's operation pools, so the next block proposal doesn't
// re-offer something that's already canonical.
func (s *Service) prunePools(body *eth.BeaconBlockBody) {
	if body == nil {
		return
	}
	for _, att := range body.Attestations {
		if err := s.attPool.Delete(att); err != nil {
			log.WithError(err).Debug("could not delete included attestation from pool")
		}
	}
	for _, ps := range body.ProposerSlashings {
		if err := s.slashingPool.DeleteProposerSlashing(ps); err != nil {
			log.WithError(err).Debug("could not delete included proposer slashing from pool")
		}
	}
	for _, as := range body.AttesterSlashings {
		if err := s.slashingPool.DeleteAttesterSlashing(as); err != nil {
			log.WithError(err).Debug("could not delete included attester slashing from pool")
		}
	}
	for _, exit := range body.VoluntaryExits {
		if err := s.exitPool.Delete(exit); err != nil {
			log.WithError(err).Debug("could not delete included voluntary exit from pool")
		}
	}
	for _, t := range body.Transfers {
		if err := s.transferPool.Delete(t); err != nil {
			log.WithError(err).Debug("could not delete included transfer from pool")
		}
	}
}
