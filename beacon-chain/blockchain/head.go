package blockchain

import (
	"github.com/pkg/errors"

	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
)

// updateHead recomputes the canonical head from the fork choice store and
// swaps it in if it changed. Grounded on the teacher's older-fork
// updateHead/saveHead pair: the bounce-attack guard promotes
// bestJustifiedCheckpoint to justifiedCheckpoint before asking fork choice
// for a head, so a justified checkpoint that only became canonical this
// round still gets used immediately rather than one slot later.
func (s *Service) updateHead(balances []primitives.Gwei) error {
	if s.bestJustifiedCheckpoint.Epoch > s.justifiedCheckpoint.Epoch {
		s.justifiedCheckpoint = s.bestJustifiedCheckpoint
	}

	headStartRoot := s.justifiedCheckpoint.Root
	genesisRoot, ok := s.db.GenesisBlockRoot(s.ctx)
	if headStartRoot == [32]byte{} && ok {
		headStartRoot = genesisRoot
	}

	headRoot, err := s.forkChoice.Head(
		headStartRoot,
		s.justifiedCheckpoint.Epoch,
		s.finalizedCheckpoint.Epoch,
		balances,
	)
	if err != nil {
		return errors.Wrap(err, "could not compute fork choice head")
	}

	return s.saveHead(headRoot)
}

// saveHead swaps in headRoot as the canonical head, loading its block and
// state from the database, and persists the new head root. A no-op if
// headRoot is already the current head.
func (s *Service) saveHead(headRoot [32]byte) error {
	if headRoot == s.HeadRoot() {
		return nil
	}

	newHeadBlock, err := s.db.Block(s.ctx, headRoot)
	if err != nil {
		return errors.Wrap(err, "could not load new head block")
	}
	if newHeadBlock == nil || newHeadBlock.Block == nil {
		return errors.New("cannot save nil head block")
	}
	newHeadState, err := s.db.State(s.ctx, headRoot)
	if err != nil {
		return errors.Wrap(err, "could not load new head state")
	}

	s.setHead(headRoot, newHeadBlock, newHeadState)
	return s.db.SaveHeadBlockRoot(s.ctx, headRoot)
}
