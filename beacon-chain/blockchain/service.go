// Package blockchain implements spec.md §4.7's observable state
// processor: the service that owns the canonical head, advances it on
// accepted blocks and slot ticks, and publishes an Observation after
// each. Grounded on the teacher's older-fork beacon-chain/blockchain
// Service (a struct wrapping db.Database, a forkchoice store, and a
// statefeed notifier, with bounce-attack-guarded head updates in
// head.go), trimmed of everything downstream of the fork this repository
// targets (no execution-payload engine, no deposit-cache eth1 follower).
package blockchain

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/prylabs-zero/beacon-core/beacon-chain/blockchain/statefeed"
	"github.com/prylabs-zero/beacon-core/beacon-chain/core/helpers"
	"github.com/prylabs-zero/beacon-core/beacon-chain/core/transition"
	"github.com/prylabs-zero/beacon-core/beacon-chain/db"
	"github.com/prylabs-zero/beacon-core/beacon-chain/forkchoice/protoarray"
	"github.com/prylabs-zero/beacon-core/beacon-chain/operations/attestations"
	"github.com/prylabs-zero/beacon-core/beacon-chain/operations/slashings"
	"github.com/prylabs-zero/beacon-core/beacon-chain/operations/transfers"
	"github.com/prylabs-zero/beacon-core/beacon-chain/operations/voluntaryexits"
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/config/params"
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
)

// Service is the observable state processor: it owns the canonical head
// block and state, advances fork choice as blocks and attestations
// arrive, and emits Observations to anyone subscribed through its
// statefeed.Notifier.
type Service struct {
	ctx    context.Context
	cancel context.CancelFunc

	db         db.HeadAccessDatabase
	forkChoice *protoarray.ForkChoice
	notifier   *statefeed.Notifier

	attPool       *attestations.Pool
	slashingPool  *slashings.Pool
	exitPool      *voluntaryexits.Pool
	transferPool  *transfers.Pool

	genesisTime time.Time

	headLock  sync.RWMutex
	headRoot  [32]byte
	headBlock *eth.SignedBeaconBlock
	headState *state.BeaconState

	justifiedCheckpoint     *eth.Checkpoint
	bestJustifiedCheckpoint *eth.Checkpoint
	finalizedCheckpoint     *eth.Checkpoint

	lastEmittedFinalized primitives.Epoch
	lastEmittedSlot      primitives.Slot
}

// Config bundles Service's constructor dependencies, one field per
// collaborator, the way the teacher's blockchain.Config does.
type Config struct {
	Database           db.HeadAccessDatabase
	AttestationPool     *attestations.Pool
	SlashingPool        *slashings.Pool
	VoluntaryExitPool   *voluntaryexits.Pool
	TransferPool        *transfers.Pool
	StateNotifier       *statefeed.Notifier
}

// NewService constructs a Service around cfg, ready to be seeded with a
// genesis state via StartFromGenesis or resumed from an existing database
// via StartFromSavedHead.
func NewService(ctx context.Context, cfg *Config) *Service {
	ctx, cancel := context.WithCancel(ctx)
	return &Service{
		ctx:          ctx,
		cancel:       cancel,
		db:           cfg.Database,
		notifier:     cfg.StateNotifier,
		attPool:      cfg.AttestationPool,
		slashingPool: cfg.SlashingPool,
		exitPool:     cfg.VoluntaryExitPool,
		transferPool: cfg.TransferPool,
	}
}

// Start satisfies runtime.Service. Unlike the teacher's blockchain.Service,
// which runs its own block-feed subscription loop, this Service is driven
// entirely by ProcessBlock/ProcessSlotTick calls the sync and validator
// packages make directly, so there is no goroutine of its own to spawn.
func (s *Service) Start() {
	log.Info("blockchain service ready")
}

// Stop cancels the service's context. Any in-flight ProcessBlock or
// ProcessSlotTick call observes ctx.Err() on its next blocking operation.
func (s *Service) Stop() error {
	s.cancel()
	return nil
}

// Status reports an error if the service hasn't been started from either
// genesis or a saved head yet.
func (s *Service) Status() error {
	s.headLock.RLock()
	defer s.headLock.RUnlock()
	if s.headState == nil {
		return errors.New("blockchain service has no head, StartFromGenesis/StartFromSavedHead not yet called")
	}
	return nil
}

// StartFromGenesis seeds the store and fork choice from genesisState and
// makes it the canonical head, the way a beacon node does on its very
// first boot.
func (s *Service) StartFromGenesis(genesisState *state.BeaconState) error {
	if err := s.db.SaveGenesisData(s.ctx, genesisState); err != nil {
		return errors.Wrap(err, "could not save genesis data")
	}
	genesisRoot, ok := s.db.GenesisBlockRoot(s.ctx)
	if !ok {
		return errors.New("genesis block root not found after SaveGenesisData")
	}
	genesisBlock, err := s.db.Block(s.ctx, genesisRoot)
	if err != nil {
		return errors.Wrap(err, "could not load genesis block")
	}

	s.genesisTime = time.Unix(int64(genesisState.GenesisTime()), 0)
	s.forkChoice = protoarray.New(0, 0, genesisRoot)

	s.justifiedCheckpoint = &eth.Checkpoint{Root: genesisRoot}
	s.bestJustifiedCheckpoint = &eth.Checkpoint{Root: genesisRoot}
	s.finalizedCheckpoint = &eth.Checkpoint{Root: genesisRoot}

	s.setHead(genesisRoot, genesisBlock, genesisState)
	return nil
}

// StartFromSavedHead resumes a Service from whatever head, justified, and
// finalized checkpoints are already on file in the database, the way a
// beacon node does on every boot after its first.
func (s *Service) StartFromSavedHead() error {
	headRoot, ok := s.db.HeadBlockRoot(s.ctx)
	if !ok {
		return errors.New("no head block root in database")
	}
	headBlock, err := s.db.Block(s.ctx, headRoot)
	if err != nil {
		return errors.Wrap(err, "could not load head block")
	}
	headState, err := s.db.State(s.ctx, headRoot)
	if err != nil {
		return errors.Wrap(err, "could not load head state")
	}

	s.genesisTime = time.Unix(int64(headState.GenesisTime()), 0)
	s.justifiedCheckpoint = s.db.JustifiedCheckpoint(s.ctx)
	s.finalizedCheckpoint = s.db.FinalizedCheckpoint(s.ctx)
	s.bestJustifiedCheckpoint = s.justifiedCheckpoint.Copy()

	genesisRoot, _ := s.db.GenesisBlockRoot(s.ctx)
	s.forkChoice = protoarray.New(
		s.justifiedCheckpoint.Epoch,
		s.finalizedCheckpoint.Epoch,
		genesisRoot,
	)

	s.setHead(headRoot, headBlock, headState)
	return nil
}

// CurrentSlot returns the wall-clock slot implied by the genesis time
// this service was seeded with, grounded on the teacher's older-fork
// beacon-chain/utils.CurrentSlot(genesisTime).
func (s *Service) CurrentSlot() primitives.Slot {
	secondsSinceGenesis := time.Since(s.genesisTime).Seconds()
	if secondsSinceGenesis < 0 {
		return 0
	}
	return primitives.Slot(uint64(secondsSinceGenesis) / params.BeaconConfig().SecondsPerSlot)
}

// HeadState advances a copy of the stored head state by empty-slot
// transitions up to (but not through) slot, the latest_slot_state
// Observation fields need without mutating the canonical head. Grounded
// on transition.ProcessSlots, the same empty-slot advance the teacher's
// head.go applies before comparing competing chains' weights.
func (s *Service) HeadState(slot primitives.Slot) (*state.BeaconState, error) {
	s.headLock.RLock()
	headState := s.headState
	s.headLock.RUnlock()

	st := headState.Copy()
	if st.Slot() >= slot {
		return st, nil
	}
	if err := transition.ProcessSlots(st, slot); err != nil {
		return nil, errors.Wrap(err, "could not process empty slots")
	}
	return st, nil
}

// GenesisTime returns the wall-clock genesis time this service was
// seeded with, the value GET /node/genesis_time reports.
func (s *Service) GenesisTime() time.Time {
	return s.genesisTime
}

// HeadRoot returns the canonical head block root.
func (s *Service) HeadRoot() [32]byte {
	s.headLock.RLock()
	defer s.headLock.RUnlock()
	return s.headRoot
}

// HeadBlock returns the canonical head block.
func (s *Service) HeadBlock() *eth.SignedBeaconBlock {
	s.headLock.RLock()
	defer s.headLock.RUnlock()
	return s.headBlock
}

func (s *Service) setHead(root [32]byte, block *eth.SignedBeaconBlock, st *state.BeaconState) {
	s.headLock.Lock()
	s.headRoot = root
	s.headBlock = block
	s.headState = st
	s.headLock.Unlock()
}

// activeBalances returns the effective balance of every currently active
// validator in st, indexed by validator index (zero for inactive ones),
// the weight fork choice scores votes by.
func activeBalances(st *state.BeaconState) ([]primitives.Gwei, error) {
	indices := helpers.ActiveValidatorIndices(st, helpers.CurrentEpoch(st.Slot()))
	balances := make([]primitives.Gwei, st.NumValidators())
	for _, idx := range indices {
		v, err := st.ValidatorAtIndex(idx)
		if err != nil {
			return nil, err
		}
		balances[idx] = v.EffectiveBalance
	}
	return balances, nil
}
