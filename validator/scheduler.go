package validator

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/prylabs-zero/beacon-core/beacon-chain/core/helpers"
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/config/params"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
	"github.com/prylabs-zero/beacon-core/time/slots"
)

var log = logrus.WithField("prefix", "validator")

// SchedulerChainInfo is the slice of the observable state processor the
// Scheduler needs to know what slot it is and to load a state to compute
// duties against.
type SchedulerChainInfo interface {
	CurrentSlot() primitives.Slot
	HeadState(slot primitives.Slot) (*state.BeaconState, error)
}

// Scheduler drives Engine off wall-clock slot ticks: at the start of each
// slot it proposes if due, and mid-slot it attests if due, satisfying
// runtime.Service so cmd/beacon-node registers it alongside everything
// else. Grounded on the teacher's validator/client.Run main loop (a
// slot-ticker-driven select over RoleProposer/RoleAttester), collapsed
// here onto the single in-process Engine rather than a gRPC stream of
// assignments.
type Scheduler struct {
	engine *Engine
	signer Signer
	chain  SchedulerChainInfo

	genesisTime    time.Time
	secondsPerSlot uint64

	proposerTicker *slots.SlotTicker
	attesterTicker *slots.SlotTicker

	ctx    context.Context
	cancel context.CancelFunc

	mu             sync.Mutex
	epoch          primitives.Epoch
	pubkeys        [][48]byte
	proposerDuties map[primitives.Slot]primitives.ValidatorIndex
	attesterDuties map[primitives.Slot][]AttesterDuty
	pubkeyByIndex  map[primitives.ValidatorIndex][48]byte

	lastErr error
}

// NewScheduler constructs a Scheduler. genesisTime anchors both the
// proposer ticker (fires at slot start) and the attester ticker (fires at
// slot start + SECONDS_PER_SLOT/2, per spec.md §4.10).
func NewScheduler(engine *Engine, signer Signer, chain SchedulerChainInfo, genesisTime time.Time) *Scheduler {
	return &Scheduler{
		engine:         engine,
		signer:         signer,
		chain:          chain,
		genesisTime:    genesisTime,
		secondsPerSlot: params.BeaconConfig().SecondsPerSlot,
	}
}

// Start satisfies runtime.Service: it begins the proposer and attester
// tick loops in the background.
func (s *Scheduler) Start() {
	s.ctx, s.cancel = context.WithCancel(context.Background())
	cfg := params.BeaconConfig()
	s.proposerTicker = slots.NewSlotTicker(s.genesisTime, cfg.SecondsPerSlot)
	s.attesterTicker = slots.NewSlotTickerWithOffset(s.genesisTime, time.Duration(cfg.SecondsPerSlot/2)*time.Second, cfg.SecondsPerSlot)

	go s.run()
}

// Stop satisfies runtime.Service.
func (s *Scheduler) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.proposerTicker != nil {
		s.proposerTicker.Done()
	}
	if s.attesterTicker != nil {
		s.attesterTicker.Done()
	}
	return nil
}

// Status reports the most recent duty-execution error, if any.
func (s *Scheduler) Status() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Scheduler) run() {
	for {
		select {
		case slot := <-s.proposerTicker.C():
			s.onProposerTick(slot)
		case slot := <-s.attesterTicker.C():
			s.onAttesterTick(slot)
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) onProposerTick(slot primitives.Slot) {
	if err := s.refreshDuties(helpers.CurrentEpoch(slot)); err != nil {
		s.recordErr(err)
		return
	}
	s.mu.Lock()
	idx, ok := s.proposerDuties[slot]
	pubkey, hasKey := s.pubkeyByIndex[idx]
	s.mu.Unlock()
	if !ok || !hasKey {
		return
	}
	if err := s.engine.ProposeIfDue(s.ctx, ProposerDuty{Slot: slot, Validator: idx}, pubkey); err != nil {
		s.recordErr(err)
		log.WithError(err).WithField("slot", slot).Warn("could not propose block")
	}
}

func (s *Scheduler) onAttesterTick(slot primitives.Slot) {
	if err := s.refreshDuties(helpers.CurrentEpoch(slot)); err != nil {
		s.recordErr(err)
		return
	}
	s.mu.Lock()
	duties := s.attesterDuties[slot]
	pubkeyByIndex := s.pubkeyByIndex
	s.mu.Unlock()
	for _, duty := range duties {
		pubkey, ok := pubkeyByIndex[duty.Validator]
		if !ok {
			continue
		}
		if err := s.engine.AttestIfDue(s.ctx, duty, pubkey); err != nil {
			s.recordErr(err)
			log.WithError(err).WithField("slot", slot).Warn("could not attest")
		}
	}
}

// refreshDuties recomputes proposer/attester duties the first time a tick
// lands in a new epoch; ComputeAttesterDuties' result is fixed for the
// whole epoch by construction, so there is nothing to refresh mid-epoch.
func (s *Scheduler) refreshDuties(epoch primitives.Epoch) error {
	s.mu.Lock()
	if s.proposerDuties != nil && epoch == s.epoch {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	pubkeys, err := s.signer.PublicKeys(s.ctx)
	if err != nil {
		return err
	}
	headState, err := s.chain.HeadState(helpers.StartSlot(epoch))
	if err != nil {
		return err
	}

	want := make(map[primitives.ValidatorIndex]bool, len(pubkeys))
	pubkeyByIndex := make(map[primitives.ValidatorIndex][48]byte, len(pubkeys))
	for _, pk := range pubkeys {
		idx, ok := headState.ValidatorIndexByPubkey(pk)
		if !ok {
			continue
		}
		want[idx] = true
		pubkeyByIndex[idx] = pk
	}

	proposerDuties, err := ComputeProposerDuties(headState, epoch)
	if err != nil {
		return err
	}
	attesterDuties, err := ComputeAttesterDuties(headState, epoch, want)
	if err != nil {
		return err
	}

	proposerBySlot := make(map[primitives.Slot]primitives.ValidatorIndex, len(proposerDuties))
	for _, d := range proposerDuties {
		if want[d.Validator] {
			proposerBySlot[d.Slot] = d.Validator
		}
	}
	attesterBySlot := make(map[primitives.Slot][]AttesterDuty)
	for _, d := range attesterDuties {
		attesterBySlot[d.Slot] = append(attesterBySlot[d.Slot], d)
	}

	s.mu.Lock()
	s.epoch = epoch
	s.pubkeys = pubkeys
	s.pubkeyByIndex = pubkeyByIndex
	s.proposerDuties = proposerBySlot
	s.attesterDuties = attesterBySlot
	s.mu.Unlock()
	return nil
}

func (s *Scheduler) recordErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}
