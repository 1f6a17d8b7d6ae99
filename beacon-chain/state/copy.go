package state

import (
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
)

// Copy returns a deep copy of s, safe for independent mutation. The
// state-transition function (spec.md §4.2) never mutates pre_state in
// place: every slot/block/epoch sub-transition operates on a Copy.
func (s *BeaconState) Copy() *BeaconState {
	s.lock.RLock()
	defer s.lock.RUnlock()

	cp := &BeaconState{
		genesisTime:       s.genesisTime,
		slot:              s.slot,
		fork:              s.fork.Copy(),
		latestBlockHeader: s.latestBlockHeader.Copy(),
		eth1Data:          s.eth1Data.Copy(),
		eth1DepositIndex:  s.eth1DepositIndex,
		startShard:        s.startShard,
		previousJustifiedCheckpoint: s.previousJustifiedCheckpoint.Copy(),
		currentJustifiedCheckpoint:  s.currentJustifiedCheckpoint.Copy(),
		finalizedCheckpoint:         s.finalizedCheckpoint.Copy(),
		valIndices:                  s.valIndices.Copy(),
	}

	cp.blockRoots = append([][32]byte(nil), s.blockRoots...)
	cp.stateRoots = append([][32]byte(nil), s.stateRoots...)
	cp.historicalRoots = append([][32]byte(nil), s.historicalRoots...)
	cp.randaoMixes = append([][32]byte(nil), s.randaoMixes...)
	cp.activeIndexRoots = append([][32]byte(nil), s.activeIndexRoots...)
	cp.compactCommitteesRoots = append([][32]byte(nil), s.compactCommitteesRoots...)
	cp.balances = append([]primitives.Gwei(nil), s.balances...)
	cp.slashings = append([]primitives.Gwei(nil), s.slashings...)

	cp.eth1DataVotes = make([]*eth.Eth1Data, len(s.eth1DataVotes))
	for i, v := range s.eth1DataVotes {
		cp.eth1DataVotes[i] = v.Copy()
	}

	cp.validators = make([]*eth.Validator, len(s.validators))
	for i, v := range s.validators {
		cp.validators[i] = v.Copy()
	}

	cp.previousEpochAttestations = append([]*eth.PendingAttestation(nil), s.previousEpochAttestations...)
	cp.currentEpochAttestations = append([]*eth.PendingAttestation(nil), s.currentEpochAttestations...)

	cp.previousCrosslinks = make([]*eth.Crosslink, len(s.previousCrosslinks))
	for i, c := range s.previousCrosslinks {
		cp.previousCrosslinks[i] = c.Copy()
	}
	cp.currentCrosslinks = make([]*eth.Crosslink, len(s.currentCrosslinks))
	for i, c := range s.currentCrosslinks {
		cp.currentCrosslinks[i] = c.Copy()
	}

	cp.justificationBits = s.justificationBits.Copy()

	cp.cache.Init(int(numFields))
	return cp
}
