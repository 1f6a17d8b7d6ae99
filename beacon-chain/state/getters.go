package state

import (
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
)

// GenesisTime returns genesis_time.
func (s *BeaconState) GenesisTime() uint64 {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.genesisTime
}

// Slot returns the current slot.
func (s *BeaconState) Slot() primitives.Slot {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.slot
}

// Fork returns a copy of the fork field.
func (s *BeaconState) Fork() *eth.Fork {
	s.lock.RLock()
	defer s.lock.RUnlock()
	cp := *s.fork
	return &cp
}

// LatestBlockHeader returns a copy of latest_block_header.
func (s *BeaconState) LatestBlockHeader() *eth.BeaconBlockHeader {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.latestBlockHeader.Copy()
}

// BlockRootAtIndex returns block_roots[i].
func (s *BeaconState) BlockRootAtIndex(i uint64) ([32]byte, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if i >= uint64(len(s.blockRoots)) {
		return [32]byte{}, errOutOfRange("block_roots", i, len(s.blockRoots))
	}
	return s.blockRoots[i], nil
}

// StateRootAtIndex returns state_roots[i].
func (s *BeaconState) StateRootAtIndex(i uint64) ([32]byte, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if i >= uint64(len(s.stateRoots)) {
		return [32]byte{}, errOutOfRange("state_roots", i, len(s.stateRoots))
	}
	return s.stateRoots[i], nil
}

// HistoricalRoots returns the full historical_roots list.
func (s *BeaconState) HistoricalRoots() [][32]byte {
	s.lock.RLock()
	defer s.lock.RUnlock()
	cp := make([][32]byte, len(s.historicalRoots))
	copy(cp, s.historicalRoots)
	return cp
}

// Eth1Data returns a copy of eth1_data.
func (s *BeaconState) Eth1Data() *eth.Eth1Data {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.eth1Data.Copy()
}

// Eth1DataVotes returns the eth1_data_votes list.
func (s *BeaconState) Eth1DataVotes() []*eth.Eth1Data {
	s.lock.RLock()
	defer s.lock.RUnlock()
	cp := make([]*eth.Eth1Data, len(s.eth1DataVotes))
	copy(cp, s.eth1DataVotes)
	return cp
}

// Eth1DepositIndex returns eth1_deposit_index.
func (s *BeaconState) Eth1DepositIndex() uint64 {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.eth1DepositIndex
}

// NumValidators returns len(validators).
func (s *BeaconState) NumValidators() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.validators)
}

// ValidatorAtIndex returns validators[i].
func (s *BeaconState) ValidatorAtIndex(i primitives.ValidatorIndex) (*eth.Validator, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if uint64(i) >= uint64(len(s.validators)) {
		return nil, errOutOfRange("validators", uint64(i), len(s.validators))
	}
	return s.validators[i], nil
}

// Validators returns the full registry slice (shared, not copied — callers
// must not mutate it).
func (s *BeaconState) Validators() []*eth.Validator {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.validators
}

// ValidatorIndexByPubkey looks up a validator's index by public key.
func (s *BeaconState) ValidatorIndexByPubkey(pubkey [48]byte) (primitives.ValidatorIndex, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	idx, ok := s.valIndices.Index(pubkey)
	return primitives.ValidatorIndex(idx), ok
}

// BalanceAtIndex returns balances[i].
func (s *BeaconState) BalanceAtIndex(i primitives.ValidatorIndex) (primitives.Gwei, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if uint64(i) >= uint64(len(s.balances)) {
		return 0, errOutOfRange("balances", uint64(i), len(s.balances))
	}
	return s.balances[i], nil
}

// Balances returns the full balances slice (shared, not copied).
func (s *BeaconState) Balances() []primitives.Gwei {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.balances
}

// RandaoMixAtIndex returns randao_mixes[i].
func (s *BeaconState) RandaoMixAtIndex(i uint64) ([32]byte, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if i >= uint64(len(s.randaoMixes)) {
		return [32]byte{}, errOutOfRange("randao_mixes", i, len(s.randaoMixes))
	}
	return s.randaoMixes[i], nil
}

// StartShard returns start_shard.
func (s *BeaconState) StartShard() primitives.ShardNumber {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.startShard
}

// PreviousEpochAttestations returns the previous_epoch_attestations list.
func (s *BeaconState) PreviousEpochAttestations() []*eth.PendingAttestation {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.previousEpochAttestations
}

// CurrentEpochAttestations returns the current_epoch_attestations list.
func (s *BeaconState) CurrentEpochAttestations() []*eth.PendingAttestation {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.currentEpochAttestations
}

// PreviousCrosslinkAtShard returns previous_crosslinks[shard].
func (s *BeaconState) PreviousCrosslinkAtShard(shard primitives.ShardNumber) (*eth.Crosslink, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if uint64(shard) >= uint64(len(s.previousCrosslinks)) {
		return nil, errOutOfRange("previous_crosslinks", uint64(shard), len(s.previousCrosslinks))
	}
	return s.previousCrosslinks[shard], nil
}

// CurrentCrosslinkAtShard returns current_crosslinks[shard].
func (s *BeaconState) CurrentCrosslinkAtShard(shard primitives.ShardNumber) (*eth.Crosslink, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if uint64(shard) >= uint64(len(s.currentCrosslinks)) {
		return nil, errOutOfRange("current_crosslinks", uint64(shard), len(s.currentCrosslinks))
	}
	return s.currentCrosslinks[shard], nil
}

// CurrentCrosslinks returns the full current_crosslinks vector.
func (s *BeaconState) CurrentCrosslinks() []*eth.Crosslink {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.currentCrosslinks
}

// JustificationBitAt returns justification_bits[i].
func (s *BeaconState) JustificationBitAt(i uint64) bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.justificationBits.BitAt(i)
}

// PreviousJustifiedCheckpoint returns a copy of previous_justified_checkpoint.
func (s *BeaconState) PreviousJustifiedCheckpoint() *eth.Checkpoint {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.previousJustifiedCheckpoint.Copy()
}

// CurrentJustifiedCheckpoint returns a copy of current_justified_checkpoint.
func (s *BeaconState) CurrentJustifiedCheckpoint() *eth.Checkpoint {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.currentJustifiedCheckpoint.Copy()
}

// FinalizedCheckpoint returns a copy of finalized_checkpoint.
func (s *BeaconState) FinalizedCheckpoint() *eth.Checkpoint {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.finalizedCheckpoint.Copy()
}

// SlashedBalance returns slashings[epoch % EPOCHS_PER_SLASHINGS_VECTOR].
func (s *BeaconState) SlashedBalance(i uint64) (primitives.Gwei, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if i >= uint64(len(s.slashings)) {
		return 0, errOutOfRange("slashings", i, len(s.slashings))
	}
	return s.slashings[i], nil
}

// ActiveIndexRootAtIndex returns active_index_roots[i].
func (s *BeaconState) ActiveIndexRootAtIndex(i uint64) ([32]byte, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if i >= uint64(len(s.activeIndexRoots)) {
		return [32]byte{}, errOutOfRange("active_index_roots", i, len(s.activeIndexRoots))
	}
	return s.activeIndexRoots[i], nil
}

// CompactCommitteesRootAtIndex returns compact_committees_roots[i].
func (s *BeaconState) CompactCommitteesRootAtIndex(i uint64) ([32]byte, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if i >= uint64(len(s.compactCommitteesRoots)) {
		return [32]byte{}, errOutOfRange("compact_committees_roots", i, len(s.compactCommitteesRoots))
	}
	return s.compactCommitteesRoots[i], nil
}
