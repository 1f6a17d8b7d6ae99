package state

import (
	"github.com/prylabs-zero/beacon-core/beacon-chain/state/stateutils"
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
	"github.com/prylabs-zero/beacon-core/encoding/ssz"
)

// SetGenesisTime sets genesis_time.
func (s *BeaconState) SetGenesisTime(val uint64) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.genesisTime = val
	s.markDirty(GenesisTime)
}

// SetSlot sets slot.
func (s *BeaconState) SetSlot(val primitives.Slot) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.slot = val
	s.markDirty(Slot)
}

// SetFork sets fork.
func (s *BeaconState) SetFork(val *eth.Fork) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.fork = val
	s.markDirty(Fork)
}

// SetLatestBlockHeader sets latest_block_header.
func (s *BeaconState) SetLatestBlockHeader(val *eth.BeaconBlockHeader) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.latestBlockHeader = val
	s.markDirty(LatestBlockHeader)
}

// SetBlockRoots replaces the entire block_roots vector.
func (s *BeaconState) SetBlockRoots(val [][32]byte) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.blockRoots = val
	s.markDirty(BlockRoots)
}

// UpdateBlockRootAtIndex sets block_roots[i].
func (s *BeaconState) UpdateBlockRootAtIndex(i uint64, root [32]byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if i >= uint64(len(s.blockRoots)) {
		return errOutOfRange("block_roots", i, len(s.blockRoots))
	}
	s.blockRoots[i] = root
	s.markDirty(BlockRoots)
	return nil
}

// SetStateRoots replaces the entire state_roots vector.
func (s *BeaconState) SetStateRoots(val [][32]byte) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.stateRoots = val
	s.markDirty(StateRoots)
}

// UpdateStateRootAtIndex sets state_roots[i].
func (s *BeaconState) UpdateStateRootAtIndex(i uint64, root [32]byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if i >= uint64(len(s.stateRoots)) {
		return errOutOfRange("state_roots", i, len(s.stateRoots))
	}
	s.stateRoots[i] = root
	s.markDirty(StateRoots)
	return nil
}

// AppendHistoricalRoot appends to historical_roots.
func (s *BeaconState) AppendHistoricalRoot(root [32]byte) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.historicalRoots = append(s.historicalRoots, root)
	s.markDirty(HistoricalRoots)
}

// SetEth1Data sets eth1_data.
func (s *BeaconState) SetEth1Data(val *eth.Eth1Data) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.eth1Data = val
	s.markDirty(Eth1Data)
}

// SetEth1DataVotes replaces the entire eth1_data_votes list.
func (s *BeaconState) SetEth1DataVotes(val []*eth.Eth1Data) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.eth1DataVotes = val
	s.markDirty(Eth1DataVotes)
}

// AppendEth1DataVote appends to eth1_data_votes.
func (s *BeaconState) AppendEth1DataVote(val *eth.Eth1Data) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.eth1DataVotes = append(s.eth1DataVotes, val)
	s.markDirty(Eth1DataVotes)
}

// SetEth1DepositIndex sets eth1_deposit_index.
func (s *BeaconState) SetEth1DepositIndex(val uint64) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.eth1DepositIndex = val
	s.markDirty(Eth1DepositIndex)
}

// SetValidators replaces the entire registry and rebuilds the pubkey index.
func (s *BeaconState) SetValidators(val []*eth.Validator) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.validators = val
	pubkeys := make([][48]byte, len(val))
	for i, v := range val {
		pubkeys[i] = v.Pubkey
	}
	s.valIndices = stateutils.NewValidatorMap(pubkeys)
	s.markDirty(Validators)
}

// AppendValidator appends a new validator to the registry, recording its
// index in the pubkey map, mirroring process_deposit's registry-append path
// (spec.md §4.4).
func (s *BeaconState) AppendValidator(val *eth.Validator) primitives.ValidatorIndex {
	s.lock.Lock()
	defer s.lock.Unlock()
	idx := primitives.ValidatorIndex(len(s.validators))
	s.validators = append(s.validators, val)
	s.valIndices.Set(val.Pubkey, uint64(idx))
	s.markDirty(Validators)
	return idx
}

// UpdateValidatorAtIndex replaces validators[i] in place.
func (s *BeaconState) UpdateValidatorAtIndex(i primitives.ValidatorIndex, val *eth.Validator) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if uint64(i) >= uint64(len(s.validators)) {
		return errOutOfRange("validators", uint64(i), len(s.validators))
	}
	s.validators[i] = val
	s.markDirty(Validators)
	return nil
}

// SetBalances replaces the entire balances list.
func (s *BeaconState) SetBalances(val []primitives.Gwei) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.balances = val
	s.markDirty(Balances)
}

// UpdateBalanceAtIndex sets balances[i].
func (s *BeaconState) UpdateBalanceAtIndex(i primitives.ValidatorIndex, val primitives.Gwei) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if uint64(i) >= uint64(len(s.balances)) {
		return errOutOfRange("balances", uint64(i), len(s.balances))
	}
	s.balances[i] = val
	s.markDirty(Balances)
	return nil
}

// AppendBalance appends to balances, paired with AppendValidator when a
// fresh deposit creates a new registry entry.
func (s *BeaconState) AppendBalance(val primitives.Gwei) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.balances = append(s.balances, val)
	s.markDirty(Balances)
}

// UpdateRandaoMixAtIndex sets randao_mixes[i].
func (s *BeaconState) UpdateRandaoMixAtIndex(i uint64, mix [32]byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if i >= uint64(len(s.randaoMixes)) {
		return errOutOfRange("randao_mixes", i, len(s.randaoMixes))
	}
	s.randaoMixes[i] = mix
	s.markDirty(RandaoMixes)
	return nil
}

// SetStartShard sets start_shard.
func (s *BeaconState) SetStartShard(val primitives.ShardNumber) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.startShard = val
	s.markDirty(StartShard)
}

// SetPreviousEpochAttestations replaces previous_epoch_attestations.
func (s *BeaconState) SetPreviousEpochAttestations(val []*eth.PendingAttestation) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.previousEpochAttestations = val
	s.markDirty(PreviousEpochAttestations)
}

// SetCurrentEpochAttestations replaces current_epoch_attestations.
func (s *BeaconState) SetCurrentEpochAttestations(val []*eth.PendingAttestation) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.currentEpochAttestations = val
	s.markDirty(CurrentEpochAttestations)
}

// AppendCurrentEpochAttestation appends to current_epoch_attestations.
func (s *BeaconState) AppendCurrentEpochAttestation(val *eth.PendingAttestation) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.currentEpochAttestations = append(s.currentEpochAttestations, val)
	s.markDirty(CurrentEpochAttestations)
}

// SetPreviousCrosslinks replaces the previous_crosslinks vector.
func (s *BeaconState) SetPreviousCrosslinks(val []*eth.Crosslink) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.previousCrosslinks = val
	s.markDirty(PreviousCrosslinks)
}

// SetCurrentCrosslinks replaces the current_crosslinks vector.
func (s *BeaconState) SetCurrentCrosslinks(val []*eth.Crosslink) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.currentCrosslinks = val
	s.markDirty(CurrentCrosslinks)
}

// UpdateCurrentCrosslinkAtShard sets current_crosslinks[shard].
func (s *BeaconState) UpdateCurrentCrosslinkAtShard(shard primitives.ShardNumber, val *eth.Crosslink) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if uint64(shard) >= uint64(len(s.currentCrosslinks)) {
		return errOutOfRange("current_crosslinks", uint64(shard), len(s.currentCrosslinks))
	}
	s.currentCrosslinks[shard] = val
	s.markDirty(CurrentCrosslinks)
	return nil
}

// SetJustificationBits replaces justification_bits wholesale.
func (s *BeaconState) SetJustificationBits(val *ssz.Bitvector) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.justificationBits = val
	s.markDirty(JustificationBits)
}

// SetJustificationBitAt sets or clears justification_bits[i].
func (s *BeaconState) SetJustificationBitAt(i uint64, bit bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.justificationBits.SetBitAt(i, bit)
	s.markDirty(JustificationBits)
}

// SetPreviousJustifiedCheckpoint sets previous_justified_checkpoint.
func (s *BeaconState) SetPreviousJustifiedCheckpoint(val *eth.Checkpoint) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.previousJustifiedCheckpoint = val
	s.markDirty(PreviousJustifiedCheckpoint)
}

// SetCurrentJustifiedCheckpoint sets current_justified_checkpoint.
func (s *BeaconState) SetCurrentJustifiedCheckpoint(val *eth.Checkpoint) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.currentJustifiedCheckpoint = val
	s.markDirty(CurrentJustifiedCheckpoint)
}

// SetFinalizedCheckpoint sets finalized_checkpoint.
func (s *BeaconState) SetFinalizedCheckpoint(val *eth.Checkpoint) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.finalizedCheckpoint = val
	s.markDirty(FinalizedCheckpoint)
}

// SetSlashings replaces the entire slashings vector.
func (s *BeaconState) SetSlashings(val []primitives.Gwei) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.slashings = val
	s.markDirty(Slashings)
}

// UpdateSlashingsAtIndex sets slashings[i].
func (s *BeaconState) UpdateSlashingsAtIndex(i uint64, val primitives.Gwei) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if i >= uint64(len(s.slashings)) {
		return errOutOfRange("slashings", i, len(s.slashings))
	}
	s.slashings[i] = val
	s.markDirty(Slashings)
	return nil
}

// UpdateActiveIndexRootAtIndex sets active_index_roots[i].
func (s *BeaconState) UpdateActiveIndexRootAtIndex(i uint64, root [32]byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if i >= uint64(len(s.activeIndexRoots)) {
		return errOutOfRange("active_index_roots", i, len(s.activeIndexRoots))
	}
	s.activeIndexRoots[i] = root
	s.markDirty(ActiveIndexRoots)
	return nil
}

// UpdateCompactCommitteesRootAtIndex sets compact_committees_roots[i].
func (s *BeaconState) UpdateCompactCommitteesRootAtIndex(i uint64, root [32]byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if i >= uint64(len(s.compactCommitteesRoots)) {
		return errOutOfRange("compact_committees_roots", i, len(s.compactCommitteesRoots))
	}
	s.compactCommitteesRoots[i] = root
	s.markDirty(CompactCommitteesRoots)
	return nil
}
