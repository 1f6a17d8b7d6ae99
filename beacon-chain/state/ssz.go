package state

import (
	"github.com/prylabs-zero/beacon-core/beacon-chain/state/stateutils"
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
	"github.com/prylabs-zero/beacon-core/encoding/ssz"
)

func bytes32Slice(d *ssz.Decoded) [][32]byte {
	out := make([][32]byte, len(d.Elems))
	for i, e := range d.Elems {
		copy(out[i][:], e.Bytes())
	}
	return out
}

// LoadSSZ populates s from a decoded tree matching schema(), in the same
// declared field order Field(i) reports.
func (s *BeaconState) LoadSSZ(d *ssz.Decoded) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.genesisTime = d.Fields[GenesisTime].Uint64()
	s.slot = primitives.Slot(d.Fields[Slot].Uint64())

	s.fork = new(eth.Fork)
	if err := s.fork.LoadSSZ(d.Fields[Fork]); err != nil {
		return err
	}
	s.latestBlockHeader = new(eth.BeaconBlockHeader)
	if err := s.latestBlockHeader.LoadSSZ(d.Fields[LatestBlockHeader]); err != nil {
		return err
	}

	s.blockRoots = bytes32Slice(d.Fields[BlockRoots])
	s.stateRoots = bytes32Slice(d.Fields[StateRoots])
	s.historicalRoots = bytes32Slice(d.Fields[HistoricalRoots])

	s.eth1Data = new(eth.Eth1Data)
	if err := s.eth1Data.LoadSSZ(d.Fields[Eth1Data]); err != nil {
		return err
	}
	s.eth1DataVotes = make([]*eth.Eth1Data, len(d.Fields[Eth1DataVotes].Elems))
	for i, e := range d.Fields[Eth1DataVotes].Elems {
		s.eth1DataVotes[i] = new(eth.Eth1Data)
		if err := s.eth1DataVotes[i].LoadSSZ(e); err != nil {
			return err
		}
	}
	s.eth1DepositIndex = d.Fields[Eth1DepositIndex].Uint64()

	s.validators = make([]*eth.Validator, len(d.Fields[Validators].Elems))
	pubkeys := make([][48]byte, len(s.validators))
	for i, e := range d.Fields[Validators].Elems {
		s.validators[i] = new(eth.Validator)
		if err := s.validators[i].LoadSSZ(e); err != nil {
			return err
		}
		pubkeys[i] = s.validators[i].Pubkey
	}
	s.valIndices = stateutils.NewValidatorMap(pubkeys)

	s.balances = make([]primitives.Gwei, len(d.Fields[Balances].Elems))
	for i, e := range d.Fields[Balances].Elems {
		s.balances[i] = primitives.Gwei(e.Uint64())
	}

	s.randaoMixes = bytes32Slice(d.Fields[RandaoMixes])
	s.startShard = primitives.ShardNumber(d.Fields[StartShard].Uint64())

	s.previousEpochAttestations = make([]*eth.PendingAttestation, len(d.Fields[PreviousEpochAttestations].Elems))
	for i, e := range d.Fields[PreviousEpochAttestations].Elems {
		s.previousEpochAttestations[i] = new(eth.PendingAttestation)
		if err := s.previousEpochAttestations[i].LoadSSZ(e); err != nil {
			return err
		}
	}
	s.currentEpochAttestations = make([]*eth.PendingAttestation, len(d.Fields[CurrentEpochAttestations].Elems))
	for i, e := range d.Fields[CurrentEpochAttestations].Elems {
		s.currentEpochAttestations[i] = new(eth.PendingAttestation)
		if err := s.currentEpochAttestations[i].LoadSSZ(e); err != nil {
			return err
		}
	}

	s.previousCrosslinks = make([]*eth.Crosslink, len(d.Fields[PreviousCrosslinks].Elems))
	for i, e := range d.Fields[PreviousCrosslinks].Elems {
		s.previousCrosslinks[i] = new(eth.Crosslink)
		if err := s.previousCrosslinks[i].LoadSSZ(e); err != nil {
			return err
		}
	}
	s.currentCrosslinks = make([]*eth.Crosslink, len(d.Fields[CurrentCrosslinks].Elems))
	for i, e := range d.Fields[CurrentCrosslinks].Elems {
		s.currentCrosslinks[i] = new(eth.Crosslink)
		if err := s.currentCrosslinks[i].LoadSSZ(e); err != nil {
			return err
		}
	}

	jb := d.Fields[JustificationBits]
	s.justificationBits = ssz.BitvectorFromBytes(jb.Bits, jb.BitLen)

	s.previousJustifiedCheckpoint = new(eth.Checkpoint)
	if err := s.previousJustifiedCheckpoint.LoadSSZ(d.Fields[PreviousJustifiedCheckpoint]); err != nil {
		return err
	}
	s.currentJustifiedCheckpoint = new(eth.Checkpoint)
	if err := s.currentJustifiedCheckpoint.LoadSSZ(d.Fields[CurrentJustifiedCheckpoint]); err != nil {
		return err
	}
	s.finalizedCheckpoint = new(eth.Checkpoint)
	if err := s.finalizedCheckpoint.LoadSSZ(d.Fields[FinalizedCheckpoint]); err != nil {
		return err
	}

	s.slashings = make([]primitives.Gwei, len(d.Fields[Slashings].Elems))
	for i, e := range d.Fields[Slashings].Elems {
		s.slashings[i] = primitives.Gwei(e.Uint64())
	}

	s.activeIndexRoots = bytes32Slice(d.Fields[ActiveIndexRoots])
	s.compactCommitteesRoots = bytes32Slice(d.Fields[CompactCommitteesRoots])

	s.cache.Init(int(numFields))
	return nil
}

// Marshal returns the canonical SSZ encoding of s.
func (s *BeaconState) Marshal() ([]byte, error) {
	return ssz.Marshal(s)
}

// Unmarshal decodes data into a fresh BeaconState.
func Unmarshal(data []byte) (*BeaconState, error) {
	d, err := ssz.Unmarshal(schema(), data)
	if err != nil {
		return nil, err
	}
	s := &BeaconState{}
	if err := s.LoadSSZ(d); err != nil {
		return nil, err
	}
	return s, nil
}
