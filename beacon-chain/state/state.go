// Package state implements BeaconState (spec.md §3): the full chain state
// container, its hash_tree_root under incremental caching, and the
// getter/setter surface the state-transition function is built on.
//
// Grounded on the teacher's beacon-chain/state/v1.BeaconState: a mutex-
// guarded struct wrapping the raw container fields, a per-field dirty cache
// driving hash_tree_root, and a validator pubkey index alongside the
// registry list. Where the teacher's state package spans a field-trie
// package and multiple state-version packages for its many hard forks, this
// state has exactly one shape (phase 0), so that machinery collapses into a
// single package.
package state

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/prylabs-zero/beacon-core/beacon-chain/state/stateutils"
	"github.com/prylabs-zero/beacon-core/config/params"
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
	"github.com/prylabs-zero/beacon-core/encoding/ssz"
)

// ErrNilState is returned by any method invoked on a nil *BeaconState.
var ErrNilState = errors.New("beacon state is nil")

// BeaconState holds the entire chain state, guarded by a single RWMutex so
// concurrent readers (RPC handlers, fork-choice scoring) never race with the
// single writer that runs the state-transition function.
type BeaconState struct {
	lock sync.RWMutex

	genesisTime      uint64
	slot             primitives.Slot
	fork             *eth.Fork
	latestBlockHeader *eth.BeaconBlockHeader

	blockRoots [][32]byte
	stateRoots [][32]byte

	historicalRoots [][32]byte

	eth1Data         *eth.Eth1Data
	eth1DataVotes    []*eth.Eth1Data
	eth1DepositIndex uint64

	validators []*eth.Validator
	balances   []primitives.Gwei

	randaoMixes [][32]byte

	startShard primitives.ShardNumber

	previousEpochAttestations []*eth.PendingAttestation
	currentEpochAttestations  []*eth.PendingAttestation

	previousCrosslinks []*eth.Crosslink
	currentCrosslinks  []*eth.Crosslink

	justificationBits *ssz.Bitvector

	previousJustifiedCheckpoint *eth.Checkpoint
	currentJustifiedCheckpoint  *eth.Checkpoint
	finalizedCheckpoint         *eth.Checkpoint

	slashings []primitives.Gwei

	activeIndexRoots        [][32]byte
	compactCommitteesRoots  [][32]byte

	cache      ssz.FieldCache
	valIndices *stateutils.ValidatorMap
}

// New builds an empty BeaconState with every vector field sized per the
// currently active chain config, ready for genesis population.
func New() *BeaconState {
	cfg := params.BeaconConfig()
	s := &BeaconState{
		fork:              &eth.Fork{},
		latestBlockHeader: &eth.BeaconBlockHeader{},
		blockRoots:        make([][32]byte, cfg.SlotsPerHistoricalRoot),
		stateRoots:        make([][32]byte, cfg.SlotsPerHistoricalRoot),
		eth1Data:          &eth.Eth1Data{},
		randaoMixes:       make([][32]byte, cfg.EpochsPerHistoricalVector),
		previousCrosslinks: make([]*eth.Crosslink, cfg.ShardCount),
		currentCrosslinks:  make([]*eth.Crosslink, cfg.ShardCount),
		justificationBits:  ssz.NewBitvector(cfg.JustificationBitsLength),
		previousJustifiedCheckpoint: &eth.Checkpoint{},
		currentJustifiedCheckpoint:  &eth.Checkpoint{},
		finalizedCheckpoint:         &eth.Checkpoint{},
		slashings:                   make([]primitives.Gwei, cfg.EpochsPerSlashingsVector),
		activeIndexRoots:            make([][32]byte, cfg.EpochsPerHistoricalVector),
		compactCommitteesRoots:      make([][32]byte, cfg.EpochsPerHistoricalVector),
		valIndices:                  stateutils.NewValidatorMap(nil),
	}
	for i := range s.previousCrosslinks {
		s.previousCrosslinks[i] = &eth.Crosslink{}
		s.currentCrosslinks[i] = &eth.Crosslink{}
	}
	s.cache.Init(int(numFields))
	return s
}

func schema() *ssz.Schema {
	cfg := params.BeaconConfig()
	return ssz.ContainerSchema(
		ssz.Field{Name: "genesis_time", Schema: ssz.Uint64Schema},
		ssz.Field{Name: "slot", Schema: ssz.Uint64Schema},
		ssz.Field{Name: "fork", Schema: (&eth.Fork{}).SSZSchema()},
		ssz.Field{Name: "latest_block_header", Schema: (&eth.BeaconBlockHeader{}).SSZSchema()},
		ssz.Field{Name: "block_roots", Schema: ssz.VectorSchema(ssz.BytesVectorSchema(32), uint64(cfg.SlotsPerHistoricalRoot))},
		ssz.Field{Name: "state_roots", Schema: ssz.VectorSchema(ssz.BytesVectorSchema(32), uint64(cfg.SlotsPerHistoricalRoot))},
		ssz.Field{Name: "historical_roots", Schema: ssz.ListSchema(ssz.BytesVectorSchema(32), cfg.HistoricalRootsLimit)},
		ssz.Field{Name: "eth1_data", Schema: (&eth.Eth1Data{}).SSZSchema()},
		ssz.Field{Name: "eth1_data_votes", Schema: ssz.ListSchema((&eth.Eth1Data{}).SSZSchema(), uint64(cfg.EpochsPerEth1VotingPeriod)*uint64(cfg.SlotsPerEpoch))},
		ssz.Field{Name: "eth1_deposit_index", Schema: ssz.Uint64Schema},
		ssz.Field{Name: "validators", Schema: ssz.ListSchema((&eth.Validator{}).SSZSchema(), cfg.ValidatorRegistryLimit)},
		ssz.Field{Name: "balances", Schema: ssz.ListSchema(ssz.Uint64Schema, cfg.ValidatorRegistryLimit)},
		ssz.Field{Name: "randao_mixes", Schema: ssz.VectorSchema(ssz.BytesVectorSchema(32), uint64(cfg.EpochsPerHistoricalVector))},
		ssz.Field{Name: "start_shard", Schema: ssz.Uint64Schema},
		ssz.Field{Name: "previous_epoch_attestations", Schema: ssz.ListSchema((&eth.PendingAttestation{}).SSZSchema(), cfg.MaxAttestations*uint64(cfg.SlotsPerEpoch))},
		ssz.Field{Name: "current_epoch_attestations", Schema: ssz.ListSchema((&eth.PendingAttestation{}).SSZSchema(), cfg.MaxAttestations*uint64(cfg.SlotsPerEpoch))},
		ssz.Field{Name: "previous_crosslinks", Schema: ssz.VectorSchema((&eth.Crosslink{}).SSZSchema(), cfg.ShardCount)},
		ssz.Field{Name: "current_crosslinks", Schema: ssz.VectorSchema((&eth.Crosslink{}).SSZSchema(), cfg.ShardCount)},
		ssz.Field{Name: "justification_bits", Schema: ssz.BitvectorSchema(cfg.JustificationBitsLength)},
		ssz.Field{Name: "previous_justified_checkpoint", Schema: (&eth.Checkpoint{}).SSZSchema()},
		ssz.Field{Name: "current_justified_checkpoint", Schema: (&eth.Checkpoint{}).SSZSchema()},
		ssz.Field{Name: "finalized_checkpoint", Schema: (&eth.Checkpoint{}).SSZSchema()},
		ssz.Field{Name: "slashings", Schema: ssz.VectorSchema(ssz.Uint64Schema, uint64(cfg.EpochsPerSlashingsVector))},
		ssz.Field{Name: "active_index_roots", Schema: ssz.VectorSchema(ssz.BytesVectorSchema(32), uint64(cfg.EpochsPerHistoricalVector))},
		ssz.Field{Name: "compact_committees_roots", Schema: ssz.VectorSchema(ssz.BytesVectorSchema(32), uint64(cfg.EpochsPerHistoricalVector))},
	)
}

func (s *BeaconState) SSZSchema() *ssz.Schema { return schema() }

func bytes32Vector(vals [][32]byte) ssz.Value {
	return ssz.GenericVector{
		Elem_:  ssz.BytesVectorSchema(32),
		Length: uint64(len(vals)),
		At:     func(i int) ssz.Value { return ssz.NewFixedBytes(vals[i][:]) },
	}
}

func bytes32List(vals [][32]byte, limit uint64) ssz.Value {
	return ssz.GenericList{
		Elem_: ssz.BytesVectorSchema(32),
		Limit: limit,
		N:     len(vals),
		At:    func(i int) ssz.Value { return ssz.NewFixedBytes(vals[i][:]) },
	}
}

func gweiVector(vals []primitives.Gwei) ssz.Value {
	return ssz.GenericVector{
		Elem_:  ssz.Uint64Schema,
		Length: uint64(len(vals)),
		At:     func(i int) ssz.Value { return ssz.U64(vals[i]) },
	}
}

func gweiList(vals []primitives.Gwei, limit uint64) ssz.Value {
	return ssz.GenericList{
		Elem_: ssz.Uint64Schema,
		Limit: limit,
		N:     len(vals),
		At:    func(i int) ssz.Value { return ssz.U64(vals[i]) },
	}
}

// Field implements ssz.ContainerValue in declared field order (types.go).
func (s *BeaconState) Field(i int) ssz.Value {
	cfg := params.BeaconConfig()
	switch FieldIndex(i) {
	case GenesisTime:
		return ssz.U64(s.genesisTime)
	case Slot:
		return ssz.U64(s.slot)
	case Fork:
		return s.fork
	case LatestBlockHeader:
		return s.latestBlockHeader
	case BlockRoots:
		return bytes32Vector(s.blockRoots)
	case StateRoots:
		return bytes32Vector(s.stateRoots)
	case HistoricalRoots:
		return bytes32List(s.historicalRoots, cfg.HistoricalRootsLimit)
	case Eth1Data:
		return s.eth1Data
	case Eth1DataVotes:
		return ssz.GenericList{
			Elem_: (&eth.Eth1Data{}).SSZSchema(),
			Limit: uint64(cfg.EpochsPerEth1VotingPeriod) * uint64(cfg.SlotsPerEpoch),
			N:     len(s.eth1DataVotes),
			At:    func(i int) ssz.Value { return s.eth1DataVotes[i] },
		}
	case Eth1DepositIndex:
		return ssz.U64(s.eth1DepositIndex)
	case Validators:
		return ssz.GenericList{
			Elem_: (&eth.Validator{}).SSZSchema(),
			Limit: cfg.ValidatorRegistryLimit,
			N:     len(s.validators),
			At:    func(i int) ssz.Value { return s.validators[i] },
		}
	case Balances:
		return gweiList(s.balances, cfg.ValidatorRegistryLimit)
	case RandaoMixes:
		return bytes32Vector(s.randaoMixes)
	case StartShard:
		return ssz.U64(s.startShard)
	case PreviousEpochAttestations:
		return ssz.GenericList{
			Elem_: (&eth.PendingAttestation{}).SSZSchema(),
			Limit: cfg.MaxAttestations * uint64(cfg.SlotsPerEpoch),
			N:     len(s.previousEpochAttestations),
			At:    func(i int) ssz.Value { return s.previousEpochAttestations[i] },
		}
	case CurrentEpochAttestations:
		return ssz.GenericList{
			Elem_: (&eth.PendingAttestation{}).SSZSchema(),
			Limit: cfg.MaxAttestations * uint64(cfg.SlotsPerEpoch),
			N:     len(s.currentEpochAttestations),
			At:    func(i int) ssz.Value { return s.currentEpochAttestations[i] },
		}
	case PreviousCrosslinks:
		return ssz.GenericVector{
			Elem_:  (&eth.Crosslink{}).SSZSchema(),
			Length: uint64(len(s.previousCrosslinks)),
			At:     func(i int) ssz.Value { return s.previousCrosslinks[i] },
		}
	case CurrentCrosslinks:
		return ssz.GenericVector{
			Elem_:  (&eth.Crosslink{}).SSZSchema(),
			Length: uint64(len(s.currentCrosslinks)),
			At:     func(i int) ssz.Value { return s.currentCrosslinks[i] },
		}
	case JustificationBits:
		return s.justificationBits
	case PreviousJustifiedCheckpoint:
		return s.previousJustifiedCheckpoint
	case CurrentJustifiedCheckpoint:
		return s.currentJustifiedCheckpoint
	case FinalizedCheckpoint:
		return s.finalizedCheckpoint
	case Slashings:
		return gweiVector(s.slashings)
	case ActiveIndexRoots:
		return bytes32Vector(s.activeIndexRoots)
	case CompactCommitteesRoots:
		return bytes32Vector(s.compactCommitteesRoots)
	}
	panic("state.BeaconState: field index out of range")
}

// HashTreeRoot computes state root using the incremental field cache: only
// fields touched by setters since the last call are rehashed.
func (s *BeaconState) HashTreeRoot() ([32]byte, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	sch := schema()
	fields := make([]ssz.Value, len(sch.Fields))
	schemas := make([]*ssz.Schema, len(sch.Fields))
	for i := range sch.Fields {
		fields[i] = s.Field(i)
		schemas[i] = sch.Fields[i].Schema
	}
	return ssz.CachedContainerRoot(&s.cache, fields, schemas)
}

func (s *BeaconState) markDirty(f FieldIndex) {
	s.cache.MarkDirty(int(f))
}
