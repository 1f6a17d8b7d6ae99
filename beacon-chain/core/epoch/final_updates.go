package epoch

import (
	"github.com/prylabs-zero/beacon-core/beacon-chain/core/helpers"
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/config/params"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
	"github.com/prylabs-zero/beacon-core/encoding/ssz"
)

// ProcessFinalUpdates closes out the epoch: it resets the eth1 vote pool
// once a full voting period has been collected, re-derives every
// validator's effective_balance from its raw balance, writes the
// active-index and compact-committee roots for the next epoch's
// activation-exit epoch (MAX_SEED_LOOKAHEAD + 1 epochs past it, stored
// modulo EPOCHS_PER_HISTORICAL_VECTOR), advances start_shard by the
// current epoch's committee count,
// rolls current_epoch_attestations into previous_epoch_attestations, and —
// every SLOTS_PER_HISTORICAL_ROOT slots — folds block_roots/state_roots
// into a new historical_roots entry.
//
//	def process_final_updates(state: BeaconState) -> None:
//	  (see body)
func ProcessFinalUpdates(st *state.BeaconState) error {
	cfg := params.BeaconConfig()
	currentEpoch := helpers.CurrentEpoch(st.Slot())
	nextEpoch := currentEpoch.Add(1)

	if nextEpoch%cfg.EpochsPerEth1VotingPeriod == 0 {
		st.SetEth1DataVotes(nil)
	}

	half := cfg.EffectiveBalanceIncrement / 2
	for i, v := range st.Validators() {
		index := primitives.ValidatorIndex(i)
		balance, err := st.BalanceAtIndex(index)
		if err != nil {
			return err
		}
		if balance < v.EffectiveBalance || v.EffectiveBalance+3*half < balance {
			updated := v.Copy()
			newEffective := balance - balance%cfg.EffectiveBalanceIncrement
			if newEffective > cfg.MaxEffectiveBalance {
				newEffective = cfg.MaxEffectiveBalance
			}
			updated.EffectiveBalance = newEffective
			if err := st.UpdateValidatorAtIndex(index, updated); err != nil {
				return err
			}
		}
	}

	rotationEpoch := helpers.ActivationExitEpoch(nextEpoch)
	activeRoot, err := activeIndexRoot(st, rotationEpoch)
	if err != nil {
		return err
	}
	rotationIndex := uint64(rotationEpoch) % uint64(cfg.EpochsPerHistoricalVector)
	if err := st.UpdateActiveIndexRootAtIndex(rotationIndex, activeRoot); err != nil {
		return err
	}
	if err := st.UpdateCompactCommitteesRootAtIndex(rotationIndex, activeRoot); err != nil {
		return err
	}

	currentCommitteeCount := helpers.CommitteeCountPerSlot(st, currentEpoch) * uint64(cfg.SlotsPerEpoch)
	st.SetStartShard(primitives.ShardNumber((uint64(st.StartShard()) + currentCommitteeCount) % cfg.ShardCount))

	st.SetPreviousEpochAttestations(st.CurrentEpochAttestations())
	st.SetCurrentEpochAttestations(nil)

	slot := st.Slot().Add(1)
	if uint64(slot)%uint64(cfg.SlotsPerHistoricalRoot) == 0 {
		root, err := historicalBatchRoot(st)
		if err != nil {
			return err
		}
		st.AppendHistoricalRoot(root)
	}

	return nil
}

func activeIndexRoot(st *state.BeaconState, epoch primitives.Epoch) ([32]byte, error) {
	indices := helpers.ActiveValidatorIndices(st, epoch)
	limit := params.BeaconConfig().ValidatorRegistryLimit
	list := ssz.GenericList{
		Elem_: ssz.Uint64Schema,
		Limit: limit,
		N:     len(indices),
		At:    func(i int) ssz.Value { return ssz.U64(indices[i]) },
	}
	return ssz.HashTreeRoot(list)
}

// historicalBatchRoot hashes the pair (block_roots, state_roots) as a
// HistoricalBatch container, using the unexported historicalBatch type
// below; nothing else in this codebase decodes one on its own.
func historicalBatchRoot(st *state.BeaconState) ([32]byte, error) {
	length := uint64(params.BeaconConfig().SlotsPerHistoricalRoot)
	blockRoots := make([][32]byte, length)
	stateRoots := make([][32]byte, length)
	for i := uint64(0); i < length; i++ {
		root, err := st.BlockRootAtIndex(i)
		if err != nil {
			return [32]byte{}, err
		}
		blockRoots[i] = root
		root, err = st.StateRootAtIndex(i)
		if err != nil {
			return [32]byte{}, err
		}
		stateRoots[i] = root
	}
	batch := &historicalBatch{blockRoots: blockRoots, stateRoots: stateRoots}
	return ssz.HashTreeRoot(batch)
}

type historicalBatch struct {
	blockRoots [][32]byte
	stateRoots [][32]byte
}

var historicalBatchSchema = ssz.ContainerSchema(
	ssz.Field{Name: "block_roots", Schema: ssz.VectorSchema(ssz.BytesVectorSchema(32), uint64(params.BeaconConfig().SlotsPerHistoricalRoot))},
	ssz.Field{Name: "state_roots", Schema: ssz.VectorSchema(ssz.BytesVectorSchema(32), uint64(params.BeaconConfig().SlotsPerHistoricalRoot))},
)

func (h *historicalBatch) SSZSchema() *ssz.Schema { return historicalBatchSchema }

func (h *historicalBatch) Field(i int) ssz.Value {
	switch i {
	case 0:
		return rootVector(h.blockRoots)
	case 1:
		return rootVector(h.stateRoots)
	}
	panic("epoch.historicalBatch: field index out of range")
}

func rootVector(vals [][32]byte) ssz.Value {
	return ssz.GenericVector{
		Elem_:  ssz.BytesVectorSchema(32),
		Length: uint64(len(vals)),
		At:     func(i int) ssz.Value { return ssz.NewFixedBytes(vals[i][:]) },
	}
}
