package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"

	beaconstate "github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/config/params"
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
)

// genesisState builds a minimal-config BeaconState with numValidators
// validators, all active from genesis, the shape every committee/proposer
// computation in this file needs as input.
func genesisState(t *testing.T, numValidators int) *beaconstate.BeaconState {
	params.OverrideBeaconConfig(params.MinimalConfig())
	cfg := params.BeaconConfig()

	st := beaconstate.New()
	validators := make([]*eth.Validator, numValidators)
	balances := make([]primitives.Gwei, numValidators)
	for i := range validators {
		validators[i] = &eth.Validator{
			EffectiveBalance: cfg.MaxEffectiveBalance,
			ActivationEpoch:  0,
			ExitEpoch:        cfg.FarFutureEpoch,
		}
		balances[i] = cfg.MaxEffectiveBalance
	}
	st.SetValidators(validators)
	st.SetBalances(balances)
	st.SetFork(&eth.Fork{})
	return st
}

func TestCommitteeCountPerSlot_AtLeastOne(t *testing.T) {
	st := genesisState(t, 16)
	count := CommitteeCountPerSlot(st, 0)
	require.GreaterOrEqual(t, count, uint64(1))
	require.LessOrEqual(t, count, params.BeaconConfig().MaxCommitteesPerSlot)
}

// TestBeaconCommittee_PartitionsActiveSet exercises spec.md §8's property
// that every active validator appears in exactly one committee per epoch
// across all committees of all slots in that epoch, and that committees
// don't overlap.
func TestBeaconCommittee_PartitionsActiveSet(t *testing.T) {
	st := genesisState(t, 64)

	committeesPerSlot := CommitteeCountPerSlot(st, 0)
	seen := make(map[primitives.ValidatorIndex]bool)
	total := 0
	for slot := primitives.Slot(0); slot < params.BeaconConfig().SlotsPerEpoch; slot++ {
		for c := uint64(0); c < committeesPerSlot; c++ {
			committee, err := BeaconCommittee(st, slot, primitives.CommitteeIndex(c))
			require.NoError(t, err)
			for _, idx := range committee {
				require.False(t, seen[idx], "validator %d assigned to more than one committee in epoch 0 (slot %d)", idx, slot)
				seen[idx] = true
			}
			total += len(committee)
		}
	}
	require.Equal(t, len(ActiveValidatorIndices(st, 0)), total)
}

func TestBeaconCommittee_Deterministic(t *testing.T) {
	st := genesisState(t, 32)
	a, err := BeaconCommittee(st, 0, 0)
	require.NoError(t, err)
	b, err := BeaconCommittee(st, 0, 0)
	require.NoError(t, err)
	require.Equal(t, a, b)
}
