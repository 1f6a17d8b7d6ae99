package attestations

import (
	"sort"

	"github.com/prylabs-zero/beacon-core/beacon-chain/core/helpers"
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
)

// PeekAggregatedAttestations is spec.md §4.8's peek_aggregated_attestations:
// at most max entries whose data.slot is no later than minInclusionSlot,
// ordered to prefer the entries with the highest aggregate attesting
// balance under st — a heavier attestation carries more weight toward
// finality per slot of block space it occupies.
func PeekAggregatedAttestations(p *Pool, st *state.BeaconState, max int, minInclusionSlot primitives.Slot) ([]*eth.Attestation, error) {
	p.mu.RLock()
	candidates := make([]*eth.Attestation, 0, len(p.byData))
	for _, att := range p.byData {
		if att.Data.Slot <= minInclusionSlot {
			candidates = append(candidates, att)
		}
	}
	p.mu.RUnlock()

	weights := make(map[*eth.Attestation]primitives.Gwei, len(candidates))
	for _, att := range candidates {
		indices, err := helpers.AttestingIndices(st, att.Data, att.AggregationBits)
		if err != nil {
			return nil, err
		}
		balance, err := helpers.TotalBalance(st, indices)
		if err != nil {
			return nil, err
		}
		weights[att] = balance
	}

	sort.Slice(candidates, func(i, j int) bool {
		return weights[candidates[i]] > weights[candidates[j]]
	})

	if len(candidates) > max {
		candidates = candidates[:max]
	}
	return candidates, nil
}
