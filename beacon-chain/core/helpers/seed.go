package helpers

import (
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/config/params"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
	"github.com/prylabs-zero/beacon-core/crypto/hash"
	"github.com/prylabs-zero/beacon-core/encoding/bytesutil"
)

var seedHasher = hash.NewSHA256()

// RandaoMix returns the randao mix stored for epoch, at position
// epoch % EPOCHS_PER_HISTORICAL_VECTOR of the fixed-size vector.
//
//	def get_randao_mix(state: BeaconState, epoch: Epoch) -> Bytes32:
//	  return state.randao_mixes[epoch % EPOCHS_PER_HISTORICAL_VECTOR]
func RandaoMix(st *state.BeaconState, epoch primitives.Epoch) ([32]byte, error) {
	vectorLen := uint64(params.BeaconConfig().EpochsPerHistoricalVector)
	return st.RandaoMixAtIndex(uint64(epoch) % vectorLen)
}

// Seed derives the domain-separated randomness used for shuffling and
// proposer selection, mixing in the randao mix of epoch
// - MIN_SEED_LOOKAHEAD - 1 (wrapped around the historical vector) so it is
// already irrevocably committed by the time epoch is reached.
//
//	def get_seed(state: BeaconState, epoch: Epoch, domain_type: DomainType) -> Bytes32:
//	  mix = get_randao_mix(state, Epoch(epoch + EPOCHS_PER_HISTORICAL_VECTOR - MIN_SEED_LOOKAHEAD - 1))
//	  return hash(domain_type + int_to_bytes(epoch, 8) + mix)
func Seed(st *state.BeaconState, epoch primitives.Epoch, domainType [4]byte) ([32]byte, error) {
	cfg := params.BeaconConfig()
	lookback := epoch + cfg.EpochsPerHistoricalVector - cfg.MinSeedLookahead - 1
	mix, err := RandaoMix(st, lookback)
	if err != nil {
		return [32]byte{}, err
	}

	input := make([]byte, 0, 4+8+32)
	input = append(input, domainType[:]...)
	input = append(input, bytesutil.Bytes8(uint64(epoch))...)
	input = append(input, mix[:]...)
	return seedHasher.Hash(input), nil
}
