package helpers

import (
	"github.com/pkg/errors"

	"github.com/prylabs-zero/beacon-core/config/params"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
	"github.com/prylabs-zero/beacon-core/crypto/hash"
	"github.com/prylabs-zero/beacon-core/encoding/bytesutil"
)

var shuffleHasher = hash.NewSHA256()

// ComputeShuffledIndex returns the permuted position of index under the
// "swap or not" shuffle, run for SHUFFLE_ROUND_COUNT rounds. This is the
// core of committee assignment: ComputeCommittee maps each position of a
// committee's slice through it individually, so the full shuffled
// active-validator-index list is never materialized.
//
//	def compute_shuffled_index(index: ValidatorIndex, index_count: uint64, seed: Bytes32) -> ValidatorIndex:
//	  for current_round in range(SHUFFLE_ROUND_COUNT):
//	    pivot = bytes_to_int(hash(seed + int_to_bytes(current_round, 1))[0:8]) % index_count
//	    flip = (pivot + index_count - index) % index_count
//	    position = max(index, flip)
//	    source = hash(seed + int_to_bytes(current_round, 1) + int_to_bytes(position // 256, 4))
//	    byte = source[(position % 256) // 8]
//	    bit = (byte >> (position % 8)) % 2
//	    index = flip if bit else index
//	  return index
func ComputeShuffledIndex(index, indexCount uint64, seed [32]byte) (uint64, error) {
	if indexCount == 0 || index >= indexCount {
		return 0, errors.Errorf("index %d out of range for count %d", index, indexCount)
	}
	rounds := params.BeaconConfig().ShuffleRoundCount
	for round := uint64(0); round < rounds; round++ {
		roundByte := byte(round % 256)

		pivotInput := append(append([]byte{}, seed[:]...), roundByte)
		pivotHash := shuffleHasher.Hash(pivotInput)
		pivot := bytesutil.FromBytes8(pivotHash[:8]) % indexCount

		flip := (pivot + indexCount - index) % indexCount
		position := index
		if flip > position {
			position = flip
		}

		sourceInput := append(append([]byte{}, seed[:]...), roundByte)
		sourceInput = append(sourceInput, bytesutil.Bytes4(position/256)...)
		sourceHash := shuffleHasher.Hash(sourceInput)
		b := sourceHash[(position%256)/8]
		bit := (b >> (position % 8)) % 2

		if bit == 1 {
			index = flip
		}
	}
	return index, nil
}

// ShuffledIndices returns indices permuted under seed, via one call to
// ComputeShuffledIndex per output position.
func ShuffledIndices(indices []primitives.ValidatorIndex, seed [32]byte) ([]primitives.ValidatorIndex, error) {
	n := uint64(len(indices))
	shuffled := make([]primitives.ValidatorIndex, n)
	for i := range indices {
		si, err := ComputeShuffledIndex(uint64(i), n, seed)
		if err != nil {
			return nil, err
		}
		shuffled[i] = indices[si]
	}
	return shuffled, nil
}
