package ssz_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
	"github.com/prylabs-zero/beacon-core/encoding/ssz"
)

// TestRoundTrip_Checkpoint exercises spec.md §8's codec round-trip
// property (encode(decode(x)) == x) against a fixed-size container.
func TestRoundTrip_Checkpoint(t *testing.T) {
	want := &eth.Checkpoint{Epoch: primitives.Epoch(17), Root: [32]byte{1, 2, 3, 4}}

	data, err := ssz.Marshal(want)
	require.NoError(t, err)

	decoded, err := ssz.Unmarshal(want.SSZSchema(), data)
	require.NoError(t, err)

	got := &eth.Checkpoint{}
	require.NoError(t, got.LoadSSZ(decoded))
	require.Equal(t, want, got)
}

// TestRoundTrip_Fork exercises the same property against a container
// with fixed-size byte-vector fields.
func TestRoundTrip_Fork(t *testing.T) {
	want := &eth.Fork{
		PreviousVersion: [4]byte{0, 0, 0, 0},
		CurrentVersion:  [4]byte{1, 0, 0, 0},
		Epoch:           primitives.Epoch(42),
	}

	data, err := ssz.Marshal(want)
	require.NoError(t, err)

	decoded, err := ssz.Unmarshal(want.SSZSchema(), data)
	require.NoError(t, err)

	got := &eth.Fork{}
	require.NoError(t, got.LoadSSZ(decoded))
	require.Equal(t, want, got)
}

// TestHashTreeRoot_Deterministic exercises spec.md §8's "hash_tree_root is
// a pure function of the value" property: the same value hashes to the
// same root every time, and a changed field changes the root.
func TestHashTreeRoot_Deterministic(t *testing.T) {
	a := &eth.Checkpoint{Epoch: primitives.Epoch(5), Root: [32]byte{9}}
	b := &eth.Checkpoint{Epoch: primitives.Epoch(5), Root: [32]byte{9}}

	rootA, err := ssz.HashTreeRoot(a)
	require.NoError(t, err)
	rootB, err := ssz.HashTreeRoot(b)
	require.NoError(t, err)
	require.Equal(t, rootA, rootB)

	c := &eth.Checkpoint{Epoch: primitives.Epoch(6), Root: [32]byte{9}}
	rootC, err := ssz.HashTreeRoot(c)
	require.NoError(t, err)
	require.NotEqual(t, rootA, rootC)
}

// TestUnmarshal_RejectsTrailingBytes exercises spec.md §4.1's rejection
// rule for trailing bytes after a well-formed decode.
func TestUnmarshal_RejectsTrailingBytes(t *testing.T) {
	cp := &eth.Checkpoint{Epoch: primitives.Epoch(1), Root: [32]byte{1}}
	data, err := ssz.Marshal(cp)
	require.NoError(t, err)

	_, err = ssz.Unmarshal(cp.SSZSchema(), append(data, 0xff))
	require.Error(t, err)
}
