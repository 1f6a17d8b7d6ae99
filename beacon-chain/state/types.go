package state

// FieldIndex names each BeaconState field by its position in the container,
// the order spec.md §3 declares normative for hash_tree_root. Grounded on
// the teacher's beacon-chain/state/types field-index scheme, collapsed to a
// flat const block since this repository does not need the teacher's
// fork-versioned field-map indirection.
type FieldIndex int

const (
	GenesisTime FieldIndex = iota
	Slot
	Fork
	LatestBlockHeader
	BlockRoots
	StateRoots
	HistoricalRoots
	Eth1Data
	Eth1DataVotes
	Eth1DepositIndex
	Validators
	Balances
	RandaoMixes
	StartShard
	PreviousEpochAttestations
	CurrentEpochAttestations
	PreviousCrosslinks
	CurrentCrosslinks
	JustificationBits
	PreviousJustifiedCheckpoint
	CurrentJustifiedCheckpoint
	FinalizedCheckpoint
	Slashings
	ActiveIndexRoots
	CompactCommitteesRoots

	numFields
)
