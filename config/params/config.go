// Package params defines the chain-spec constants spec.md §4.3-§4.4
// formulas are parameterized over. Grounded on the teacher's
// config/params/config.go; trimmed to the phase-0 constant set this
// repository's state-transition function actually consumes.
package params

import (
	"time"

	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
)

// BeaconChainConfig holds every constant the spec helpers and the
// state-transition function are parameterized over. Fields tagged
// `yaml:"..."` are loadable from a preset file via config/params/loader.go.
type BeaconChainConfig struct {
	ConfigName string `yaml:"CONFIG_NAME"`

	// Time parameters.
	SecondsPerSlot   uint64          `yaml:"SECONDS_PER_SLOT"`
	SlotsPerEpoch    primitives.Slot `yaml:"SLOTS_PER_EPOCH"`
	MinSeedLookahead primitives.Epoch `yaml:"MIN_SEED_LOOKAHEAD"`
	MaxSeedLookahead primitives.Epoch `yaml:"MAX_SEED_LOOKAHEAD"`

	MinAttestationInclusionDelay primitives.Slot  `yaml:"MIN_ATTESTATION_INCLUSION_DELAY"`
	SlotsPerHistoricalRoot       primitives.Slot  `yaml:"SLOTS_PER_HISTORICAL_ROOT"`
	MinValidatorWithdrawabilityDelay primitives.Epoch `yaml:"MIN_VALIDATOR_WITHDRAWABILITY_DELAY"`
	PersistentCommitteePeriod    primitives.Epoch `yaml:"SHARD_COMMITTEE_PERIOD"`
	MinEpochsToInactivityPenalty primitives.Epoch `yaml:"MIN_EPOCHS_TO_INACTIVITY_PENALTY"`
	EpochsPerEth1VotingPeriod    primitives.Epoch `yaml:"EPOCHS_PER_ETH1_VOTING_PERIOD"`
	EpochsPerHistoricalVector    primitives.Epoch `yaml:"EPOCHS_PER_HISTORICAL_VECTOR"`
	EpochsPerSlashingsVector     primitives.Epoch `yaml:"EPOCHS_PER_SLASHINGS_VECTOR"`
	HistoricalRootsLimit         uint64           `yaml:"HISTORICAL_ROOTS_LIMIT"`
	ValidatorRegistryLimit       uint64           `yaml:"VALIDATOR_REGISTRY_LIMIT"`

	// Gwei values.
	MinDepositAmount           primitives.Gwei `yaml:"MIN_DEPOSIT_AMOUNT"`
	MaxEffectiveBalance        primitives.Gwei `yaml:"MAX_EFFECTIVE_BALANCE"`
	EjectionBalance            primitives.Gwei `yaml:"EJECTION_BALANCE"`
	EffectiveBalanceIncrement  primitives.Gwei `yaml:"EFFECTIVE_BALANCE_INCREMENT"`

	// Reward and penalty quotients.
	BaseRewardFactor                uint64 `yaml:"BASE_REWARD_FACTOR"`
	WhistleblowerRewardQuotient      uint64 `yaml:"WHISTLEBLOWER_REWARD_QUOTIENT"`
	ProposerRewardQuotient           uint64 `yaml:"PROPOSER_REWARD_QUOTIENT"`
	InactivityPenaltyQuotient        uint64 `yaml:"INACTIVITY_PENALTY_QUOTIENT"`
	MinSlashingPenaltyQuotient       uint64 `yaml:"MIN_SLASHING_PENALTY_QUOTIENT"`
	ProportionalSlashingMultiplier   uint64 `yaml:"PROPORTIONAL_SLASHING_MULTIPLIER"`

	// Max operations per block.
	MaxProposerSlashings uint64 `yaml:"MAX_PROPOSER_SLASHINGS"`
	MaxAttesterSlashings uint64 `yaml:"MAX_ATTESTER_SLASHINGS"`
	MaxAttestations      uint64 `yaml:"MAX_ATTESTATIONS"`
	MaxDeposits          uint64 `yaml:"MAX_DEPOSITS"`
	MaxVoluntaryExits    uint64 `yaml:"MAX_VOLUNTARY_EXITS"`
	MaxTransfers         uint64 `yaml:"MAX_TRANSFERS"`

	// Committee / shuffling.
	ShuffleRoundCount          uint64 `yaml:"SHUFFLE_ROUND_COUNT"`
	TargetCommitteeSize        uint64 `yaml:"TARGET_COMMITTEE_SIZE"`
	MaxCommitteesPerSlot       uint64 `yaml:"MAX_COMMITTEES_PER_SLOT"`
	MaxValidatorsPerCommittee  uint64 `yaml:"MAX_VALIDATORS_PER_COMMITTEE"`
	ShardCount                 uint64 `yaml:"SHARD_COUNT"`
	ChurnLimitQuotient         uint64 `yaml:"CHURN_LIMIT_QUOTIENT"`
	MinPerEpochChurnLimit      uint64 `yaml:"MIN_PER_EPOCH_CHURN_LIMIT"`

	// Fork / domain.
	GenesisForkVersion []byte           `yaml:"GENESIS_FORK_VERSION"`
	DomainBeaconProposer [4]byte
	DomainBeaconAttester [4]byte
	DomainRandao         [4]byte
	DomainDeposit        [4]byte
	DomainVoluntaryExit  [4]byte
	DomainTransfer       [4]byte

	// Genesis.
	MinGenesisActiveValidatorCount uint64 `yaml:"MIN_GENESIS_ACTIVE_VALIDATOR_COUNT"`
	MinGenesisTime                 uint64 `yaml:"MIN_GENESIS_TIME"`
	GenesisDelay                   uint64 `yaml:"GENESIS_DELAY"`
	GenesisEpoch                   primitives.Epoch
	GenesisSlot                    primitives.Slot
	FarFutureEpoch                 primitives.Epoch

	JustificationBitsLength uint64

	// Fork-choice.
	SafeSlotsToUpdateJustified primitives.Slot `yaml:"SAFE_SLOTS_TO_UPDATE_JUSTIFIED"`

	// Operational, not spec-normative.
	RPCSyncCheck        time.Duration
	DefaultPageSize     int
	BackfillThreshold   primitives.Slot
	RangeRequestBatch   uint64
	MaxPeersPerBatch    int
}

const (
	// The factor 2 of the eth1-vote adoption rule (votes * 2 > voting
	// period slots). ProcessEth1DataVote writes that factor inline; no
	// code reads this constant.
	eth1VoteAdoptionMultiplier = 2
)

var activeConfig *configStore

func init() {
	activeConfig = newConfigStore(MainnetConfig())
}

// BeaconConfig returns the currently active chain-spec config.
func BeaconConfig() *BeaconChainConfig {
	return activeConfig.get()
}

// OverrideBeaconConfig swaps the active config, used by tests that run
// against the minimal preset and by the CLI config loader.
func OverrideBeaconConfig(cfg *BeaconChainConfig) {
	activeConfig.set(cfg)
}
