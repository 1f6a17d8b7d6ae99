package params

import "github.com/prylabs-zero/beacon-core/consensus-types/primitives"

// MainnetConfig returns the production phase-0 constant set.
func MainnetConfig() *BeaconChainConfig {
	return &BeaconChainConfig{
		ConfigName: "mainnet",

		SecondsPerSlot:   12,
		SlotsPerEpoch:    32,
		MinSeedLookahead: 1,
		MaxSeedLookahead: 4,

		MinAttestationInclusionDelay:    1,
		SlotsPerHistoricalRoot:          8192,
		MinValidatorWithdrawabilityDelay: 256,
		PersistentCommitteePeriod:       2048,
		MinEpochsToInactivityPenalty:    4,
		EpochsPerEth1VotingPeriod:       64,
		EpochsPerHistoricalVector:       65536,
		EpochsPerSlashingsVector:        8192,
		HistoricalRootsLimit:            16777216,
		ValidatorRegistryLimit:          1099511627776,

		MinDepositAmount:          1_000_000_000,
		MaxEffectiveBalance:       32_000_000_000,
		EjectionBalance:           16_000_000_000,
		EffectiveBalanceIncrement: 1_000_000_000,

		BaseRewardFactor:               64,
		WhistleblowerRewardQuotient:     512,
		ProposerRewardQuotient:          8,
		InactivityPenaltyQuotient:       1 << 25,
		MinSlashingPenaltyQuotient:      128,
		ProportionalSlashingMultiplier:  1,

		MaxProposerSlashings: 16,
		MaxAttesterSlashings: 2,
		MaxAttestations:      128,
		MaxDeposits:          16,
		MaxVoluntaryExits:    16,
		MaxTransfers:         0,

		ShuffleRoundCount:         90,
		TargetCommitteeSize:       128,
		MaxCommitteesPerSlot:      64,
		MaxValidatorsPerCommittee: 2048,
		ShardCount:                64,
		ChurnLimitQuotient:        65536,
		MinPerEpochChurnLimit:     4,

		GenesisForkVersion:   []byte{0, 0, 0, 0},
		DomainBeaconProposer: [4]byte{0, 0, 0, 0},
		DomainBeaconAttester: [4]byte{1, 0, 0, 0},
		DomainRandao:         [4]byte{2, 0, 0, 0},
		DomainDeposit:        [4]byte{3, 0, 0, 0},
		DomainVoluntaryExit:  [4]byte{4, 0, 0, 0},
		DomainTransfer:       [4]byte{5, 0, 0, 0},

		MinGenesisActiveValidatorCount: 16384,
		MinGenesisTime:                 1606824000,
		GenesisDelay:                   604800,
		GenesisEpoch:                   0,
		GenesisSlot:                    0,
		FarFutureEpoch:                 primitives.Epoch(1<<64 - 1),

		JustificationBitsLength: 4,

		SafeSlotsToUpdateJustified: 8,

		DefaultPageSize:   250,
		BackfillThreshold: 1000,
		RangeRequestBatch: 64,
		MaxPeersPerBatch:  4,
	}
}
