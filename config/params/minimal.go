package params

// MinimalConfig returns the reduced-parameter preset used by unit tests and
// the interop cold-start path (spec.md §8 scenario 1), matching the
// teacher's mainnet/minimal config split.
func MinimalConfig() *BeaconChainConfig {
	cfg := MainnetConfig()
	cfg.ConfigName = "minimal"
	cfg.SlotsPerEpoch = 8
	cfg.SlotsPerHistoricalRoot = 64
	cfg.EpochsPerHistoricalVector = 64
	cfg.EpochsPerSlashingsVector = 64
	cfg.EpochsPerEth1VotingPeriod = 4
	cfg.TargetCommitteeSize = 4
	cfg.ShardCount = 8
	cfg.MaxCommitteesPerSlot = 4
	cfg.MinGenesisActiveValidatorCount = 64
	cfg.ShuffleRoundCount = 10
	return cfg
}
