package params

import "sync/atomic"

// configStore guards the active BeaconChainConfig behind an atomic.Value so
// OverrideBeaconConfig (used heavily by table-driven spec tests swapping
// between mainnet/minimal presets) never races a concurrent BeaconConfig()
// reader. Grounded on the teacher's package-level config swap pattern.
type configStore struct {
	v atomic.Value
}

func newConfigStore(initial *BeaconChainConfig) *configStore {
	s := &configStore{}
	s.v.Store(initial)
	return s
}

func (s *configStore) get() *BeaconChainConfig {
	return s.v.Load().(*BeaconChainConfig)
}

func (s *configStore) set(cfg *BeaconChainConfig) {
	s.v.Store(cfg)
}
