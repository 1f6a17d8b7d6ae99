package cache

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
)

// maxActiveIndicesCacheSize keeps a handful of recent epochs' shuffles
// resident — enough to cover the current and previous epoch across a
// couple of competing forks without the cache growing unbounded across a
// long-running node.
const maxActiveIndicesCacheSize = 8

var (
	activeIndicesCacheHit = promauto.NewCounter(prometheus.CounterOpts{
		Name: "active_indices_cache_hit",
		Help: "The number of active validator index requests served from cache.",
	})
	activeIndicesCacheMiss = promauto.NewCounter(prometheus.CounterOpts{
		Name: "active_indices_cache_miss",
		Help: "The number of active validator index requests that missed the cache.",
	})
)

// ActiveIndicesCache caches get_active_validator_indices' result keyed by
// the RANDAO seed of the epoch it was computed for: BeaconCommittee (spec.md
// §4.3) calls it once per committee, up to MAX_COMMITTEES_PER_SLOT times
// per slot, and the active set only changes at epoch boundaries, so keying
// by seed instead of by state avoids recomputing the same O(validators)
// scan dozens of times within a single epoch.
type ActiveIndicesCache struct {
	lru *lru.Cache
}

// NewActiveIndicesCache constructs an empty ActiveIndicesCache.
func NewActiveIndicesCache() *ActiveIndicesCache {
	c, err := lru.New(maxActiveIndicesCacheSize)
	if err != nil {
		// New only fails for a non-positive size, which
		// maxActiveIndicesCacheSize never is.
		panic(err)
	}
	return &ActiveIndicesCache{lru: c}
}

// ActiveIndices returns the cached active-validator-index list for seed, if
// present.
func (c *ActiveIndicesCache) ActiveIndices(seed [32]byte) ([]primitives.ValidatorIndex, bool) {
	v, ok := c.lru.Get(seed)
	if !ok {
		activeIndicesCacheMiss.Inc()
		return nil, false
	}
	activeIndicesCacheHit.Inc()
	return v.([]primitives.ValidatorIndex), true
}

// AddActiveIndices caches indices under seed.
func (c *ActiveIndicesCache) AddActiveIndices(seed [32]byte, indices []primitives.ValidatorIndex) {
	c.lru.Add(seed, indices)
}
