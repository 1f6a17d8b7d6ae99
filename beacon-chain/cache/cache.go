// Package cache holds the LRU caches sitting in front of expensive,
// repeatedly-recomputed committee-assignment lookups. Grounded on the
// teacher's beacon-chain/cache package (one small struct per cached
// quantity, wrapping a hashicorp/golang-lru cache with a pair of
// prometheus hit/miss counters); this repository's go.mod pins the
// pre-generics golang-lru release the teacher's own
// shuffled_indices.go/checkpoint_state.go once used, so caches here keep
// that non-generic Cache type rather than the teacher's later lru/v2 move.
package cache

import "github.com/pkg/errors"

// ErrNotFound is returned by a cache lookup that misses.
var ErrNotFound = errors.New("cache: not found")
