package kv

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	blockCacheHit = promauto.NewCounter(prometheus.CounterOpts{
		Name: "beacondb_block_cache_hit",
		Help: "The number of block reads served from the in-memory cache.",
	})
	blockCacheMiss = promauto.NewCounter(prometheus.CounterOpts{
		Name: "beacondb_block_cache_miss",
		Help: "The number of block reads that missed the in-memory cache.",
	})
	stateCacheHit = promauto.NewCounter(prometheus.CounterOpts{
		Name: "beacondb_state_cache_hit",
		Help: "The number of state reads served from the in-memory cache.",
	})
	stateCacheMiss = promauto.NewCounter(prometheus.CounterOpts{
		Name: "beacondb_state_cache_miss",
		Help: "The number of state reads that missed the in-memory cache.",
	})
	bufferFlushTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "beacondb_buffer_flush_total",
		Help: "The number of times the write buffer has been committed to the backing store.",
	})
	deletedBelowTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "beacondb_deleted_below_total",
		Help: "The number of blocks and states pruned by DeleteBelow.",
	})
)
