package sync

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	peersActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sync_peers_active",
		Help: "Number of peers currently in the Active handshake state.",
	})
	batchesReissued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sync_batches_reissued_total",
		Help: "Number of long-range batches reissued to a different peer after a timeout or disconnect.",
	})
	batchesRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sync_batches_rejected_total",
		Help: "Number of long-range batches whose blocks were rejected by the state-transition function.",
	})
	pendingQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sync_pending_queue_depth",
		Help: "Number of gossip blocks currently buffered waiting for their parent.",
	})
)
