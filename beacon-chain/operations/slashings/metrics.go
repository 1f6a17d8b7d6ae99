package slashings

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	numPendingProposerSlashings = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "num_pending_proposer_slashings",
		Help: "Number of pending proposer slashings in the pool",
	})
	numPendingAttesterSlashings = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "num_pending_attester_slashings",
		Help: "Number of pending attester slashings in the pool",
	})
	proposerSlashingReattempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "proposer_slashing_reattempts_total",
		Help: "Times a proposer slashing for an already-pooled validator was received",
	})
	attesterSlashingReattempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attester_slashing_reattempts_total",
		Help: "Times an attester slashing already on file for its canonical id was received",
	})
)
