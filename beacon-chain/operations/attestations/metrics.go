package attestations

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	aggregatedAttestationsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "num_aggregated_attestations",
		Help: "Number of distinct AttestationData entries held in the aggregation pool",
	})
	attestationOverlapTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attestation_aggregation_overlap_total",
		Help: "Times an inserted attestation's aggregation bits overlapped an existing contributor and was rejected",
	})
)
