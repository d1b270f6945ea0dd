package blockchain

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blockchain_request_queue_depth",
		Help: "Number of requests waiting for the fork choice owner",
	})
	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blockchain_request_duration_seconds",
		Help:    "Time spent processing a request on the fork choice owner",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
	}, []string{"kind"})
	receivedBlocks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blockchain_received_blocks_total",
		Help: "Blocks handed to the blockchain service by outcome",
	}, []string{"outcome"})
	receivedVotes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blockchain_received_votes_total",
		Help: "Votes handed to the blockchain service by outcome",
	}, []string{"outcome"})
	producedBlocks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blockchain_produced_blocks_total",
		Help: "Blocks built by the local proposer",
	})
	currentSlotGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blockchain_current_slot",
		Help: "Slot of the fork choice clock",
	})
)

func outcome(err error) string {
	if err != nil {
		return "rejected"
	}
	return "accepted"
}
