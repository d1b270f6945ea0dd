package forkchoice

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

var (
	log = logrus.WithField("prefix", "forkchoice")

	headSlotNumber = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "forkchoice_head_slot",
			Help: "The slot number of the current head.",
		},
	)
	safeTargetSlotNumber = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "forkchoice_safe_target_slot",
			Help: "The slot number of the current safe target.",
		},
	)
	justifiedSlotNumber = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "forkchoice_justified_slot",
			Help: "The slot number of the latest justified checkpoint.",
		},
	)
	finalizedSlotNumber = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "forkchoice_finalized_slot",
			Help: "The slot number of the latest finalized checkpoint.",
		},
	)
	blockCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "forkchoice_block_count",
			Help: "The number of blocks held in the store.",
		},
	)
	headChangesCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "forkchoice_head_changed_count",
			Help: "The number of times head changes.",
		},
	)
	processedBlockCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "forkchoice_block_processed_count",
			Help: "The number of blocks accepted into the store.",
		},
	)
	rejectedBlockCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forkchoice_block_rejected_count",
			Help: "The number of blocks rejected by the store, by reason.",
		},
		[]string{"reason"},
	)
	processedVoteCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forkchoice_vote_processed_count",
			Help: "The number of votes handled by the store, by outcome.",
		},
		[]string{"outcome"},
	)
	prunedBlockCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "forkchoice_pruned_block_count",
			Help: "The number of blocks removed from the store by pruning.",
		},
	)
)
