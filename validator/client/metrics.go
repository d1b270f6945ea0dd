package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var dutyLabels = []string{"index"}

var (
	// ValidatorProposeSuccessVec counts blocks imported by the local chain, per proposer.
	ValidatorProposeSuccessVec = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "validator",
		Name:      "successful_proposals",
		Help:      "Blocks proposed and accepted by the store.",
	}, dutyLabels)
	// ValidatorProposeFailVec counts proposals that could not be built or were rejected.
	ValidatorProposeFailVec = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "validator",
		Name:      "failed_proposals",
		Help:      "Block proposals that failed to build or import.",
	}, dutyLabels)
	// ValidatorVoteSuccessVec counts votes accepted as attestations.
	ValidatorVoteSuccessVec = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "validator",
		Name:      "successful_votes",
		Help:      "Votes produced and accepted by the store.",
	}, dutyLabels)
	// ValidatorVoteFailVec counts votes that could not be produced or were rejected.
	ValidatorVoteFailVec = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "validator",
		Name:      "failed_votes",
		Help:      "Votes that failed to build or import.",
	}, dutyLabels)
)
