package client

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/event"
	"github.com/prysmaticlabs/lean/beacon-chain/blockchain"
	"github.com/prysmaticlabs/lean/consensus-types/containers"
	"github.com/prysmaticlabs/lean/consensus-types/primitives"
	"github.com/prysmaticlabs/lean/encoding/bytesutil"
	"github.com/prysmaticlabs/lean/time/slots"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

const (
	proposeInterval = 0
	voteInterval    = 1
	tickBufferSize  = 4
)

// ChainClient is the part of the node a validator talks to.
type ChainClient interface {
	blockchain.HeadFetcher
	blockchain.Producer
	blockchain.BlockReceiver
	blockchain.AttestationReceiver
	TickFeed() *event.Feed
}

type validator struct {
	chain   ChainClient
	indices []primitives.ValidatorIndex
	ticks   chan slots.Tick
	sub     event.Subscription
}

func newValidator(chain ChainClient, indices []primitives.ValidatorIndex) *validator {
	ticks := make(chan slots.Tick, tickBufferSize)
	return &validator{
		chain:   chain,
		indices: indices,
		ticks:   ticks,
		sub:     chain.TickFeed().Subscribe(ticks),
	}
}

// Done cleans up the validator.
func (v *validator) Done() {
	v.sub.Unsubscribe()
}

// NextTick emits every interval boundary once the node has processed it.
func (v *validator) NextTick() <-chan slots.Tick {
	return v.ticks
}

// RolesAt assigns the proposer role at the first interval of a slot and the
// attester role to every held validator at the second one.
func (v *validator) RolesAt(tick slots.Tick) map[primitives.ValidatorIndex][]ValidatorRole {
	roles := make(map[primitives.ValidatorIndex][]ValidatorRole)
	numValidators := v.chain.Snapshot().Config.NumValidators
	if numValidators == 0 {
		return roles
	}
	switch tick.Interval {
	case proposeInterval:
		// Genesis occupies slot 0.
		if tick.Slot == 0 {
			return roles
		}
		for _, idx := range v.indices {
			if uint64(tick.Slot)%numValidators == uint64(idx) {
				roles[idx] = append(roles[idx], RoleProposer)
			}
		}
	case voteInterval:
		for _, idx := range v.indices {
			if uint64(idx) < numValidators {
				roles[idx] = append(roles[idx], RoleAttester)
			}
		}
	}
	return roles
}

// ProposeBlock builds a block for the slot and imports it into the node.
// Signatures are left zeroed.
func (v *validator) ProposeBlock(ctx context.Context, slot primitives.Slot, idx primitives.ValidatorIndex) {
	ctx, span := trace.StartSpan(ctx, "validator.ProposeBlock")
	defer span.End()
	label := fmt.Sprint(idx)
	log := log.WithFields(logrus.Fields{"slot": slot, "validator": idx})

	blk, err := v.chain.ProduceBlock(ctx, slot, idx)
	if err != nil {
		log.WithError(err).Error("Could not produce block")
		ValidatorProposeFailVec.WithLabelValues(label).Inc()
		return
	}
	root, err := v.chain.ReceiveBlock(ctx, &containers.SignedBlock{Message: *blk})
	if err != nil {
		log.WithError(err).Error("Could not submit block")
		ValidatorProposeFailVec.WithLabelValues(label).Inc()
		return
	}
	ValidatorProposeSuccessVec.WithLabelValues(label).Inc()
	log.WithFields(logrus.Fields{
		"root":  fmt.Sprintf("%#x", bytesutil.Trunc(root[:])),
		"votes": len(blk.Body.Attestations),
	}).Info("Submitted new block")
}

// SubmitVote votes for the current head and submits it as an attestation.
func (v *validator) SubmitVote(ctx context.Context, slot primitives.Slot, idx primitives.ValidatorIndex) {
	ctx, span := trace.StartSpan(ctx, "validator.SubmitVote")
	defer span.End()
	label := fmt.Sprint(idx)
	log := log.WithFields(logrus.Fields{"slot": slot, "validator": idx})

	vote, err := v.chain.ProduceVote(ctx, slot, idx)
	if err != nil {
		log.WithError(err).Error("Could not produce vote")
		ValidatorVoteFailVec.WithLabelValues(label).Inc()
		return
	}
	if err := v.chain.ReceiveAttestation(ctx, &containers.SignedVote{Data: *vote}); err != nil {
		log.WithError(err).Error("Could not submit vote")
		ValidatorVoteFailVec.WithLabelValues(label).Inc()
		return
	}
	ValidatorVoteSuccessVec.WithLabelValues(label).Inc()
	log.WithFields(logrus.Fields{
		"head":       fmt.Sprintf("%#x", bytesutil.Trunc(vote.Head.Root[:])),
		"targetSlot": vote.Target.Slot,
		"sourceSlot": vote.Source.Slot,
	}).Debug("Submitted new vote")
}
