package forkchoice

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/lean/config/params"
	"github.com/prysmaticlabs/lean/consensus-types/containers"
	"github.com/prysmaticlabs/lean/consensus-types/primitives"
	"github.com/prysmaticlabs/lean/encoding/bytesutil"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

// UpdateHead picks the highest justified checkpoint seen by any stored state,
// runs LMD-GHOST from it over the known votes and takes the finalized
// checkpoint from the new head state, even when that moves it back after a
// fork switch.
func (s *Store) UpdateHead(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "forkchoice.UpdateHead")
	defer span.End()

	justified := s.latestJustified
	for _, st := range s.states {
		if s.HasBlock(st.LatestJustified.Root) && newerCheckpoint(st.LatestJustified, justified) {
			justified = st.LatestJustified
		}
	}
	head, err := SelectHead(s.blocks, justified.Root, s.knownVotes, 0)
	if err != nil {
		return errors.Wrap(err, "could not select head")
	}
	if justified != s.latestJustified {
		log.WithField("checkpoint", justified.String()).Debug("New justified checkpoint")
	}
	s.latestJustified = justified

	if head != s.head {
		headChangesCount.Inc()
		log.WithFields(logrus.Fields{
			"slot":    s.blocks[head].Slot,
			"root":    fmt.Sprintf("%#x", bytesutil.Trunc(head[:])),
			"oldRoot": fmt.Sprintf("%#x", bytesutil.Trunc(s.head[:])),
		}).Debug("Head changed")
	}
	s.head = head

	// The genesis state names its own block with a zero root.
	finalized := s.states[head].LatestFinalized
	if bytesutil.ZeroRoot(finalized.Root) && finalized.Slot == s.blocks[s.anchor].Slot {
		finalized.Root = s.anchor
	}
	if s.HasBlock(finalized.Root) {
		if finalized != s.latestFinalized {
			log.WithField("checkpoint", finalized.String()).Info("New finalized checkpoint")
		}
		s.latestFinalized = finalized
	}

	if err := s.maybePrune(ctx); err != nil {
		return err
	}
	s.updateMetrics()
	return nil
}

// UpdateSafeTarget runs LMD-GHOST from the justified root over the new votes,
// only descending into blocks with a supermajority of them.
func (s *Store) UpdateSafeTarget(ctx context.Context) error {
	_, span := trace.StartSpan(ctx, "forkchoice.UpdateSafeTarget")
	defer span.End()

	minWeight := params.BeaconConfig().SafeTargetThreshold(s.config.NumValidators)
	target, err := SelectHead(s.blocks, s.latestJustified.Root, s.newVotes, minWeight)
	if err != nil {
		return errors.Wrap(err, "could not select safe target")
	}
	s.safeTarget = target
	s.updateMetrics()
	return nil
}

// AcceptNewVotes folds the new votes into the known votes and recomputes
// the head.
func (s *Store) AcceptNewVotes(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "forkchoice.AcceptNewVotes")
	defer span.End()

	for id, vote := range s.newVotes {
		s.knownVotes[id] = vote
	}
	s.newVotes = make(map[primitives.ValidatorIndex]containers.Vote)
	return s.UpdateHead(ctx)
}

// ProposalHead returns the head a proposer at slot should build on. The
// clock is advanced to the start of the slot if needed and all new votes are
// counted first.
func (s *Store) ProposalHead(ctx context.Context, slot primitives.Slot) ([32]byte, error) {
	ctx, span := trace.StartSpan(ctx, "forkchoice.ProposalHead")
	defer span.End()

	slotTime := s.config.GenesisTime + uint64(slot)*params.BeaconConfig().SecondsPerSlot
	if slotTime > s.time {
		if err := s.OnTick(ctx, slotTime); err != nil {
			return [32]byte{}, err
		}
	}
	if err := s.AcceptNewVotes(ctx); err != nil {
		return [32]byte{}, err
	}
	return s.head, nil
}

// newerCheckpoint orders checkpoints by slot, then by root.
func newerCheckpoint(a, b containers.Checkpoint) bool {
	if a.Slot != b.Slot {
		return a.Slot > b.Slot
	}
	return bytes.Compare(a.Root[:], b.Root[:]) > 0
}
