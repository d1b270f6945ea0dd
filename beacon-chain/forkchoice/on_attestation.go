package forkchoice

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/lean/consensus-types/containers"
	"go.opencensus.io/trace"
)

// ValidateAttestation checks a vote received from the network before it is
// handed to OnAttestation. The checkpoints must name known blocks at their
// slots and the vote may be at most one slot ahead of the store clock.
func (s *Store) ValidateAttestation(vote *containers.Vote) error {
	if vote == nil {
		return errors.Wrap(ErrInvalidVote, "nil vote")
	}
	if uint64(vote.ValidatorID) >= s.config.NumValidators {
		return errors.Wrapf(ErrInvalidVote, "validator %d out of range", vote.ValidatorID)
	}
	source, ok := s.blocks[vote.Source.Root]
	if !ok {
		return errors.Wrapf(ErrUnknownCheckpoint, "source %s", vote.Source)
	}
	target, ok := s.blocks[vote.Target.Root]
	if !ok {
		return errors.Wrapf(ErrUnknownCheckpoint, "target %s", vote.Target)
	}
	if vote.Source.Slot > vote.Target.Slot {
		return errors.Wrapf(ErrInvalidVote, "source slot %d after target slot %d", vote.Source.Slot, vote.Target.Slot)
	}
	if source.Slot != vote.Source.Slot || target.Slot != vote.Target.Slot {
		return errors.Wrap(ErrInvalidVote, "checkpoint slot does not match block slot")
	}
	if vote.Slot > s.CurrentSlot()+1 {
		return errors.Wrapf(ErrFutureVote, "vote slot %d, current slot %d", vote.Slot, s.CurrentSlot())
	}
	return nil
}

// OnAttestation stages a vote as new. Only a vote with a greater slot than
// the one already held for the validator replaces it.
func (s *Store) OnAttestation(ctx context.Context, vote *containers.Vote) error {
	_, span := trace.StartSpan(ctx, "forkchoice.OnAttestation")
	defer span.End()

	if vote == nil {
		return errors.Wrap(ErrInvalidVote, "nil vote")
	}
	if !s.hasCheckpoints(vote) {
		processedVoteCount.WithLabelValues("unknown_checkpoint").Inc()
		return errors.Wrapf(ErrUnknownCheckpoint, "head %s, target %s, source %s", vote.Head, vote.Target, vote.Source)
	}
	s.stageVote(*vote)
	return nil
}

func (s *Store) hasCheckpoints(vote *containers.Vote) bool {
	return s.HasBlock(vote.Head.Root) && s.HasBlock(vote.Target.Root) && s.HasBlock(vote.Source.Root)
}

// stageVote keeps the vote only if it is newer than anything already known
// or staged for the validator.
func (s *Store) stageVote(vote containers.Vote) {
	if known, ok := s.knownVotes[vote.ValidatorID]; ok && known.Slot >= vote.Slot {
		processedVoteCount.WithLabelValues("stale").Inc()
		return
	}
	if staged, ok := s.newVotes[vote.ValidatorID]; ok && staged.Slot >= vote.Slot {
		processedVoteCount.WithLabelValues("stale").Inc()
		return
	}
	s.newVotes[vote.ValidatorID] = vote
	processedVoteCount.WithLabelValues("accepted").Inc()
}
