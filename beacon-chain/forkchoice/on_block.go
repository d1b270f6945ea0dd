package forkchoice

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/lean/consensus-types/containers"
	"github.com/prysmaticlabs/lean/encoding/bytesutil"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

// OnBlock validates a block against its parent state and inserts it with its
// post state. Votes carried in the block body are staged as new votes and the
// head is recomputed. A rejected block leaves the store untouched. Blocks
// already in the store are ignored.
func (s *Store) OnBlock(ctx context.Context, blk *containers.Block) ([32]byte, error) {
	ctx, span := trace.StartSpan(ctx, "forkchoice.OnBlock")
	defer span.End()

	if blk == nil {
		return [32]byte{}, ErrNilBlock
	}
	root, err := blk.HashTreeRoot()
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "could not hash block")
	}
	if s.HasBlock(root) {
		return root, nil
	}
	parentState, ok := s.states[blk.ParentRoot]
	if !ok {
		rejectedBlockCount.WithLabelValues("unknown_parent").Inc()
		return root, errors.Wrapf(ErrUnknownParent, "parent %#x of block %#x", blk.ParentRoot, root)
	}
	post, err := s.stateTransition(ctx, parentState, blk)
	if err != nil {
		rejectedBlockCount.WithLabelValues("invalid_state_transition").Inc()
		return root, &transitionError{err: err}
	}
	postRoot, err := post.HashTreeRoot()
	if err != nil {
		return root, errors.Wrap(err, "could not hash post state")
	}
	if postRoot != blk.StateRoot {
		rejectedBlockCount.WithLabelValues("state_root_mismatch").Inc()
		return root, errors.Wrapf(ErrStateRootMismatch, "block %#x, computed %#x", blk.StateRoot, postRoot)
	}

	s.insert(root, blk.Copy(), post)
	processedBlockCount.Inc()
	for _, vote := range blk.Votes() {
		if !s.hasCheckpoints(&vote) {
			processedVoteCount.WithLabelValues("unknown_checkpoint").Inc()
			continue
		}
		s.stageVote(vote)
	}
	log.WithFields(logrus.Fields{
		"slot":          blk.Slot,
		"root":          fmt.Sprintf("%#x", bytesutil.Trunc(root[:])),
		"votes":         len(blk.Body.Attestations),
		"justifiedSlot": post.LatestJustified.Slot,
		"finalizedSlot": post.LatestFinalized.Slot,
	}).Debug("Inserted block into fork choice")

	if err := s.UpdateHead(ctx); err != nil {
		return root, errors.Wrap(err, "could not update head")
	}
	return root, nil
}
