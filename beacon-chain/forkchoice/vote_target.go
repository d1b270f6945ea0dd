package forkchoice

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/lean/config/params"
	"github.com/prysmaticlabs/lean/consensus-types/containers"
	"go.opencensus.io/trace"
)

// VoteTarget returns the checkpoint an honest validator should vote to
// justify. Starting at the head it walks back at most
// JustificationLookbackSlots blocks while ahead of the safe target, then
// further back until the slot is justifiable after the finalized slot.
func (s *Store) VoteTarget(ctx context.Context) (containers.Checkpoint, error) {
	_, span := trace.StartSpan(ctx, "forkchoice.VoteTarget")
	defer span.End()

	safe, ok := s.blocks[s.safeTarget]
	if !ok {
		return containers.Checkpoint{}, errors.Wrapf(ErrUnknownRoot, "safe target %#x", s.safeTarget)
	}
	root := s.head
	b, ok := s.blocks[root]
	if !ok {
		return containers.Checkpoint{}, errors.Wrapf(ErrUnknownRoot, "head %#x", root)
	}
	lookback := uint64(params.BeaconConfig().JustificationLookbackSlots)
	for i := uint64(0); i < lookback && b.Slot > safe.Slot; i++ {
		parent, ok := s.blocks[b.ParentRoot]
		if !ok {
			break
		}
		root, b = b.ParentRoot, parent
	}
	finalizedSlot := s.latestFinalized.Slot
	for !b.Slot.IsJustifiableAfter(finalizedSlot) {
		parent, ok := s.blocks[b.ParentRoot]
		if !ok {
			break
		}
		root, b = b.ParentRoot, parent
	}
	return containers.Checkpoint{Root: root, Slot: b.Slot}, nil
}
