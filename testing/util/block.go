package util

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/lean/beacon-chain/core/transition"
	"github.com/prysmaticlabs/lean/consensus-types/containers"
	"github.com/prysmaticlabs/lean/consensus-types/primitives"
)

// NewBlock creates a block with minimum marshalable fields.
func NewBlock() *containers.SignedBlock {
	return &containers.SignedBlock{
		Message: containers.Block{
			Body: containers.BlockBody{Attestations: []*containers.SignedVote{}},
		},
	}
}

// GenerateBlock builds a valid block at slot on top of the parent state and
// returns it together with the post state. The proposer, parent root and
// state root are filled in so the block passes the state transition.
func GenerateBlock(
	ctx context.Context,
	parent *containers.State,
	slot primitives.Slot,
	atts ...*containers.SignedVote,
) (*containers.Block, *containers.State, error) {
	if parent.Config.NumValidators == 0 {
		return nil, nil, transition.ErrNoValidators
	}
	advanced, err := transition.ProcessSlots(ctx, parent.Copy(), slot)
	if err != nil {
		return nil, nil, errors.Wrap(err, "could not advance parent state")
	}
	parentRoot, err := advanced.LatestBlockHeader.HashTreeRoot()
	if err != nil {
		return nil, nil, err
	}
	if atts == nil {
		atts = []*containers.SignedVote{}
	}
	blk := &containers.Block{
		Slot:          slot,
		ProposerIndex: primitives.ValidatorIndex(uint64(slot) % parent.Config.NumValidators),
		ParentRoot:    parentRoot,
		Body:          containers.BlockBody{Attestations: atts},
	}
	post, err := transition.StateTransition(ctx, parent, blk)
	if err != nil {
		return nil, nil, errors.Wrap(err, "could not apply generated block")
	}
	blk.StateRoot, err = post.HashTreeRoot()
	if err != nil {
		return nil, nil, err
	}
	return blk, post, nil
}

// NewVote builds a vote from validator at slot.
func NewVote(
	validator primitives.ValidatorIndex,
	slot primitives.Slot,
	head, target, source containers.Checkpoint,
) *containers.SignedVote {
	return &containers.SignedVote{
		Data: containers.Vote{
			ValidatorID: validator,
			Slot:        slot,
			Head:        head,
			Target:      target,
			Source:      source,
		},
	}
}

// Checkpoint returns the checkpoint naming the block.
func Checkpoint(blk *containers.Block) (containers.Checkpoint, error) {
	r, err := blk.HashTreeRoot()
	if err != nil {
		return containers.Checkpoint{}, err
	}
	return containers.Checkpoint{Root: r, Slot: blk.Slot}, nil
}
