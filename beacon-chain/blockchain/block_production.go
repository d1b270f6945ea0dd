package blockchain

import (
	"context"
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/lean/beacon-chain/core/transition"
	"github.com/prysmaticlabs/lean/beacon-chain/forkchoice"
	"github.com/prysmaticlabs/lean/config/params"
	"github.com/prysmaticlabs/lean/consensus-types/containers"
	"github.com/prysmaticlabs/lean/consensus-types/primitives"
	"github.com/prysmaticlabs/lean/encoding/bytesutil"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

// Producer builds blocks and votes for local validators.
type Producer interface {
	ProduceBlock(ctx context.Context, slot primitives.Slot, proposer primitives.ValidatorIndex) (*containers.Block, error)
	ProduceVote(ctx context.Context, slot primitives.Slot, validator primitives.ValidatorIndex) (*containers.Vote, error)
}

// ProduceBlock builds a block for slot on top of the proposal head. Known
// votes whose source is the justified checkpoint of the resulting state are
// included until the set stops growing, since every inclusion can move the
// justified checkpoint. The block is returned with its state root set and is
// not imported.
func (s *Service) ProduceBlock(ctx context.Context, slot primitives.Slot, proposer primitives.ValidatorIndex) (*containers.Block, error) {
	ctx, span := trace.StartSpan(ctx, "blockchain.ProduceBlock")
	defer span.End()

	var blk *containers.Block
	err := s.submit(ctx, "produce_block", func(ctx context.Context, store *forkchoice.Store) error {
		head, err := store.ProposalHead(ctx, slot)
		if err != nil {
			return errors.Wrap(err, "could not get proposal head")
		}
		headState, err := store.State(head)
		if err != nil {
			return err
		}
		advanced, err := transition.ProcessSlots(ctx, headState, slot)
		if err != nil {
			return errors.Wrap(err, "could not advance head state")
		}
		if !transition.IsProposer(advanced, proposer) {
			return errors.Wrapf(ErrNotProposer, "validator %d, slot %d", proposer, slot)
		}
		blk, err = buildBlock(ctx, advanced, head, slot, proposer, store.KnownVotes())
		return err
	})
	if err != nil {
		return nil, err
	}
	producedBlocks.Inc()
	log.WithFields(logrus.Fields{
		"slot":       blk.Slot,
		"proposer":   proposer,
		"parentRoot": fmt.Sprintf("%#x", bytesutil.Trunc(blk.ParentRoot[:])),
		"votes":      len(blk.Body.Attestations),
	}).Debug("Produced block")
	return blk, nil
}

func buildBlock(
	ctx context.Context,
	advanced *containers.State,
	parentRoot [32]byte,
	slot primitives.Slot,
	proposer primitives.ValidatorIndex,
	known map[primitives.ValidatorIndex]containers.Vote,
) (*containers.Block, error) {
	votes := make([]containers.Vote, 0, len(known))
	for _, v := range known {
		votes = append(votes, v)
	}
	sort.Slice(votes, func(i, j int) bool {
		return votes[i].ValidatorID < votes[j].ValidatorID
	})
	maxAtts := int(params.BeaconConfig().MaxAttestations)

	blk := &containers.Block{
		Slot:          slot,
		ProposerIndex: proposer,
		ParentRoot:    parentRoot,
		Body:          containers.BlockBody{Attestations: []*containers.SignedVote{}},
	}
	included := make(map[primitives.ValidatorIndex]bool)
	for {
		post, err := transition.ProcessBlock(ctx, advanced.Copy(), blk)
		if err != nil {
			return nil, errors.Wrap(err, "could not process produced block")
		}
		added := 0
		for _, v := range votes {
			if len(blk.Body.Attestations) >= maxAtts {
				break
			}
			if included[v.ValidatorID] || v.Source != post.LatestJustified {
				continue
			}
			blk.Body.Attestations = append(blk.Body.Attestations, &containers.SignedVote{Data: v})
			included[v.ValidatorID] = true
			added++
		}
		if added == 0 {
			blk.StateRoot, err = post.HashTreeRoot()
			if err != nil {
				return nil, err
			}
			return blk, nil
		}
	}
}

// ProduceVote builds the vote of validator for slot: the proposal head, the
// vote target and the latest justified checkpoint as source.
func (s *Service) ProduceVote(ctx context.Context, slot primitives.Slot, validator primitives.ValidatorIndex) (*containers.Vote, error) {
	ctx, span := trace.StartSpan(ctx, "blockchain.ProduceVote")
	defer span.End()

	var vote *containers.Vote
	err := s.submit(ctx, "produce_vote", func(ctx context.Context, store *forkchoice.Store) error {
		if uint64(validator) >= store.Config().NumValidators {
			return errors.Wrapf(forkchoice.ErrInvalidVote, "validator %d out of range", validator)
		}
		head, err := store.ProposalHead(ctx, slot)
		if err != nil {
			return errors.Wrap(err, "could not get proposal head")
		}
		headBlock, err := store.Block(head)
		if err != nil {
			return err
		}
		target, err := store.VoteTarget(ctx)
		if err != nil {
			return errors.Wrap(err, "could not get vote target")
		}
		vote = &containers.Vote{
			ValidatorID: validator,
			Slot:        slot,
			Head:        containers.Checkpoint{Root: head, Slot: headBlock.Slot},
			Target:      target,
			Source:      store.JustifiedCheckpoint(),
		}
		return nil
	})
	return vote, err
}

var _ Producer = (*Service)(nil)
