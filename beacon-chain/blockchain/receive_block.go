package blockchain

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/lean/beacon-chain/forkchoice"
	"github.com/prysmaticlabs/lean/consensus-types/containers"
	"github.com/prysmaticlabs/lean/consensus-types/primitives"
	"github.com/prysmaticlabs/lean/time/slots"
	"go.opencensus.io/trace"
)

// BlockReceiver interface defines the methods of chain service receive and processing new blocks.
type BlockReceiver interface {
	ReceiveBlock(ctx context.Context, block *containers.SignedBlock) ([32]byte, error)
}

// AttestationReceiver interface defines the methods of chain service receive and processing new votes.
type AttestationReceiver interface {
	ReceiveAttestation(ctx context.Context, vote *containers.SignedVote) error
}

// TickReceiver advances the fork choice clock.
type TickReceiver interface {
	ReceiveTick(ctx context.Context, time uint64) error
}

// ReceiveBlock is a function that defines the operations (minus pubsub)
// that are performed on a block received from the network or the local
// proposer. The operations consist of:
//  1. Validate block, apply state transition and update the fork choice store
//  2. Save the block and its post state
//  3. Publish the new head
func (s *Service) ReceiveBlock(ctx context.Context, signed *containers.SignedBlock) ([32]byte, error) {
	ctx, span := trace.StartSpan(ctx, "blockchain.ReceiveBlock")
	defer span.End()

	if signed == nil {
		return [32]byte{}, ErrNilBlock
	}
	blk := signed.Message.Copy()
	root, err := blk.HashTreeRoot()
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "could not hash block")
	}
	err = s.submit(ctx, "block", func(ctx context.Context, store *forkchoice.Store) error {
		if store.HasBlock(root) {
			return nil
		}
		if _, err := store.OnBlock(ctx, blk); err != nil {
			return err
		}
		return s.saveBlock(ctx, store, signed, root)
	})
	receivedBlocks.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		return root, errors.Wrap(err, "could not process block")
	}
	logBlockImported(blk, root, s.snapshotCopy())
	return root, nil
}

func (s *Service) saveBlock(ctx context.Context, store *forkchoice.Store, signed *containers.SignedBlock, root [32]byte) error {
	if s.cfg.BeaconDB == nil {
		return nil
	}
	st, err := store.State(root)
	if err != nil {
		return err
	}
	if err := s.cfg.BeaconDB.SaveBlock(ctx, signed); err != nil {
		return errors.Wrap(err, "could not save block")
	}
	if err := s.cfg.BeaconDB.SaveState(ctx, st, root); err != nil {
		return errors.Wrap(err, "could not save state")
	}
	return nil
}

// ReceiveAttestation validates a vote and stages it in the fork choice store.
func (s *Service) ReceiveAttestation(ctx context.Context, signed *containers.SignedVote) error {
	ctx, span := trace.StartSpan(ctx, "blockchain.ReceiveAttestation")
	defer span.End()

	if signed == nil {
		return ErrNilVote
	}
	vote := signed.Data
	err := s.submit(ctx, "attestation", func(ctx context.Context, store *forkchoice.Store) error {
		if err := store.ValidateAttestation(&vote); err != nil {
			return err
		}
		return store.OnAttestation(ctx, &vote)
	})
	receivedVotes.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		return errors.Wrapf(err, "could not process vote from validator %d", vote.ValidatorID)
	}
	return nil
}

// ReceiveTick advances the fork choice clock to time, in unix seconds.
func (s *Service) ReceiveTick(ctx context.Context, time uint64) error {
	ctx, span := trace.StartSpan(ctx, "blockchain.ReceiveTick")
	defer span.End()

	return s.submit(ctx, "tick", func(ctx context.Context, store *forkchoice.Store) error {
		return store.OnTick(ctx, time)
	})
}

// ReceiveSlotStart is a helper that ticks the clock to the start of a slot.
func (s *Service) ReceiveSlotStart(ctx context.Context, slot primitives.Slot) error {
	return s.ReceiveTick(ctx, slots.IntervalStart(s.GenesisTime(), slot, 0))
}

var (
	_ BlockReceiver       = (*Service)(nil)
	_ AttestationReceiver = (*Service)(nil)
	_ TickReceiver        = (*Service)(nil)
)
