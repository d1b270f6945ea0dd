// Package transition implements the state transition function that
// advances a chain state through empty slots and applies blocks.
package transition

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/go-bitfield"
	"github.com/prysmaticlabs/lean/beacon-chain/core/transition/interop"
	"github.com/prysmaticlabs/lean/config/params"
	"github.com/prysmaticlabs/lean/consensus-types/containers"
	"github.com/prysmaticlabs/lean/consensus-types/primitives"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

// ExecuteStateTransition applies a signed block on top of a copy of the
// parent state. When validateResult is set the block state root must match
// the root of the resulting state.
func ExecuteStateTransition(
	ctx context.Context,
	parent *containers.State,
	signed *containers.SignedBlock,
	validateResult bool,
) (*containers.State, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if signed == nil {
		return nil, ErrNilBlock
	}
	ctx, span := trace.StartSpan(ctx, "core.transition.ExecuteStateTransition")
	defer span.End()

	blk := &signed.Message
	post, err := StateTransition(ctx, parent, blk)
	if err != nil {
		interop.WriteBlockToDisk(blk, true /* failed */)
		return nil, err
	}
	if !validateResult {
		return post, nil
	}
	postRoot, err := post.HashTreeRoot()
	if err != nil {
		return nil, errors.Wrap(err, "could not compute post state root")
	}
	if postRoot != blk.StateRoot {
		interop.WriteBlockToDisk(blk, true /* failed */)
		return nil, errors.Wrapf(ErrStateRootMismatch, "wanted %#x, got %#x", blk.StateRoot, postRoot)
	}
	return post, nil
}

// StateTransition advances a copy of the parent state to the block slot and
// applies the block. The parent state is never modified.
func StateTransition(ctx context.Context, parent *containers.State, blk *containers.Block) (*containers.State, error) {
	if parent == nil {
		return nil, ErrNilState
	}
	if blk == nil {
		return nil, ErrNilBlock
	}
	ctx, span := trace.StartSpan(ctx, "core.transition.StateTransition")
	defer span.End()
	span.AddAttributes(trace.Int64Attribute("slot", int64(blk.Slot)))

	st := parent.Copy()
	var err error
	if blk.Slot > st.Slot {
		st, err = ProcessSlots(ctx, st, blk.Slot)
		if err != nil {
			return nil, errors.Wrapf(err, "could not process slots up to %d", blk.Slot)
		}
	}
	st, err = ProcessBlock(ctx, st, blk)
	if err != nil {
		return nil, errors.Wrapf(err, "could not process block at slot %d", blk.Slot)
	}
	return st, nil
}

// ComputeStateRoot returns the root of the state produced by applying the
// block to the parent. Used by proposers to fill in the block state root.
func ComputeStateRoot(ctx context.Context, parent *containers.State, blk *containers.Block) ([32]byte, error) {
	ctx, span := trace.StartSpan(ctx, "core.transition.ComputeStateRoot")
	defer span.End()

	post, err := StateTransition(ctx, parent, blk)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "could not calculate state root")
	}
	return post.HashTreeRoot()
}

// ProcessSlots advances the state slot by slot until it reaches the target.
func ProcessSlots(ctx context.Context, st *containers.State, slot primitives.Slot) (*containers.State, error) {
	if st == nil {
		return nil, ErrNilState
	}
	ctx, span := trace.StartSpan(ctx, "core.transition.ProcessSlots")
	defer span.End()
	span.AddAttributes(trace.Int64Attribute("slots", int64(slot)-int64(st.Slot)))

	if st.Slot >= slot {
		return nil, errors.Wrapf(ErrSlotNotAhead, "expected state.slot %d < slot %d", st.Slot, slot)
	}
	for st.Slot < slot {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err := ProcessSlot(st); err != nil {
			return nil, errors.Wrap(err, "could not process slot")
		}
		st.Slot++
	}
	return st, nil
}

// ProcessSlot caches the state root into the latest block header the first
// time the slot after that block is processed.
func ProcessSlot(st *containers.State) error {
	if st.LatestBlockHeader.StateRoot != params.BeaconConfig().ZeroHash {
		return nil
	}
	root, err := st.HashTreeRoot()
	if err != nil {
		return errors.Wrap(err, "could not hash state")
	}
	st.LatestBlockHeader.StateRoot = root
	return nil
}

// ProcessBlock applies the block header and the votes the block carries.
func ProcessBlock(ctx context.Context, st *containers.State, blk *containers.Block) (*containers.State, error) {
	ctx, span := trace.StartSpan(ctx, "core.transition.ProcessBlock")
	defer span.End()

	st, err := ProcessBlockHeader(ctx, st, blk)
	if err != nil {
		return nil, errors.Wrap(err, "could not process block header")
	}
	st, err = ProcessAttestations(ctx, st, blk.Body.Attestations)
	if err != nil {
		return nil, errors.Wrap(err, "could not process block attestations")
	}
	return st, nil
}

// ProcessBlockHeader validates the block against the state and records the
// parent in the block history.
func ProcessBlockHeader(_ context.Context, st *containers.State, blk *containers.Block) (*containers.State, error) {
	if st == nil {
		return nil, ErrNilState
	}
	if blk == nil {
		return nil, ErrNilBlock
	}
	if st.Config.NumValidators == 0 {
		return nil, ErrNoValidators
	}
	if blk.Slot != st.Slot {
		return nil, errors.Wrapf(ErrBlockSlotMismatch, "block slot %d, state slot %d", blk.Slot, st.Slot)
	}
	if !IsProposer(st, blk.ProposerIndex) {
		return nil, errors.Wrapf(ErrWrongProposer, "proposer %d at slot %d", blk.ProposerIndex, blk.Slot)
	}
	parentSlot := st.LatestBlockHeader.Slot
	if blk.Slot <= parentSlot {
		return nil, errors.Wrapf(ErrBlockSlotMismatch, "block slot %d not after parent slot %d", blk.Slot, parentSlot)
	}
	parentRoot, err := st.LatestBlockHeader.HashTreeRoot()
	if err != nil {
		return nil, errors.Wrap(err, "could not hash latest block header")
	}
	if blk.ParentRoot != parentRoot {
		return nil, errors.Wrapf(ErrParentRootMismatch, "wanted %#x, got %#x", parentRoot, blk.ParentRoot)
	}
	emptySlots := uint64(blk.Slot.SubSlot(parentSlot)) - 1
	if uint64(len(st.HistoricalBlockHashes))+emptySlots+1 > params.BeaconConfig().HistoricalRootsLimit {
		return nil, ErrHistoryLimit
	}

	// The genesis block is justified and finalized by definition, its root
	// only becomes known once a child is applied.
	if parentSlot == 0 {
		st.LatestJustified.Root = parentRoot
		st.LatestFinalized.Root = parentRoot
	}

	zeroHash := params.BeaconConfig().ZeroHash
	bits := make([]bool, 1+emptySlots)
	bits[0] = parentSlot == 0
	st.HistoricalBlockHashes = append(st.HistoricalBlockHashes, parentRoot)
	for i := uint64(0); i < emptySlots; i++ {
		st.HistoricalBlockHashes = append(st.HistoricalBlockHashes, zeroHash)
	}
	st.JustifiedSlots = containers.AppendBits(st.JustifiedSlots, bits...)

	bodyRoot, err := blk.Body.HashTreeRoot()
	if err != nil {
		return nil, errors.Wrap(err, "could not hash block body")
	}
	st.LatestBlockHeader = containers.BlockHeader{
		Slot:          blk.Slot,
		ProposerIndex: blk.ProposerIndex,
		ParentRoot:    blk.ParentRoot,
		BodyRoot:      bodyRoot,
	}
	return st, nil
}

// ProcessAttestations tallies the votes carried by a block, justifying a
// target once two thirds of validators agree on it and finalizing the
// source when no justifiable slot lies between source and target.
// Votes that do not apply to this state are skipped.
func ProcessAttestations(
	ctx context.Context,
	st *containers.State,
	atts []*containers.SignedVote,
) (*containers.State, error) {
	_, span := trace.StartSpan(ctx, "core.transition.ProcessAttestations")
	defer span.End()
	span.AddAttributes(trace.Int64Attribute("attestations", int64(len(atts))))

	if len(atts) == 0 {
		return st, nil
	}
	justifications, err := st.Justifications()
	if err != nil {
		return nil, err
	}
	n := st.Config.NumValidators
	for _, att := range atts {
		if att == nil {
			continue
		}
		vote := att.Data
		if !applicable(st, &vote) {
			log.WithFields(logrus.Fields{
				"validator": vote.ValidatorID,
				"source":    vote.Source.String(),
				"target":    vote.Target.String(),
			}).Trace("Skipping vote")
			continue
		}
		votes, ok := justifications[vote.Target.Root]
		if !ok {
			votes = bitfield.NewBitlist(n)
			justifications[vote.Target.Root] = votes
		}
		votes.SetBitAt(uint64(vote.ValidatorID), true)

		if 3*votes.Count() < 2*n {
			continue
		}
		st.LatestJustified = vote.Target
		st.JustifiedSlots.SetBitAt(uint64(vote.Target.Slot), true)
		delete(justifications, vote.Target.Root)
		log.WithField("checkpoint", vote.Target.String()).Debug("Justified checkpoint")

		if !justifiableBetween(vote.Source.Slot, vote.Target.Slot, st.LatestFinalized.Slot) {
			st.LatestFinalized = vote.Source
			log.WithField("checkpoint", vote.Source.String()).Debug("Finalized checkpoint")
		}
	}
	if err := st.SetJustifications(justifications); err != nil {
		return nil, err
	}
	return st, nil
}

// IsProposer returns true if the validator is scheduled to propose at the state slot.
func IsProposer(st *containers.State, idx primitives.ValidatorIndex) bool {
	if st.Config.NumValidators == 0 {
		return false
	}
	return uint64(st.Slot)%st.Config.NumValidators == uint64(idx)
}

func applicable(st *containers.State, vote *containers.Vote) bool {
	if uint64(vote.ValidatorID) >= st.Config.NumValidators {
		return false
	}
	history := uint64(len(st.HistoricalBlockHashes))
	source, target := uint64(vote.Source.Slot), uint64(vote.Target.Slot)
	if source >= history || target >= history {
		return false
	}
	if source >= st.JustifiedSlots.Len() || target >= st.JustifiedSlots.Len() {
		return false
	}
	if !st.JustifiedSlots.BitAt(source) || st.JustifiedSlots.BitAt(target) {
		return false
	}
	if vote.Source.Root != st.HistoricalBlockHashes[source] || vote.Target.Root != st.HistoricalBlockHashes[target] {
		return false
	}
	if vote.Target.Slot <= vote.Source.Slot {
		return false
	}
	return vote.Target.Slot.IsJustifiableAfter(st.LatestFinalized.Slot)
}

// justifiableBetween reports whether any slot strictly between source and
// target could still be justified after finalized.
func justifiableBetween(source, target, finalized primitives.Slot) bool {
	for s := source + 1; s < target; s++ {
		if s.IsJustifiableAfter(finalized) {
			return true
		}
	}
	return false
}
