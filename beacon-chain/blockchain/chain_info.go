package blockchain

import (
	"context"

	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/lean/beacon-chain/forkchoice"
	"github.com/prysmaticlabs/lean/consensus-types/containers"
	"github.com/prysmaticlabs/lean/consensus-types/primitives"
	"go.opencensus.io/trace"
)

// ChainInfoFetcher defines a common interface for methods in blockchain service which
// directly retrieve chain info related data.
type ChainInfoFetcher interface {
	HeadFetcher
	FinalizationFetcher
	ForkchoiceFetcher
}

// HeadFetcher defines a common interface for methods in blockchain service which
// directly retrieve head related data.
type HeadFetcher interface {
	Snapshot() Snapshot
	HeadFeed() *event.Feed
}

// FinalizationFetcher defines a common interface for methods in blockchain service which
// directly retrieve finalization and justification related data.
type FinalizationFetcher interface {
	FinalizedState(ctx context.Context) (*containers.State, error)
}

// ForkchoiceFetcher answers queries that need the fork choice store. They are
// served on the store owner.
type ForkchoiceFetcher interface {
	VoteTarget(ctx context.Context) (containers.Checkpoint, error)
	Block(ctx context.Context, root [32]byte) (*containers.Block, error)
}

// Snapshot is the chain view published after every store update.
type Snapshot struct {
	Config      containers.Config
	Time        uint64
	CurrentSlot primitives.Slot
	Head        [32]byte
	HeadSlot    primitives.Slot
	SafeTarget  [32]byte
	Justified   containers.Checkpoint
	Finalized   containers.Checkpoint
	BlockCount  int
}

// HeadEvent is sent on the head feed whenever the head changes.
type HeadEvent struct {
	Slot      primitives.Slot
	Root      [32]byte
	OldRoot   [32]byte
	Justified containers.Checkpoint
	Finalized containers.Checkpoint
}

func newSnapshot(store *forkchoice.Store) Snapshot {
	snap := Snapshot{
		Config:      store.Config(),
		Time:        store.Time(),
		CurrentSlot: store.CurrentSlot(),
		Head:        store.Head(),
		SafeTarget:  store.SafeTarget(),
		Justified:   store.JustifiedCheckpoint(),
		Finalized:   store.FinalizedCheckpoint(),
		BlockCount:  store.BlockCount(),
	}
	if b, err := store.Block(snap.Head); err == nil {
		snap.HeadSlot = b.Slot
	}
	return snap
}

func (s *Service) snapshotCopy() Snapshot {
	s.snapshotLock.RLock()
	defer s.snapshotLock.RUnlock()
	return s.snapshot
}

// Snapshot returns the chain view as of the last store update.
func (s *Service) Snapshot() Snapshot {
	return s.snapshotCopy()
}

// HeadFeed returns the feed of head changes.
func (s *Service) HeadFeed() *event.Feed {
	return &s.headFeed
}

// TickFeed returns the feed of clock ticks, sent after the store processed them.
func (s *Service) TickFeed() *event.Feed {
	return &s.tickFeed
}

// GenesisTime of the chain in unix seconds.
func (s *Service) GenesisTime() uint64 {
	return s.snapshotCopy().Config.GenesisTime
}

// VoteTarget returns the checkpoint an honest validator would vote for now.
func (s *Service) VoteTarget(ctx context.Context) (containers.Checkpoint, error) {
	ctx, span := trace.StartSpan(ctx, "blockchain.VoteTarget")
	defer span.End()

	var target containers.Checkpoint
	err := s.submit(ctx, "vote_target", func(ctx context.Context, store *forkchoice.Store) error {
		var err error
		target, err = store.VoteTarget(ctx)
		return err
	})
	return target, err
}

// Block returns the block with the given root from the store, or from the
// database for blocks no longer held in memory.
func (s *Service) Block(ctx context.Context, root [32]byte) (*containers.Block, error) {
	ctx, span := trace.StartSpan(ctx, "blockchain.Block")
	defer span.End()

	var blk *containers.Block
	err := s.submit(ctx, "block", func(_ context.Context, store *forkchoice.Store) error {
		var err error
		blk, err = store.Block(root)
		return err
	})
	if errors.Is(err, forkchoice.ErrUnknownRoot) && s.cfg.BeaconDB != nil {
		signed, dbErr := s.cfg.BeaconDB.Block(ctx, root)
		if dbErr != nil {
			return nil, err
		}
		return &signed.Message, nil
	}
	return blk, err
}

// FinalizedState returns the post state of the latest finalized block.
func (s *Service) FinalizedState(ctx context.Context) (*containers.State, error) {
	ctx, span := trace.StartSpan(ctx, "blockchain.FinalizedState")
	defer span.End()

	var st *containers.State
	err := s.submit(ctx, "finalized_state", func(_ context.Context, store *forkchoice.Store) error {
		var err error
		st, err = store.State(store.FinalizedCheckpoint().Root)
		return err
	})
	if errors.Is(err, forkchoice.ErrUnknownRoot) && s.cfg.BeaconDB != nil {
		return s.cfg.BeaconDB.State(ctx, s.snapshotCopy().Finalized.Root)
	}
	return st, err
}

var _ ChainInfoFetcher = (*Service)(nil)
