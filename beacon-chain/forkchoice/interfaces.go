package forkchoice

import (
	"context"

	"github.com/prysmaticlabs/lean/consensus-types/containers"
	"github.com/prysmaticlabs/lean/consensus-types/primitives"
)

// ForkChoicer represents the full fork choice interface composed of all the sub-interfaces.
type ForkChoicer interface {
	TimeProcessor        // to advance the store clock.
	BlockProcessor       // to track new block for fork choice.
	AttestationProcessor // to track new attestation for fork choice.
	HeadRetriever        // to compute head and targets.
	Getter               // to retrieve fork choice information.
}

// TimeProcessor advances the store clock.
type TimeProcessor interface {
	OnTick(ctx context.Context, time uint64) error
	CurrentSlot() primitives.Slot
}

// BlockProcessor processes the block that's used for accounting fork choice.
type BlockProcessor interface {
	OnBlock(ctx context.Context, blk *containers.Block) ([32]byte, error)
}

// AttestationProcessor processes the attestation that's used for accounting fork choice.
type AttestationProcessor interface {
	ValidateAttestation(vote *containers.Vote) error
	OnAttestation(ctx context.Context, vote *containers.Vote) error
}

// HeadRetriever recomputes the head, the safe target and the vote target.
type HeadRetriever interface {
	UpdateHead(ctx context.Context) error
	UpdateSafeTarget(ctx context.Context) error
	AcceptNewVotes(ctx context.Context) error
	ProposalHead(ctx context.Context, slot primitives.Slot) ([32]byte, error)
	VoteTarget(ctx context.Context) (containers.Checkpoint, error)
}

// Getter returns fork choice related information.
type Getter interface {
	Head() [32]byte
	SafeTarget() [32]byte
	JustifiedCheckpoint() containers.Checkpoint
	FinalizedCheckpoint() containers.Checkpoint
	Time() uint64
	HasBlock(root [32]byte) bool
	Block(root [32]byte) (*containers.Block, error)
	State(root [32]byte) (*containers.State, error)
	AncestorRoot(root [32]byte, slot primitives.Slot) ([32]byte, error)
	BlockCount() int
	KnownVotes() map[primitives.ValidatorIndex]containers.Vote
	NewVotes() map[primitives.ValidatorIndex]containers.Vote
	Weights() map[[32]byte]uint64
}

// StateTransitionFunc computes the post state of a block applied to a copy
// of its parent state. The parent must not be modified.
type StateTransitionFunc func(ctx context.Context, parent *containers.State, blk *containers.Block) (*containers.State, error)

var _ ForkChoicer = (*Store)(nil)
