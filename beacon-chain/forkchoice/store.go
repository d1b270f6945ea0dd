// Package forkchoice implements the LMD-GHOST fork choice store: it indexes
// every known block with its post state, stages validator votes and derives
// the head, safe target and justified/finalized checkpoints from them.
//
// The store is not safe for concurrent use. All mutating calls must come from
// a single owner, the blockchain service serializes them on one goroutine.
package forkchoice

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/lean/beacon-chain/core/transition"
	"github.com/prysmaticlabs/lean/config/params"
	"github.com/prysmaticlabs/lean/consensus-types/containers"
	"github.com/prysmaticlabs/lean/consensus-types/primitives"
	"github.com/prysmaticlabs/lean/encoding/bytesutil"
	"github.com/sirupsen/logrus"
)

// Store holds the fork choice view of the chain.
type Store struct {
	time   uint64
	config containers.Config

	head            [32]byte
	safeTarget      [32]byte
	latestJustified containers.Checkpoint
	latestFinalized containers.Checkpoint

	// anchor is the oldest block kept, its parent is never known.
	anchor [32]byte
	blocks map[[32]byte]*containers.Block
	states map[[32]byte]*containers.State

	knownVotes map[primitives.ValidatorIndex]containers.Vote
	newVotes   map[primitives.ValidatorIndex]containers.Vote

	stateTransition StateTransitionFunc
	pruneThreshold  primitives.Slot
}

// Option configures a Store.
type Option func(*Store)

// WithStateTransition replaces the function used to compute block post states.
func WithStateTransition(f StateTransitionFunc) Option {
	return func(s *Store) {
		s.stateTransition = f
	}
}

// WithPruneThreshold sets how many slots finality must advance past the
// anchor before old blocks are dropped. Zero disables pruning.
func WithPruneThreshold(slots primitives.Slot) Option {
	return func(s *Store) {
		s.pruneThreshold = slots
	}
}

// New initializes a store from an anchor block and its post state. The state
// root must equal the block's state root.
func New(anchorBlock *containers.Block, anchorState *containers.State, opts ...Option) (*Store, error) {
	if anchorBlock == nil || anchorState == nil {
		return nil, errors.Wrap(ErrInvalidAnchor, "nil anchor")
	}
	stateRoot, err := anchorState.HashTreeRoot()
	if err != nil {
		return nil, errors.Wrap(err, "could not hash anchor state")
	}
	if stateRoot != anchorBlock.StateRoot {
		return nil, errors.Wrapf(ErrInvalidAnchor, "block state root %#x, state root %#x", anchorBlock.StateRoot, stateRoot)
	}
	root, err := anchorBlock.HashTreeRoot()
	if err != nil {
		return nil, errors.Wrap(err, "could not hash anchor block")
	}
	anchorCheckpoint := containers.Checkpoint{Root: root, Slot: anchorBlock.Slot}

	cfg := params.BeaconConfig()
	s := &Store{
		time:            anchorState.Config.GenesisTime + uint64(anchorBlock.Slot)*cfg.SecondsPerSlot,
		config:          anchorState.Config,
		head:            root,
		safeTarget:      root,
		latestJustified: anchorCheckpoint,
		latestFinalized: anchorCheckpoint,
		anchor:          root,
		blocks:          map[[32]byte]*containers.Block{root: anchorBlock.Copy()},
		states:          map[[32]byte]*containers.State{root: anchorState.Copy()},
		knownVotes:      make(map[primitives.ValidatorIndex]containers.Vote),
		newVotes:        make(map[primitives.ValidatorIndex]containers.Vote),
		stateTransition: transition.StateTransition,
		pruneThreshold:  cfg.PruneThresholdSlots,
	}
	// Checkpoints recorded in the anchor state are only kept when they name
	// the anchor itself, earlier blocks are not part of the store.
	if anchorState.LatestJustified.Root == root {
		s.latestJustified = anchorState.LatestJustified
	}
	if anchorState.LatestFinalized.Root == root {
		s.latestFinalized = anchorState.LatestFinalized
	}
	for _, o := range opts {
		o(s)
	}
	s.updateMetrics()
	log.WithFields(logrus.Fields{
		"slot": anchorBlock.Slot,
		"root": fmt.Sprintf("%#x", bytesutil.Trunc(root[:])),
	}).Info("Initialized fork choice store")
	return s, nil
}

// Head returns the current head root.
func (s *Store) Head() [32]byte {
	return s.head
}

// SafeTarget returns the current safe target root.
func (s *Store) SafeTarget() [32]byte {
	return s.safeTarget
}

// JustifiedCheckpoint returns the latest justified checkpoint.
func (s *Store) JustifiedCheckpoint() containers.Checkpoint {
	return s.latestJustified
}

// FinalizedCheckpoint returns the latest finalized checkpoint.
func (s *Store) FinalizedCheckpoint() containers.Checkpoint {
	return s.latestFinalized
}

// Time returns the store clock in seconds.
func (s *Store) Time() uint64 {
	return s.time
}

// Config returns the chain config of the anchor state.
func (s *Store) Config() containers.Config {
	return s.config
}

// AnchorRoot returns the root of the oldest block in the store.
func (s *Store) AnchorRoot() [32]byte {
	return s.anchor
}

// HasBlock returns true if the block is in the store.
func (s *Store) HasBlock(root [32]byte) bool {
	_, ok := s.blocks[root]
	return ok
}

// Block returns a copy of the block with the given root.
func (s *Store) Block(root [32]byte) (*containers.Block, error) {
	b, ok := s.blocks[root]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownRoot, "%#x", root)
	}
	return b.Copy(), nil
}

// State returns a copy of the post state of the block with the given root.
func (s *Store) State(root [32]byte) (*containers.State, error) {
	st, ok := s.states[root]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownRoot, "%#x", root)
	}
	return st.Copy(), nil
}

// BlockCount returns the number of blocks in the store.
func (s *Store) BlockCount() int {
	return len(s.blocks)
}

// KnownVotes returns a copy of the votes counted towards the head.
func (s *Store) KnownVotes() map[primitives.ValidatorIndex]containers.Vote {
	return copyVotes(s.knownVotes)
}

// NewVotes returns a copy of the votes not yet counted towards the head.
func (s *Store) NewVotes() map[primitives.ValidatorIndex]containers.Vote {
	return copyVotes(s.newVotes)
}

// Weights returns the weight of every block above the justified root
// computed from the known votes.
func (s *Store) Weights() map[[32]byte]uint64 {
	root := s.latestJustified.Root
	b, ok := s.blocks[root]
	if !ok {
		return map[[32]byte]uint64{}
	}
	return computeWeights(s.blocks, b.Slot, s.knownVotes)
}

// AncestorRoot returns the root of the ancestor of root at or before slot.
func (s *Store) AncestorRoot(root [32]byte, slot primitives.Slot) ([32]byte, error) {
	b, ok := s.blocks[root]
	if !ok {
		return [32]byte{}, errors.Wrapf(ErrUnknownRoot, "%#x", root)
	}
	for b.Slot > slot {
		parent, ok := s.blocks[b.ParentRoot]
		if !ok {
			return [32]byte{}, errors.Wrapf(ErrUnknownRoot, "no ancestor of %#x at slot %d", root, slot)
		}
		root = b.ParentRoot
		b = parent
	}
	return root, nil
}

// CurrentSlot returns the slot of the store clock.
func (s *Store) CurrentSlot() primitives.Slot {
	cfg := params.BeaconConfig()
	if s.time < s.config.GenesisTime || cfg.SecondsPerSlot == 0 {
		return 0
	}
	return primitives.Slot((s.time - s.config.GenesisTime) / cfg.SecondsPerSlot)
}

func (s *Store) insert(root [32]byte, blk *containers.Block, st *containers.State) {
	s.blocks[root] = blk
	s.states[root] = st
	s.assertConsistent()
}

// assertConsistent panics when the block and state indexes diverge. The
// store cannot produce correct decisions past that point.
func (s *Store) assertConsistent() {
	if len(s.blocks) != len(s.states) {
		panic(errors.Wrapf(errInconsistentStore, "%d blocks, %d states", len(s.blocks), len(s.states)))
	}
}

func (s *Store) updateMetrics() {
	if b, ok := s.blocks[s.head]; ok {
		headSlotNumber.Set(float64(b.Slot))
	}
	if b, ok := s.blocks[s.safeTarget]; ok {
		safeTargetSlotNumber.Set(float64(b.Slot))
	}
	justifiedSlotNumber.Set(float64(s.latestJustified.Slot))
	finalizedSlotNumber.Set(float64(s.latestFinalized.Slot))
	blockCount.Set(float64(len(s.blocks)))
}

func copyVotes(votes map[primitives.ValidatorIndex]containers.Vote) map[primitives.ValidatorIndex]containers.Vote {
	cpy := make(map[primitives.ValidatorIndex]containers.Vote, len(votes))
	for k, v := range votes {
		cpy[k] = v
	}
	return cpy
}
