// Package containers defines the consensus data model: checkpoints, votes,
// blocks and the per-block chain state.
package containers

import (
	"fmt"

	"github.com/prysmaticlabs/go-bitfield"
	"github.com/prysmaticlabs/lean/consensus-types/primitives"
	"github.com/prysmaticlabs/lean/encoding/bytesutil"
)

// Checkpoint names a block by root together with the slot it was proposed in.
type Checkpoint struct {
	Root [32]byte
	Slot primitives.Slot
}

// String implements fmt.Stringer.
func (c Checkpoint) String() string {
	return fmt.Sprintf("%d/%#x", c.Slot, bytesutil.Trunc(c.Root[:]))
}

// Config holds the chain parameters embedded in every state.
type Config struct {
	NumValidators uint64
	GenesisTime   uint64
}

// Vote is a single validator's view of the chain at a slot.
type Vote struct {
	ValidatorID primitives.ValidatorIndex
	Slot        primitives.Slot
	Head        Checkpoint
	Target      Checkpoint
	Source      Checkpoint
}

// SignedVote wraps a vote with its opaque signature.
type SignedVote struct {
	Data      Vote
	Signature [32]byte
}

// BlockHeader is the summary of a block kept in the state.
type BlockHeader struct {
	Slot          primitives.Slot
	ProposerIndex primitives.ValidatorIndex
	ParentRoot    [32]byte
	StateRoot     [32]byte
	BodyRoot      [32]byte
}

// BlockBody carries the votes included by the proposer.
type BlockBody struct {
	Attestations []*SignedVote
}

// Block is a proposal for a slot.
type Block struct {
	Slot          primitives.Slot
	ProposerIndex primitives.ValidatorIndex
	ParentRoot    [32]byte
	StateRoot     [32]byte
	Body          BlockBody
}

// SignedBlock wraps a block with its opaque signature.
type SignedBlock struct {
	Message   Block
	Signature [32]byte
}

// State is the chain state derived from a block and its ancestry.
type State struct {
	Config            Config
	Slot              primitives.Slot
	LatestBlockHeader BlockHeader

	LatestJustified Checkpoint
	LatestFinalized Checkpoint

	HistoricalBlockHashes [][32]byte
	JustifiedSlots        bitfield.Bitlist

	// Justification tallies flattened into sorted roots and a bitlist of
	// NumValidators bits per root.
	JustificationRoots      [][32]byte
	JustificationValidators bitfield.Bitlist
}

// Header returns the header summarizing the block.
func (b *Block) Header() (*BlockHeader, error) {
	bodyRoot, err := b.Body.HashTreeRoot()
	if err != nil {
		return nil, err
	}
	return &BlockHeader{
		Slot:          b.Slot,
		ProposerIndex: b.ProposerIndex,
		ParentRoot:    b.ParentRoot,
		StateRoot:     b.StateRoot,
		BodyRoot:      bodyRoot,
	}, nil
}

// Votes returns the vote data carried in the block body.
func (b *Block) Votes() []Vote {
	votes := make([]Vote, 0, len(b.Body.Attestations))
	for _, att := range b.Body.Attestations {
		if att == nil {
			continue
		}
		votes = append(votes, att.Data)
	}
	return votes
}

// Copy returns a deep copy of the block.
func (b *Block) Copy() *Block {
	if b == nil {
		return nil
	}
	cpy := *b
	cpy.Body.Attestations = make([]*SignedVote, len(b.Body.Attestations))
	for i, att := range b.Body.Attestations {
		if att == nil {
			continue
		}
		a := *att
		cpy.Body.Attestations[i] = &a
	}
	return &cpy
}

// Copy returns a deep copy of the state.
func (s *State) Copy() *State {
	if s == nil {
		return nil
	}
	cpy := *s
	cpy.HistoricalBlockHashes = append([][32]byte(nil), s.HistoricalBlockHashes...)
	cpy.JustifiedSlots = append(bitfield.Bitlist(nil), s.JustifiedSlots...)
	cpy.JustificationRoots = append([][32]byte(nil), s.JustificationRoots...)
	cpy.JustificationValidators = append(bitfield.Bitlist(nil), s.JustificationValidators...)
	return &cpy
}
