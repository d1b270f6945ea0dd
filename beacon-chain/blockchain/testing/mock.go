// Package testing includes useful mocks for writing unit
// tests which depend on logic from the blockchain package.
package testing

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/event"
	"github.com/prysmaticlabs/lean/beacon-chain/blockchain"
	"github.com/prysmaticlabs/lean/beacon-chain/forkchoice"
	"github.com/prysmaticlabs/lean/consensus-types/containers"
	"github.com/prysmaticlabs/lean/consensus-types/primitives"
)

var (
	_ blockchain.ChainInfoFetcher    = (*ChainService)(nil)
	_ blockchain.BlockReceiver       = (*ChainService)(nil)
	_ blockchain.AttestationReceiver = (*ChainService)(nil)
	_ blockchain.Producer            = (*ChainService)(nil)
)

// ChainService defines the mock interface for testing
type ChainService struct {
	Snap           blockchain.Snapshot
	Blocks         map[[32]byte]*containers.Block
	State          *containers.State
	Target         containers.Checkpoint
	Err            error
	ProducedBlock  *containers.Block
	ReceivedBlocks []*containers.SignedBlock
	ReceivedVotes  []*containers.SignedVote
	feed           event.Feed
	tickFeed       event.Feed
	lock           sync.Mutex
}

// Snapshot mocks the same method in the chain service.
func (s *ChainService) Snapshot() blockchain.Snapshot {
	return s.Snap
}

// HeadFeed mocks the same method in the chain service.
func (s *ChainService) HeadFeed() *event.Feed {
	return &s.feed
}

// TickFeed mocks the same method in the chain service.
func (s *ChainService) TickFeed() *event.Feed {
	return &s.tickFeed
}

// FinalizedState mocks the same method in the chain service.
func (s *ChainService) FinalizedState(_ context.Context) (*containers.State, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.State, nil
}

// VoteTarget mocks the same method in the chain service.
func (s *ChainService) VoteTarget(_ context.Context) (containers.Checkpoint, error) {
	return s.Target, s.Err
}

// Block mocks the same method in the chain service.
func (s *ChainService) Block(_ context.Context, root [32]byte) (*containers.Block, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	blk, ok := s.Blocks[root]
	if !ok {
		return nil, forkchoice.ErrUnknownRoot
	}
	return blk, nil
}

// ReceiveBlock mocks the same method in the chain service.
func (s *ChainService) ReceiveBlock(_ context.Context, blk *containers.SignedBlock) ([32]byte, error) {
	if s.Err != nil {
		return [32]byte{}, s.Err
	}
	s.lock.Lock()
	s.ReceivedBlocks = append(s.ReceivedBlocks, blk)
	s.lock.Unlock()
	return blk.Message.HashTreeRoot()
}

// Received returns copies of the blocks and votes handed to the mock.
func (s *ChainService) Received() ([]*containers.SignedBlock, []*containers.SignedVote) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]*containers.SignedBlock(nil), s.ReceivedBlocks...), append([]*containers.SignedVote(nil), s.ReceivedVotes...)
}

// ReceiveAttestation mocks the same method in the chain service.
func (s *ChainService) ReceiveAttestation(_ context.Context, vote *containers.SignedVote) error {
	if s.Err != nil {
		return s.Err
	}
	s.lock.Lock()
	s.ReceivedVotes = append(s.ReceivedVotes, vote)
	s.lock.Unlock()
	return nil
}

// ProduceBlock mocks the same method in the chain service.
func (s *ChainService) ProduceBlock(_ context.Context, slot primitives.Slot, proposer primitives.ValidatorIndex) (*containers.Block, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.ProducedBlock != nil {
		return s.ProducedBlock, nil
	}
	return &containers.Block{Slot: slot, ProposerIndex: proposer, Body: containers.BlockBody{Attestations: []*containers.SignedVote{}}}, nil
}

// ProduceVote mocks the same method in the chain service.
func (s *ChainService) ProduceVote(_ context.Context, slot primitives.Slot, validator primitives.ValidatorIndex) (*containers.Vote, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return &containers.Vote{
		ValidatorID: validator,
		Slot:        slot,
		Head:        containers.Checkpoint{Root: s.Snap.Head, Slot: s.Snap.HeadSlot},
		Target:      s.Target,
		Source:      s.Snap.Justified,
	}, nil
}
