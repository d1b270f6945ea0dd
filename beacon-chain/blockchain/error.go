package blockchain

import "github.com/pkg/errors"

var (
	// ErrServiceStopped is returned for requests submitted after the service stopped.
	ErrServiceStopped = errors.New("blockchain service is stopped")
	// ErrNotInitialized is returned when the store has not been created yet.
	ErrNotInitialized = errors.New("fork choice store is not initialized")
	// ErrNotProposer is returned when a block is requested from a validator that is not the slot proposer.
	ErrNotProposer = errors.New("validator is not the proposer of the slot")
	// ErrNilBlock is returned when a nil block is received.
	ErrNilBlock = errors.New("nil block")
	// ErrNilVote is returned when a nil vote is received.
	ErrNilVote = errors.New("nil vote")
	// errNoGenesis is returned when neither a genesis state nor a validator count is configured.
	errNoGenesis = errors.New("no genesis state or validator count configured")
)
