package transition

import "github.com/pkg/errors"

var (
	// ErrNilState is returned when a nil state is passed to the transition.
	ErrNilState = errors.New("nil state")
	// ErrNilBlock is returned when a nil block is passed to the transition.
	ErrNilBlock = errors.New("nil block")
	// ErrNoValidators is returned when the state config has no validators.
	ErrNoValidators = errors.New("state has no validators")
	// ErrSlotNotAhead is returned when slots are processed up to a slot that is not ahead of the state.
	ErrSlotNotAhead = errors.New("target slot must be greater than state slot")
	// ErrBlockSlotMismatch is returned when the block slot differs from the state slot.
	ErrBlockSlotMismatch = errors.New("block slot does not match state slot")
	// ErrWrongProposer is returned when the block proposer is not scheduled for the slot.
	ErrWrongProposer = errors.New("incorrect block proposer")
	// ErrParentRootMismatch is returned when the block parent is not the latest block header.
	ErrParentRootMismatch = errors.New("block parent root does not match latest block header")
	// ErrStateRootMismatch is returned when the post state root differs from the block state root.
	ErrStateRootMismatch = errors.New("block state root does not match post state root")
	// ErrHistoryLimit is returned when the historical block hashes would exceed their limit.
	ErrHistoryLimit = errors.New("historical block hashes limit exceeded")
)
