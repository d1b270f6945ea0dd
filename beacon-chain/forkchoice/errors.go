package forkchoice

import "github.com/pkg/errors"

var (
	// ErrUnknownParent is returned when a block's parent is not in the store.
	ErrUnknownParent = errors.New("unknown parent block")
	// ErrInvalidStateTransition is returned when the state transition rejects a block.
	ErrInvalidStateTransition = errors.New("invalid state transition")
	// ErrStateRootMismatch is returned when a block's state root differs from the computed post state root.
	ErrStateRootMismatch = errors.New("state root mismatch")
	// ErrUnknownCheckpoint is returned when a vote names a block that is not in the store.
	ErrUnknownCheckpoint = errors.New("vote references unknown block")
	// ErrStaleTick is returned when a tick does not advance the store time.
	ErrStaleTick = errors.New("tick time is not after store time")
	// ErrInvalidAnchor is returned when the anchor state does not match the anchor block.
	ErrInvalidAnchor = errors.New("anchor state root does not match anchor block")
	// ErrUnknownRoot is returned when a lookup names a block that is not in the store.
	ErrUnknownRoot = errors.New("unknown block root")
	// ErrInvalidVote is returned when a vote's checkpoints are inconsistent.
	ErrInvalidVote = errors.New("invalid vote")
	// ErrFutureVote is returned when a vote is for a slot too far ahead of the store clock.
	ErrFutureVote = errors.New("vote slot is in the future")
	// ErrNilBlock is returned when a nil block is given to the store.
	ErrNilBlock = errors.New("nil block")

	errInconsistentStore = errors.New("blocks and states key sets diverged")
)

// transitionError keeps the state transition's own error reachable through
// errors.Is while still matching ErrInvalidStateTransition.
type transitionError struct {
	err error
}

func (e *transitionError) Error() string {
	return ErrInvalidStateTransition.Error() + ": " + e.err.Error()
}

func (e *transitionError) Unwrap() error {
	return e.err
}

func (e *transitionError) Is(target error) bool {
	return target == ErrInvalidStateTransition
}
