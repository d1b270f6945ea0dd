// Package iface defines the actual database interface used
// by a lean node, also containing useful, scoped interfaces such as
// a ReadOnlyDatabase.
package iface

import (
	"context"
	"errors"
	"io"

	"github.com/prysmaticlabs/lean/consensus-types/containers"
	"github.com/prysmaticlabs/lean/consensus-types/primitives"
)

// ErrNotFound is returned when a requested value is not in the database.
var ErrNotFound = errors.New("not found in db")

// ReadOnlyDatabase defines a struct which only has read access to database methods.
type ReadOnlyDatabase interface {
	// Block related methods.
	Block(ctx context.Context, blockRoot [32]byte) (*containers.SignedBlock, error)
	HasBlock(ctx context.Context, blockRoot [32]byte) bool
	BlockRootsBySlot(ctx context.Context, slot primitives.Slot) ([][32]byte, error)
	GenesisBlockRoot(ctx context.Context) ([32]byte, error)
	HeadBlockRoot(ctx context.Context) ([32]byte, error)
	// State related methods.
	State(ctx context.Context, blockRoot [32]byte) (*containers.State, error)
	HasState(ctx context.Context, blockRoot [32]byte) bool
	// Checkpoint operations.
	JustifiedCheckpoint(ctx context.Context) (*containers.Checkpoint, error)
	FinalizedCheckpoint(ctx context.Context) (*containers.Checkpoint, error)
}

// NoHeadAccessDatabase defines a struct without access to chain head data.
type NoHeadAccessDatabase interface {
	ReadOnlyDatabase

	// Block related methods.
	SaveBlock(ctx context.Context, block *containers.SignedBlock) error
	SaveGenesisBlockRoot(ctx context.Context, blockRoot [32]byte) error
	// State related methods.
	SaveState(ctx context.Context, state *containers.State, blockRoot [32]byte) error
	// Checkpoint operations.
	SaveJustifiedCheckpoint(ctx context.Context, checkpoint *containers.Checkpoint) error
	SaveFinalizedCheckpoint(ctx context.Context, checkpoint *containers.Checkpoint) error
}

// HeadAccessDatabase defines a struct with access to reading chain head data.
type HeadAccessDatabase interface {
	NoHeadAccessDatabase

	SaveHeadBlockRoot(ctx context.Context, blockRoot [32]byte) error
}

// Database interface with full access.
type Database interface {
	io.Closer
	HeadAccessDatabase

	DatabasePath() string
	ClearDB() error
}
