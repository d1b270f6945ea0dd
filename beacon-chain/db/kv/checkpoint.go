package kv

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/lean/consensus-types/containers"
	bolt "go.etcd.io/bbolt"
	"go.opencensus.io/trace"
)

var errMissingStateForCheckpoint = errors.New("missing state for checkpoint root")

// JustifiedCheckpoint returns the latest justified checkpoint in the lean chain.
// A zero checkpoint is returned when none was saved.
func (s *Store) JustifiedCheckpoint(ctx context.Context) (*containers.Checkpoint, error) {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.JustifiedCheckpoint")
	defer span.End()
	return s.checkpoint(ctx, justifiedCheckpointKey)
}

// FinalizedCheckpoint returns the latest finalized checkpoint in the lean chain.
// A zero checkpoint is returned when none was saved.
func (s *Store) FinalizedCheckpoint(ctx context.Context) (*containers.Checkpoint, error) {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.FinalizedCheckpoint")
	defer span.End()
	return s.checkpoint(ctx, finalizedCheckpointKey)
}

// SaveJustifiedCheckpoint saves justified checkpoint in the lean chain.
func (s *Store) SaveJustifiedCheckpoint(ctx context.Context, checkpoint *containers.Checkpoint) error {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.SaveJustifiedCheckpoint")
	defer span.End()
	return s.saveCheckpoint(ctx, justifiedCheckpointKey, checkpoint)
}

// SaveFinalizedCheckpoint saves finalized checkpoint in the lean chain.
// The post state of the checkpoint block must already be saved.
func (s *Store) SaveFinalizedCheckpoint(ctx context.Context, checkpoint *containers.Checkpoint) error {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.SaveFinalizedCheckpoint")
	defer span.End()
	return s.saveCheckpoint(ctx, finalizedCheckpointKey, checkpoint)
}

func (s *Store) checkpoint(ctx context.Context, key []byte) (*containers.Checkpoint, error) {
	var checkpoint *containers.Checkpoint
	err := s.db.View(func(tx *bolt.Tx) error {
		enc := tx.Bucket(checkpointBucket).Get(key)
		checkpoint = &containers.Checkpoint{}
		if enc == nil {
			return nil
		}
		return decode(ctx, enc, checkpoint)
	})
	return checkpoint, err
}

func (s *Store) saveCheckpoint(ctx context.Context, key []byte, checkpoint *containers.Checkpoint) error {
	enc, err := encode(ctx, checkpoint)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(stateBucket).Get(checkpoint.Root[:]) == nil {
			return errors.Wrapf(errMissingStateForCheckpoint, "%s", checkpoint)
		}
		return tx.Bucket(checkpointBucket).Put(key, enc)
	})
}
