package kv

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/lean/beacon-chain/db/iface"
	"github.com/prysmaticlabs/lean/consensus-types/containers"
	bolt "go.etcd.io/bbolt"
	"go.opencensus.io/trace"
)

// State returns the saved post state of the block with the given root.
// Decoded states are cached, callers receive a copy.
func (s *Store) State(ctx context.Context, blockRoot [32]byte) (*containers.State, error) {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.State")
	defer span.End()

	if v, ok := s.stateCache.Get(blockRoot); ok {
		if st, ok := v.(*containers.State); ok {
			return st.Copy(), nil
		}
	}
	var st *containers.State
	err := s.db.View(func(tx *bolt.Tx) error {
		enc := tx.Bucket(stateBucket).Get(blockRoot[:])
		if enc == nil {
			return errors.Wrapf(iface.ErrNotFound, "state %#x", blockRoot)
		}
		st = &containers.State{}
		return decode(ctx, enc, st)
	})
	if err != nil {
		return nil, err
	}
	s.stateCache.Add(blockRoot, st)
	return st.Copy(), nil
}

// HasState checks if a state by block root exists in the db.
func (s *Store) HasState(ctx context.Context, blockRoot [32]byte) bool {
	_, span := trace.StartSpan(ctx, "BeaconDB.HasState")
	defer span.End()

	if s.stateCache.Contains(blockRoot) {
		return true
	}
	exists := false
	if err := s.db.View(func(tx *bolt.Tx) error {
		exists = tx.Bucket(stateBucket).Get(blockRoot[:]) != nil
		return nil
	}); err != nil { // This view never returns an error, but we'll handle anyway for sanity.
		panic(err)
	}
	return exists
}

// SaveState stores the post state of the block with the given root.
func (s *Store) SaveState(ctx context.Context, st *containers.State, blockRoot [32]byte) error {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.SaveState")
	defer span.End()

	if st == nil {
		return errors.New("cannot save nil state")
	}
	enc, err := encode(ctx, st)
	if err != nil {
		return err
	}
	if err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(stateBucket).Put(blockRoot[:], enc)
	}); err != nil {
		return err
	}
	s.stateCache.Add(blockRoot, st.Copy())
	return nil
}
