package kv

import (
	"context"
	"testing"

	"github.com/prysmaticlabs/lean/testing/require"
)

// setupDB instantiates and returns a Store instance.
func setupDB(t testing.TB) *Store {
	db, err := NewKVStore(context.Background(), t.TempDir())
	require.NoError(t, err, "Failed to instantiate DB")
	t.Cleanup(func() {
		require.NoError(t, db.Close(), "Failed to close database")
	})
	return db
}

func TestStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	db, err := NewKVStore(ctx, dir)
	require.NoError(t, err)
	root := [32]byte{'r'}
	require.NoError(t, db.SaveGenesisBlockRoot(ctx, root))
	require.NoError(t, db.Close())

	db, err = NewKVStore(ctx, dir)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, db.Close())
	}()
	got, err := db.GenesisBlockRoot(ctx)
	require.NoError(t, err)
	require.Equal(t, root, got)
	require.Equal(t, dir, db.DatabasePath())
}

func TestStore_ClearDB(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	db, err := NewKVStore(ctx, dir)
	require.NoError(t, err)
	require.NoError(t, db.SaveGenesisBlockRoot(ctx, [32]byte{'r'}))
	require.NoError(t, db.ClearDB())
	require.NoError(t, db.Close())

	db, err = NewKVStore(ctx, dir)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, db.Close())
	}()
	_, err = db.GenesisBlockRoot(ctx)
	require.ErrorContains(t, "not found", err)
}
