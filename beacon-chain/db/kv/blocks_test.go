package kv

import (
	"context"
	"testing"

	"github.com/prysmaticlabs/lean/beacon-chain/db/iface"
	"github.com/prysmaticlabs/lean/consensus-types/containers"
	"github.com/prysmaticlabs/lean/consensus-types/primitives"
	"github.com/prysmaticlabs/lean/testing/assert"
	"github.com/prysmaticlabs/lean/testing/require"
	"github.com/prysmaticlabs/lean/testing/util"
)

func TestStore_SaveBlock_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	st, genesis := util.DeterministicGenesisState(t, 4)
	blk, _, err := util.GenerateBlock(ctx, st, 1)
	require.NoError(t, err)
	signed := &containers.SignedBlock{Message: *blk, Signature: [32]byte{'s'}}
	root := util.Root(t, blk)

	assert.Equal(t, false, db.HasBlock(ctx, root))
	require.NoError(t, db.SaveBlock(ctx, signed))
	assert.Equal(t, true, db.HasBlock(ctx, root))

	got, err := db.Block(ctx, root)
	require.NoError(t, err)
	gotRoot, err := got.Message.HashTreeRoot()
	require.NoError(t, err)
	assert.Equal(t, root, gotRoot)
	assert.Equal(t, signed.Signature, got.Signature)

	_, err = db.Block(ctx, util.Root(t, genesis))
	require.ErrorIs(t, err, iface.ErrNotFound)
}

func TestStore_BlockRootsBySlot(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	st, _ := util.DeterministicGenesisState(t, 4)
	a, _, err := util.GenerateBlock(ctx, st, 2)
	require.NoError(t, err)
	b, _, err := util.GenerateBlock(ctx, st, 2, util.NewVote(0, 1, containers.Checkpoint{}, containers.Checkpoint{}, containers.Checkpoint{}))
	require.NoError(t, err)

	for _, blk := range []*containers.Block{a, b, a} {
		require.NoError(t, db.SaveBlock(ctx, &containers.SignedBlock{Message: *blk}))
	}
	roots, err := db.BlockRootsBySlot(ctx, 2)
	require.NoError(t, err)
	assert.DeepEqual(t, [][32]byte{util.Root(t, a), util.Root(t, b)}, roots)

	roots, err = db.BlockRootsBySlot(ctx, primitives.Slot(3))
	require.NoError(t, err)
	assert.Equal(t, 0, len(roots))
}

func TestStore_HeadBlockRoot(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	st, genesis := util.DeterministicGenesisState(t, 4)
	root := util.Root(t, genesis)

	_, err := db.HeadBlockRoot(ctx)
	require.ErrorIs(t, err, iface.ErrNotFound)
	require.ErrorIs(t, db.SaveHeadBlockRoot(ctx, root), iface.ErrNotFound)

	require.NoError(t, db.SaveBlock(ctx, &containers.SignedBlock{Message: *genesis}))
	require.NoError(t, db.SaveState(ctx, st, root))
	require.NoError(t, db.SaveHeadBlockRoot(ctx, root))
	got, err := db.HeadBlockRoot(ctx)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}
