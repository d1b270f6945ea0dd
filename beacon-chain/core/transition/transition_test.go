package transition_test

import (
	"context"
	"testing"

	"github.com/prysmaticlabs/lean/beacon-chain/core/transition"
	"github.com/prysmaticlabs/lean/consensus-types/containers"
	"github.com/prysmaticlabs/lean/consensus-types/primitives"
	"github.com/prysmaticlabs/lean/testing/assert"
	"github.com/prysmaticlabs/lean/testing/require"
	"github.com/prysmaticlabs/lean/testing/util"
)

func TestGenesisState(t *testing.T) {
	st, err := transition.GenesisState(1700, 4)
	require.NoError(t, err)
	assert.Equal(t, primitives.Slot(0), st.Slot)
	assert.Equal(t, uint64(4), st.Config.NumValidators)
	assert.Equal(t, uint64(1700), st.Config.GenesisTime)
	assert.Equal(t, 0, len(st.HistoricalBlockHashes))
	assert.Equal(t, [32]byte{}, st.LatestJustified.Root)

	blk, err := transition.GenesisBlock(st)
	require.NoError(t, err)
	stRoot, err := st.HashTreeRoot()
	require.NoError(t, err)
	assert.Equal(t, stRoot, blk.StateRoot)

	_, err = transition.GenesisState(0, 0)
	require.ErrorIs(t, err, transition.ErrNoValidators)
}

func TestProcessSlots_FillsHeaderStateRoot(t *testing.T) {
	st, genesisBlk := util.DeterministicGenesisState(t, 4)
	preRoot, err := st.HashTreeRoot()
	require.NoError(t, err)

	post, err := transition.ProcessSlots(context.Background(), st.Copy(), 3)
	require.NoError(t, err)
	assert.Equal(t, primitives.Slot(3), post.Slot)
	assert.Equal(t, preRoot, post.LatestBlockHeader.StateRoot)

	headerRoot, err := post.LatestBlockHeader.HashTreeRoot()
	require.NoError(t, err)
	assert.Equal(t, util.Root(t, genesisBlk), headerRoot, "header root should equal the block root")
}

func TestProcessSlots_NotAhead(t *testing.T) {
	st, _ := util.DeterministicGenesisState(t, 4)
	st.Slot = 5
	_, err := transition.ProcessSlots(context.Background(), st, 5)
	require.ErrorIs(t, err, transition.ErrSlotNotAhead)
	_, err = transition.ProcessSlots(context.Background(), st, 4)
	require.ErrorIs(t, err, transition.ErrSlotNotAhead)
}

func TestProcessSlots_ContextCanceled(t *testing.T) {
	st, _ := util.DeterministicGenesisState(t, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := transition.ProcessSlots(ctx, st, 2)
	require.ErrorIs(t, err, context.Canceled)
}

func TestStateTransition_FirstBlock(t *testing.T) {
	ctx := context.Background()
	genesis, genesisBlk := util.DeterministicGenesisState(t, 4)
	genesisRoot := util.Root(t, genesisBlk)

	blk, post, err := util.GenerateBlock(ctx, genesis, 1)
	require.NoError(t, err)
	assert.Equal(t, genesisRoot, blk.ParentRoot)
	assert.Equal(t, primitives.ValidatorIndex(1), blk.ProposerIndex)

	assert.Equal(t, primitives.Slot(1), post.Slot)
	require.Equal(t, 1, len(post.HistoricalBlockHashes))
	assert.Equal(t, genesisRoot, post.HistoricalBlockHashes[0])
	assert.Equal(t, uint64(1), post.JustifiedSlots.Len())
	assert.Equal(t, true, post.JustifiedSlots.BitAt(0))
	assert.Equal(t, genesisRoot, post.LatestJustified.Root)
	assert.Equal(t, genesisRoot, post.LatestFinalized.Root)
	assert.Equal(t, [32]byte{}, post.LatestBlockHeader.StateRoot)

	// The parent is never touched.
	assert.Equal(t, primitives.Slot(0), genesis.Slot)
	assert.Equal(t, 0, len(genesis.HistoricalBlockHashes))
}

func TestStateTransition_SkippedSlots(t *testing.T) {
	ctx := context.Background()
	genesis, genesisBlk := util.DeterministicGenesisState(t, 4)
	blk1, st1, err := util.GenerateBlock(ctx, genesis, 1)
	require.NoError(t, err)
	_, st4, err := util.GenerateBlock(ctx, st1, 4)
	require.NoError(t, err)

	want := [][32]byte{util.Root(t, genesisBlk), util.Root(t, blk1), {}, {}}
	assert.DeepEqual(t, want, st4.HistoricalBlockHashes)
	require.Equal(t, uint64(4), st4.JustifiedSlots.Len())
	assert.Equal(t, true, st4.JustifiedSlots.BitAt(0))
	for i := uint64(1); i < 4; i++ {
		assert.Equal(t, false, st4.JustifiedSlots.BitAt(i))
	}
}

func TestProcessBlockHeader_Rejections(t *testing.T) {
	ctx := context.Background()
	genesis, _ := util.DeterministicGenesisState(t, 4)
	blk, _, err := util.GenerateBlock(ctx, genesis, 1)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(b *containers.Block)
		want   error
	}{
		{
			name:   "wrong proposer",
			mutate: func(b *containers.Block) { b.ProposerIndex = 2 },
			want:   transition.ErrWrongProposer,
		},
		{
			name:   "wrong parent",
			mutate: func(b *containers.Block) { b.ParentRoot = [32]byte{'x'} },
			want:   transition.ErrParentRootMismatch,
		},
		{
			name:   "block at genesis slot",
			mutate: func(b *containers.Block) { b.Slot = 0; b.ProposerIndex = 0 },
			want:   transition.ErrBlockSlotMismatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := blk.Copy()
			tt.mutate(b)
			_, err := transition.StateTransition(ctx, genesis, b)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestStateTransition_NilInputs(t *testing.T) {
	genesis, _ := util.DeterministicGenesisState(t, 4)
	_, err := transition.StateTransition(context.Background(), nil, &containers.Block{Slot: 1})
	require.ErrorIs(t, err, transition.ErrNilState)
	_, err = transition.StateTransition(context.Background(), genesis, nil)
	require.ErrorIs(t, err, transition.ErrNilBlock)
}

func TestProcessAttestations_JustifiesAndFinalizes(t *testing.T) {
	ctx := context.Background()
	genesis, genesisBlk := util.DeterministicGenesisState(t, 4)
	source := containers.Checkpoint{Root: util.Root(t, genesisBlk), Slot: 0}
	blk1, st1, err := util.GenerateBlock(ctx, genesis, 1)
	require.NoError(t, err)
	target, err := util.Checkpoint(blk1)
	require.NoError(t, err)

	votes := []*containers.SignedVote{
		util.NewVote(0, 1, target, target, source),
		util.NewVote(1, 1, target, target, source),
		util.NewVote(2, 1, target, target, source),
	}
	_, st2, err := util.GenerateBlock(ctx, st1, 2, votes...)
	require.NoError(t, err)

	assert.Equal(t, target, st2.LatestJustified)
	assert.Equal(t, source, st2.LatestFinalized)
	assert.Equal(t, true, st2.JustifiedSlots.BitAt(1))
	assert.Equal(t, 0, len(st2.JustificationRoots), "justified roots stop being tallied")
}

func TestProcessAttestations_TalliesBelowThreshold(t *testing.T) {
	ctx := context.Background()
	genesis, genesisBlk := util.DeterministicGenesisState(t, 4)
	source := containers.Checkpoint{Root: util.Root(t, genesisBlk), Slot: 0}
	blk1, st1, err := util.GenerateBlock(ctx, genesis, 1)
	require.NoError(t, err)
	target, err := util.Checkpoint(blk1)
	require.NoError(t, err)

	votes := []*containers.SignedVote{
		util.NewVote(0, 1, target, target, source),
		util.NewVote(3, 1, target, target, source),
		// Duplicate votes count once.
		util.NewVote(3, 1, target, target, source),
	}
	_, st2, err := util.GenerateBlock(ctx, st1, 2, votes...)
	require.NoError(t, err)

	assert.Equal(t, source, st2.LatestJustified)
	require.Equal(t, 1, len(st2.JustificationRoots))
	assert.Equal(t, target.Root, st2.JustificationRoots[0])
	justifications, err := st2.Justifications()
	require.NoError(t, err)
	tally := justifications[target.Root]
	assert.Equal(t, uint64(2), tally.Count())
	assert.Equal(t, true, tally.BitAt(0))
	assert.Equal(t, true, tally.BitAt(3))

	// A third vote in a later block completes the justification.
	_, st3, err := util.GenerateBlock(ctx, st2, 3, util.NewVote(1, 2, target, target, source))
	require.NoError(t, err)
	assert.Equal(t, target, st3.LatestJustified)
	assert.Equal(t, 0, len(st3.JustificationRoots))
}

func TestProcessAttestations_SkipsInapplicableVotes(t *testing.T) {
	ctx := context.Background()
	genesis, genesisBlk := util.DeterministicGenesisState(t, 4)
	source := containers.Checkpoint{Root: util.Root(t, genesisBlk), Slot: 0}
	blk1, st1, err := util.GenerateBlock(ctx, genesis, 1)
	require.NoError(t, err)
	target, err := util.Checkpoint(blk1)
	require.NoError(t, err)

	tests := []struct {
		name string
		vote *containers.SignedVote
	}{
		{
			name: "unknown validator",
			vote: util.NewVote(9, 1, target, target, source),
		},
		{
			name: "source not justified",
			vote: util.NewVote(0, 1, target, source, target),
		},
		{
			name: "target root not in history",
			vote: util.NewVote(0, 1, target, containers.Checkpoint{Root: [32]byte{'z'}, Slot: 1}, source),
		},
		{
			name: "target beyond history",
			vote: util.NewVote(0, 1, target, containers.Checkpoint{Root: target.Root, Slot: 5}, source),
		},
		{
			name: "target equals source",
			vote: util.NewVote(0, 1, source, source, source),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, st2, err := util.GenerateBlock(ctx, st1, 2, tt.vote)
			require.NoError(t, err)
			assert.Equal(t, 0, len(st2.JustificationRoots))
			assert.Equal(t, source, st2.LatestJustified)
		})
	}
}

func TestExecuteStateTransition_ValidatesStateRoot(t *testing.T) {
	ctx := context.Background()
	genesis, _ := util.DeterministicGenesisState(t, 4)
	blk, want, err := util.GenerateBlock(ctx, genesis, 1)
	require.NoError(t, err)

	post, err := transition.ExecuteStateTransition(ctx, genesis, &containers.SignedBlock{Message: *blk}, true)
	require.NoError(t, err)
	assert.DeepEqual(t, want, post)

	bad := blk.Copy()
	bad.StateRoot = [32]byte{'b', 'a', 'd'}
	_, err = transition.ExecuteStateTransition(ctx, genesis, &containers.SignedBlock{Message: *bad}, true)
	require.ErrorIs(t, err, transition.ErrStateRootMismatch)

	_, err = transition.ExecuteStateTransition(ctx, genesis, &containers.SignedBlock{Message: *bad}, false)
	require.NoError(t, err)
}

func TestComputeStateRoot(t *testing.T) {
	ctx := context.Background()
	genesis, _ := util.DeterministicGenesisState(t, 4)
	blk, _, err := util.GenerateBlock(ctx, genesis, 2)
	require.NoError(t, err)

	unsigned := blk.Copy()
	unsigned.StateRoot = [32]byte{}
	root, err := transition.ComputeStateRoot(ctx, genesis, unsigned)
	require.NoError(t, err)
	assert.Equal(t, blk.StateRoot, root)
}

func TestIsProposer(t *testing.T) {
	st, _ := util.DeterministicGenesisState(t, 4)
	st.Slot = 6
	assert.Equal(t, true, transition.IsProposer(st, 2))
	assert.Equal(t, false, transition.IsProposer(st, 1))
}
