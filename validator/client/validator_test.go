package client

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/lean/beacon-chain/blockchain"
	mock "github.com/prysmaticlabs/lean/beacon-chain/blockchain/testing"
	"github.com/prysmaticlabs/lean/consensus-types/containers"
	"github.com/prysmaticlabs/lean/consensus-types/primitives"
	"github.com/prysmaticlabs/lean/testing/assert"
	"github.com/prysmaticlabs/lean/testing/require"
	"github.com/prysmaticlabs/lean/time/slots"
	logTest "github.com/sirupsen/logrus/hooks/test"
)

func newTestValidator(t *testing.T, chain *mock.ChainService, indices ...primitives.ValidatorIndex) *validator {
	v := newValidator(chain, indices)
	t.Cleanup(v.Done)
	return v
}

func testChain() *mock.ChainService {
	return &mock.ChainService{
		Snap: blockchain.Snapshot{
			Config:    containers.Config{NumValidators: 4},
			Head:      [32]byte{'h'},
			HeadSlot:  3,
			Justified: containers.Checkpoint{Root: [32]byte{'j'}, Slot: 2},
		},
		Target: containers.Checkpoint{Root: [32]byte{'t'}, Slot: 3},
	}
}

func TestRolesAt(t *testing.T) {
	v := newTestValidator(t, testChain(), 1, 2, 7)

	roles := v.RolesAt(slots.Tick{Slot: 5, Interval: 0})
	assert.DeepEqual(t, map[primitives.ValidatorIndex][]ValidatorRole{1: {RoleProposer}}, roles)

	roles = v.RolesAt(slots.Tick{Slot: 6, Interval: 1})
	assert.DeepEqual(t, map[primitives.ValidatorIndex][]ValidatorRole{
		1: {RoleAttester},
		2: {RoleAttester},
	}, roles, "Validators outside the registry must not vote")

	assert.Equal(t, 0, len(v.RolesAt(slots.Tick{Slot: 6, Interval: 2})))
	assert.Equal(t, 0, len(v.RolesAt(slots.Tick{Slot: 4, Interval: 0})), "Validator 0 is not held")
	assert.Equal(t, 0, len(v.RolesAt(slots.Tick{Slot: 0, Interval: 0})), "Nobody proposes at genesis")
}

func TestRolesAt_NoValidators(t *testing.T) {
	v := newTestValidator(t, &mock.ChainService{}, 0)
	assert.Equal(t, 0, len(v.RolesAt(slots.Tick{Slot: 1, Interval: 1})))
}

func TestProposeBlock(t *testing.T) {
	hook := logTest.NewGlobal()
	chain := testChain()
	v := newTestValidator(t, chain, 1)

	v.ProposeBlock(context.Background(), 5, 1)

	blocks, _ := chain.Received()
	require.Equal(t, 1, len(blocks))
	assert.Equal(t, primitives.Slot(5), blocks[0].Message.Slot)
	assert.Equal(t, primitives.ValidatorIndex(1), blocks[0].Message.ProposerIndex)
	assert.Equal(t, [32]byte{}, blocks[0].Signature)
	require.LogsContain(t, hook, "Submitted new block")
}

func TestProposeBlock_ProduceFails(t *testing.T) {
	hook := logTest.NewGlobal()
	chain := testChain()
	chain.Err = errors.New("not proposer")
	v := newTestValidator(t, chain, 1)

	v.ProposeBlock(context.Background(), 5, 1)

	blocks, _ := chain.Received()
	assert.Equal(t, 0, len(blocks))
	require.LogsContain(t, hook, "Could not produce block")
	require.LogsDoNotContain(t, hook, "Submitted new block")
}

func TestSubmitVote(t *testing.T) {
	chain := testChain()
	v := newTestValidator(t, chain, 2)

	v.SubmitVote(context.Background(), 4, 2)

	_, votes := chain.Received()
	require.Equal(t, 1, len(votes))
	want := containers.Vote{
		ValidatorID: 2,
		Slot:        4,
		Head:        containers.Checkpoint{Root: [32]byte{'h'}, Slot: 3},
		Target:      containers.Checkpoint{Root: [32]byte{'t'}, Slot: 3},
		Source:      containers.Checkpoint{Root: [32]byte{'j'}, Slot: 2},
	}
	assert.DeepEqual(t, want, votes[0].Data)
}

func TestSubmitVote_Fails(t *testing.T) {
	hook := logTest.NewGlobal()
	chain := testChain()
	chain.Err = errors.New("store closed")
	v := newTestValidator(t, chain, 2)

	v.SubmitVote(context.Background(), 4, 2)

	_, votes := chain.Received()
	assert.Equal(t, 0, len(votes))
	require.LogsContain(t, hook, "Could not produce vote")
}

func TestNextTick_FollowsTickFeed(t *testing.T) {
	chain := testChain()
	v := newTestValidator(t, chain, 0)

	sent := chain.TickFeed().Send(slots.Tick{Slot: 2, Interval: 1, Time: 9})
	require.Equal(t, 1, sent)
	tick := <-v.NextTick()
	assert.Equal(t, primitives.Slot(2), tick.Slot)
	assert.Equal(t, uint64(1), tick.Interval)
}

func TestNewValidatorService(t *testing.T) {
	_, err := NewValidatorService(context.Background(), &Config{})
	require.ErrorIs(t, err, errNoChain)

	s, err := NewValidatorService(context.Background(), &Config{
		Chain:   testChain(),
		Indices: []primitives.ValidatorIndex{3, 1, 3},
	})
	require.NoError(t, err)
	assert.DeepEqual(t, []primitives.ValidatorIndex{1, 3}, s.Indices())
	require.NoError(t, s.Status())
	require.NoError(t, s.Stop())
	assert.ErrorIs(t, s.Status(), context.Canceled)
}
