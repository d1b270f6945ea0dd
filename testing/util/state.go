// Package util contains helpers to build chain states, blocks and votes in tests.
package util

import (
	"testing"

	"github.com/prysmaticlabs/lean/beacon-chain/core/transition"
	"github.com/prysmaticlabs/lean/consensus-types/containers"
	"github.com/prysmaticlabs/lean/testing/require"
)

// DeterministicGenesisState returns a genesis state for n validators with a
// zero genesis time together with its anchor block.
func DeterministicGenesisState(t testing.TB, n uint64) (*containers.State, *containers.Block) {
	st, err := transition.GenesisState(0, n)
	require.NoError(t, err)
	blk, err := transition.GenesisBlock(st)
	require.NoError(t, err)
	return st, blk
}

// Root returns the hash tree root of a block, failing the test on error.
func Root(t testing.TB, blk *containers.Block) [32]byte {
	r, err := blk.HashTreeRoot()
	require.NoError(t, err)
	return r
}
