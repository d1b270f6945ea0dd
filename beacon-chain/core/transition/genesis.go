package transition

import (
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/go-bitfield"
	"github.com/prysmaticlabs/lean/consensus-types/containers"
)

// GenesisState builds the state at slot 0 for the given validator count.
// The latest block header commits to an empty body and both checkpoints
// start at the zero root.
func GenesisState(genesisTime, numValidators uint64) (*containers.State, error) {
	if numValidators == 0 {
		return nil, ErrNoValidators
	}
	bodyRoot, err := (&containers.BlockBody{}).HashTreeRoot()
	if err != nil {
		return nil, errors.Wrap(err, "could not hash empty block body")
	}
	return &containers.State{
		Config: containers.Config{
			NumValidators: numValidators,
			GenesisTime:   genesisTime,
		},
		LatestBlockHeader: containers.BlockHeader{
			BodyRoot: bodyRoot,
		},
		HistoricalBlockHashes:   [][32]byte{},
		JustifiedSlots:          bitfield.NewBitlist(0),
		JustificationRoots:      [][32]byte{},
		JustificationValidators: bitfield.NewBitlist(0),
	}, nil
}

// GenesisBlock returns the anchor block committing to the genesis state.
func GenesisBlock(genesisState *containers.State) (*containers.Block, error) {
	if genesisState == nil {
		return nil, ErrNilState
	}
	stateRoot, err := genesisState.HashTreeRoot()
	if err != nil {
		return nil, errors.Wrap(err, "could not hash genesis state")
	}
	return &containers.Block{
		Slot:      0,
		StateRoot: stateRoot,
		Body:      containers.BlockBody{Attestations: []*containers.SignedVote{}},
	}, nil
}
