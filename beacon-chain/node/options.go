package node

import (
	"io"

	"github.com/prysmaticlabs/lean/beacon-chain/blockchain"
	"github.com/prysmaticlabs/lean/consensus-types/containers"
)

// Option for beacon node configuration.
type Option func(bn *BeaconNode) error

// WithBlockchainFlagOptions includes functional options for the blockchain service related to CLI flags.
func WithBlockchainFlagOptions(opts []blockchain.Option) Option {
	return func(bn *BeaconNode) error {
		bn.serviceFlagOpts.blockchainFlagOpts = append(bn.serviceFlagOpts.blockchainFlagOpts, opts...)
		return nil
	}
}

// WithGenesisState starts an empty database from the given genesis state
// instead of an interop one.
func WithGenesisState(st *containers.State) Option {
	return func(bn *BeaconNode) error {
		bn.GenesisState = st
		return nil
	}
}

// WithConfirmationReader sets where the --clear-db confirmation is read from.
func WithConfirmationReader(r io.Reader) Option {
	return func(bn *BeaconNode) error {
		bn.confirmIn = r
		return nil
	}
}
