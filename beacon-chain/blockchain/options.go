package blockchain

import (
	"github.com/prysmaticlabs/lean/beacon-chain/db"
	"github.com/prysmaticlabs/lean/beacon-chain/forkchoice"
	"github.com/prysmaticlabs/lean/consensus-types/containers"
)

// Option modifies the blockchain service config.
type Option func(s *Service) error

// WithDatabase for head access.
func WithDatabase(beaconDB db.HeadAccessDatabase) Option {
	return func(s *Service) error {
		s.cfg.BeaconDB = beaconDB
		return nil
	}
}

// WithGenesisState starts the chain from the given state when the database
// holds none.
func WithGenesisState(st *containers.State) Option {
	return func(s *Service) error {
		s.cfg.GenesisState = st
		return nil
	}
}

// WithInteropGenesis builds the genesis state from a validator count and a
// genesis time when no genesis state is given.
func WithInteropGenesis(genesisTime, numValidators uint64) Option {
	return func(s *Service) error {
		s.cfg.GenesisTime = genesisTime
		s.cfg.NumValidators = numValidators
		return nil
	}
}

// WithForkChoiceOptions are passed to the fork choice store on creation.
func WithForkChoiceOptions(opts ...forkchoice.Option) Option {
	return func(s *Service) error {
		s.cfg.StoreOpts = append(s.cfg.StoreOpts, opts...)
		return nil
	}
}

// WithoutClock disables the wall clock ticker. Ticks are then only delivered
// through ReceiveTick.
func WithoutClock() Option {
	return func(s *Service) error {
		s.cfg.DisableClock = true
		return nil
	}
}
