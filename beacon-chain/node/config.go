package node

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/lean/beacon-chain/blockchain"
	"github.com/prysmaticlabs/lean/beacon-chain/forkchoice"
	"github.com/prysmaticlabs/lean/cmd/beacon-chain/flags"
	"github.com/prysmaticlabs/lean/config/features"
	"github.com/prysmaticlabs/lean/config/params"
	"github.com/prysmaticlabs/lean/consensus-types/primitives"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var errNegativeIndex = errors.New("validator index must not be negative")

// genesisTime returns the --genesis-time flag or now plus the configured
// genesis delay.
func genesisTime(cliCtx *cli.Context, now time.Time) uint64 {
	if cliCtx.IsSet(flags.GenesisTimeFlag.Name) {
		return cliCtx.Uint64(flags.GenesisTimeFlag.Name)
	}
	return uint64(now.Unix()) + params.BeaconConfig().GenesisDelay
}

func numValidators(cliCtx *cli.Context) uint64 {
	if cliCtx.IsSet(flags.NumValidatorsFlag.Name) {
		return cliCtx.Uint64(flags.NumValidatorsFlag.Name)
	}
	return params.BeaconConfig().DefaultNumValidators
}

func interopValidators(cliCtx *cli.Context) ([]primitives.ValidatorIndex, error) {
	raw := cliCtx.IntSlice(flags.InteropValidatorsFlag.Name)
	indices := make([]primitives.ValidatorIndex, 0, len(raw))
	for _, i := range raw {
		if i < 0 {
			return nil, errors.Wrapf(errNegativeIndex, "%d", i)
		}
		indices = append(indices, primitives.ValidatorIndex(i))
	}
	return indices, nil
}

// blockchainOptions maps the genesis and feature flags onto blockchain service options.
func (b *BeaconNode) blockchainOptions() []blockchain.Option {
	opts := []blockchain.Option{blockchain.WithDatabase(b.db)}
	if b.GenesisState != nil {
		opts = append(opts, blockchain.WithGenesisState(b.GenesisState))
	} else {
		gt, n := genesisTime(b.cliCtx, time.Now()), numValidators(b.cliCtx)
		log.WithFields(logrus.Fields{
			"genesisTime":   gt,
			"numValidators": n,
		}).Info("Using interop genesis when the database is empty")
		opts = append(opts, blockchain.WithInteropGenesis(gt, n))
	}
	if features.Get().DisableFinalizedPruning {
		opts = append(opts, blockchain.WithForkChoiceOptions(forkchoice.WithPruneThreshold(0)))
	}
	return append(opts, b.serviceFlagOpts.blockchainFlagOpts...)
}
